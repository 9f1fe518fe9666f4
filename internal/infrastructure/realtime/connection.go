package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Close codes sent to clients.
const (
	CloseNormal          = websocket.CloseNormalClosure
	CloseGoingAway       = websocket.CloseGoingAway
	ClosePolicyViolation = websocket.ClosePolicyViolation
	CloseInternalError   = websocket.CloseInternalServerErr
)

const (
	writeWait    = 10 * time.Second
	pingPeriod   = 30 * time.Second
	readTimeout  = 60 * time.Second
	maxFrameSize = 1 << 20
)

// ErrClosed is returned by reads and writes once the connection is closed,
// either by the peer or locally.
var ErrClosed = errors.New("realtime: connection closed")

// Connection is the live websocket of one session. Writes are serialized by a
// mutex; reads must come from a single goroutine.
type Connection struct {
	ID             string
	ConversationID int64
	UserID         int64

	ws      *websocket.Conn
	writeMu sync.Mutex
	once    sync.Once
	closed  chan struct{}
}

// NewConnection wraps ws and installs the read limit and pong-driven deadline.
func NewConnection(ws *websocket.Conn, conversationID, userID int64) *Connection {
	ws.SetReadLimit(maxFrameSize)
	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})
	return &Connection{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		UserID:         userID,
		ws:             ws,
		closed:         make(chan struct{}),
	}
}

// Start runs the ping keepalive until the connection closes or ctx ends.
func (c *Connection) Start(ctx context.Context) {
	go c.keepalive(ctx)
}

// ReadText blocks for the next text frame. Binary frames are skipped.
// It returns ErrClosed when the peer closed normally or Close was called.
func (c *Connection) ReadText(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		typ, data, err := c.ws.ReadMessage()
		if err != nil {
			if c.isClosed() ||
				websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
				errors.Is(err, websocket.ErrCloseSent) {
				return "", ErrClosed
			}
			return "", err
		}
		if typ != websocket.TextMessage {
			continue
		}
		return string(data), nil
	}
}

// WriteText sends payload as one text frame.
func (c *Connection) WriteText(ctx context.Context, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.isClosed() {
		return ErrClosed
	}
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

// Close sends a close frame with code and reason and releases the socket.
// Only the first call has an effect.
func (c *Connection) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.closed)
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

// Done is closed once Close has been called.
func (c *Connection) Done() <-chan struct{} {
	return c.closed
}

func (c *Connection) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *Connection) keepalive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.Close(CloseGoingAway, "ping failed")
				return
			}
		}
	}
}
