// Package session runs one realtime chat connection: it relays conversation
// traffic to the client and submits the client's frames as messages.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/apusetone/chat-service/internal/infrastructure/realtime"
	relayport "github.com/apusetone/chat-service/internal/infrastructure/relay/port"
	chat "github.com/apusetone/chat-service/internal/pkg/chat/application/domain"
	"github.com/apusetone/chat-service/internal/pkg/chat/application/usecase"
)

// Conn is the client connection of a session.
type Conn interface {
	ReadText(ctx context.Context) (string, error)
	WriteText(ctx context.Context, payload []byte) error
	Close(code int, reason string)
}

// Presence records which users hold an open session.
type Presence interface {
	Register(conversationID, userID int64, h realtime.Handle)
	Unregister(conversationID, userID int64, h realtime.Handle)
}

// Submitter stores and fans out a message posted by the client.
type Submitter interface {
	Execute(ctx context.Context, in usecase.SubmitMessageInput) (*chat.Message, error)
}

// errPeerClosed ends the inbound loop when the client goes away.
var errPeerClosed = errors.New("session: peer closed")

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Session is one authenticated member connected to one conversation.
type Session struct {
	ConversationID int64
	UserID         int64
	ChannelPrefix  string

	conn      Conn
	presence  Presence
	relay     relayport.Relay
	submitter Submitter

	once     sync.Once
	sub      relayport.Subscription
	relayErr error
}

func New(conversationID, userID int64, conn Conn, presence Presence, relay relayport.Relay, submitter Submitter, channelPrefix string) *Session {
	return &Session{
		ConversationID: conversationID,
		UserID:         userID,
		ChannelPrefix:  channelPrefix,
		conn:           conn,
		presence:       presence,
		relay:          relay,
		submitter:      submitter,
	}
}

// Run serves the session until the client leaves, the relay fails or ctx is
// canceled. It returns nil for a client disconnect or shutdown.
func (s *Session) Run(ctx context.Context) error {
	channel := relayport.ChannelName(s.ChannelPrefix, s.ConversationID)
	sub, err := s.relay.Subscribe(ctx, channel)
	if err != nil {
		s.conn.Close(realtime.CloseInternalError, "relay unavailable")
		return fmt.Errorf("session: subscribe %s: %w", channel, err)
	}
	s.sub = sub
	s.presence.Register(s.ConversationID, s.UserID, s.conn)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.inbound(gctx) })
	g.Go(func() error { return s.outbound(gctx, sub) })
	g.Go(func() error {
		// closing the connection unblocks the pending read
		<-gctx.Done()
		if ctx.Err() != nil {
			s.finish(realtime.CloseGoingAway, "server shutting down")
		} else {
			s.finish(realtime.CloseNormal, "")
		}
		return nil
	})

	err = g.Wait()
	s.finish(realtime.CloseNormal, "")
	if s.relayErr != nil {
		// the inbound loop may observe the close before outbound reports why
		return s.relayErr
	}
	if errors.Is(err, errPeerClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) inbound(ctx context.Context) error {
	for {
		text, err := s.conn.ReadText(ctx)
		if err != nil {
			if !errors.Is(err, realtime.ErrClosed) && ctx.Err() == nil {
				log.Printf("session: conversation %d user %d: read: %v", s.ConversationID, s.UserID, err)
			}
			return errPeerClosed
		}
		if chat.IsBlank(text) {
			continue
		}
		_, err = s.submitter.Execute(ctx, usecase.SubmitMessageInput{
			ConversationID: s.ConversationID,
			SenderID:       s.UserID,
			Content:        text,
		})
		switch {
		case err == nil:
		case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrContentTooLong):
			s.sendError(ctx, "invalid_content", err.Error())
		default:
			log.Printf("session: conversation %d user %d: submit: %v", s.ConversationID, s.UserID, err)
			s.sendError(ctx, "internal_error", "message could not be stored")
		}
	}
}

func (s *Session) outbound(ctx context.Context, sub relayport.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-sub.Messages():
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				cause := sub.Err()
				if cause == nil {
					cause = relayport.ErrRelayClosed
				}
				s.relayErr = fmt.Errorf("session: conversation %d: %w", s.ConversationID, cause)
				s.finish(realtime.CloseInternalError, "relay failure")
				return s.relayErr
			}
			if err := s.conn.WriteText(ctx, payload); err != nil {
				if errors.Is(err, realtime.ErrClosed) || ctx.Err() != nil {
					return errPeerClosed
				}
				return fmt.Errorf("session: write: %w", err)
			}
		}
	}
}

func (s *Session) sendError(ctx context.Context, code, message string) {
	payload, err := json.Marshal(errorFrame{Type: "error", Code: code, Error: message})
	if err != nil {
		return
	}
	_ = s.conn.WriteText(ctx, payload)
}

// finish releases presence, the subscription and the connection exactly once.
func (s *Session) finish(code int, reason string) {
	s.once.Do(func() {
		s.presence.Unregister(s.ConversationID, s.UserID, s.conn)
		if s.sub != nil {
			_ = s.sub.Close()
		}
		s.conn.Close(code, reason)
	})
}
