package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	qport "github.com/apusetone/chat-service/internal/infrastructure/queue/port"
	"github.com/apusetone/chat-service/internal/pkg/notification/port"
)

// DispatchTaskType is the queue task name for delivering one notification.
const DispatchTaskType = "notification:dispatch"

const (
	defaultQueue    = "notifications"
	defaultMaxRetry = 5
	taskTimeout     = 30 * time.Second
)

// DispatchPayload is the JSON payload transported via the queue.
type DispatchPayload struct {
	UserID   int64  `json:"user_id"`
	Rendered string `json:"rendered"`
}

// QueueNotifier implements port.Notifier by enqueuing a dispatch task, so
// provider calls and their retries run on the worker instead of the caller.
type QueueNotifier struct {
	Client   qport.Client
	Queue    string
	MaxRetry int
}

func NewQueueNotifier(client qport.Client) *QueueNotifier {
	return &QueueNotifier{Client: client, Queue: defaultQueue, MaxRetry: defaultMaxRetry}
}

var _ port.Notifier = (*QueueNotifier)(nil)

func (n *QueueNotifier) Notify(ctx context.Context, userID int64, rendered string) error {
	payload, err := json.Marshal(DispatchPayload{UserID: userID, Rendered: rendered})
	if err != nil {
		return fmt.Errorf("notification: encode task: %w", err)
	}
	_, err = n.Client.Enqueue(ctx, qport.Task{Type: DispatchTaskType, Payload: payload}, qport.EnqueueOption{
		ID:       uuid.NewString(),
		Queue:    n.Queue,
		MaxRetry: n.MaxRetry,
		Timeout:  taskTimeout,
	})
	return err
}

// RegisterDispatchTask binds the dispatch handler to srv. The handler hands
// every payload to n, normally the provider-backed dispatch use case.
func RegisterDispatchTask(srv qport.Server, n port.Notifier) {
	srv.Register(DispatchTaskType, func(ctx context.Context, t qport.Task) error {
		var p DispatchPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return fmt.Errorf("notification: decode task: %v: %w", err, qport.ErrSkipRetry)
		}
		if p.UserID == 0 {
			return fmt.Errorf("notification: task without user: %w", qport.ErrSkipRetry)
		}
		return n.Notify(ctx, p.UserID, p.Rendered)
	})
}
