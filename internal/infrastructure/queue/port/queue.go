package port

import (
	"context"
	"errors"
	"time"
)

// ErrSkipRetry marks a handler failure that retrying cannot fix, such as a
// malformed payload. Wrap it to archive the task immediately.
var ErrSkipRetry = errors.New("queue: skip retry")

// Task is a background job: a stable type name and an encoded payload.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes a Task. A non-nil error schedules a retry unless it wraps
// ErrSkipRetry. Handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption controls enqueue behavior. Zero values mean unspecified.
type EnqueueOption struct {
	// ID deduplicates enqueues; a second task with the same ID is rejected.
	ID        string
	Queue     string
	ProcessIn time.Duration
	// ProcessAt takes precedence over ProcessIn.
	ProcessAt time.Time
	MaxRetry  int
	Timeout   time.Duration
	UniqueTTL time.Duration
	Retention time.Duration
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs workers for registered task types. Run blocks until ctx is
// canceled.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}
