package port

import (
	"context"
	"errors"
	"strconv"
)

// Relay is a publish/subscribe transport shared by every api instance.
// Publishing never requires a local subscriber.
type Relay interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

// Subscription is one independent listener on a channel.
// Messages is closed when the subscription ends; Err then reports why
// (nil after Close or context cancellation).
type Subscription interface {
	Messages() <-chan []byte
	Err() error
	Close() error
}

var (
	// ErrRelayClosed reports that the transport ended a subscription on its own.
	ErrRelayClosed = errors.New("relay: subscription closed by transport")
	// ErrSlowSubscriber reports that a subscriber fell too far behind and was dropped.
	ErrSlowSubscriber = errors.New("relay: subscriber too slow")
)

// ChannelName returns the relay channel of a conversation.
func ChannelName(prefix string, conversationID int64) string {
	return prefix + strconv.FormatInt(conversationID, 10)
}
