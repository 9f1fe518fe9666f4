package adapter

import (
	"context"
	"fmt"
	"sync"

	redis "github.com/redis/go-redis/v9"

	"github.com/apusetone/chat-service/internal/infrastructure/relay/port"
)

const defaultBuffer = 64

// RedisRelay implements port.Relay with Redis PUBLISH/SUBSCRIBE.
type RedisRelay struct {
	client *redis.Client
	buffer int
}

func NewRedisRelay(client *redis.Client) *RedisRelay {
	return &RedisRelay{client: client, buffer: defaultBuffer}
}

var _ port.Relay = (*RedisRelay)(nil)

func (r *RedisRelay) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("relay: publish %s: %w", channel, err)
	}
	return nil
}

// Subscribe opens a dedicated Pub/Sub connection and waits for the server to
// confirm the subscription, so messages published after return are delivered.
func (r *RedisRelay) Subscribe(ctx context.Context, channel string) (port.Subscription, error) {
	ps := r.client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("relay: subscribe %s: %w", channel, err)
	}
	s := &redisSubscription{
		ps:   ps,
		out:  make(chan []byte, r.buffer),
		done: make(chan struct{}),
	}
	go s.pump(ctx)
	return s, nil
}

type redisSubscription struct {
	ps   *redis.PubSub
	out  chan []byte
	done chan struct{}
	once sync.Once

	mu  sync.Mutex
	err error
}

// pump reads with ReceiveMessage rather than PubSub.Channel so a dropped
// connection ends the stream with an error instead of reconnecting silently.
func (s *redisSubscription) pump(ctx context.Context) {
	defer close(s.out)
	for {
		msg, err := s.ps.ReceiveMessage(ctx)
		if err != nil {
			select {
			case <-s.done:
			default:
				if ctx.Err() == nil {
					s.setErr(fmt.Errorf("%w: %v", port.ErrRelayClosed, err))
				}
			}
			return
		}
		select {
		case s.out <- []byte(msg.Payload):
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *redisSubscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *redisSubscription) Messages() <-chan []byte { return s.out }

func (s *redisSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}
