package adapter

import (
	"context"
	"sync"

	"github.com/apusetone/chat-service/internal/infrastructure/relay/port"
)

// MemoryRelay fans payloads out inside one process. It keeps the relay
// contract (independent subscriptions, per-publisher FIFO, fail-closed
// subscribers) for single-instance deployments and tests.
type MemoryRelay struct {
	mu     sync.RWMutex
	subs   map[string]map[*memorySubscription]struct{}
	buffer int
}

func NewMemoryRelay() *MemoryRelay {
	return &MemoryRelay{
		subs:   make(map[string]map[*memorySubscription]struct{}),
		buffer: defaultBuffer,
	}
}

var _ port.Relay = (*MemoryRelay)(nil)

func (m *MemoryRelay) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for sub := range m.subs[channel] {
		sub.deliver(payload)
	}
	return nil
}

func (m *MemoryRelay) Subscribe(ctx context.Context, channel string) (port.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub := &memorySubscription{
		relay:   m,
		channel: channel,
		out:     make(chan []byte, m.buffer),
	}
	m.mu.Lock()
	set := m.subs[channel]
	if set == nil {
		set = make(map[*memorySubscription]struct{})
		m.subs[channel] = set
	}
	set[sub] = struct{}{}
	m.mu.Unlock()
	return sub, nil
}

// Subscribers returns the number of open subscriptions on channel.
func (m *MemoryRelay) Subscribers(channel string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs[channel])
}

// FailChannel ends every subscription on channel with err, as a dropped
// transport connection would.
func (m *MemoryRelay) FailChannel(channel string, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for sub := range m.subs[channel] {
		sub.fail(err)
	}
}

func (m *MemoryRelay) remove(sub *memorySubscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.subs[sub.channel]
	delete(set, sub)
	if len(set) == 0 {
		delete(m.subs, sub.channel)
	}
}

type memorySubscription struct {
	relay   *MemoryRelay
	channel string
	out     chan []byte

	mu     sync.Mutex
	closed bool
	err    error
}

func (s *memorySubscription) deliver(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	msg := make([]byte, len(payload))
	copy(msg, payload)
	select {
	case s.out <- msg:
	default:
		s.err = port.ErrSlowSubscriber
		s.closed = true
		close(s.out)
	}
}

func (s *memorySubscription) Messages() <-chan []byte { return s.out }

func (s *memorySubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *memorySubscription) Close() error {
	s.relay.remove(s)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.out)
	}
	return nil
}

func (s *memorySubscription) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.err = err
	s.closed = true
	close(s.out)
}
