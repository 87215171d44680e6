package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ccheshirecat/folio/internal/server/eventbus"
)

// Bus is the in-process event bus used by the single-node daemon.
type Bus struct {
	mu      sync.RWMutex
	topics  map[string][]chan<- any
	dropped atomic.Uint64
}

var _ eventbus.Bus = (*Bus)(nil)

// New creates a new Bus instance.
func New() *Bus {
	return &Bus{topics: make(map[string][]chan<- any)}
}

// Publish delivers payload to every subscriber of topic whose channel has room.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.topics[topic] {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case ch <- payload:
		default:
			b.dropped.Add(1)
		}
	}
	return nil
}

// Subscribe registers a channel for a topic.
func (b *Bus) Subscribe(topic string, ch chan<- any) (func(), error) {
	if ch == nil {
		return nil, errors.New("eventbus: channel must not be nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics[topic] = append(b.topics[topic], ch)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := slices.Clone(b.topics[topic])
			if i := slices.Index(subs, ch); i >= 0 {
				subs = slices.Delete(subs, i, i+1)
			}
			if len(subs) == 0 {
				delete(b.topics, topic)
				return
			}
			b.topics[topic] = subs
		})
	}, nil
}

// Subscribers reports the number of channels registered for topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Dropped reports how many payloads were discarded because a subscriber was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
