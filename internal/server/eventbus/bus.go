package eventbus

import "context"

// Bus fans payloads out to in-process subscribers by topic. Publishing never
// blocks on a slow subscriber; payloads a subscriber cannot accept are dropped.
type Bus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(topic string, ch chan<- any) (unsubscribe func(), err error)
}
