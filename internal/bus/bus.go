// Package bus is the simulated push channel: an in-process topic bus with
// synchronous dispatch. Delivery is at-least-once per topic in subscribe
// order; there is no ordering guarantee across topics, and subscribers must
// tolerate duplicate or coalesced events.
package bus

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Topics the core publishes on.
const (
	TopicContentUpdate = "contentUpdate"
	TopicDeviceUpdate  = "deviceUpdate"
)

// Handler receives one event. Handlers run synchronously on the publisher's
// goroutine and should return quickly.
type Handler func(topic string, payload any)

type subscription struct {
	token string
	fn    Handler
}

// Bus routes named events to per-topic subscriber lists.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]subscription
}

func New() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe registers a handler on a topic and returns a token for
// Unsubscribe.
func (b *Bus) Subscribe(topic string, fn Handler) string {
	token := uuid.NewString()
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], subscription{token: token, fn: fn})
	b.mu.Unlock()
	return token
}

// Unsubscribe removes one subscription. Unknown tokens are ignored.
func (b *Bus) Unsubscribe(topic, token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[topic]
	for i, sub := range list {
		if sub.token == token {
			b.subs[topic] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Publish dispatches an event to every subscriber of the topic, in
// subscribe order, before returning.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	list := make([]subscription, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.RUnlock()

	log.Debug().Str("topic", topic).Int("subscribers", len(list)).Msg("publishing event")
	for _, sub := range list {
		sub.fn(topic, payload)
	}
}
