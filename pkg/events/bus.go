// Package events is a small publish/subscribe bus for notifications
// between parts of one running application, such as "the layout changed"
// or "open the chat panel".
//
// A Bus is created once at the application root and handed to whatever
// needs to publish or subscribe; there is no package-level bus. Delivery is
// synchronous and in subscription order.
package events

import (
	"sync"
)

// Topic names an event stream.
type Topic string

// Application topics.
const (
	TopicActivationStatusChanged Topic = "activation-status-changed"
	TopicEnsureChatOpen          Topic = "ensure-chat-open"
	TopicLayoutChanged           Topic = "layout-changed"
	TopicPanelsChanged           Topic = "panels-changed"
	TopicAnnouncement            Topic = "announcement"
)

// Event is one published notification.
type Event struct {
	Topic   Topic
	Payload any
}

// Handler receives events. Handlers run on the publisher's goroutine.
type Handler func(Event)

type subscription struct {
	id uint64
	fn Handler
}

// Bus dispatches events to subscribers. It is safe for concurrent use. The
// zero value is ready to use, and a nil *Bus drops everything published.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic][]subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers fn for topic and returns a function that removes
// it. Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(topic Topic, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[Topic][]subscription)
	}
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
}

// Publish delivers payload to every current subscriber of topic and
// returns the number of handlers called. Handlers may subscribe or
// unsubscribe while being called; such changes apply to the next Publish.
func (b *Bus) Publish(topic Topic, payload any) int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	ev := Event{Topic: topic, Payload: payload}
	for _, s := range subs {
		s.fn(ev)
	}
	return len(subs)
}

// Subscribers returns the number of handlers registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
