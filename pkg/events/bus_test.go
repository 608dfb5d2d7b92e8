package events

import (
	"sync"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(TopicLayoutChanged, func(e Event) { got = append(got, "first:"+e.Payload.(string)) })
	bus.Subscribe(TopicLayoutChanged, func(e Event) { got = append(got, "second:"+e.Payload.(string)) })
	bus.Subscribe(TopicEnsureChatOpen, func(Event) { got = append(got, "other") })

	if n := bus.Publish(TopicLayoutChanged, "x"); n != 2 {
		t.Errorf("Publish delivered to %d handlers, want 2", n)
	}
	want := []string{"first:x", "second:x"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("delivery = %v, want %v", got, want)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsub := bus.Subscribe(TopicActivationStatusChanged, func(Event) { calls++ })

	bus.Publish(TopicActivationStatusChanged, nil)
	unsub()
	unsub()
	bus.Publish(TopicActivationStatusChanged, nil)

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
	if n := bus.Subscribers(TopicActivationStatusChanged); n != 0 {
		t.Errorf("Subscribers() = %d after unsubscribe", n)
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	var unsub func()
	calls := 0
	unsub = bus.Subscribe(TopicPanelsChanged, func(Event) {
		calls++
		unsub()
	})
	bus.Subscribe(TopicPanelsChanged, func(Event) { calls++ })

	bus.Publish(TopicPanelsChanged, nil)
	bus.Publish(TopicPanelsChanged, nil)
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestNilBusPublish(t *testing.T) {
	var bus *Bus
	if n := bus.Publish(TopicAnnouncement, "hi"); n != 0 {
		t.Errorf("nil bus delivered to %d handlers", n)
	}
	if n := bus.Subscribers(TopicAnnouncement); n != 0 {
		t.Errorf("nil bus has %d subscribers", n)
	}
}

func TestZeroValueBus(t *testing.T) {
	var bus Bus
	if n := bus.Subscribers(TopicLayoutChanged); n != 0 {
		t.Errorf("Subscribers() = %d on empty bus", n)
	}

	var got any
	unsub := bus.Subscribe(TopicLayoutChanged, func(e Event) { got = e.Payload })
	if n := bus.Publish(TopicLayoutChanged, "moved"); n != 1 || got != "moved" {
		t.Errorf("Publish() = %d, payload %v", n, got)
	}
	unsub()
	if n := bus.Subscribers(TopicLayoutChanged); n != 0 {
		t.Errorf("Subscribers() = %d after unsubscribe", n)
	}
}

func TestConcurrentPublish(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	count := 0
	bus.Subscribe(TopicLayoutChanged, func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(TopicLayoutChanged, j)
			}
		}()
	}
	wg.Wait()
	if count != 400 {
		t.Errorf("count = %d, want 400", count)
	}
}
