package notification

import (
	"log"
	"sync"

	"helpdesk-api/internal/domain"
)

// Handler receives every published event. Handlers run synchronously on the
// publisher's goroutine and must not block.
type Handler func(domain.Event)

// Broker is the process-wide fan-out point for ticket and chat events. Every
// connected session subscribes once; every publish reaches every subscriber
// registered at that moment, in registration order. Relevance filtering (am I
// the owner, the advisor, an admin, am I looking at this ticket right now) is
// the subscriber's business, never the broker's.
type Broker struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscriber
}

type subscriber struct {
	id uint64
	fn Handler
}

func NewBroker() *Broker {
	return &Broker{}
}

// Subscribe registers fn and returns the function that removes it again.
// Callers must invoke the returned func when the session ends or the handler
// leaks for the life of the process.
func (b *Broker) Subscribe(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every currently registered handler before returning.
// A panicking handler is logged and skipped; it never interrupts delivery to
// the remaining handlers and never propagates to the publisher.
func (b *Broker) Publish(ev domain.Event) {
	b.mu.RLock()
	snapshot := make([]subscriber, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.RUnlock()

	for _, s := range snapshot {
		invoke(s.fn, ev)
	}
}

// SubscriberCount reports how many handlers are currently registered.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func invoke(fn Handler, ev domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("notification: subscriber panicked on %s event for ticket %s: %v", ev.Kind, ev.TicketID, r)
		}
	}()
	fn(ev)
}
