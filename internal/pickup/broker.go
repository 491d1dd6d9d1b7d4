package pickup

import (
	"sync"
	"time"
)

// Change describes one applied mutation of the store.
type Change struct {
	Kind    string    `json:"type"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
}

// Broker is an in-process pub/sub for store changes.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan Change]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[chan Change]struct{}),
	}
}

// Subscribe returns a buffered channel that receives every published change.
func (b *Broker) Subscribe() chan Change {
	ch := make(chan Change, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes ch and closes it.
func (b *Broker) Unsubscribe(ch chan Change) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish sends c to all subscribers.
func (b *Broker) Publish(c Change) {
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- c:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

func (b *Broker) count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
