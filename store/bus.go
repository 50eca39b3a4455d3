package store

import (
	"context"
	"sync"
)

// Bus fans out per-collection change notifications to live subscribers.
// Notifications are coalescing: a subscriber that has not drained its
// channel sees at most one pending signal, then re-queries and gets the
// current full result set, so dropped intermediate signals lose nothing.
type Bus struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe returns a channel that signals whenever collection changes.
// The subscription lives until ctx is cancelled; the channel is closed on
// cancellation so ranging callers terminate. Callers must cancel ctx when
// the view goes away, otherwise the subscription leaks.
func (b *Bus) Subscribe(ctx context.Context, collection string) <-chan struct{} {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[collection] == nil {
		b.subs[collection] = make(map[chan struct{}]struct{})
	}
	b.subs[collection][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs[collection], ch)
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish signals every subscriber of collection. Never blocks.
func (b *Bus) Publish(collection string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
