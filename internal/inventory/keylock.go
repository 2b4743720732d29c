package inventory

import (
	"context"
	"sync"
)

// keyLock serializes work per key. Waiters give up when their context ends.
// Entries are reference counted and dropped once nobody holds or waits.
type keyLock struct {
	mu    sync.Mutex
	slots map[string]*keySlot
}

type keySlot struct {
	ch   chan struct{}
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{slots: make(map[string]*keySlot)}
}

// Lock blocks until key is free or ctx is done. On success the returned
// func releases the key and must be called exactly once.
func (l *keyLock) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &keySlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
		return func() {
			<-slot.ch
			l.release(key, slot)
		}, nil
	case <-ctx.Done():
		l.release(key, slot)
		return nil, ctx.Err()
	}
}

func (l *keyLock) release(key string, slot *keySlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}

func (l *keyLock) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
