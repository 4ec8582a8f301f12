package locking

import (
	"context"
	"sync"
	"time"
)

// LockerMemory is a type of LockerInterface that only serializes callers inside one process.
// A key is forgotten as soon as nobody holds or waits for it.
type LockerMemory struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

// lockSlot counts the holder and the waiters of one key
type lockSlot struct {
	ch   chan struct{}
	refs int
}

// NewLockerMemory builds a new LockerMemory instance
func NewLockerMemory() *LockerMemory {
	return &LockerMemory{slots: map[string]*lockSlot{}}
}

// Acquire waits until the key is free or ctx is done. The ttl is ignored, memory locks live until released.
func (l *LockerMemory) Acquire(ctx context.Context, key string, _ time.Duration) (LockInterface, error) {
	slot := l.ref(key)

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key)
		return nil, ErrNotObtained
	}

	var once sync.Once
	return &LockMemory{
		key: key,
		release: func() {
			once.Do(func() {
				<-slot.ch
				l.unref(key)
			})
		},
	}, nil
}

func (l *LockerMemory) ref(key string) *lockSlot {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

func (l *LockerMemory) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot := l.slots[key]
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}

func (l *LockerMemory) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

// LockMemory is a memory implementation of a LockInterface
type LockMemory struct {
	key     string
	release func()
}

// Key returns a key
func (l *LockMemory) Key() string {
	return l.key
}

// Release releases a LockMemory, releasing twice is a no-op
func (l *LockMemory) Release(_ context.Context) error {
	l.release()
	return nil
}
