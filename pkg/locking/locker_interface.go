package locking

import (
	"context"
	"errors"
	"time"
)

// ErrNotObtained is returned when a lock could not be acquired before the context ended
var ErrNotObtained = errors.New("lock not obtained")

// LockerInterface represents a Locker
type LockerInterface interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (LockInterface, error)
}

// LockInterface represents a Lock
type LockInterface interface {
	Key() string
	Release(ctx context.Context) error
}
