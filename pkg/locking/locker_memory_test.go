package locking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLockerMemory_Acquire(t *testing.T) {
	locker := NewLockerMemory()
	ctx := context.Background()

	lock, err := locker.Acquire(ctx, "task:1", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if lock.Key() != "task:1" {
		t.Errorf("Key() got = %v, want task:1", lock.Key())
	}

	other, err := locker.Acquire(ctx, "task:2", time.Second)
	if err != nil {
		t.Fatalf("Acquire() of another key error = %v", err)
	}
	_ = other.Release(ctx)

	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = locker.Acquire(timeout, "task:1", time.Second)
	if !errors.Is(err, ErrNotObtained) {
		t.Errorf("Acquire() of a held key error = %v, want ErrNotObtained", err)
	}

	_ = lock.Release(ctx)
	_ = lock.Release(ctx)

	again, err := locker.Acquire(ctx, "task:1", time.Second)
	if err != nil {
		t.Fatalf("Acquire() after Release error = %v", err)
	}

	timeout, cancel = context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = locker.Acquire(timeout, "task:1", time.Second)
	if !errors.Is(err, ErrNotObtained) {
		t.Errorf("double Release() freed the key for a second holder, error = %v", err)
	}
	_ = again.Release(ctx)
}

func TestLockerMemory_Serializes(t *testing.T) {
	locker := NewLockerMemory()
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock, err := locker.Acquire(ctx, "counter", time.Second)
			if err != nil {
				t.Error(err)
				return
			}
			current := counter
			time.Sleep(time.Microsecond)
			counter = current + 1
			_ = lock.Release(ctx)
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter got = %d, want 50", counter)
	}
}

func TestLockerMemory_ForgetsReleasedKeys(t *testing.T) {
	locker := NewLockerMemory()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		lock, err := locker.Acquire(ctx, fmt.Sprintf("task:%d", i), time.Second)
		if err != nil {
			t.Fatal(err)
		}
		_ = lock.Release(ctx)
	}
	if got := locker.size(); got != 0 {
		t.Errorf("size() after releasing every key got = %d, want 0", got)
	}

	held, err := locker.Acquire(ctx, "task:1", time.Second)
	if err != nil {
		t.Fatal(err)
	}

	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = locker.Acquire(timeout, "task:1", time.Second)
	if !errors.Is(err, ErrNotObtained) {
		t.Fatalf("Acquire() of a held key error = %v, want ErrNotObtained", err)
	}
	if got := locker.size(); got != 1 {
		t.Errorf("size() with a held key got = %d, want 1", got)
	}

	acquired := make(chan LockInterface)
	go func() {
		lock, err := locker.Acquire(ctx, "task:1", time.Second)
		if err != nil {
			t.Error(err)
		}
		acquired <- lock
	}()

	_ = held.Release(ctx)
	waiter := <-acquired
	if got := locker.size(); got != 1 {
		t.Errorf("size() with a waiter that took over got = %d, want 1", got)
	}

	_ = waiter.Release(ctx)
	if got := locker.size(); got != 0 {
		t.Errorf("size() after the last release got = %d, want 0", got)
	}
}
