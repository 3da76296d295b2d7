package cache

import (
	"context"
	"testing"
	"time"
)

func TestLocalLockSingleHolder(t *testing.T) {
	l := NewLocalLock()
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "Identity/ethereum/0xabc", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	ok, err = l.Acquire(ctx, "Identity/ethereum/0xabc", time.Minute)
	if err != nil || ok {
		t.Fatalf("second acquire must fail: ok=%v err=%v", ok, err)
	}
	if err := l.Release(ctx, "Identity/ethereum/0xabc"); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, _ = l.Acquire(ctx, "Identity/ethereum/0xabc", time.Minute)
	if !ok {
		t.Fatal("acquire after release must succeed")
	}
}

func TestLocalLockExpires(t *testing.T) {
	l := NewLocalLock()
	ctx := context.Background()

	ok, _ := l.Acquire(ctx, "k", 10*time.Millisecond)
	if !ok {
		t.Fatal("first acquire failed")
	}
	time.Sleep(20 * time.Millisecond)
	ok, _ = l.Acquire(ctx, "k", time.Minute)
	if !ok {
		t.Fatal("expired lock must be reacquirable")
	}
}
