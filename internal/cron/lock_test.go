package cron

import (
	"context"
	"testing"
	"time"
)

type memoryStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return true, nil
}

func (m *memoryStore) CompareAndDelete(ctx context.Context, key, value string) (bool, error) {
	if m.values[key] != value {
		return false, nil
	}
	delete(m.values, key)
	return true, nil
}

func TestRedisLockAcquireRelease(t *testing.T) {
	store := newMemoryStore()
	first, err := NewRedisLock(store, "sf:lock:cron", 0)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	second, _ := NewRedisLock(store, "sf:lock:cron", time.Minute)

	ctx := context.Background()
	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("expected first acquire, got %v %v", ok, err)
	}
	if store.ttls["sf:lock:cron"] != defaultLockTTL {
		t.Fatalf("expected default ttl, got %s", store.ttls["sf:lock:cron"])
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatal("expected second acquire to fail while held")
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release by non-owner: %v", err)
	}
	if _, ok := store.values["sf:lock:cron"]; !ok {
		t.Fatal("non-owner release must not drop the lock")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatal("expected acquire after release")
	}
}

func TestRedisLockLeavesExpiredLockToNewOwner(t *testing.T) {
	store := newMemoryStore()
	stale, _ := NewRedisLock(store, "sf:lock:cron", time.Minute)
	ctx := context.Background()

	if ok, _ := stale.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}
	// Simulate expiry followed by another worker taking over.
	store.values["sf:lock:cron"] = "other-worker"

	if err := stale.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["sf:lock:cron"] != "other-worker" {
		t.Fatal("stale owner must not release a lock it lost")
	}
}

func TestNewRedisLockValidates(t *testing.T) {
	if _, err := NewRedisLock(nil, "k", time.Minute); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewRedisLock(newMemoryStore(), "", time.Minute); err == nil {
		t.Fatal("expected error for empty key")
	}
}
