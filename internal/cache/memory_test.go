package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := m.Get(ctx, "k")
	if !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v; want v, true", got, ok)
	}
	if _, ok := m.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestMemory_ZeroTTLIgnored(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), 0)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("zero TTL should not store")
	}
}

func TestMemory_Sweep(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "stale", []byte("v"), 5*time.Millisecond)
	m.Set(ctx, "fresh", []byte("v"), time.Minute)
	time.Sleep(15 * time.Millisecond)

	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep = %d, want 1", n)
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	if _, ok := m.Get(ctx, "fresh"); !ok {
		t.Error("fresh entry should survive sweep")
	}
}
