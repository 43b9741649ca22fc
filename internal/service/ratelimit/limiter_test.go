package ratelimit

import (
	"testing"
	"time"
)

func TestAllowDrainsBucket(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("provider", 3, 0) {
			t.Fatalf("call %d should be allowed", i)
		}
	}
	if l.Allow("provider", 3, 0) {
		t.Fatalf("bucket should be empty after capacity calls")
	}
}

func TestAllowRefills(t *testing.T) {
	base := time.Date(2024, 10, 10, 14, 0, 0, 0, time.UTC)
	now := base
	l := New()
	l.now = func() time.Time { return now }

	if !l.Allow("provider", 1, 2) {
		t.Fatalf("first call should be allowed")
	}
	if l.Allow("provider", 1, 2) {
		t.Fatalf("bucket should be drained")
	}

	now = base.Add(600 * time.Millisecond) // 1.2 tokens refilled
	if !l.Allow("provider", 1, 2) {
		t.Fatalf("refill should permit another call")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first key should be allowed")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("second key has its own bucket")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("first key should be drained")
	}
}
