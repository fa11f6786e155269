package rate_limiter

import (
	"context"
	"testing"
	"time"
)

func TestVisitors_Burst(t *testing.T) {
	v := NewVisitors(1, 3)

	for i := range 3 {
		if !v.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if v.Allow("10.0.0.1") {
		t.Error("expected fourth request to be throttled")
	}
	if !v.Allow("10.0.0.2") {
		t.Error("other clients must have their own bucket")
	}
}

func TestVisitors_SameLimiterPerIP(t *testing.T) {
	v := NewVisitors(1, 1)
	if v.GetVisitor("a") != v.GetVisitor("a") {
		t.Error("expected the same limiter for the same ip")
	}
	if n := visitorCount(v); n != 1 {
		t.Errorf("expected 1 visitor, got %d", n)
	}
}

func TestVisitors_Cleanup(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	v := NewVisitors(1, 1)
	v.now = func() time.Time { return now }

	v.GetVisitor("old")
	now = now.Add(10 * time.Minute)
	v.GetVisitor("new")

	if removed := v.Cleanup(5 * time.Minute); removed != 1 {
		t.Fatalf("expected 1 removed visitor, got %d", removed)
	}
	if n := visitorCount(v); n != 1 {
		t.Errorf("expected 1 remaining visitor, got %d", n)
	}
	if removed := v.Cleanup(5 * time.Minute); removed != 0 {
		t.Errorf("recently seen visitor must be kept, removed %d", removed)
	}
}

func TestVisitors_CleanupLoopStops(t *testing.T) {
	v := NewVisitors(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		v.StartVisitorCleanupLoop(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop after cancel")
	}
}

func TestNewVisitors_MinimumBurst(t *testing.T) {
	v := NewVisitors(1, 0)
	if !v.Allow("x") {
		t.Error("burst below 1 must still allow a first request")
	}
}

func visitorCount(v *Visitors) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visitors)
}
