package rategate

import (
	"context"
	"testing"
	"time"
)

func TestAwaitFirstCallImmediate(t *testing.T) {
	gate := New(100 * time.Millisecond)

	start := time.Now()
	if err := gate.Await(context.Background(), "https://2.intelx.io"); err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("first call delayed %v, expected immediate", elapsed)
	}
}

func TestAwaitEnforcesSpacing(t *testing.T) {
	gate := New(80 * time.Millisecond)
	ctx := context.Background()

	if err := gate.Await(ctx, "root"); err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	start := time.Now()
	if err := gate.Await(ctx, "root"); err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("second call passed after %v, expected at least ~80ms spacing", elapsed)
	}
}

func TestAwaitRootsAreIndependent(t *testing.T) {
	gate := New(200 * time.Millisecond)
	ctx := context.Background()

	if err := gate.Await(ctx, "root-a"); err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	start := time.Now()
	if err := gate.Await(ctx, "root-b"); err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("call for a different root delayed %v", elapsed)
	}
}

func TestAwaitContextCancelled(t *testing.T) {
	gate := New(time.Minute)
	ctx := context.Background()

	if err := gate.Await(ctx, "root"); err != nil {
		t.Fatalf("Await failed: %v", err)
	}

	cancelled, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := gate.Await(cancelled, "root"); err == nil {
		t.Fatal("expected error when context expires while parked")
	}
}
