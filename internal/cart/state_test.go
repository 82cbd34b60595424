package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmeshcher/hempmart-system/internal/model"
)

func TestBegin_SetsAndClearsBusyFlag(t *testing.T) {
	s := &State{}

	end := s.Begin()
	if !s.Mutating() {
		t.Fatalf("flag must be set after Begin")
	}

	end()
	if s.Mutating() {
		t.Fatalf("flag must be cleared after end")
	}
}

func TestMutate_UpdatesSnapshotOnSuccess(t *testing.T) {
	s := &State{}
	updated := &model.Cart{ID: "cart_1", Subtotal: 4500}

	got, err := s.Mutate(context.Background(), func(ctx context.Context) (*model.Cart, error) {
		if !s.Mutating() {
			t.Fatalf("flag must be set during mutation")
		}
		return updated, nil
	})
	if err != nil {
		t.Fatalf("Mutate error: %v", err)
	}
	if got != updated {
		t.Fatalf("Mutate must return the authoritative cart")
	}
	if s.Snapshot() != updated {
		t.Fatalf("snapshot must be refreshed from the response")
	}
	if s.Mutating() {
		t.Fatalf("flag must be cleared after Mutate")
	}
}

func TestMutate_KeepsLastKnownGoodOnFailure(t *testing.T) {
	s := &State{}
	known := &model.Cart{ID: "cart_1", Subtotal: 4500}
	s.SetSnapshot(known)

	wantErr := errors.New("backend unavailable")

	got, err := s.Mutate(context.Background(), func(ctx context.Context) (*model.Cart, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if got != known {
		t.Fatalf("failed mutation must fall back to last known-good snapshot")
	}
	if s.Snapshot() != known {
		t.Fatalf("snapshot must stay unchanged on failure")
	}
	if s.Mutating() {
		t.Fatalf("flag must be cleared even when mutation fails")
	}
}

func TestTracker_StateIsPerCart(t *testing.T) {
	tr := NewTracker()

	a := tr.State("cart_a")
	b := tr.State("cart_b")

	if a == b {
		t.Fatalf("distinct carts must not share state")
	}
	if tr.State("cart_a") != a {
		t.Fatalf("same cart must return same state")
	}

	end := a.Begin()
	defer end()

	if b.Mutating() {
		t.Fatalf("busy flag must not leak between carts")
	}
}

func TestTracker_SweepDropsStaleStates(t *testing.T) {
	tr := NewTracker()
	current := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return current }

	stale := tr.State("stale")
	stale.mu.Lock()
	stale.touched = current.Add(-2 * time.Hour)
	stale.mu.Unlock()

	fresh := tr.State("fresh")
	fresh.mu.Lock()
	fresh.touched = current
	fresh.mu.Unlock()

	tr.Sweep(time.Hour)

	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, ok := tr.states["stale"]; ok {
		t.Fatalf("stale state must be removed")
	}
	if _, ok := tr.states["fresh"]; !ok {
		t.Fatalf("fresh state must survive sweep")
	}
}

func TestTracker_SweepKeepsBusyStates(t *testing.T) {
	tr := NewTracker()
	current := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return current }

	busy := tr.State("busy")
	end := busy.Begin()
	defer end()

	busy.mu.Lock()
	busy.touched = current.Add(-2 * time.Hour)
	busy.mu.Unlock()

	tr.Sweep(time.Hour)

	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, ok := tr.states["busy"]; !ok {
		t.Fatalf("busy state must not be swept")
	}
}
