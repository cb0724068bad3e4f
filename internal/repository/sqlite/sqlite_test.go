package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"mindmap/internal/domain"
	"mindmap/internal/repository"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory archive whose clock advances one second per save
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo, err := New(":memory:", WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}))
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

func makeSnapshot(labels ...string) *domain.Snapshot {
	snap := domain.NewSnapshot()
	for i, label := range labels {
		seq := uint64(i + 1)
		snap.AddNode(domain.Node{
			ID:    domain.NodeID(seq),
			Kind:  domain.NodeKindCircle,
			X:     float64(100 * seq),
			Y:     300,
			Label: label,
		})
	}
	if len(labels) > 1 {
		snap.AddConnection(domain.Connection{
			ID:         "conn_1",
			FromNodeID: domain.NodeID(1),
			ToNodeID:   domain.NodeID(2),
			Style:      domain.LineStyleSolid,
		})
	}
	return snap
}

// ============================================================================
// Tests
// ============================================================================

func TestSaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	snap := makeSnapshot("Node 1", "Plan")

	info, created, err := repo.Save(ctx, snap)
	assertNoError(t, err)
	if !created {
		t.Fatal("expected a new record")
	}
	assertEqual(t, 2, info.NodeCount)
	assertEqual(t, 1, info.ConnectionCount)
	if len(info.Digest) != 64 {
		t.Errorf("expected 64 hex digest, got %q", info.Digest)
	}

	rec, err := repo.Get(ctx, info.ID)
	assertNoError(t, err)
	assertEqual(t, info.ID, rec.ID)
	assertEqual(t, info.Digest, rec.Digest)
	if !info.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("created_at: expected %v, got %v", info.CreatedAt, rec.CreatedAt)
	}
	assertEqual(t, snap, rec.Snapshot)
}

func TestSaveDeduplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, _, err := repo.Save(ctx, makeSnapshot("A", "B"))
	assertNoError(t, err)

	t.Run("identical content returns existing record", func(t *testing.T) {
		again, created, err := repo.Save(ctx, makeSnapshot("A", "B"))
		assertNoError(t, err)
		if created {
			t.Error("expected existing record")
		}
		assertEqual(t, first.ID, again.ID)
	})

	t.Run("changed content creates a new record", func(t *testing.T) {
		other, created, err := repo.Save(ctx, makeSnapshot("A", "C"))
		assertNoError(t, err)
		if !created || other.ID == first.ID {
			t.Error("expected a distinct record")
		}
	})
}

func TestListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	empty, err := repo.List(ctx)
	assertNoError(t, err)
	assertEqual(t, 0, len(empty))

	var ids []string
	for _, label := range []string{"one", "two", "three"} {
		info, _, err := repo.Save(ctx, makeSnapshot(label))
		assertNoError(t, err)
		ids = append(ids, info.ID)
	}

	list, err := repo.List(ctx)
	assertNoError(t, err)
	if len(list) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(list))
	}
	assertEqual(t, ids[2], list[0].ID)
	assertEqual(t, ids[0], list[2].ID)
}

func TestNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"get", func() error { _, err := repo.Get(ctx, "missing"); return err }},
		{"delete", func() error { return repo.Delete(ctx, "missing") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, repository.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	info, _, err := repo.Save(ctx, makeSnapshot("gone"))
	assertNoError(t, err)
	assertNoError(t, repo.Delete(ctx, info.ID))

	if _, err := repo.Get(ctx, info.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// content can be archived again once removed
	_, created, err := repo.Save(ctx, makeSnapshot("gone"))
	assertNoError(t, err)
	if !created {
		t.Error("expected a new record after delete")
	}
}

func TestDigestStable(t *testing.T) {
	a, err := canonical(makeSnapshot("x", "y"))
	assertNoError(t, err)
	b, err := canonical(makeSnapshot("x", "y"))
	assertNoError(t, err)
	assertEqual(t, digest(a), digest(b))
}
