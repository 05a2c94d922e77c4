package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fieldworks/backoffice/internal/core/catalog"
	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
)

func staff(id, name, dept string) *domain.StaffMember {
	return &domain.StaffMember{Meta: domain.Meta{ID: id, Version: 1}, Name: name, Department: dept, Status: domain.StaffActive}
}

func TestStore_CRUD(t *testing.T) {
	s := NewStore(catalog.Staff)
	ctx := context.Background()

	_ = s.Insert(ctx, staff("1", "Ana", "ops"))
	_ = s.Insert(ctx, staff("2", "Ben", "finance"))
	if err := s.Insert(ctx, staff("1", "Dup", "ops")); !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	updated := staff("1", "Ana Maria", "ops")
	updated.Version = 2
	if err := s.Replace(ctx, updated, 1); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.Replace(ctx, updated, 1); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	page, _ := s.List(ctx, listing.Query{Page: 1, PageSize: 10})
	if page.Total != 2 || page.Items[0].Name != "Ana Maria" {
		t.Fatalf("unexpected page: %+v", page)
	}

	if err := s.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", s.Len())
	}
}

func TestStore_RejectsRepeatedDisplayID(t *testing.T) {
	s := NewStore(catalog.Staff)
	ctx := context.Background()

	first := staff("1", "Ana", "ops")
	first.DisplayID = "STF-2025-001"
	if err := s.Insert(ctx, first); err != nil {
		t.Fatalf("insert: %v", err)
	}
	again := staff("2", "Ben", "ops")
	again.DisplayID = "STF-2025-001"
	if err := s.Insert(ctx, again); !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", s.Len())
	}
}

func TestStore_ListSnapshotIsStable(t *testing.T) {
	s := NewStore(catalog.Staff)
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		_ = s.Insert(ctx, staff(string(rune('A'+i)), "x", "ops"))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = s.Delete(ctx, string(rune('A'+i)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			page, err := s.List(ctx, listing.Query{Page: 1, PageSize: 100})
			if err != nil || page.Total != len(page.Items) {
				t.Errorf("inconsistent page: total=%d items=%d", page.Total, len(page.Items))
				return
			}
		}
	}()
	wg.Wait()
}

func TestSequencer_PerPrefixAndYear(t *testing.T) {
	seq := NewSequencer()
	ctx := context.Background()
	a, _ := seq.Next(ctx, "JOB", 2025)
	b, _ := seq.Next(ctx, "JOB", 2025)
	c, _ := seq.Next(ctx, "LB", 2025)
	d, _ := seq.Next(ctx, "JOB", 2026)
	if a != 1 || b != 2 || c != 1 || d != 1 {
		t.Fatalf("unexpected sequence: %d %d %d %d", a, b, c, d)
	}
}

func TestIdempotencyStore(t *testing.T) {
	store := NewIdempotencyStore(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if got, ok, _ := store.Claim(ctx, "jobs", "k", "r1"); !ok || got != "r1" {
		t.Fatalf("expected first claim to win, got %q %v", got, ok)
	}
	if got, ok, _ := store.Claim(ctx, "jobs", "k", "r2"); ok || got != "r1" {
		t.Fatalf("expected replay of r1, got %q %v", got, ok)
	}
	if _, ok, _ := store.Claim(ctx, "orders", "k", "r3"); !ok {
		t.Fatalf("keys must be scoped per resource")
	}

	now = now.Add(2 * time.Minute)
	if got, ok, _ := store.Claim(ctx, "jobs", "k", "r4"); !ok || got != "r4" {
		t.Fatalf("expected expired key to be reclaimed, got %q %v", got, ok)
	}

	_ = store.Release(ctx, "jobs", "k")
	if _, ok, _ := store.Claim(ctx, "jobs", "k", "r5"); !ok {
		t.Fatalf("expected released key to be claimable")
	}
}
