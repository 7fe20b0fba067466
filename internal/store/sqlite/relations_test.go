package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/listenupapp/bookstore-server/internal/domain"
	"github.com/listenupapp/bookstore-server/internal/store"
)

func TestGetOrCreateRelation_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := seedCatalog(t, s)

	first, err := s.GetOrCreateRelation(ctx, f.owner.ID, f.book1.ID)
	if err != nil {
		t.Fatalf("first get-or-create: %v", err)
	}
	if first.Like || first.InBookmarks || first.Rate != nil {
		t.Errorf("expected default relation, got %+v", first)
	}

	second, err := s.GetOrCreateRelation(ctx, f.owner.ID, f.book1.ID)
	if err != nil {
		t.Fatalf("second get-or-create: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same relation, got ids %d and %d", first.ID, second.ID)
	}
}

func TestGetOrCreateRelation_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := seedCatalog(t, s)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.GetOrCreateRelation(ctx, f.owner.ID, f.book2.ID); err != nil {
				t.Errorf("get-or-create: %v", err)
			}
		}()
	}
	wg.Wait()

	rels, err := s.ListRelationsByBook(ctx, f.book2.ID)
	if err != nil {
		t.Fatalf("list relations: %v", err)
	}
	if len(rels) != 1 {
		t.Errorf("expected exactly one relation, got %d", len(rels))
	}
}

func TestGetRelation_NotFound(t *testing.T) {
	s := newTestStore(t)
	f := seedCatalog(t, s)

	_, err := s.GetRelation(context.Background(), f.owner.ID, f.book1.ID)
	if !errors.Is(err, store.ErrRelationNotFound) {
		t.Fatalf("expected ErrRelationNotFound, got %v", err)
	}
}

func TestPatchRelation_PartialUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := seedCatalog(t, s)
	yes := true

	rel, err := s.PatchRelation(ctx, f.owner.ID, f.book1.ID, domain.RelationPatch{Like: &yes})
	if err != nil {
		t.Fatalf("patch like: %v", err)
	}
	if !rel.Like || rel.InBookmarks || rel.Rate != nil {
		t.Fatalf("unexpected relation after like: %+v", rel)
	}

	rel, err = s.PatchRelation(ctx, f.owner.ID, f.book1.ID, domain.RelationPatch{Rate: domain.SetRate(3)})
	if err != nil {
		t.Fatalf("patch rate: %v", err)
	}
	if !rel.Like {
		t.Error("like must survive a rate-only patch")
	}
	if rel.Rate == nil || *rel.Rate != 3 {
		t.Errorf("rate = %v, want 3", rel.Rate)
	}

	rel, err = s.PatchRelation(ctx, f.owner.ID, f.book1.ID, domain.RelationPatch{InBookmarks: &yes, Rate: domain.ClearRate()})
	if err != nil {
		t.Fatalf("patch bookmark: %v", err)
	}

	stored, err := s.GetRelation(ctx, f.owner.ID, f.book1.ID)
	if err != nil {
		t.Fatalf("get relation: %v", err)
	}
	if !stored.Like || !stored.InBookmarks || stored.Rate != nil {
		t.Errorf("unexpected stored relation: %+v", stored)
	}
	if stored.ID != rel.ID {
		t.Errorf("patch must not create a second relation")
	}
}

func TestPatchRelation_MissingBook(t *testing.T) {
	s := newTestStore(t)
	u := insertTestUser(t, s, "user-1", "alice", false)
	yes := true

	_, err := s.PatchRelation(context.Background(), u.ID, 404, domain.RelationPatch{Like: &yes})
	if !errors.Is(err, store.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestRelation_RateConstraint(t *testing.T) {
	s := newTestStore(t)
	f := seedCatalog(t, s)

	_, err := s.PatchRelation(context.Background(), f.owner.ID, f.book1.ID, domain.RelationPatch{Rate: domain.SetRate(6)})
	if err == nil {
		t.Fatal("expected the database to reject a rate of 6")
	}

	if _, err := s.GetRelation(context.Background(), f.owner.ID, f.book1.ID); !errors.Is(err, store.ErrRelationNotFound) {
		t.Errorf("rejected patch must roll back the created relation, got %v", err)
	}
}
