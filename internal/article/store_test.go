package article

import (
	"context"
	"errors"
	"testing"

	"github.com/SergeyParamoshkin/blog/internal/model"
)

func TestMemStore_Copies(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(&model.Article{Title: "Hi", AuthorID: 100})

	a, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	a.Title = "changed"
	a.AuthorID = 7

	again, _ := s.Get(ctx, 1)
	if again.Title != "Hi" || again.AuthorID != 100 {
		t.Fatalf("store was changed through a returned pointer: %+v", again)
	}
}

func TestMemStore_IDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	id1, _ := s.Create(ctx, &model.Article{Title: "a"})
	if err := s.Delete(ctx, id1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	id2, _ := s.Create(ctx, &model.Article{Title: "b"})
	if id1 == id2 {
		t.Fatalf("id %d reused", id1)
	}
}

func TestMemStore_UpdateKeepsAuthor(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	id, _ := s.Create(ctx, &model.Article{Title: "a", AuthorID: 3})

	if err := s.Update(ctx, id, Input{Title: "b", Body: "c"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	a, _ := s.Get(ctx, id)
	if a.Title != "b" || a.Body != "c" || a.AuthorID != 3 {
		t.Fatalf("unexpected article after update: %+v", a)
	}
	if err := s.Update(ctx, 99, Input{Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: expected ErrNotFound, got %v", err)
	}
}
