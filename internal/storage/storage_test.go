package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/SergeyParamoshkin/blog/internal/article"
	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/user"
)

// openInMemory opens a shared-cache in-memory database, so every pooled
// connection sees the same data.
func openInMemory(t *testing.T, name string) *DB {
	t.Helper()
	db, err := OpenDSN("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestArticles_CRUD(t *testing.T) {
	db := openInMemory(t, "articles")
	ctx := context.Background()
	users := NewUsers(db)
	author := &model.User{Username: "alice", PasswordHash: []byte("x")}
	if err := users.Create(ctx, author); err != nil {
		t.Fatalf("create user: %v", err)
	}

	s := NewArticles(db)

	a := &model.Article{Title: "Hello", Body: "World", AuthorID: author.ID}
	id, err := s.Create(ctx, a)
	if err != nil || id == 0 {
		t.Fatalf("create: %v id=%d", err, id)
	}

	got, err := s.Get(ctx, id)
	if err != nil || got.Title != "Hello" || got.AuthorID != author.ID {
		t.Fatalf("get: %v %+v", err, got)
	}

	if err := s.Update(ctx, id, article.Input{Title: "Hi", Body: ""}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.Get(ctx, id)
	if got.Title != "Hi" || got.Body != "" || got.AuthorID != author.ID {
		t.Fatalf("after update: %+v", got)
	}

	list, err := s.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, article.ErrNotFound) {
		t.Fatalf("get after delete: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, article.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if err := s.Update(ctx, id, article.Input{Title: "x"}); !errors.Is(err, article.ErrNotFound) {
		t.Fatalf("update after delete: expected ErrNotFound, got %v", err)
	}
}

func TestUsers_UniqueAndLookup(t *testing.T) {
	db := openInMemory(t, "users")
	ctx := context.Background()
	s := NewUsers(db)

	u := &model.User{Username: "bob", PasswordHash: []byte("x")}
	if err := s.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, &model.User{Username: "bob", PasswordHash: []byte("y")}); !errors.Is(err, user.ErrExists) {
		t.Fatalf("duplicate: expected ErrExists, got %v", err)
	}

	byName, err := s.GetByUsername(ctx, "bob")
	if err != nil || byName.ID != u.ID {
		t.Fatalf("get by name: %v %+v", err, byName)
	}
	byID, err := s.GetByID(ctx, u.ID)
	if err != nil || byID.Username != "bob" {
		t.Fatalf("get by id: %v %+v", err, byID)
	}
	if _, err := s.GetByUsername(ctx, "nobody"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpen_RejectsOtherDrivers(t *testing.T) {
	if _, err := Open("postgres://localhost/blog"); err == nil {
		t.Fatalf("expected error for postgres url")
	}
}

func TestServiceOnSqlite(t *testing.T) {
	db := openInMemory(t, "service")
	ctx := context.Background()
	users := user.NewService(NewUsers(db))
	alice, err := users.Register(ctx, "alice", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	who, err := users.Authenticate(ctx, "alice", "secret")
	if err != nil || who.UserID != alice.ID {
		t.Fatalf("authenticate: %v %+v", err, who)
	}

	svc := article.NewService(NewArticles(db))
	a, err := svc.Create(ctx, who, article.Input{Title: "Hello", Body: "World"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, who, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, who, a.ID); !errors.Is(err, article.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestArticles_AuthorMustExist(t *testing.T) {
	db := openInMemory(t, "foreignkeys")
	ctx := context.Background()

	if _, err := NewArticles(db).Create(ctx, &model.Article{Title: "orphan", AuthorID: 999}); err == nil {
		t.Fatalf("expected a foreign key error for an unknown author")
	}
}

func TestWithForeignKeys(t *testing.T) {
	cases := map[string]string{
		"blog.sqlite3":                        "blog.sqlite3?_foreign_keys=1",
		"file:x?mode=memory&cache=shared":     "file:x?mode=memory&cache=shared&_foreign_keys=1",
		"blog.sqlite3?_foreign_keys=0":        "blog.sqlite3?_foreign_keys=0",
		"blog.sqlite3?_busy_timeout=10&_fk=1": "blog.sqlite3?_busy_timeout=10&_fk=1",
	}
	for in, want := range cases {
		if got := withForeignKeys(in); got != want {
			t.Errorf("withForeignKeys(%q) = %q, want %q", in, got, want)
		}
	}
}
