// Package article implements article management: the five operations, the
// guards that decide whether a request may run them, and the store they use.
package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/model"
)

const MaxTitleLength = 200

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("article not found")
	ErrForbidden       = errors.New("only the author may change this article")
	ErrInvalid         = errors.New("invalid article")
)

// Input holds the only article fields a client may set.
type Input struct {
	Title string
	Body  string
}

// Validate trims the title and checks it is present and not too long.
func (in *Input) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalid)
	case utf8.RuneCountInString(in.Title) > MaxTitleLength:
		return fmt.Errorf("%w: title is longer than %d characters", ErrInvalid, MaxTitleLength)
	}

	return nil
}

// Service runs article operations on behalf of an identity. It holds no
// per-request state.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create stores a new article written by who.
func (s *Service) Create(ctx context.Context, who identity.Identity, in Input) (*model.Article, error) {
	if err := RequireAuthenticated(who, nil); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a := &model.Article{
		Title:    in.Title,
		Body:     in.Body,
		AuthorID: who.UserID,
	}
	if _, err := s.store.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	return a, nil
}

// List returns every article. Any authenticated identity may list.
func (s *Service) List(ctx context.Context, who identity.Identity) ([]*model.Article, error) {
	if err := RequireAuthenticated(who, nil); err != nil {
		return nil, err
	}

	return s.store.List(ctx)
}

// Detail returns a single article. Any authenticated identity may read any
// article.
func (s *Service) Detail(ctx context.Context, who identity.Identity, id uint) (*model.Article, error) {
	return s.authorize(ctx, who, id, ViewChain)
}

// Update overwrites title and body of an article written by who.
func (s *Service) Update(ctx context.Context, who identity.Identity, id uint, in Input) (*model.Article, error) {
	if _, err := s.authorize(ctx, who, id, OwnerChain); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, id, in); err != nil {
		return nil, err
	}

	return s.store.Get(ctx, id)
}

// Delete removes an article written by who.
func (s *Service) Delete(ctx context.Context, who identity.Identity, id uint) error {
	if _, err := s.authorize(ctx, who, id, OwnerChain); err != nil {
		return err
	}

	return s.store.Delete(ctx, id)
}

// authorize loads the article once the request is authenticated and runs the
// chain against it. The store is not touched for anonymous requests.
func (s *Service) authorize(ctx context.Context, who identity.Identity, id uint, chain Chain) (*model.Article, error) {
	if err := RequireAuthenticated(who, nil); err != nil {
		return nil, err
	}
	a, err := s.store.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err := chain.Check(who, a); err != nil {
		return nil, err
	}

	return a, nil
}
