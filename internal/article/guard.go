package article

import (
	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/model"
)

// A Guard decides whether who may go on with an operation on a. The article is
// nil when it does not exist.
type Guard func(who identity.Identity, a *model.Article) error

func RequireAuthenticated(who identity.Identity, _ *model.Article) error {
	if !who.Authenticated() {
		return ErrUnauthenticated
	}

	return nil
}

func RequireExists(_ identity.Identity, a *model.Article) error {
	if a == nil {
		return ErrNotFound
	}

	return nil
}

func RequireOwnerOr403(who identity.Identity, a *model.Article) error {
	if !IsOwner(a, who) {
		return ErrForbidden
	}

	return nil
}

// IsOwner reports whether who wrote a.
func IsOwner(a *model.Article, who identity.Identity) bool {
	return a != nil && who.Is(identity.Identity{UserID: a.AuthorID})
}

// Chain is an ordered list of guards. The first failing guard wins.
type Chain []Guard

var (
	// ViewChain guards reads.
	ViewChain = Chain{RequireAuthenticated, RequireExists}
	// OwnerChain guards mutations. Ownership is checked last, so a missing
	// article is reported as not found and never as forbidden.
	OwnerChain = Chain{RequireAuthenticated, RequireExists, RequireOwnerOr403}
)

func (c Chain) Check(who identity.Identity, a *model.Article) error {
	for _, g := range c {
		if err := g(who, a); err != nil {
			return err
		}
	}

	return nil
}
