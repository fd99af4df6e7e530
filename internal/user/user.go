// Package user manages password accounts.
package user

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/model"
)

var (
	ErrAuth          = errors.New("wrong username or password")
	ErrEmptyName     = errors.New("refusing to create a user without a name")
	ErrEmptyPassword = errors.New("refusing to set empty password")
	ErrExists        = errors.New("user already exists")
	ErrNotFound      = errors.New("user not found")
)

// Store persists users. GetByUsername and GetByID return ErrNotFound on a miss,
// Create returns ErrExists if the name is taken.
type Store interface {
	Create(ctx context.Context, u *model.User) error
	GetByUsername(ctx context.Context, name string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

type Service struct {
	store Store
	cost  int

	dummyOnce sync.Once
	dummy     []byte // compared against when the user does not exist
}

func NewService(store Store) *Service {
	return &Service{store: store, cost: bcrypt.DefaultCost}
}

func clean(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register creates a user with the given password.
func (s *Service) Register(ctx context.Context, name, password string) (*model.User, error) {
	name = clean(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	u := &model.User{Username: name, PasswordHash: hash}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate checks the password and returns the identity of the user.
// Unknown names and wrong passwords both yield ErrAuth.
func (s *Service) Authenticate(ctx context.Context, name, password string) (identity.Identity, error) {
	u, err := s.store.GetByUsername(ctx, clean(name))
	if errors.Is(err, ErrNotFound) {
		// spend the same bcrypt work as for a known name
		_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))

		return identity.Anonymous, ErrAuth
	}
	if err != nil {
		return identity.Anonymous, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return identity.Anonymous, ErrAuth
		}

		return identity.Anonymous, err
	}

	return identity.Identity{UserID: u.ID, Username: u.Username}, nil
}

func (s *Service) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword([]byte("not a password"), s.cost)
	})

	return s.dummy
}

// Name returns the username for id, or "" if there is none.
func (s *Service) Name(ctx context.Context, id uint) string {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ""
	}

	return u.Username
}
