package storage

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/user"
)

// Users implements user.Store.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *DB) *Users {
	return &Users{db: db.Gorm}
}

func (s *Users) Create(ctx context.Context, u *model.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return user.ErrExists
	}

	return err
}

func (s *Users) GetByUsername(ctx context.Context, name string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("username = ?", name).First(&u).Error

	return found(&u, err)
}

func (s *Users) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, id).Error

	return found(&u, err)
}

func found(u *model.User, err error) (*model.User, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return u, nil
}
