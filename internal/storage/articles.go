package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/SergeyParamoshkin/blog/internal/article"
	"github.com/SergeyParamoshkin/blog/internal/model"
)

// Articles implements article.Store.
type Articles struct {
	db *gorm.DB
}

func NewArticles(db *DB) *Articles {
	return &Articles{db: db.Gorm}
}

func (s *Articles) Create(ctx context.Context, a *model.Article) (uint, error) {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return 0, err
	}

	return a.ID, nil
}

func (s *Articles) Get(ctx context.Context, id uint) (*model.Article, error) {
	var a model.Article
	err := s.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, article.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (s *Articles) List(ctx context.Context) ([]*model.Article, error) {
	var list []*model.Article
	if err := s.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}

	return list, nil
}

// Update writes title and body only.
func (s *Articles) Update(ctx context.Context, id uint, in article.Input) error {
	res := s.db.WithContext(ctx).Model(&model.Article{ID: id}).
		Select("Title", "Body", "UpdatedAt").
		Updates(model.Article{Title: in.Title, Body: in.Body, UpdatedAt: time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return article.ErrNotFound
	}

	return nil
}

func (s *Articles) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Article{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return article.ErrNotFound
	}

	return nil
}
