package article

import (
	"context"
	"sync"
	"time"

	"github.com/SergeyParamoshkin/blog/internal/model"
)

// Store persists articles. Get, Update and Delete return ErrNotFound when no
// article has the given id. List returns articles in ascending id order.
type Store interface {
	Create(ctx context.Context, a *model.Article) (uint, error)
	Get(ctx context.Context, id uint) (*model.Article, error)
	List(ctx context.Context) ([]*model.Article, error)
	Update(ctx context.Context, id uint, in Input) error
	Delete(ctx context.Context, id uint) error
}

// MemStore keeps articles in memory. It hands out copies, so callers can not
// change stored articles behind its back.
type MemStore struct {
	mu       sync.RWMutex
	articles []*model.Article
	nextID   uint
	now      func() time.Time
}

func NewMemStore(fixtures ...*model.Article) *MemStore {
	s := &MemStore{nextID: 1, now: time.Now}
	for _, a := range fixtures {
		_, _ = s.Create(context.Background(), a)
	}

	return s
}

func (s *MemStore) Create(_ context.Context, a *model.Article) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.nextID
	s.nextID++
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt

	stored := *a
	s.articles = append(s.articles, &stored)

	return a.ID, nil
}

func (s *MemStore) Get(_ context.Context, id uint) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(id); i >= 0 {
		a := *s.articles[i]

		return &a, nil
	}

	return nil, ErrNotFound
}

func (s *MemStore) List(_ context.Context) ([]*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*model.Article, 0, len(s.articles))
	for _, a := range s.articles {
		c := *a
		list = append(list, &c)
	}

	return list, nil
}

func (s *MemStore) Update(_ context.Context, id uint, in Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.articles[i].Title = in.Title
	s.articles[i].Body = in.Body
	s.articles[i].UpdatedAt = s.now()

	return nil
}

func (s *MemStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.articles = append(s.articles[:i], s.articles[i+1:]...)

	return nil
}

// index must be called with mu held.
func (s *MemStore) index(id uint) int {
	for i, a := range s.articles {
		if a.ID == id {
			return i
		}
	}

	return -1
}
