package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/care0717/actix-sample/internal/cache"
	dom "github.com/care0717/actix-sample/internal/domain"
	"github.com/care0717/actix-sample/internal/repo"
)

var ErrNotFound = errors.New("not found")

// singleflight key for the list read-through.
const keyList = "list"

type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

// Create stores a new todo and returns it as read back from storage. The
// re-read keeps the returned value honest about the row codec: what comes
// back is exactly what a later List will produce.
func (s *TodoService) Create(ctx context.Context, description string) (dom.Todo, error) {
	t := dom.Todo{
		ID:          uuid.New(),
		Description: description,
		Done:        false,
		Datetime:    time.Now().UTC().Truncate(time.Second),
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return dom.Todo{}, err
	}
	out, err := s.repo.GetByID(ctx, t.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return out, nil
}

// List returns all todos in storage-native order.
func (s *TodoService) List(ctx context.Context) ([]dom.Todo, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do(keyList, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx)
			if err != nil {
				return nil, err
			}
			if err := s.cache.SetList(ctx, list); err != nil {
				slog.Warn("todo cache set failed", slog.Any("error", err))
			}
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.List(ctx)
}

// Cache errors are logged, never surfaced: the cache is an optimization.
func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.Warn("todo cache invalidate failed", slog.Any("error", err))
	}
}
