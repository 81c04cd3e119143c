package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type menuCacheEntry struct {
	items     []domain.MenuItem
	expiresAt time.Time
}

// MenuService serves the menu with a short-lived in-process cache per
// category. Writes invalidate the whole cache.
type MenuService struct {
	menuRepo repo.MenuRepository
	ttl      time.Duration
	logger   *zap.SugaredLogger

	mu    sync.RWMutex
	cache map[string]menuCacheEntry
}

func NewMenuService(menuRepo repo.MenuRepository, ttl time.Duration, logger *zap.SugaredLogger) *MenuService {
	return &MenuService{
		menuRepo: menuRepo,
		ttl:      ttl,
		logger:   logger,
		cache:    make(map[string]menuCacheEntry),
	}
}

func (s *MenuService) List(ctx context.Context, category string) ([]domain.MenuItem, error) {
	if items, ok := s.cached(category); ok {
		return items, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another request may have filled it while we waited
	if e, ok := s.cache[category]; ok && time.Now().Before(e.expiresAt) {
		return e.items, nil
	}

	items, err := s.menuRepo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}

	if s.ttl > 0 {
		s.cache[category] = menuCacheEntry{items: items, expiresAt: time.Now().Add(s.ttl)}
	}

	return items, nil
}

func (s *MenuService) cached(category string) ([]domain.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.cache[category]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.items, true
}

func (s *MenuService) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[string]menuCacheEntry)
	s.mu.Unlock()
}

func (s *MenuService) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	item, err := s.menuRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	return item, nil
}

func (s *MenuService) Create(ctx context.Context, item *domain.MenuItem) error {
	if err := s.menuRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	s.Invalidate()

	s.logger.Infow("menu item created", "item_id", item.ID.Hex(), "title", item.Title)

	return nil
}

func (s *MenuService) Update(ctx context.Context, id string, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	item, err := s.menuRepo.Update(ctx, oid, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	s.Invalidate()

	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	if err := s.menuRepo.Delete(ctx, oid); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	s.Invalidate()

	s.logger.Infow("menu item deleted", "item_id", id)

	return nil
}
