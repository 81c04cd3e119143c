package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Beka01247/brewline/internal/cart"
	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/repo"
	"go.uber.org/zap"
)

type CartService struct {
	manager *cart.Manager
	menu    *MenuService
	logger  *zap.SugaredLogger
}

func NewCartService(manager *cart.Manager, menu *MenuService, logger *zap.SugaredLogger) *CartService {
	return &CartService{
		manager: manager,
		menu:    menu,
		logger:  logger,
	}
}

func (s *CartService) Get(ctx context.Context, userID string) domain.Cart {
	return s.manager.Get(ctx, userID)
}

// AddItem prices the line from the stored menu item, never from client input.
func (s *CartService) AddItem(ctx context.Context, userID, menuItemID string, customizations *domain.Customizations, quantity int) (domain.Cart, string, error) {
	item, err := s.menu.Get(ctx, menuItemID)
	if err != nil {
		return domain.Cart{}, "", err
	}
	if !item.Available {
		return domain.Cart{}, "", fmt.Errorf("%w: %s", ErrMenuItemUnavailable, item.Title)
	}

	var lineID string
	snapshot := s.manager.Update(ctx, userID, func(c *cart.Cart) {
		lineID = c.AddLine(*item, customizations, quantity)
	})

	return snapshot, lineID, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, cartItemID string) domain.Cart {
	return s.manager.Update(ctx, userID, func(c *cart.Cart) {
		c.RemoveLine(cartItemID)
	})
}

// SetQuantity returns repo.ErrNotFound when the line is not in the cart.
func (s *CartService) SetQuantity(ctx context.Context, userID, cartItemID string, quantity int) (domain.Cart, error) {
	found := false
	snapshot := s.manager.Update(ctx, userID, func(c *cart.Cart) {
		found = c.SetQuantity(cartItemID, quantity)
	})
	if !found {
		return snapshot, fmt.Errorf("cart item %s: %w", cartItemID, repo.ErrNotFound)
	}

	return snapshot, nil
}

func (s *CartService) Clear(ctx context.Context, userID string) domain.Cart {
	return s.manager.Update(ctx, userID, func(c *cart.Cart) {
		c.Clear()
	})
}

// Close flushes the user's pending save and drops the in-memory session.
func (s *CartService) Close(ctx context.Context, userID string) {
	s.manager.Close(ctx, userID)
	s.logger.Infow("cart session closed", "user_id", userID)
}

func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound)
}
