package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/geocode"
	"github.com/Beka01247/brewline/internal/repo"
	"github.com/lucsky/cuid"
	"go.uber.org/zap"
)

// averageDriverSpeedKmh is used for the ETA shown to customers.
const averageDriverSpeedKmh = 25.0

type Locator interface {
	Locate(ctx context.Context, address string) domain.Location
	ShopLocation() domain.Location
}

type TrackingService struct {
	trackingRepo repo.TrackingRepository
	locator      Locator
	logger       *zap.SugaredLogger
}

func NewTrackingService(trackingRepo repo.TrackingRepository, locator Locator, logger *zap.SugaredLogger) *TrackingService {
	return &TrackingService{
		trackingRepo: trackingRepo,
		locator:      locator,
		logger:       logger,
	}
}

// Start opens a tracking session for o. An already active session is
// returned as is, including one created concurrently by another consumer.
func (s *TrackingService) Start(ctx context.Context, o *domain.Order) (*domain.TrackingSession, error) {
	orderID := o.ID.Hex()

	active, err := s.trackingRepo.GetActiveByOrderID(ctx, orderID)
	if err == nil {
		return active, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("failed to get tracking session: %w", err)
	}

	shop := s.locator.ShopLocation()
	var customer domain.Location
	if o.Location != nil {
		customer = *o.Location
	} else {
		customer = s.locator.Locate(ctx, joinAddress(o.Address, o.City, o.PostalCode))
	}

	now := time.Now()
	session := &domain.TrackingSession{
		ID:               cuid.New(),
		OrderID:          orderID,
		DriverLocation:   shop,
		ShopLocation:     shop,
		CustomerLocation: customer,
		IsActive:         true,
		StartedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.trackingRepo.Create(ctx, session); err != nil {
		if !errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("failed to create tracking session: %w", err)
		}

		active, err := s.trackingRepo.GetActiveByOrderID(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("failed to get tracking session: %w", err)
		}
		return active, nil
	}

	s.logger.Infow("tracking started", "order_id", orderID, "session_id", session.ID)

	return session, nil
}

// Stop ends every active session of an order. Orders without one are left
// alone.
func (s *TrackingService) Stop(ctx context.Context, orderID string) error {
	stopped, err := s.trackingRepo.StopByOrderID(ctx, orderID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to stop tracking: %w", err)
	}

	if stopped > 0 {
		s.logger.Infow("tracking stopped", "order_id", orderID, "sessions", stopped)
	}

	return nil
}

func (s *TrackingService) UpdateDriverLocation(ctx context.Context, orderID string, loc domain.Location) error {
	active, err := s.trackingRepo.GetActiveByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get tracking session: %w", err)
	}

	if err := s.trackingRepo.UpdateDriverLocation(ctx, active.ID, loc); err != nil {
		return fmt.Errorf("failed to update driver location: %w", err)
	}

	return nil
}

// Get returns the latest session of an order with the remaining distance.
func (s *TrackingService) Get(ctx context.Context, orderID string) (*domain.TrackingView, error) {
	session, err := s.trackingRepo.GetLatestByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking session: %w", err)
	}

	view := &domain.TrackingView{TrackingSession: *session}
	if session.IsActive {
		remaining := geocode.Distance(session.DriverLocation, session.CustomerLocation)
		view.RemainingKm = math.Round(remaining*100) / 100
		view.ETAMinutes = int(math.Ceil(remaining / averageDriverSpeedKmh * 60))
	}

	return view, nil
}

func joinAddress(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
