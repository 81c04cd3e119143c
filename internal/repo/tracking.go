package repo

import (
	"context"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
)

type TrackingRepository interface {
	GetActiveByOrderID(ctx context.Context, orderID string) (*domain.TrackingSession, error)
	GetLatestByOrderID(ctx context.Context, orderID string) (*domain.TrackingSession, error)
	// Create returns ErrDuplicate when the order already has an active session.
	Create(ctx context.Context, session *domain.TrackingSession) error
	// StopByOrderID deactivates every active session of the order and reports
	// how many it stopped.
	StopByOrderID(ctx context.Context, orderID string, at time.Time) (int, error)
	UpdateDriverLocation(ctx context.Context, id string, loc domain.Location) error
}
