package repo

import (
	"context"

	"github.com/Beka01247/brewline/internal/domain"
)

type LoyaltyRepository interface {
	// GetAccount returns a zero-balance account for users that never earned.
	GetAccount(ctx context.Context, userID string) (*domain.LoyaltyAccount, error)
	FindTransaction(ctx context.Context, orderID string, kind domain.LoyaltyKind) (*domain.LoyaltyTransaction, error)
	// RecordTransaction returns ErrDuplicate when the order already has an
	// entry of the same kind.
	RecordTransaction(ctx context.Context, tx *domain.LoyaltyTransaction) error
	AddPoints(ctx context.Context, userID string, points int) error
	// DeductPoints returns ErrConditionFailed when the balance is too low.
	DeductPoints(ctx context.Context, userID string, points int) error
}
