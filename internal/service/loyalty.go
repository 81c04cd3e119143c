package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/loyalty"
	"github.com/Beka01247/brewline/internal/queue"
	"github.com/Beka01247/brewline/internal/repo"
	"go.uber.org/zap"
)

type LoyaltyService struct {
	loyaltyRepo repo.LoyaltyRepository
	broker      queue.Broker
	tx          repo.Transactor
	logger      *zap.SugaredLogger
}

func NewLoyaltyService(loyaltyRepo repo.LoyaltyRepository, broker queue.Broker, tx repo.Transactor, logger *zap.SugaredLogger) *LoyaltyService {
	return &LoyaltyService{
		loyaltyRepo: loyaltyRepo,
		broker:      broker,
		tx:          tx,
		logger:      logger,
	}
}

func (s *LoyaltyService) GetAccount(ctx context.Context, userID string) (*domain.LoyaltyAccount, error) {
	account, err := s.loyaltyRepo.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loyalty account: %w", err)
	}
	account.DiscountValue = loyalty.DiscountForPoints(account.AvailablePoints)

	return account, nil
}

// EnqueueEarn schedules points for a paid order.
func (s *LoyaltyService) EnqueueEarn(ctx context.Context, userID, orderID string, amount float64) error {
	messageBytes, err := json.Marshal(domain.LoyaltyEarnMessage{
		UserID:  userID,
		OrderID: orderID,
		Amount:  amount,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueLoyaltyEarn, messageBytes); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// EarnPoints credits an order at most once and returns the points credited
// for it, including on redelivery.
func (s *LoyaltyService) EarnPoints(ctx context.Context, userID, orderID string, amount float64) (int, error) {
	existing, err := s.loyaltyRepo.FindTransaction(ctx, orderID, domain.LoyaltyEarn)
	if err == nil {
		return existing.Points, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return 0, fmt.Errorf("failed to look up earn transaction: %w", err)
	}

	points := loyalty.PointsForSpend(amount)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.loyaltyRepo.RecordTransaction(ctx, &domain.LoyaltyTransaction{
			UserID:    userID,
			OrderID:   orderID,
			Kind:      domain.LoyaltyEarn,
			Points:    points,
			Amount:    amount,
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		if points == 0 {
			return nil
		}
		return s.loyaltyRepo.AddPoints(ctx, userID, points)
	})
	if errors.Is(err, repo.ErrDuplicate) {
		s.logger.Infow("loyalty points already earned", "order_id", orderID)
		return points, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to earn points: %w", err)
	}

	s.logger.Infow("loyalty points earned", "user_id", userID, "order_id", orderID, "points", points)

	return points, nil
}

// RedeemPoints deducts points for an order. Callers run it inside the
// transaction that stores the order.
func (s *LoyaltyService) RedeemPoints(ctx context.Context, userID, orderID string, points int) error {
	if points <= 0 {
		return nil
	}

	if err := s.loyaltyRepo.DeductPoints(ctx, userID, points); err != nil {
		if errors.Is(err, repo.ErrConditionFailed) || errors.Is(err, repo.ErrNotFound) {
			return loyalty.ErrInsufficientPoints
		}
		return fmt.Errorf("failed to deduct points: %w", err)
	}

	if err := s.loyaltyRepo.RecordTransaction(ctx, &domain.LoyaltyTransaction{
		UserID:    userID,
		OrderID:   orderID,
		Kind:      domain.LoyaltyRedeem,
		Points:    points,
		Amount:    loyalty.DiscountForPoints(points),
		CreatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to record redemption: %w", err)
	}

	return nil
}
