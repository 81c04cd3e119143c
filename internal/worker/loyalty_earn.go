package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/queue"
	"go.uber.org/zap"
)

type PointsEarner interface {
	EarnPoints(ctx context.Context, userID, orderID string, amount float64) (int, error)
}

type LoyaltyEarnWorker struct {
	earner PointsEarner
	broker queue.Broker
	logger *zap.SugaredLogger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewLoyaltyEarnWorker(earner PointsEarner, broker queue.Broker, logger *zap.SugaredLogger) *LoyaltyEarnWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &LoyaltyEarnWorker{
		earner: earner,
		broker: broker,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (w *LoyaltyEarnWorker) Start() error {
	w.logger.Info("starting loyalty earn worker")

	return w.broker.Subscribe(w.ctx, queue.QueueLoyaltyEarn, w.handleMessage)
}

func (w *LoyaltyEarnWorker) Stop() {
	w.logger.Info("stopping loyalty earn worker")
	w.cancel()
}

func (w *LoyaltyEarnWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.LoyaltyEarnMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal message", "error", err)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if msg.UserID == "" || msg.OrderID == "" {
		w.logger.Warnw("dropping loyalty earn message without ids", "order_id", msg.OrderID)
		return nil
	}

	if _, err := w.earner.EarnPoints(ctx, msg.UserID, msg.OrderID, msg.Amount); err != nil {
		w.logger.Errorw("failed to earn loyalty points", "order_id", msg.OrderID, "error", err)
		return err
	}

	return nil
}
