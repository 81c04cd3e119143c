package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type PushService struct {
	userRepo repo.UserRepository
	logger   *zap.SugaredLogger
}

func NewPushService(userRepo repo.UserRepository, logger *zap.SugaredLogger) *PushService {
	return &PushService{userRepo: userRepo, logger: logger}
}

// Register stores a device token. Web clients have no push channel, so
// registration reports false without storing anything.
func (s *PushService) Register(ctx context.Context, userID, token, platform string) (bool, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))

	switch platform {
	case "web":
		return false, nil
	case "ios", "android":
	default:
		return false, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, ErrInvalidID
	}

	if err := s.userRepo.AddPushToken(ctx, oid, domain.PushToken{Token: token, Platform: platform}); err != nil {
		return false, fmt.Errorf("failed to register push token: %w", err)
	}

	s.logger.Infow("push token registered", "user_id", userID, "platform", platform)

	return true, nil
}
