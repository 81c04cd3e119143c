package service

import (
	"context"
	"testing"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushRegister(t *testing.T) {
	f := newFixture()
	svc := NewPushService(f.userRepo, testLogger)
	ctx := context.Background()

	user := &domain.User{Name: "Thandi", Email: "thandi@example.com"}
	require.NoError(t, f.userRepo.Create(ctx, user))
	id := user.ID.Hex()

	ok, err := svc.Register(ctx, id, "web-token", "web")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Register(ctx, id, "ExponentPushToken[abc]", "iOS")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Register(ctx, id, "ExponentPushToken[abc]", "ios")
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := f.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.PushToken{{Token: "ExponentPushToken[abc]", Platform: "ios"}}, stored.PushTokens)

	_, err = svc.Register(ctx, id, "t", "blackberry")
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
}
