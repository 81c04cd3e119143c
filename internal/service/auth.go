package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Beka01247/brewline/internal/auth"
	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type SignInResult struct {
	Token string     `json:"token"`
	State auth.State `json:"state"`
}

type AuthService struct {
	userRepo repo.UserRepository
	issuer   *auth.TokenIssuer
	carts    *CartService
	logger   *zap.SugaredLogger
}

func NewAuthService(userRepo repo.UserRepository, issuer *auth.TokenIssuer, carts *CartService, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		carts:    carts,
		logger:   logger,
	}
}

// Register creates a customer account. Staff roles are granted out of band.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         string(auth.RoleCustomer),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("user registered", "user_id", user.ID.Hex())

	return user, nil
}

// SignIn checks the credentials and returns a token with an optimistic
// session built from its claims.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(identityOf(user), time.Now())
	if err != nil {
		return nil, err
	}

	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}

	return &SignInResult{Token: token, State: auth.Optimistic(claims)}, nil
}

// Session confirms the claims against the stored profile. If the profile
// cannot be read the optimistic state is kept.
func (s *AuthService) Session(ctx context.Context, claims *auth.Claims) (auth.State, error) {
	state := auth.Optimistic(claims)

	oid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return auth.SignedOut(), ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, oid)
	if errors.Is(err, repo.ErrNotFound) {
		return auth.SignedOut(), ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Warnw("failed to load profile, keeping token identity", "user_id", claims.UserID, "error", err)
		return state, nil
	}

	return state.Confirm(identityOf(user)), nil
}

// SignOut flushes the user's cart before the session is dropped.
func (s *AuthService) SignOut(ctx context.Context, userID string) auth.State {
	s.carts.Close(ctx, userID)
	return auth.SignedOut()
}

func identityOf(u *domain.User) auth.Identity {
	role, ok := auth.ParseRole(u.Role)
	if !ok {
		role = auth.RoleCustomer
	}

	return auth.Identity{
		UserID: u.ID.Hex(),
		Name:   u.Name,
		Email:  u.Email,
		Phone:  u.Phone,
		Role:   role,
	}
}
