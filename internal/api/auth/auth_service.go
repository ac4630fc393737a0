package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/seoulmate/seoul-travel-api/config"
	"github.com/seoulmate/seoul-travel-api/internal/types"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.UserAuth, *types.TokenPair, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.UserAuth, *types.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*types.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req types.UpdateProfileRequest) (*types.UserAuth, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cfg    config.JWTConfig
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(repo Repository, cfg config.JWTConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo, cfg: cfg}
}

func (s *ServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (*types.UserAuth, *types.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, fmt.Errorf("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, string(hash), req.Nickname)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *ServiceImpl) Login(ctx context.Context, req types.LoginRequest) (*types.UserAuth, *types.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, hash, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh rotates the refresh token: the presented token is revoked and a
// fresh pair issued.
func (s *ServiceImpl) Refresh(ctx context.Context, refreshToken string) (*types.TokenPair, error) {
	userID, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *ServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *ServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req types.UpdateProfileRequest) (*types.UserAuth, error) {
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		return nil, fmt.Errorf("nickname is required")
	}
	return s.repo.UpdateNickname(ctx, userID, nickname)
}

func (s *ServiceImpl) issueTokens(ctx context.Context, user *types.UserAuth) (*types.TokenPair, error) {
	now := time.Now()
	claims := types.Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessExpiry)),
		},
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := uuid.NewString()
	expiresAt := now.AddDate(0, 0, s.cfg.RefreshExpiryDays)
	if err := s.repo.StoreRefreshToken(ctx, refresh, user.ID, expiresAt); err != nil {
		return nil, err
	}

	return &types.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
