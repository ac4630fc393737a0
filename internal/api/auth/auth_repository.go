package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

var ErrEmailTaken = errors.New("email already registered")

type Repository interface {
	CreateUser(ctx context.Context, email, passwordHash string, nickname *string) (*types.UserAuth, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*types.UserAuth, error)
	UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) (*types.UserAuth, error)

	StoreRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

var _ Repository = (*RepositoryImpl)(nil)

func NewRepositoryImpl(pgxpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, pgpool: pgxpool}
}

func (r *RepositoryImpl) CreateUser(ctx context.Context, email, passwordHash string, nickname *string) (*types.UserAuth, error) {
	query := `
        INSERT INTO users (email, password_hash, nickname)
        VALUES ($1, $2, $3)
        ON CONFLICT (email) DO NOTHING
        RETURNING id, email, nickname, created_at`
	var u types.UserAuth
	err := r.pgpool.QueryRow(ctx, query, email, passwordHash, nickname).
		Scan(&u.ID, &u.Email, &u.Nickname, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

func (r *RepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, string, error) {
	query := `SELECT id, email, nickname, created_at, password_hash FROM users WHERE email = $1`
	var u types.UserAuth
	var hash string
	err := r.pgpool.QueryRow(ctx, query, email).
		Scan(&u.ID, &u.Email, &u.Nickname, &u.CreatedAt, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", types.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to query user: %w", err)
	}
	return &u, hash, nil
}

func (r *RepositoryImpl) GetUserByID(ctx context.Context, id uuid.UUID) (*types.UserAuth, error) {
	query := `SELECT id, email, nickname, created_at FROM users WHERE id = $1`
	var u types.UserAuth
	err := r.pgpool.QueryRow(ctx, query, id).
		Scan(&u.ID, &u.Email, &u.Nickname, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (r *RepositoryImpl) UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) (*types.UserAuth, error) {
	query := `
        UPDATE users SET nickname = $1, updated_at = now()
        WHERE id = $2
        RETURNING id, email, nickname, created_at`
	var u types.UserAuth
	err := r.pgpool.QueryRow(ctx, query, nickname, id).
		Scan(&u.ID, &u.Email, &u.Nickname, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update nickname: %w", err)
	}
	return &u, nil
}

func (r *RepositoryImpl) StoreRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO refresh_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken returns the owning user for a live token. Expired or
// revoked tokens read as not found.
func (r *RepositoryImpl) GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	query := `
        SELECT user_id FROM refresh_tokens
        WHERE token = $1 AND revoked_at IS NULL AND expires_at > now()`
	var userID uuid.UUID
	err := r.pgpool.QueryRow(ctx, query, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, types.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to query refresh token: %w", err)
	}
	return userID, nil
}

func (r *RepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = now() WHERE token = $1 AND revoked_at IS NULL`, token)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}
