package interaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

type Repository interface {
	AddFavorite(ctx context.Context, userID uuid.UUID, req types.FavoriteRequest) (*types.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, placeID uuid.UUID, placeType string) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Favorite, error)
	IsFavorite(ctx context.Context, userID, placeID uuid.UUID, placeType string) (bool, error)

	CreateReview(ctx context.Context, userID uuid.UUID, req types.CreateReviewRequest) (*types.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, rating *int, content *string) (*types.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
	ListReviewsForPlace(ctx context.Context, placeID uuid.UUID, placeType string) ([]types.Review, error)
	ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Review, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

var _ Repository = (*RepositoryImpl)(nil)

func NewRepositoryImpl(pgxpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, pgpool: pgxpool}
}

const favoriteColumns = `id, user_id, place_id, place_type, place_name, place_address,
               place_latitude, place_longitude, place_rating, place_category, created_at`

func scanFavorite(row pgx.Row) (*types.Favorite, error) {
	var f types.Favorite
	err := row.Scan(&f.ID, &f.UserID, &f.PlaceID, &f.PlaceType, &f.PlaceName, &f.PlaceAddress,
		&f.PlaceLatitude, &f.PlaceLongitude, &f.PlaceRating, &f.PlaceCategory, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan favorite: %w", err)
	}
	return &f, nil
}

// AddFavorite is idempotent: re-favoriting the same place returns the
// existing row.
func (r *RepositoryImpl) AddFavorite(ctx context.Context, userID uuid.UUID, req types.FavoriteRequest) (*types.Favorite, error) {
	query := `
        INSERT INTO favorites (user_id, place_id, place_type, place_name, place_address,
                               place_latitude, place_longitude, place_rating, place_category)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (user_id, place_id, place_type) DO UPDATE SET place_name = EXCLUDED.place_name
        RETURNING ` + favoriteColumns
	return scanFavorite(r.pgpool.QueryRow(ctx, query,
		userID, req.PlaceID, req.PlaceType, req.PlaceName, req.PlaceAddress,
		req.PlaceLatitude, req.PlaceLongitude, req.PlaceRating, req.PlaceCategory))
}

// RemoveFavorite is idempotent: removing an absent favorite is not an error.
func (r *RepositoryImpl) RemoveFavorite(ctx context.Context, userID, placeID uuid.UUID, placeType string) error {
	_, err := r.pgpool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND place_id = $2 AND place_type = $3`,
		userID, placeID, placeType)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Favorite, error) {
	query := `
        SELECT ` + favoriteColumns + `
        FROM favorites
        WHERE user_id = $1
        ORDER BY created_at DESC`
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []types.Favorite
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, *f)
	}
	return favorites, rows.Err()
}

func (r *RepositoryImpl) IsFavorite(ctx context.Context, userID, placeID uuid.UUID, placeType string) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND place_id = $2 AND place_type = $3)`,
		userID, placeID, placeType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

const reviewColumns = `r.id, r.user_id, r.place_id, r.place_type, r.place_name,
               r.rating, r.content, u.nickname, r.created_at, r.updated_at`

func scanReview(row pgx.Row) (*types.Review, error) {
	var rv types.Review
	err := row.Scan(&rv.ID, &rv.UserID, &rv.PlaceID, &rv.PlaceType, &rv.PlaceName,
		&rv.Rating, &rv.Content, &rv.AuthorNickname, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}
	return &rv, nil
}

func (r *RepositoryImpl) CreateReview(ctx context.Context, userID uuid.UUID, req types.CreateReviewRequest) (*types.Review, error) {
	query := `
        WITH inserted AS (
            INSERT INTO reviews (user_id, place_id, place_type, place_name, rating, content)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING *
        )
        SELECT ` + reviewColumns + `
        FROM inserted r
        JOIN users u ON u.id = r.user_id`
	return scanReview(r.pgpool.QueryRow(ctx, query,
		userID, req.PlaceID, req.PlaceType, req.PlaceName, req.Rating, req.Content))
}

func (r *RepositoryImpl) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, rating *int, content *string) (*types.Review, error) {
	query := `
        WITH updated AS (
            UPDATE reviews
            SET rating = COALESCE($1, rating),
                content = COALESCE($2, content),
                updated_at = now()
            WHERE id = $3 AND user_id = $4
            RETURNING *
        )
        SELECT ` + reviewColumns + `
        FROM updated r
        JOIN users u ON u.id = r.user_id`
	return scanReview(r.pgpool.QueryRow(ctx, query, rating, content, reviewID, userID))
}

func (r *RepositoryImpl) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM reviews WHERE id = $1 AND user_id = $2`, reviewID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) ListReviewsForPlace(ctx context.Context, placeID uuid.UUID, placeType string) ([]types.Review, error) {
	query := `
        SELECT ` + reviewColumns + `
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.place_id = $1 AND r.place_type = $2
        ORDER BY r.created_at DESC`
	return r.queryReviews(ctx, query, placeID, placeType)
}

func (r *RepositoryImpl) ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Review, error) {
	query := `
        SELECT ` + reviewColumns + `
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.user_id = $1
        ORDER BY r.created_at DESC`
	return r.queryReviews(ctx, query, userID)
}

func (r *RepositoryImpl) queryReviews(ctx context.Context, query string, args ...any) ([]types.Review, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []types.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}
