package interaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

type Service interface {
	ToggleFavorite(ctx context.Context, userID uuid.UUID, req types.FavoriteRequest) (favorited bool, err error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Favorite, error)

	CreateReview(ctx context.Context, userID uuid.UUID, req types.CreateReviewRequest) (*types.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req types.UpdateReviewRequest) (*types.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
	ListReviewsForPlace(ctx context.Context, placeID uuid.UUID, placeType string) ([]types.Review, error)
	ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Review, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

// ToggleFavorite flips the favorite state and reports the new state. Both
// halves are idempotent, so racing toggles settle rather than error.
func (s *ServiceImpl) ToggleFavorite(ctx context.Context, userID uuid.UUID, req types.FavoriteRequest) (bool, error) {
	if req.PlaceID == uuid.Nil || req.PlaceType == "" {
		return false, fmt.Errorf("place_id and place_type are required")
	}

	exists, err := s.repo.IsFavorite(ctx, userID, req.PlaceID, req.PlaceType)
	if err != nil {
		return false, err
	}
	if exists {
		if err := s.repo.RemoveFavorite(ctx, userID, req.PlaceID, req.PlaceType); err != nil {
			return false, err
		}
		return false, nil
	}

	if strings.TrimSpace(req.PlaceName) == "" {
		return false, fmt.Errorf("place_name is required")
	}
	if _, err := s.repo.AddFavorite(ctx, userID, req); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ServiceImpl) ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Favorite, error) {
	return s.repo.ListFavorites(ctx, userID)
}

func validRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	return nil
}

func (s *ServiceImpl) CreateReview(ctx context.Context, userID uuid.UUID, req types.CreateReviewRequest) (*types.Review, error) {
	if req.PlaceID == uuid.Nil || req.PlaceType == "" || strings.TrimSpace(req.PlaceName) == "" {
		return nil, fmt.Errorf("place_id, place_type and place_name are required")
	}
	if err := validRating(req.Rating); err != nil {
		return nil, err
	}
	return s.repo.CreateReview(ctx, userID, req)
}

func (s *ServiceImpl) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req types.UpdateReviewRequest) (*types.Review, error) {
	if req.Rating == nil && req.Content == nil {
		return nil, fmt.Errorf("nothing to update")
	}
	if req.Rating != nil {
		if err := validRating(*req.Rating); err != nil {
			return nil, err
		}
	}
	return s.repo.UpdateReview(ctx, userID, reviewID, req.Rating, req.Content)
}

func (s *ServiceImpl) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	return s.repo.DeleteReview(ctx, userID, reviewID)
}

func (s *ServiceImpl) ListReviewsForPlace(ctx context.Context, placeID uuid.UUID, placeType string) ([]types.Review, error) {
	return s.repo.ListReviewsForPlace(ctx, placeID, placeType)
}

func (s *ServiceImpl) ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Review, error) {
	return s.repo.ListReviewsByUser(ctx, userID)
}
