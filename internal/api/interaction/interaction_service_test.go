package interaction

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AddFavorite(ctx context.Context, userID uuid.UUID, req types.FavoriteRequest) (*types.Favorite, error) {
	args := m.Called(ctx, userID, req)
	if f := args.Get(0); f != nil {
		return f.(*types.Favorite), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) RemoveFavorite(ctx context.Context, userID, placeID uuid.UUID, placeType string) error {
	return m.Called(ctx, userID, placeID, placeType).Error(0)
}

func (m *MockRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.Favorite, error) {
	args := m.Called(ctx, userID)
	if f := args.Get(0); f != nil {
		return f.([]types.Favorite), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) IsFavorite(ctx context.Context, userID, placeID uuid.UUID, placeType string) (bool, error) {
	args := m.Called(ctx, userID, placeID, placeType)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CreateReview(ctx context.Context, userID uuid.UUID, req types.CreateReviewRequest) (*types.Review, error) {
	args := m.Called(ctx, userID, req)
	if r := args.Get(0); r != nil {
		return r.(*types.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, rating *int, content *string) (*types.Review, error) {
	args := m.Called(ctx, userID, reviewID, rating, content)
	if r := args.Get(0); r != nil {
		return r.(*types.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	return m.Called(ctx, userID, reviewID).Error(0)
}

func (m *MockRepository) ListReviewsForPlace(ctx context.Context, placeID uuid.UUID, placeType string) ([]types.Review, error) {
	args := m.Called(ctx, placeID, placeType)
	if r := args.Get(0); r != nil {
		return r.([]types.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Review, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.([]types.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	placeID := uuid.New()
	req := types.FavoriteRequest{
		PlaceID:   placeID,
		PlaceType: "restaurant",
		PlaceName: "광장시장 육회",
	}

	t.Run("adds when absent", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())

		repo.On("IsFavorite", ctx, userID, placeID, "restaurant").Return(false, nil)
		repo.On("AddFavorite", ctx, userID, req).Return(&types.Favorite{PlaceID: placeID}, nil)

		favorited, err := svc.ToggleFavorite(ctx, userID, req)
		require.NoError(t, err)
		assert.True(t, favorited)
		repo.AssertExpectations(t)
	})

	t.Run("removes when present", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())

		repo.On("IsFavorite", ctx, userID, placeID, "restaurant").Return(true, nil)
		repo.On("RemoveFavorite", ctx, userID, placeID, "restaurant").Return(nil)

		favorited, err := svc.ToggleFavorite(ctx, userID, req)
		require.NoError(t, err)
		assert.False(t, favorited)
		repo.AssertNotCalled(t, "AddFavorite", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects missing place identity", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())

		_, err := svc.ToggleFavorite(ctx, userID, types.FavoriteRequest{PlaceType: "restaurant"})
		require.Error(t, err)
		repo.AssertNotCalled(t, "IsFavorite", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReviewValidation(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("rating outside 1..5 is rejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())

		for _, rating := range []int{0, 6, -1} {
			_, err := svc.CreateReview(ctx, userID, types.CreateReviewRequest{
				PlaceID:   uuid.New(),
				PlaceType: "attraction",
				PlaceName: "경복궁",
				Rating:    rating,
			})
			require.Error(t, err, "rating %d", rating)
		}
		repo.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("valid review passes through", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())
		req := types.CreateReviewRequest{
			PlaceID:   uuid.New(),
			PlaceType: "attraction",
			PlaceName: "경복궁",
			Rating:    5,
		}
		repo.On("CreateReview", ctx, userID, req).Return(&types.Review{Rating: 5}, nil)

		review, err := svc.CreateReview(ctx, userID, req)
		require.NoError(t, err)
		assert.Equal(t, 5, review.Rating)
	})

	t.Run("update requires a change", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())

		_, err := svc.UpdateReview(ctx, userID, uuid.New(), types.UpdateReviewRequest{})
		require.Error(t, err)
	})

	t.Run("update revalidates rating", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())
		bad := 9

		_, err := svc.UpdateReview(ctx, userID, uuid.New(), types.UpdateReviewRequest{Rating: &bad})
		require.Error(t, err)
		repo.AssertNotCalled(t, "UpdateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
