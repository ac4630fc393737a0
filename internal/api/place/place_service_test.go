package place

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seoulmate/seoul-travel-api/app/observability/metrics"
	"github.com/seoulmate/seoul-travel-api/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetTopRestaurants(ctx context.Context, limit int) ([]types.Restaurant, error) {
	args := m.Called(ctx, limit)
	if r := args.Get(0); r != nil {
		return r.([]types.Restaurant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetTopAccommodations(ctx context.Context, limit int) ([]types.Accommodation, error) {
	args := m.Called(ctx, limit)
	if r := args.Get(0); r != nil {
		return r.([]types.Accommodation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetAttractions(ctx context.Context, limit int) ([]types.Attraction, error) {
	args := m.Called(ctx, limit)
	if r := args.Get(0); r != nil {
		return r.([]types.Attraction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetSubwayStations(ctx context.Context, limit int) ([]types.SubwayStation, error) {
	args := m.Called(ctx, limit)
	if r := args.Get(0); r != nil {
		return r.([]types.SubwayStation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetRestaurantsByFoodType(ctx context.Context, foodType string, limit int) ([]types.Restaurant, error) {
	args := m.Called(ctx, foodType, limit)
	if r := args.Get(0); r != nil {
		return r.([]types.Restaurant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetNearbyRestaurants(ctx context.Context, lat, lng, radiusKm float64) ([]types.Restaurant, error) {
	args := m.Called(ctx, lat, lng, radiusKm)
	if r := args.Get(0); r != nil {
		return r.([]types.Restaurant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) FindRestaurantByName(ctx context.Context, name string) (*types.Place, error) {
	args := m.Called(ctx, name)
	if p := args.Get(0); p != nil {
		return p.(*types.Place), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) FindAccommodationByName(ctx context.Context, name string) (*types.Place, error) {
	args := m.Called(ctx, name)
	if p := args.Get(0); p != nil {
		return p.(*types.Place), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) FindAttractionByName(ctx context.Context, name string) (*types.Place, error) {
	args := m.Called(ctx, name)
	if p := args.Get(0); p != nil {
		return p.(*types.Place), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) SearchPlaces(ctx context.Context, keyword string, limit int) (*types.SearchResults, error) {
	args := m.Called(ctx, keyword, limit)
	if r := args.Get(0); r != nil {
		return r.(*types.SearchResults), args.Error(1)
	}
	return nil, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetRestaurants(t *testing.T) {
	ctx := context.Background()

	t.Run("zero limit clamps to default", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())

		repo.On("GetTopRestaurants", ctx, defaultListLimit).
			Return([]types.Restaurant{{Name: "광장시장 육회"}}, nil)

		restaurants, err := svc.GetRestaurants(ctx, "", 0)
		require.NoError(t, err)
		assert.Len(t, restaurants, 1)
	})

	t.Run("oversized limit clamps to max", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())

		repo.On("GetTopRestaurants", ctx, maxListLimit).Return([]types.Restaurant{}, nil)

		_, err := svc.GetRestaurants(ctx, "", 10000)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("food type filter routes to the filtered query", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())

		repo.On("GetRestaurantsByFoodType", ctx, "한식", 20).
			Return([]types.Restaurant{{Name: "토속촌 삼계탕"}}, nil)

		restaurants, err := svc.GetRestaurants(ctx, "한식", 20)
		require.NoError(t, err)
		assert.Equal(t, "토속촌 삼계탕", restaurants[0].Name)
		repo.AssertNotCalled(t, "GetTopRestaurants", mock.Anything, mock.Anything)
	})
}

func TestGetNearbyRestaurants(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, testLogger())
	ctx := context.Background()

	// A non-positive radius falls back to 1km.
	repo.On("GetNearbyRestaurants", ctx, 37.5665, 126.978, 1.0).
		Return([]types.Restaurant{}, nil)

	_, err := svc.GetNearbyRestaurants(ctx, 37.5665, 126.978, 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSearchPlaces(t *testing.T) {
	ctx := context.Background()

	t.Run("empty keyword short-circuits", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())

		results, err := svc.SearchPlaces(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, results.Restaurants)
		repo.AssertNotCalled(t, "SearchPlaces", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("keyword searches with the fixed limit", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewServiceImpl(repo, testLogger())

		repo.On("SearchPlaces", ctx, "경복궁", defaultSearchLimit).
			Return(&types.SearchResults{Attractions: []types.Attraction{{Name: "경복궁"}}}, nil)

		results, err := svc.SearchPlaces(ctx, "경복궁")
		require.NoError(t, err)
		require.Len(t, results.Attractions, 1)
	})
}

func TestObserveQuery(t *testing.T) {
	// The histogram instrument must exist even before a meter provider is
	// installed, and recording against it must be safe.
	require.NotNil(t, metrics.Get().DbQueryDurationSeconds)
	assert.NotPanics(t, func() {
		observeQuery(context.Background(), "restaurants", time.Now())
	})
}
