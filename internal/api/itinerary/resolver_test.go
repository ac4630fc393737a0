package itinerary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

// stubPlaceRepo resolves names out of a fixed table; everything else misses.
type stubPlaceRepo struct {
	restaurants map[string]*types.Place
	attractions map[string]*types.Place

	mu       sync.Mutex
	lookedUp []string
}

func (s *stubPlaceRepo) FindRestaurantByName(_ context.Context, name string) (*types.Place, error) {
	s.mu.Lock()
	s.lookedUp = append(s.lookedUp, name)
	s.mu.Unlock()
	return s.restaurants[name], nil
}

func (s *stubPlaceRepo) FindAccommodationByName(context.Context, string) (*types.Place, error) {
	return nil, nil
}

func (s *stubPlaceRepo) FindAttractionByName(_ context.Context, name string) (*types.Place, error) {
	return s.attractions[name], nil
}

func (s *stubPlaceRepo) GetTopRestaurants(context.Context, int) ([]types.Restaurant, error) {
	return nil, nil
}

func (s *stubPlaceRepo) GetTopAccommodations(context.Context, int) ([]types.Accommodation, error) {
	return nil, nil
}

func (s *stubPlaceRepo) GetAttractions(context.Context, int) ([]types.Attraction, error) {
	return nil, nil
}

func (s *stubPlaceRepo) GetSubwayStations(context.Context, int) ([]types.SubwayStation, error) {
	return nil, nil
}

func (s *stubPlaceRepo) GetRestaurantsByFoodType(context.Context, string, int) ([]types.Restaurant, error) {
	return nil, nil
}

func (s *stubPlaceRepo) GetNearbyRestaurants(context.Context, float64, float64, float64) ([]types.Restaurant, error) {
	return nil, nil
}

func (s *stubPlaceRepo) SearchPlaces(context.Context, string, int) (*types.SearchResults, error) {
	return nil, nil
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, name string) (*types.Coordinate, error) {
	args := m.Called(ctx, name)
	if coord := args.Get(0); coord != nil {
		return coord.(*types.Coordinate), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRouter struct {
	mock.Mock
}

func (m *MockRouter) Route(ctx context.Context, mode types.TravelMode, coords []types.Coordinate) (*types.RoutePath, error) {
	args := m.Called(ctx, mode, coords)
	if route := args.Get(0); route != nil {
		return route.(*types.RoutePath), args.Error(1)
	}
	return nil, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func attraction(name string, lat, lng float64) *types.Place {
	return &types.Place{Name: name, Type: types.PlaceTypeAttraction, Latitude: lat, Longitude: lng}
}

func itineraryOf(names ...string) *types.Itinerary {
	places := make([]types.ItineraryPlace, 0, len(names))
	for _, n := range names {
		places = append(places, types.ItineraryPlace{Name: n, Type: "attraction"})
	}
	return &types.Itinerary{
		Title: "테스트 코스",
		Days:  []types.ItineraryDay{{Day: 1, Places: places}},
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("failed lookups keep their sequence numbers", func(t *testing.T) {
		repo := &stubPlaceRepo{attractions: map[string]*types.Place{
			"경복궁":  attraction("경복궁", 37.5796, 126.977),
			"남산타워": attraction("남산타워", 37.5512, 126.9882),
		}}
		geocoder := new(MockGeocoder)
		geocoder.On("Geocode", mock.Anything, "없는장소").Return(nil, nil)
		router := new(MockRouter)
		router.On("Route", mock.Anything, mock.Anything, mock.Anything).
			Return(&types.RoutePath{Mode: types.TravelModeTransit}, nil)

		svc := NewServiceImpl(repo, geocoder, router, 1, testLogger())
		resolved, err := svc.Resolve(ctx, itineraryOf("경복궁", "없는장소", "남산타워"), types.TravelModeTransit)
		require.NoError(t, err)

		require.Len(t, resolved.Markers, 2)
		assert.Equal(t, 1, resolved.Markers[0].Order)
		assert.Equal(t, "경복궁", resolved.Markers[0].Name)
		assert.Equal(t, 3, resolved.Markers[1].Order)
		assert.Equal(t, "남산타워", resolved.Markers[1].Name)
	})

	t.Run("parenthetical annotations are stripped before lookup", func(t *testing.T) {
		repo := &stubPlaceRepo{restaurants: map[string]*types.Place{
			"광장시장": {Name: "광장시장", Type: types.PlaceTypeRestaurant, Latitude: 37.57, Longitude: 126.999},
		}}
		svc := NewServiceImpl(repo, new(MockGeocoder), new(MockRouter), 1, testLogger())

		resolved, err := svc.Resolve(ctx, itineraryOf("광장시장 (먹거리 투어)"), types.TravelModeTransit)
		require.NoError(t, err)

		assert.Contains(t, repo.lookedUp, "광장시장")
		require.Len(t, resolved.Markers, 1)
		// The marker keeps the original display name.
		assert.Equal(t, "광장시장 (먹거리 투어)", resolved.Markers[0].Name)
		assert.Equal(t, "restaurants", resolved.Markers[0].Source)
	})

	t.Run("geocode fallback after table misses", func(t *testing.T) {
		repo := &stubPlaceRepo{}
		geocoder := new(MockGeocoder)
		geocoder.On("Geocode", mock.Anything, "성수동 카페거리").
			Return(&types.Coordinate{Latitude: 37.5446, Longitude: 127.0565}, nil)

		svc := NewServiceImpl(repo, geocoder, new(MockRouter), 1, testLogger())
		resolved, err := svc.Resolve(ctx, itineraryOf("성수동 카페거리"), types.TravelModeTransit)
		require.NoError(t, err)

		require.Len(t, resolved.Markers, 1)
		assert.Equal(t, "geocode", resolved.Markers[0].Source)
		assert.InDelta(t, 37.5446, resolved.Markers[0].Latitude, 1e-9)
	})

	t.Run("framing falls back to citywide when nothing resolves", func(t *testing.T) {
		geocoder := new(MockGeocoder)
		geocoder.On("Geocode", mock.Anything, mock.Anything).Return(nil, nil)

		svc := NewServiceImpl(&stubPlaceRepo{}, geocoder, new(MockRouter), 1, testLogger())
		resolved, err := svc.Resolve(ctx, itineraryOf("모르는곳1", "모르는곳2"), types.TravelModeTransit)
		require.NoError(t, err)

		assert.Empty(t, resolved.Markers)
		assert.Equal(t, "default", resolved.Framing.Kind)
		assert.InDelta(t, 37.5665, resolved.Framing.Center.Latitude, 1e-9)
		assert.Equal(t, 13, resolved.Framing.Zoom)
		assert.Nil(t, resolved.Route)
	})

	t.Run("single marker centers at zoom 15", func(t *testing.T) {
		repo := &stubPlaceRepo{attractions: map[string]*types.Place{
			"경복궁": attraction("경복궁", 37.5796, 126.977),
		}}
		svc := NewServiceImpl(repo, new(MockGeocoder), new(MockRouter), 1, testLogger())

		resolved, err := svc.Resolve(ctx, itineraryOf("경복궁"), types.TravelModeTransit)
		require.NoError(t, err)

		assert.Equal(t, "center", resolved.Framing.Kind)
		assert.Equal(t, 15, resolved.Framing.Zoom)
		assert.Nil(t, resolved.Route)
	})

	t.Run("two markers produce bounds and a route", func(t *testing.T) {
		repo := &stubPlaceRepo{attractions: map[string]*types.Place{
			"경복궁":  attraction("경복궁", 37.5796, 126.977),
			"남산타워": attraction("남산타워", 37.5512, 126.9882),
		}}
		router := new(MockRouter)
		router.On("Route", mock.Anything, types.TravelModeWalking, []types.Coordinate{
			{Latitude: 37.5796, Longitude: 126.977},
			{Latitude: 37.5512, Longitude: 126.9882},
		}).Return(&types.RoutePath{Mode: types.TravelModeWalking, Distance: 3200}, nil)

		svc := NewServiceImpl(repo, new(MockGeocoder), router, 1, testLogger())
		resolved, err := svc.Resolve(ctx, itineraryOf("경복궁", "남산타워"), types.TravelModeWalking)
		require.NoError(t, err)

		require.Equal(t, "bounds", resolved.Framing.Kind)
		require.NotNil(t, resolved.Framing.Bounds)
		assert.InDelta(t, 37.5512, resolved.Framing.Bounds.MinLat, 1e-9)
		assert.InDelta(t, 37.5796, resolved.Framing.Bounds.MaxLat, 1e-9)
		require.NotNil(t, resolved.Route)
		assert.InDelta(t, 3200, resolved.Route.Distance, 1e-9)
	})

	t.Run("route failure degrades to markers only", func(t *testing.T) {
		repo := &stubPlaceRepo{attractions: map[string]*types.Place{
			"경복궁":  attraction("경복궁", 37.5796, 126.977),
			"남산타워": attraction("남산타워", 37.5512, 126.9882),
		}}
		router := new(MockRouter)
		router.On("Route", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("routing engine down"))

		svc := NewServiceImpl(repo, new(MockGeocoder), router, 1, testLogger())
		resolved, err := svc.Resolve(ctx, itineraryOf("경복궁", "남산타워"), types.TravelModeTransit)
		require.NoError(t, err)

		assert.Len(t, resolved.Markers, 2)
		assert.Nil(t, resolved.Route)
	})

	t.Run("bounded concurrency preserves itinerary order", func(t *testing.T) {
		repo := &stubPlaceRepo{attractions: map[string]*types.Place{
			"경복궁":   attraction("경복궁", 37.5796, 126.977),
			"남산타워":  attraction("남산타워", 37.5512, 126.9882),
			"한강공원":  attraction("한강공원", 37.5284, 126.9328),
			"북촌한옥마을": attraction("북촌한옥마을", 37.5826, 126.983),
		}}
		router := new(MockRouter)
		router.On("Route", mock.Anything, mock.Anything, mock.Anything).
			Return(&types.RoutePath{}, nil)

		svc := NewServiceImpl(repo, new(MockGeocoder), router, 4, testLogger())
		resolved, err := svc.Resolve(ctx, itineraryOf("경복궁", "남산타워", "한강공원", "북촌한옥마을"), types.TravelModeTransit)
		require.NoError(t, err)

		require.Len(t, resolved.Markers, 4)
		for i, name := range []string{"경복궁", "남산타워", "한강공원", "북촌한옥마을"} {
			assert.Equal(t, i+1, resolved.Markers[i].Order)
			assert.Equal(t, name, resolved.Markers[i].Name)
		}
	})
}

func TestRouteDefaultsToTransit(t *testing.T) {
	router := new(MockRouter)
	router.On("Route", mock.Anything, types.TravelModeTransit, mock.Anything).
		Return(&types.RoutePath{Mode: types.TravelModeTransit}, nil)

	svc := NewServiceImpl(&stubPlaceRepo{}, new(MockGeocoder), router, 1, testLogger())
	route, err := svc.Route(context.Background(), "", []types.Coordinate{
		{Latitude: 37.5796, Longitude: 126.977},
		{Latitude: 37.5512, Longitude: 126.9882},
	})
	require.NoError(t, err)
	assert.Equal(t, types.TravelModeTransit, route.Mode)
}
