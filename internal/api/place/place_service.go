package place

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes the explore/search surface over the reference tables.
type Service interface {
	GetRestaurants(ctx context.Context, foodType string, limit int) ([]types.Restaurant, error)
	GetAccommodations(ctx context.Context, limit int) ([]types.Accommodation, error)
	GetAttractions(ctx context.Context, limit int) ([]types.Attraction, error)
	GetSubwayStations(ctx context.Context, limit int) ([]types.SubwayStation, error)
	GetNearbyRestaurants(ctx context.Context, lat, lng, radiusKm float64) ([]types.Restaurant, error)
	SearchPlaces(ctx context.Context, keyword string) (*types.SearchResults, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

const (
	defaultListLimit   = 50
	defaultSearchLimit = 10
	maxListLimit       = 200
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (s *ServiceImpl) GetRestaurants(ctx context.Context, foodType string, limit int) ([]types.Restaurant, error) {
	limit = clampLimit(limit)
	if foodType != "" {
		restaurants, err := s.repo.GetRestaurantsByFoodType(ctx, foodType, limit)
		if err != nil {
			return nil, fmt.Errorf("error fetching restaurants by food type: %w", err)
		}
		return restaurants, nil
	}
	restaurants, err := s.repo.GetTopRestaurants(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error fetching restaurants: %w", err)
	}
	return restaurants, nil
}

func (s *ServiceImpl) GetAccommodations(ctx context.Context, limit int) ([]types.Accommodation, error) {
	accommodations, err := s.repo.GetTopAccommodations(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("error fetching accommodations: %w", err)
	}
	return accommodations, nil
}

func (s *ServiceImpl) GetAttractions(ctx context.Context, limit int) ([]types.Attraction, error) {
	attractions, err := s.repo.GetAttractions(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("error fetching attractions: %w", err)
	}
	return attractions, nil
}

func (s *ServiceImpl) GetSubwayStations(ctx context.Context, limit int) ([]types.SubwayStation, error) {
	stations, err := s.repo.GetSubwayStations(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("error fetching subway stations: %w", err)
	}
	return stations, nil
}

func (s *ServiceImpl) GetNearbyRestaurants(ctx context.Context, lat, lng, radiusKm float64) ([]types.Restaurant, error) {
	if radiusKm <= 0 {
		radiusKm = 1
	}
	restaurants, err := s.repo.GetNearbyRestaurants(ctx, lat, lng, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("error fetching nearby restaurants: %w", err)
	}
	return restaurants, nil
}

func (s *ServiceImpl) SearchPlaces(ctx context.Context, keyword string) (*types.SearchResults, error) {
	if keyword == "" {
		return &types.SearchResults{}, nil
	}
	results, err := s.repo.SearchPlaces(ctx, keyword, defaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("error searching places: %w", err)
	}
	return results, nil
}
