package place

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/seoulmate/seoul-travel-api/app/observability/metrics"
	"github.com/seoulmate/seoul-travel-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository reads the four reference-data tables. All methods are read-only;
// ingestion happens outside this system.
type Repository interface {
	GetTopRestaurants(ctx context.Context, limit int) ([]types.Restaurant, error)
	GetTopAccommodations(ctx context.Context, limit int) ([]types.Accommodation, error)
	GetAttractions(ctx context.Context, limit int) ([]types.Attraction, error)
	GetSubwayStations(ctx context.Context, limit int) ([]types.SubwayStation, error)

	GetRestaurantsByFoodType(ctx context.Context, foodType string, limit int) ([]types.Restaurant, error)
	GetNearbyRestaurants(ctx context.Context, lat, lng, radiusKm float64) ([]types.Restaurant, error)

	// Fuzzy case-insensitive substring lookups used by the itinerary
	// resolver. Only rows with coordinates are returned.
	FindRestaurantByName(ctx context.Context, name string) (*types.Place, error)
	FindAccommodationByName(ctx context.Context, name string) (*types.Place, error)
	FindAttractionByName(ctx context.Context, name string) (*types.Place, error)

	SearchPlaces(ctx context.Context, keyword string, limit int) (*types.SearchResults, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepositoryImpl(pgpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}


// observeQuery records the query duration histogram, labeled by the table
// (or query kind, for cross-table search).
func observeQuery(ctx context.Context, table string, start time.Time) {
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("db.table", table)))
}

func (r *RepositoryImpl) GetTopRestaurants(ctx context.Context, limit int) ([]types.Restaurant, error) {
	defer observeQuery(ctx, "restaurants", time.Now())
	query := `
        SELECT id, name, food_type, address, latitude, longitude, rating, review_count, description
        FROM restaurants
        ORDER BY rating DESC NULLS LAST
        LIMIT $1
    `
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []types.Restaurant
	for rows.Next() {
		var rest types.Restaurant
		err := rows.Scan(
			&rest.ID, &rest.Name, &rest.FoodType, &rest.Address,
			&rest.Latitude, &rest.Longitude, &rest.Rating, &rest.ReviewCount, &rest.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurant rows: %w", err)
	}
	return restaurants, nil
}

func (r *RepositoryImpl) GetTopAccommodations(ctx context.Context, limit int) ([]types.Accommodation, error) {
	defer observeQuery(ctx, "accommodations", time.Now())
	query := `
        SELECT id, name, accommodation_type, address, latitude, longitude, rating
        FROM accommodations
        ORDER BY rating DESC NULLS LAST
        LIMIT $1
    `
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query accommodations: %w", err)
	}
	defer rows.Close()

	var accommodations []types.Accommodation
	for rows.Next() {
		var acc types.Accommodation
		err := rows.Scan(
			&acc.ID, &acc.Name, &acc.AccommodationType, &acc.Address,
			&acc.Latitude, &acc.Longitude, &acc.Rating,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accommodation: %w", err)
		}
		accommodations = append(accommodations, acc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accommodation rows: %w", err)
	}
	return accommodations, nil
}

func (r *RepositoryImpl) GetAttractions(ctx context.Context, limit int) ([]types.Attraction, error) {
	defer observeQuery(ctx, "attractions", time.Now())
	query := `
        SELECT id, name, category, description, address, latitude, longitude
        FROM attractions
        ORDER BY name ASC
        LIMIT $1
    `
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attractions: %w", err)
	}
	defer rows.Close()

	var attractions []types.Attraction
	for rows.Next() {
		var att types.Attraction
		err := rows.Scan(
			&att.ID, &att.Name, &att.Category, &att.Description,
			&att.Address, &att.Latitude, &att.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attraction: %w", err)
		}
		attractions = append(attractions, att)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attraction rows: %w", err)
	}
	return attractions, nil
}

func (r *RepositoryImpl) GetSubwayStations(ctx context.Context, limit int) ([]types.SubwayStation, error) {
	defer observeQuery(ctx, "subway_stations", time.Now())
	query := `
        SELECT id, station_name, line_numbers, latitude, longitude
        FROM subway_stations
        ORDER BY station_name ASC
        LIMIT $1
    `
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query subway stations: %w", err)
	}
	defer rows.Close()

	var stations []types.SubwayStation
	for rows.Next() {
		var st types.SubwayStation
		err := rows.Scan(&st.ID, &st.StationName, &st.LineNumbers, &st.Latitude, &st.Longitude)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subway station: %w", err)
		}
		stations = append(stations, st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subway station rows: %w", err)
	}
	return stations, nil
}

func (r *RepositoryImpl) GetRestaurantsByFoodType(ctx context.Context, foodType string, limit int) ([]types.Restaurant, error) {
	defer observeQuery(ctx, "restaurants", time.Now())
	query := `
        SELECT id, name, food_type, address, latitude, longitude, rating, review_count, description
        FROM restaurants
        WHERE food_type = $1
        ORDER BY rating DESC NULLS LAST
        LIMIT $2
    `
	rows, err := r.pgpool.Query(ctx, query, foodType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants by food type: %w", err)
	}
	defer rows.Close()

	var restaurants []types.Restaurant
	for rows.Next() {
		var rest types.Restaurant
		err := rows.Scan(
			&rest.ID, &rest.Name, &rest.FoodType, &rest.Address,
			&rest.Latitude, &rest.Longitude, &rest.Rating, &rest.ReviewCount, &rest.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurant rows: %w", err)
	}
	return restaurants, nil
}

// GetNearbyRestaurants filters by a lat/lng box approximating radiusKm.
func (r *RepositoryImpl) GetNearbyRestaurants(ctx context.Context, lat, lng, radiusKm float64) ([]types.Restaurant, error) {
	defer observeQuery(ctx, "restaurants", time.Now())
	latRange := radiusKm / 111 // 1 degree of latitude is about 111km
	lngRange := radiusKm / (111 * math.Cos(lat*math.Pi/180))

	query := `
        SELECT id, name, food_type, address, latitude, longitude, rating, review_count, description
        FROM restaurants
        WHERE latitude BETWEEN $1 AND $2
          AND longitude BETWEEN $3 AND $4
        ORDER BY rating DESC NULLS LAST
    `
	rows, err := r.pgpool.Query(ctx, query, lat-latRange, lat+latRange, lng-lngRange, lng+lngRange)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []types.Restaurant
	for rows.Next() {
		var rest types.Restaurant
		err := rows.Scan(
			&rest.ID, &rest.Name, &rest.FoodType, &rest.Address,
			&rest.Latitude, &rest.Longitude, &rest.Rating, &rest.ReviewCount, &rest.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurant rows: %w", err)
	}
	return restaurants, nil
}

func (r *RepositoryImpl) FindRestaurantByName(ctx context.Context, name string) (*types.Place, error) {
	defer observeQuery(ctx, "restaurants", time.Now())
	query := `
        SELECT id, name, address, latitude, longitude, rating, food_type
        FROM restaurants
        WHERE name ILIKE '%' || $1 || '%'
          AND latitude IS NOT NULL AND longitude IS NOT NULL
        LIMIT 1
    `
	return r.scanPlace(ctx, query, name, types.PlaceTypeRestaurant)
}

func (r *RepositoryImpl) FindAccommodationByName(ctx context.Context, name string) (*types.Place, error) {
	defer observeQuery(ctx, "accommodations", time.Now())
	query := `
        SELECT id, name, address, latitude, longitude, rating, accommodation_type
        FROM accommodations
        WHERE name ILIKE '%' || $1 || '%'
          AND latitude IS NOT NULL AND longitude IS NOT NULL
        LIMIT 1
    `
	return r.scanPlace(ctx, query, name, types.PlaceTypeAccommodation)
}

func (r *RepositoryImpl) FindAttractionByName(ctx context.Context, name string) (*types.Place, error) {
	defer observeQuery(ctx, "attractions", time.Now())
	query := `
        SELECT id, name, address, latitude, longitude, NULL::numeric, category
        FROM attractions
        WHERE name ILIKE '%' || $1 || '%'
          AND latitude IS NOT NULL AND longitude IS NOT NULL
        LIMIT 1
    `
	return r.scanPlace(ctx, query, name, types.PlaceTypeAttraction)
}

func (r *RepositoryImpl) scanPlace(ctx context.Context, query, name string, placeType types.PlaceType) (*types.Place, error) {
	var p types.Place
	err := r.pgpool.QueryRow(ctx, query, name).Scan(
		&p.ID, &p.Name, &p.Address, &p.Latitude, &p.Longitude, &p.Rating, &p.Category,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find %s by name: %w", placeType, err)
	}
	p.Type = placeType
	return &p, nil
}

func (r *RepositoryImpl) SearchPlaces(ctx context.Context, keyword string, limit int) (*types.SearchResults, error) {
	defer observeQuery(ctx, "search", time.Now())
	results := &types.SearchResults{}

	restQuery := `
        SELECT id, name, food_type, address, latitude, longitude, rating, review_count, description
        FROM restaurants
        WHERE name ILIKE '%' || $1 || '%'
        LIMIT $2
    `
	rows, err := r.pgpool.Query(ctx, restQuery, keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search restaurants: %w", err)
	}
	for rows.Next() {
		var rest types.Restaurant
		if err := rows.Scan(
			&rest.ID, &rest.Name, &rest.FoodType, &rest.Address,
			&rest.Latitude, &rest.Longitude, &rest.Rating, &rest.ReviewCount, &rest.Description,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		results.Restaurants = append(results.Restaurants, rest)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurant rows: %w", err)
	}

	accQuery := `
        SELECT id, name, accommodation_type, address, latitude, longitude, rating
        FROM accommodations
        WHERE name ILIKE '%' || $1 || '%'
        LIMIT $2
    `
	rows, err = r.pgpool.Query(ctx, accQuery, keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search accommodations: %w", err)
	}
	for rows.Next() {
		var acc types.Accommodation
		if err := rows.Scan(
			&acc.ID, &acc.Name, &acc.AccommodationType, &acc.Address,
			&acc.Latitude, &acc.Longitude, &acc.Rating,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan accommodation: %w", err)
		}
		results.Accommodations = append(results.Accommodations, acc)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accommodation rows: %w", err)
	}

	attQuery := `
        SELECT id, name, category, description, address, latitude, longitude
        FROM attractions
        WHERE name ILIKE '%' || $1 || '%'
        LIMIT $2
    `
	rows, err = r.pgpool.Query(ctx, attQuery, keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search attractions: %w", err)
	}
	for rows.Next() {
		var att types.Attraction
		if err := rows.Scan(
			&att.ID, &att.Name, &att.Category, &att.Description,
			&att.Address, &att.Latitude, &att.Longitude,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan attraction: %w", err)
		}
		results.Attractions = append(results.Attractions, att)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attraction rows: %w", err)
	}

	return results, nil
}
