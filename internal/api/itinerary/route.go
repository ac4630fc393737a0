package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

// Router fetches a multi-stop route through the given coordinates, in order.
type Router interface {
	Route(ctx context.Context, mode types.TravelMode, coords []types.Coordinate) (*types.RoutePath, error)
}

// OSRMRouter calls an OSRM-compatible routing endpoint.
type OSRMRouter struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ Router = (*OSRMRouter)(nil)

func NewOSRMRouter(baseURL string, logger *slog.Logger) *OSRMRouter {
	return &OSRMRouter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// profileFor maps the travel mode onto an OSRM routing profile. OSRM has no
// transit profile, so transit requests follow the road network.
func profileFor(mode types.TravelMode) string {
	switch mode {
	case types.TravelModeWalking:
		return "walking"
	default:
		return "driving"
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

func (r *OSRMRouter) Route(ctx context.Context, mode types.TravelMode, coords []types.Coordinate) (*types.RoutePath, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("route requires at least 2 coordinates, got %d", len(coords))
	}

	pairs := make([]string, 0, len(coords))
	for _, c := range coords {
		pairs = append(pairs, fmt.Sprintf("%f,%f", c.Longitude, c.Latitude))
	}

	reqURL := fmt.Sprintf("%s/%s/%s?overview=full&geometries=geojson",
		r.baseURL, profileFor(mode), strings.Join(pairs, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build route request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("route request returned status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode route response: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return nil, fmt.Errorf("routing engine returned no route (code %q)", body.Code)
	}

	route := body.Routes[0]
	points := make([]types.Coordinate, 0, len(route.Geometry.Coordinates))
	for _, pt := range route.Geometry.Coordinates {
		if len(pt) < 2 {
			continue
		}
		points = append(points, types.Coordinate{Latitude: pt[1], Longitude: pt[0]})
	}

	return &types.RoutePath{
		Mode:     mode,
		Points:   points,
		Distance: route.Distance,
		Duration: route.Duration,
	}, nil
}
