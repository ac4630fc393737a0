package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (*types.Coordinate, error)
}

// NominatimGeocoder queries a Nominatim-compatible endpoint. Lookups always
// carry the "서울" qualifier so ambiguous names land inside the city, and
// results are cached by normalized name.
type NominatimGeocoder struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
	logger  *slog.Logger
}

var _ Geocoder = (*NominatimGeocoder)(nil)

func NewNominatimGeocoder(baseURL string, ttl time.Duration, logger *slog.Logger) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New(ttl, 2*ttl),
		logger:  logger,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, name string) (*types.Coordinate, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, nil
	}

	if cached, found := g.cache.Get(key); found {
		if coord, ok := cached.(*types.Coordinate); ok {
			return coord, nil
		}
	}

	params := url.Values{}
	params.Set("q", name+" 서울")
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", "seoul-travel-api/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		// Cache the miss too so repeated unknown names stay cheap.
		g.cache.Set(key, (*types.Coordinate)(nil), cache.DefaultExpiration)
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocode response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocode response: %w", err)
	}

	coord := &types.Coordinate{Latitude: lat, Longitude: lng}
	g.cache.Set(key, coord, cache.DefaultExpiration)
	return coord, nil
}
