package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/seoulmate/seoul-travel-api/app/observability/metrics"
	"github.com/seoulmate/seoul-travel-api/internal/api/place"
	"github.com/seoulmate/seoul-travel-api/internal/types"
)

// Seoul city hall, the citywide fallback view.
const (
	defaultCenterLat = 37.5665
	defaultCenterLng = 126.978
	defaultZoom      = 13
	singleZoom       = 15
	boundsPaddingPx  = 80
)

// parenthetical strips trailing annotations the model likes to add, e.g.
// "광장시장 (먹거리 투어)" → "광장시장".
var parenthetical = regexp.MustCompile(`\s*\(.*?\)\s*`)

type Service interface {
	Resolve(ctx context.Context, it *types.Itinerary, mode types.TravelMode) (*types.ResolvedItinerary, error)
	Route(ctx context.Context, mode types.TravelMode, coords []types.Coordinate) (*types.RoutePath, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	placeRepo   place.Repository
	geocoder    Geocoder
	router      Router
	concurrency int64
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(placeRepo place.Repository, geocoder Geocoder, router Router, concurrency int64, logger *slog.Logger) *ServiceImpl {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ServiceImpl{
		logger:      logger,
		placeRepo:   placeRepo,
		geocoder:    geocoder,
		router:      router,
		concurrency: concurrency,
	}
}

// sequencedPlace is one itinerary entry with its map marker number. Numbers
// are assigned when the flat list is built, so entries that later fail to
// resolve leave gaps rather than renumbering the rest.
type sequencedPlace struct {
	order int
	name  string
	typ   string
}

func flattenItinerary(it *types.Itinerary) []sequencedPlace {
	var out []sequencedPlace
	n := 0
	for _, day := range it.Days {
		for _, p := range day.Places {
			n++
			out = append(out, sequencedPlace{order: n, name: p.Name, typ: p.Type})
		}
	}
	return out
}

func normalizeName(name string) string {
	return strings.TrimSpace(parenthetical.ReplaceAllString(name, " "))
}

// Resolve turns a model-produced itinerary into map markers, a framing hint
// and (mode permitting) a route polyline. Lookups run under a weighted
// semaphore; results carry their list index so output order is always
// itinerary order regardless of completion order.
func (s *ServiceImpl) Resolve(ctx context.Context, it *types.Itinerary, mode types.TravelMode) (*types.ResolvedItinerary, error) {
	if it == nil {
		return nil, fmt.Errorf("itinerary is required")
	}

	places := flattenItinerary(it)
	markers := make([]*types.ResolvedMarker, len(places))

	sem := semaphore.NewWeighted(s.concurrency)
	done := make(chan struct{})
	type indexed struct {
		idx    int
		marker *types.ResolvedMarker
	}
	results := make(chan indexed, len(places))

	go func() {
		defer close(done)
		for i, sp := range places {
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			go func(idx int, sp sequencedPlace) {
				defer sem.Release(1)
				marker := s.resolveOne(ctx, sp)
				results <- indexed{idx: idx, marker: marker}
			}(i, sp)
		}
	}()

	for range places {
		select {
		case r := <-results:
			markers[r.idx] = r.marker
		case <-ctx.Done():
			<-done
			return nil, ctx.Err()
		}
	}
	<-done

	resolved := &types.ResolvedItinerary{Markers: make([]types.ResolvedMarker, 0, len(markers))}
	for _, m := range markers {
		if m != nil {
			resolved.Markers = append(resolved.Markers, *m)
		}
	}
	resolved.Framing = framingFor(resolved.Markers)

	if len(resolved.Markers) >= 2 {
		coords := markerCoords(resolved.Markers)
		route, err := s.Route(ctx, mode, coords)
		if err != nil {
			// Markers are still useful without a polyline.
			s.logger.WarnContext(ctx, "Route lookup failed, returning markers only",
				slog.String("mode", string(mode)), slog.Any("error", err))
		} else {
			resolved.Route = route
		}
	}

	return resolved, nil
}

// resolveOne checks the three reference tables in order, then falls back to
// geocoding. Returns nil when nothing yields coordinates.
func (s *ServiceImpl) resolveOne(ctx context.Context, sp sequencedPlace) *types.ResolvedMarker {
	name := normalizeName(sp.name)
	if name == "" {
		return nil
	}

	m := metrics.Get()
	m.GeocodeLookupsTotal.Add(ctx, 1)

	type lookup struct {
		find   func(context.Context, string) (*types.Place, error)
		source string
	}
	lookups := []lookup{
		{s.placeRepo.FindRestaurantByName, "restaurants"},
		{s.placeRepo.FindAccommodationByName, "accommodations"},
		{s.placeRepo.FindAttractionByName, "attractions"},
	}

	for _, l := range lookups {
		p, err := l.find(ctx, name)
		if err != nil {
			s.logger.WarnContext(ctx, "Place lookup failed",
				slog.String("name", name), slog.String("source", l.source), slog.Any("error", err))
			continue
		}
		if p != nil {
			return &types.ResolvedMarker{
				Order:     sp.order,
				Name:      sp.name,
				Type:      p.Type,
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
				Source:    l.source,
			}
		}
	}

	coord, err := s.geocoder.Geocode(ctx, name)
	if err != nil {
		s.logger.WarnContext(ctx, "Geocode fallback failed",
			slog.String("name", name), slog.Any("error", err))
		m.GeocodeMissesTotal.Add(ctx, 1)
		return nil
	}
	if coord == nil {
		m.GeocodeMissesTotal.Add(ctx, 1)
		return nil
	}

	return &types.ResolvedMarker{
		Order:     sp.order,
		Name:      sp.name,
		Type:      placeTypeFromHint(sp.typ),
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
		Source:    "geocode",
	}
}

func placeTypeFromHint(hint string) types.PlaceType {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "restaurant", "음식점", "맛집":
		return types.PlaceTypeRestaurant
	case "accommodation", "hotel", "숙소":
		return types.PlaceTypeAccommodation
	default:
		return types.PlaceTypeAttraction
	}
}

func framingFor(markers []types.ResolvedMarker) types.MapFraming {
	switch len(markers) {
	case 0:
		return types.MapFraming{
			Kind:   "default",
			Center: &types.Coordinate{Latitude: defaultCenterLat, Longitude: defaultCenterLng},
			Zoom:   defaultZoom,
		}
	case 1:
		return types.MapFraming{
			Kind:   "center",
			Center: &types.Coordinate{Latitude: markers[0].Latitude, Longitude: markers[0].Longitude},
			Zoom:   singleZoom,
		}
	}

	box := types.BoundingBox{
		MinLat: markers[0].Latitude, MaxLat: markers[0].Latitude,
		MinLng: markers[0].Longitude, MaxLng: markers[0].Longitude,
	}
	for _, m := range markers[1:] {
		if m.Latitude < box.MinLat {
			box.MinLat = m.Latitude
		}
		if m.Latitude > box.MaxLat {
			box.MaxLat = m.Latitude
		}
		if m.Longitude < box.MinLng {
			box.MinLng = m.Longitude
		}
		if m.Longitude > box.MaxLng {
			box.MaxLng = m.Longitude
		}
	}
	return types.MapFraming{Kind: "bounds", Bounds: &box, PaddingPx: boundsPaddingPx}
}

func markerCoords(markers []types.ResolvedMarker) []types.Coordinate {
	coords := make([]types.Coordinate, 0, len(markers))
	for _, m := range markers {
		coords = append(coords, types.Coordinate{Latitude: m.Latitude, Longitude: m.Longitude})
	}
	return coords
}

// Route re-issues routing for an already-resolved coordinate list, so a mode
// switch never repeats the geocoding pass.
func (s *ServiceImpl) Route(ctx context.Context, mode types.TravelMode, coords []types.Coordinate) (*types.RoutePath, error) {
	if mode == "" {
		mode = types.TravelModeTransit
	}
	metrics.Get().RouteRequestsTotal.Add(ctx, 1)
	route, err := s.router.Route(ctx, mode, coords)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch route: %w", err)
	}
	return route, nil
}
