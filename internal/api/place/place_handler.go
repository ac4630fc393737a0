package place

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/seoulmate/seoul-travel-api/internal/api"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func parseLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

// GetRestaurants lists restaurants, optionally filtered by food type.
func (h *Handler) GetRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GetRestaurants").Start(r.Context(), "GetRestaurants", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/restaurants"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetRestaurants"))

	restaurants, err := h.service.GetRestaurants(ctx, r.URL.Query().Get("food_type"), parseLimit(r))
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch restaurants", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch restaurants")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, restaurants)
}

func (h *Handler) GetAccommodations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GetAccommodations").Start(r.Context(), "GetAccommodations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/accommodations"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetAccommodations"))

	accommodations, err := h.service.GetAccommodations(ctx, parseLimit(r))
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch accommodations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch accommodations")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, accommodations)
}

func (h *Handler) GetAttractions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GetAttractions").Start(r.Context(), "GetAttractions", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/attractions"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetAttractions"))

	attractions, err := h.service.GetAttractions(ctx, parseLimit(r))
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch attractions", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch attractions")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, attractions)
}

func (h *Handler) GetSubwayStations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GetSubwayStations").Start(r.Context(), "GetSubwayStations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/subway-stations"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetSubwayStations"))

	stations, err := h.service.GetSubwayStations(ctx, parseLimit(r))
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch subway stations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch subway stations")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, stations)
}

// GetNearbyRestaurants lists restaurants within a lat/lng box radius.
func (h *Handler) GetNearbyRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GetNearbyRestaurants").Start(r.Context(), "GetNearbyRestaurants", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/restaurants/nearby"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetNearbyRestaurants"))

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "lat and lng query parameters are required")
		return
	}
	radiusKm, _ := strconv.ParseFloat(r.URL.Query().Get("radius_km"), 64)

	restaurants, err := h.service.GetNearbyRestaurants(ctx, lat, lng, radiusKm)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch nearby restaurants", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch nearby restaurants")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, restaurants)
}

// SearchPlaces runs the unified name search across the three place tables.
func (h *Handler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SearchPlaces").Start(r.Context(), "SearchPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchPlaces"))

	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "q query parameter is required")
		return
	}

	results, err := h.service.SearchPlaces(ctx, keyword)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search places", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search places")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, results)
}
