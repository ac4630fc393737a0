package itinerary

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/seoulmate/seoul-travel-api/internal/api"
	"github.com/seoulmate/seoul-travel-api/internal/types"
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

type resolveRequest struct {
	Itinerary *types.Itinerary `json:"itinerary"`
	Mode      types.TravelMode `json:"mode,omitempty"`
}

type routeRequest struct {
	Mode        types.TravelMode   `json:"mode"`
	Coordinates []types.Coordinate `json:"coordinates"`
}

// Resolve maps an extracted itinerary onto markers, framing and a route.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Itinerary").Start(r.Context(), "Resolve", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/resolve"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Resolve"))

	var req resolveRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Itinerary == nil || len(req.Itinerary.Days) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "일정 정보가 필요합니다.")
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = types.TravelModeTransit
	}

	resolved, err := h.service.Resolve(ctx, req.Itinerary, mode)
	if err != nil {
		l.ErrorContext(ctx, "Failed to resolve itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "일정 위치 확인에 실패했습니다.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resolved)
}

// Route recomputes only the polyline for an already-resolved coordinate
// list, e.g. when the user toggles between transit and walking.
func (h *Handler) Route(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Itinerary").Start(r.Context(), "Route", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/route"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Route"))

	var req routeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Coordinates) < 2 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "경로 계산에는 2개 이상의 좌표가 필요합니다.")
		return
	}

	route, err := h.service.Route(ctx, req.Mode, req.Coordinates)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch route", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "경로 조회에 실패했습니다.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, route)
}
