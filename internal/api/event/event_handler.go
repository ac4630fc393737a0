package event

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

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Event").Start(r.Context(), "GetEvents", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/events"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetEvents"))

	events, err := h.service.GetUpcomingEvents(ctx, r.URL.Query().Get("locale"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch events", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "행사 정보를 가져오지 못했습니다.")
		return
	}
	if events == nil {
		events = []types.Event{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string][]types.Event{"events": events})
}
