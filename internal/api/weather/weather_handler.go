package weather

import (
	"errors"
	"log/slog"
	"net/http"

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

func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Weather").Start(r.Context(), "GetWeather", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/weather"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetWeather"))

	weather, err := h.service.GetCurrentWeather(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch weather", slog.Any("error", err))
		if errors.Is(err, ErrNotConfigured) {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "날씨 서비스가 설정되지 않았습니다.")
			return
		}
		api.ErrorResponse(w, r, http.StatusBadGateway, "날씨 정보를 가져오지 못했습니다.")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, weather)
}
