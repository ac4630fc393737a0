package recommend

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/seoulmate/seoul-travel-api/internal/api"
	"github.com/seoulmate/seoul-travel-api/internal/api/auth"
	"github.com/seoulmate/seoul-travel-api/internal/api/generativeai"
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

// Recommend forwards a chat message plus history to the model and returns
// the raw reply text, which may embed a fenced JSON itinerary.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Recommend").Start(r.Context(), "Recommend", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/ai/recommend"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Recommend"))

	var req types.RecommendRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "메시지가 필요합니다.")
		return
	}

	userKey := auth.OwnerKeyFromContext(ctx)

	response, err := h.service.GetRecommendation(ctx, userKey, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to generate recommendation", slog.Any("error", err))
		if errors.Is(err, generativeai.ErrNotConfigured) {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "AI 서비스가 설정되지 않았습니다.")
			return
		}
		api.ErrorResponse(w, r, http.StatusInternalServerError, "AI 응답 생성에 실패했습니다.")
		return
	}

	resp := types.RecommendResponse{Response: response}
	if it, status := ExtractItinerary(response); status == ExtractOK {
		resp.Itinerary = it
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
