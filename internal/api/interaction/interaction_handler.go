package interaction

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/seoulmate/seoul-travel-api/internal/api"
	"github.com/seoulmate/seoul-travel-api/internal/api/auth"
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

func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(id)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Interaction").Start(r.Context(), "ToggleFavorite", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/favorites/toggle"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "ToggleFavorite"))

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req types.FavoriteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	favorited, err := h.service.ToggleFavorite(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to toggle favorite", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]bool{"favorited": favorited})
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Interaction").Start(r.Context(), "ListFavorites", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/favorites"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListFavorites"))

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	favorites, err := h.service.ListFavorites(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list favorites", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "즐겨찾기 조회에 실패했습니다.")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, favorites)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Interaction").Start(r.Context(), "CreateReview", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/reviews"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateReview"))

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req types.CreateReviewRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.service.CreateReview(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create review", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, review)
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Interaction").Start(r.Context(), "UpdateReview", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/reviews/{reviewID}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateReview"))

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid review id")
		return
	}

	var req types.UpdateReviewRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.service.UpdateReview(ctx, userID, reviewID, req)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "리뷰를 찾을 수 없습니다.")
			return
		}
		l.ErrorContext(ctx, "Failed to update review", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, review)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Interaction").Start(r.Context(), "DeleteReview", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/reviews/{reviewID}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteReview"))

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid review id")
		return
	}

	if err := h.service.DeleteReview(ctx, userID, reviewID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "리뷰를 찾을 수 없습니다.")
			return
		}
		l.ErrorContext(ctx, "Failed to delete review", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "리뷰 삭제에 실패했습니다.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPlaceReviews is public: anyone can read reviews for a place.
func (h *Handler) ListPlaceReviews(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Interaction").Start(r.Context(), "ListPlaceReviews", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/{placeID}/reviews"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListPlaceReviews"))

	placeID, err := uuid.Parse(chi.URLParam(r, "placeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid place id")
		return
	}
	placeType := r.URL.Query().Get("place_type")
	if placeType == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "place_type query parameter is required")
		return
	}

	reviews, err := h.service.ListReviewsForPlace(ctx, placeID, placeType)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list reviews", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "리뷰 조회에 실패했습니다.")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, reviews)
}

func (h *Handler) ListMyReviews(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Interaction").Start(r.Context(), "ListMyReviews", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/reviews/mine"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListMyReviews"))

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	reviews, err := h.service.ListReviewsByUser(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list reviews", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "리뷰 조회에 실패했습니다.")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, reviews)
}
