package course

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

func courseIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "courseID"))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error, msg string) {
	if errors.Is(err, types.ErrNotFound) {
		api.ErrorResponse(w, r, http.StatusNotFound, "코스를 찾을 수 없습니다.")
		return
	}
	l.ErrorContext(r.Context(), msg, slog.Any("error", err))
	api.ErrorResponse(w, r, http.StatusInternalServerError, msg)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Course").Start(r.Context(), "CreateCourse", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/courses"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateCourse"))

	var req types.CreateCourseRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.service.CreateCourse(ctx, auth.OwnerKeyFromContext(ctx), req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create course", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, course)
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Course").Start(r.Context(), "ListCourses", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/courses"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListCourses"))

	courses, err := h.service.ListCourses(ctx, auth.OwnerKeyFromContext(ctx))
	if err != nil {
		h.writeError(w, r, l, err, "코스 목록 조회에 실패했습니다.")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, courses)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Course").Start(r.Context(), "GetCourse", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/courses/{courseID}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetCourse"))

	courseID, err := courseIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid course id")
		return
	}

	course, err := h.service.GetCourse(ctx, auth.OwnerKeyFromContext(ctx), courseID)
	if err != nil {
		h.writeError(w, r, l, err, "코스 조회에 실패했습니다.")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, course)
}

// GetSharedCourse serves the public share link; no owner check.
func (h *Handler) GetSharedCourse(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Course").Start(r.Context(), "GetSharedCourse", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/courses/shared/{shareID}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetSharedCourse"))

	shareID, err := uuid.Parse(chi.URLParam(r, "shareID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid share id")
		return
	}

	course, err := h.service.GetSharedCourse(ctx, shareID)
	if err != nil {
		h.writeError(w, r, l, err, "공유 코스 조회에 실패했습니다.")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, course)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Course").Start(r.Context(), "UpdateCourse", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/courses/{courseID}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateCourse"))

	courseID, err := courseIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid course id")
		return
	}

	var req types.UpdateCourseRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.service.UpdateCourse(ctx, auth.OwnerKeyFromContext(ctx), courseID, req)
	if err != nil {
		h.writeError(w, r, l, err, "코스 수정에 실패했습니다.")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, course)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Course").Start(r.Context(), "DeleteCourse", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/courses/{courseID}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteCourse"))

	courseID, err := courseIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid course id")
		return
	}

	if err := h.service.DeleteCourse(ctx, auth.OwnerKeyFromContext(ctx), courseID); err != nil {
		h.writeError(w, r, l, err, "코스 삭제에 실패했습니다.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddPlace(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Course").Start(r.Context(), "AddPlace", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/courses/{courseID}/places"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "AddPlace"))

	courseID, err := courseIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid course id")
		return
	}

	var req types.AddCoursePlaceRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	place, err := h.service.AddPlace(ctx, auth.OwnerKeyFromContext(ctx), courseID, req)
	if err != nil {
		h.writeError(w, r, l, err, "장소 추가에 실패했습니다.")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, place)
}

func (h *Handler) RemovePlace(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Course").Start(r.Context(), "RemovePlace", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/courses/{courseID}/places/{placeID}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "RemovePlace"))

	courseID, err := courseIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid course id")
		return
	}
	placeID, err := uuid.Parse(chi.URLParam(r, "placeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid place id")
		return
	}

	if err := h.service.RemovePlace(ctx, auth.OwnerKeyFromContext(ctx), courseID, placeID); err != nil {
		h.writeError(w, r, l, err, "장소 삭제에 실패했습니다.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ReorderPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Course").Start(r.Context(), "ReorderPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/courses/{courseID}/places/reorder"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "ReorderPlaces"))

	courseID, err := courseIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid course id")
		return
	}

	var req types.ReorderRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.ReorderPlaces(ctx, auth.OwnerKeyFromContext(ctx), courseID, req); err != nil {
		h.writeError(w, r, l, err, "장소 순서 변경에 실패했습니다.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SaveItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Course").Start(r.Context(), "SaveItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/courses/save-itinerary"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "SaveItinerary"))

	var req types.SaveItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.service.SaveItinerary(ctx, auth.OwnerKeyFromContext(ctx), req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save itinerary as course", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, course)
}
