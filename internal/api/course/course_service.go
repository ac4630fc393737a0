package course

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

type Service interface {
	CreateCourse(ctx context.Context, ownerKey string, req types.CreateCourseRequest) (*types.Course, error)
	ListCourses(ctx context.Context, ownerKey string) ([]types.Course, error)
	GetCourse(ctx context.Context, ownerKey string, courseID uuid.UUID) (*types.Course, error)
	GetSharedCourse(ctx context.Context, shareID uuid.UUID) (*types.Course, error)
	UpdateCourse(ctx context.Context, ownerKey string, courseID uuid.UUID, req types.UpdateCourseRequest) (*types.Course, error)
	DeleteCourse(ctx context.Context, ownerKey string, courseID uuid.UUID) error

	AddPlace(ctx context.Context, ownerKey string, courseID uuid.UUID, req types.AddCoursePlaceRequest) (*types.CoursePlace, error)
	RemovePlace(ctx context.Context, ownerKey string, courseID, placeID uuid.UUID) error
	ReorderPlaces(ctx context.Context, ownerKey string, courseID uuid.UUID, req types.ReorderRequest) error

	SaveItinerary(ctx context.Context, ownerKey string, req types.SaveItineraryRequest) (*types.Course, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

var _ Service = (*ServiceImpl)(nil)

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) CreateCourse(ctx context.Context, ownerKey string, req types.CreateCourseRequest) (*types.Course, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("course title is required")
	}
	return s.repo.CreateCourse(ctx, ownerKey, req)
}

func (s *ServiceImpl) ListCourses(ctx context.Context, ownerKey string) ([]types.Course, error) {
	return s.repo.ListCourses(ctx, ownerKey)
}

func (s *ServiceImpl) GetCourse(ctx context.Context, ownerKey string, courseID uuid.UUID) (*types.Course, error) {
	return s.repo.GetCourse(ctx, ownerKey, courseID)
}

func (s *ServiceImpl) GetSharedCourse(ctx context.Context, shareID uuid.UUID) (*types.Course, error) {
	return s.repo.GetCourseByShareID(ctx, shareID)
}

func (s *ServiceImpl) UpdateCourse(ctx context.Context, ownerKey string, courseID uuid.UUID, req types.UpdateCourseRequest) (*types.Course, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("course title is required")
	}
	return s.repo.UpdateCourse(ctx, ownerKey, courseID, req)
}

func (s *ServiceImpl) DeleteCourse(ctx context.Context, ownerKey string, courseID uuid.UUID) error {
	return s.repo.DeleteCourse(ctx, ownerKey, courseID)
}

func (s *ServiceImpl) AddPlace(ctx context.Context, ownerKey string, courseID uuid.UUID, req types.AddCoursePlaceRequest) (*types.CoursePlace, error) {
	if strings.TrimSpace(req.PlaceName) == "" {
		return nil, fmt.Errorf("place name is required")
	}
	if req.PlaceType == "" {
		req.PlaceType = string(types.PlaceTypeAttraction)
	}
	return s.repo.AddPlace(ctx, ownerKey, courseID, req)
}

func (s *ServiceImpl) RemovePlace(ctx context.Context, ownerKey string, courseID, placeID uuid.UUID) error {
	return s.repo.RemovePlace(ctx, ownerKey, courseID, placeID)
}

func (s *ServiceImpl) ReorderPlaces(ctx context.Context, ownerKey string, courseID uuid.UUID, req types.ReorderRequest) error {
	if len(req.PlaceIDs) == 0 {
		return fmt.Errorf("place_ids is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(req.PlaceIDs))
	for _, id := range req.PlaceIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate place id %s in reorder request", id)
		}
		seen[id] = struct{}{}
	}
	return s.repo.ReorderPlaces(ctx, ownerKey, courseID, req.PlaceIDs)
}

func (s *ServiceImpl) SaveItinerary(ctx context.Context, ownerKey string, req types.SaveItineraryRequest) (*types.Course, error) {
	if len(req.Itinerary.Days) == 0 {
		return nil, fmt.Errorf("itinerary has no days")
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Itinerary.Title) == "" {
		return nil, fmt.Errorf("course title is required")
	}
	return s.repo.SaveItinerary(ctx, ownerKey, req.Title, req.Itinerary)
}
