package course

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

// DB is the slice of pgxpool.Pool the repository needs; pgxmock implements
// it too.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository persists travel courses and their place snapshots. All lookups
// except GetByShareID are scoped to the owner key.
type Repository interface {
	CreateCourse(ctx context.Context, ownerKey string, req types.CreateCourseRequest) (*types.Course, error)
	ListCourses(ctx context.Context, ownerKey string) ([]types.Course, error)
	GetCourse(ctx context.Context, ownerKey string, courseID uuid.UUID) (*types.Course, error)
	GetCourseByShareID(ctx context.Context, shareID uuid.UUID) (*types.Course, error)
	UpdateCourse(ctx context.Context, ownerKey string, courseID uuid.UUID, req types.UpdateCourseRequest) (*types.Course, error)
	DeleteCourse(ctx context.Context, ownerKey string, courseID uuid.UUID) error

	AddPlace(ctx context.Context, ownerKey string, courseID uuid.UUID, req types.AddCoursePlaceRequest) (*types.CoursePlace, error)
	RemovePlace(ctx context.Context, ownerKey string, courseID, placeID uuid.UUID) error
	ReorderPlaces(ctx context.Context, ownerKey string, courseID uuid.UUID, placeIDs []uuid.UUID) error

	SaveItinerary(ctx context.Context, ownerKey string, title string, it types.Itinerary) (*types.Course, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool DB
}

var _ Repository = (*RepositoryImpl)(nil)

func NewRepositoryImpl(pgxpool DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, pgpool: pgxpool}
}

const courseColumns = `id, title, description, share_id, owner_key, created_at, updated_at`

func scanCourse(row pgx.Row) (*types.Course, error) {
	var c types.Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.ShareID, &c.OwnerKey, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	return &c, nil
}

func (r *RepositoryImpl) CreateCourse(ctx context.Context, ownerKey string, req types.CreateCourseRequest) (*types.Course, error) {
	query := `
        INSERT INTO travel_courses (title, description, owner_key)
        VALUES ($1, $2, $3)
        RETURNING ` + courseColumns
	return scanCourse(r.pgpool.QueryRow(ctx, query, req.Title, req.Description, ownerKey))
}

func (r *RepositoryImpl) ListCourses(ctx context.Context, ownerKey string) ([]types.Course, error) {
	query := `
        SELECT ` + courseColumns + `
        FROM travel_courses
        WHERE owner_key = $1
        ORDER BY updated_at DESC`
	rows, err := r.pgpool.Query(ctx, query, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []types.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (r *RepositoryImpl) GetCourse(ctx context.Context, ownerKey string, courseID uuid.UUID) (*types.Course, error) {
	query := `
        SELECT ` + courseColumns + `
        FROM travel_courses
        WHERE id = $1 AND owner_key = $2`
	c, err := scanCourse(r.pgpool.QueryRow(ctx, query, courseID, ownerKey))
	if err != nil {
		return nil, err
	}
	c.Places, err = r.listPlaces(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCourseByShareID is the public read path; it never checks the owner key.
func (r *RepositoryImpl) GetCourseByShareID(ctx context.Context, shareID uuid.UUID) (*types.Course, error) {
	query := `
        SELECT ` + courseColumns + `
        FROM travel_courses
        WHERE share_id = $1`
	c, err := scanCourse(r.pgpool.QueryRow(ctx, query, shareID))
	if err != nil {
		return nil, err
	}
	c.Places, err = r.listPlaces(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *RepositoryImpl) UpdateCourse(ctx context.Context, ownerKey string, courseID uuid.UUID, req types.UpdateCourseRequest) (*types.Course, error) {
	query := `
        UPDATE travel_courses
        SET title = $1, description = $2, updated_at = now()
        WHERE id = $3 AND owner_key = $4
        RETURNING ` + courseColumns
	return scanCourse(r.pgpool.QueryRow(ctx, query, req.Title, req.Description, courseID, ownerKey))
}

func (r *RepositoryImpl) DeleteCourse(ctx context.Context, ownerKey string, courseID uuid.UUID) error {
	// course_places rows go with the course via ON DELETE CASCADE.
	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM travel_courses WHERE id = $1 AND owner_key = $2`, courseID, ownerKey)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

const coursePlaceColumns = `id, course_id, place_id, place_type, place_name, place_address,
               place_latitude, place_longitude, place_rating, place_category,
               day_number, order_index, memo, created_at`

func scanCoursePlace(row pgx.Row) (*types.CoursePlace, error) {
	var p types.CoursePlace
	err := row.Scan(&p.ID, &p.CourseID, &p.PlaceID, &p.PlaceType, &p.PlaceName, &p.PlaceAddress,
		&p.PlaceLatitude, &p.PlaceLongitude, &p.PlaceRating, &p.PlaceCategory,
		&p.DayNumber, &p.OrderIndex, &p.Memo, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan course place: %w", err)
	}
	return &p, nil
}

func (r *RepositoryImpl) listPlaces(ctx context.Context, courseID uuid.UUID) ([]types.CoursePlace, error) {
	query := `
        SELECT ` + coursePlaceColumns + `
        FROM course_places
        WHERE course_id = $1
        ORDER BY day_number ASC, order_index ASC`
	rows, err := r.pgpool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query course places: %w", err)
	}
	defer rows.Close()

	var places []types.CoursePlace
	for rows.Next() {
		p, err := scanCoursePlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

// ownCourse verifies the owner key against the course before any child-row
// mutation, since course_places carries no owner column of its own.
func ownCourse(ctx context.Context, tx pgx.Tx, ownerKey string, courseID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx,
		`SELECT id FROM travel_courses WHERE id = $1 AND owner_key = $2`, courseID, ownerKey).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.ErrNotFound
		}
		return fmt.Errorf("failed to verify course ownership: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) AddPlace(ctx context.Context, ownerKey string, courseID uuid.UUID, req types.AddCoursePlaceRequest) (*types.CoursePlace, error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := ownCourse(ctx, tx, ownerKey, courseID); err != nil {
		return nil, err
	}

	dayNumber := req.DayNumber
	if dayNumber < 1 {
		dayNumber = 1
	}

	// New places append to the end of the course; the first one gets index 0.
	query := `
        INSERT INTO course_places (course_id, place_id, place_type, place_name, place_address,
                                   place_latitude, place_longitude, place_rating, place_category,
                                   day_number, order_index, memo)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
                COALESCE((SELECT MAX(order_index) FROM course_places WHERE course_id = $1), -1) + 1,
                $11)
        RETURNING ` + coursePlaceColumns
	p, err := scanCoursePlace(tx.QueryRow(ctx, query,
		courseID, req.PlaceID, req.PlaceType, req.PlaceName, req.PlaceAddress,
		req.PlaceLatitude, req.PlaceLongitude, req.PlaceRating, req.PlaceCategory,
		dayNumber, req.Memo))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE travel_courses SET updated_at = now() WHERE id = $1`, courseID); err != nil {
		return nil, fmt.Errorf("failed to touch course: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return p, nil
}

func (r *RepositoryImpl) RemovePlace(ctx context.Context, ownerKey string, courseID, placeID uuid.UUID) error {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := ownCourse(ctx, tx, ownerKey, courseID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM course_places WHERE id = $1 AND course_id = $2`, placeID, courseID)
	if err != nil {
		return fmt.Errorf("failed to delete course place: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}

	if _, err := tx.Exec(ctx,
		`UPDATE travel_courses SET updated_at = now() WHERE id = $1`, courseID); err != nil {
		return fmt.Errorf("failed to touch course: %w", err)
	}

	return tx.Commit(ctx)
}

// ReorderPlaces rewrites order_index for every listed place in one
// transaction; a partial list leaves unlisted places where they were.
func (r *RepositoryImpl) ReorderPlaces(ctx context.Context, ownerKey string, courseID uuid.UUID, placeIDs []uuid.UUID) error {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := ownCourse(ctx, tx, ownerKey, courseID); err != nil {
		return err
	}

	for i, placeID := range placeIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE course_places SET order_index = $1 WHERE id = $2 AND course_id = $3`,
			i, placeID, courseID)
		if err != nil {
			return fmt.Errorf("failed to reorder course place: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return types.ErrNotFound
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE travel_courses SET updated_at = now() WHERE id = $1`, courseID); err != nil {
		return fmt.Errorf("failed to touch course: %w", err)
	}

	return tx.Commit(ctx)
}

// SaveItinerary persists an AI-generated plan as a course, preserving the
// itinerary's day grouping and in-day order.
func (r *RepositoryImpl) SaveItinerary(ctx context.Context, ownerKey string, title string, it types.Itinerary) (*types.Course, error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if title == "" {
		title = it.Title
	}
	var description *string
	if it.Description != "" {
		description = &it.Description
	}

	c, err := scanCourse(tx.QueryRow(ctx, `
        INSERT INTO travel_courses (title, description, owner_key)
        VALUES ($1, $2, $3)
        RETURNING `+courseColumns, title, description, ownerKey))
	if err != nil {
		return nil, err
	}

	insert := `
        INSERT INTO course_places (course_id, place_type, place_name, day_number, order_index, memo)
        VALUES ($1, $2, $3, $4, $5, $6)`
	for _, day := range it.Days {
		for i, p := range day.Places {
			var memo *string
			if p.Tip != "" {
				memo = &p.Tip
			}
			placeType := p.Type
			if placeType == "" {
				placeType = string(types.PlaceTypeAttraction)
			}
			if _, err := tx.Exec(ctx, insert, c.ID, placeType, p.Name, day.Day, i, memo); err != nil {
				return nil, fmt.Errorf("failed to insert itinerary place: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.Places, err = r.listPlaces(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}
