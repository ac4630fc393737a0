package course

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Typed nils so argument expectations match the pointer fields the
// repository binds.
var (
	nilStr  *string
	nilF64  *float64
	nilUUID *uuid.UUID
)

func courseRow(id, shareID uuid.UUID, title, ownerKey string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "title", "description", "share_id", "owner_key", "created_at", "updated_at",
	}).AddRow(id, title, nil, shareID, ownerKey, now, now)
}

func TestCreateCourse(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepositoryImpl(mockPool, testLogger())
	courseID, shareID := uuid.New(), uuid.New()

	mockPool.ExpectQuery(`INSERT INTO travel_courses`).
		WithArgs("서울 2일 코스", nilStr, "device-1").
		WillReturnRows(courseRow(courseID, shareID, "서울 2일 코스", "device-1"))

	course, err := repo.CreateCourse(context.Background(), "device-1", types.CreateCourseRequest{
		Title: "서울 2일 코스",
	})
	require.NoError(t, err)
	assert.Equal(t, courseID, course.ID)
	assert.Equal(t, shareID, course.ShareID)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestDeleteCourse(t *testing.T) {
	t.Run("missing course maps to not found", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := NewRepositoryImpl(mockPool, testLogger())
		courseID := uuid.New()

		mockPool.ExpectExec(`DELETE FROM travel_courses`).
			WithArgs(courseID, "device-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err = repo.DeleteCourse(context.Background(), "device-1", courseID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("deletes owned course", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := NewRepositoryImpl(mockPool, testLogger())
		courseID := uuid.New()

		mockPool.ExpectExec(`DELETE FROM travel_courses`).
			WithArgs(courseID, "device-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.DeleteCourse(context.Background(), "device-1", courseID))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestAddPlace(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepositoryImpl(mockPool, testLogger())
	courseID := uuid.New()
	placeRowID := uuid.New()
	now := time.Now()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`SELECT id FROM travel_courses`).
		WithArgs(courseID, "device-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(courseID))
	// The index subquery must span the whole course, not one day, and yield
	// 0 for the first place.
	mockPool.ExpectQuery(`(?s)INSERT INTO course_places.*COALESCE\(\(SELECT MAX\(order_index\) FROM course_places WHERE course_id = \$1\), -1\) \+ 1`).
		WithArgs(courseID, nilUUID, "restaurant", "광장시장 육회", nilStr, nilF64, nilF64, nilF64, nilStr, 2, nilStr).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "course_id", "place_id", "place_type", "place_name", "place_address",
			"place_latitude", "place_longitude", "place_rating", "place_category",
			"day_number", "order_index", "memo", "created_at",
		}).AddRow(placeRowID, courseID, nil, "restaurant", "광장시장 육회", nil,
			nil, nil, nil, nil, 2, 3, nil, now))
	mockPool.ExpectExec(`UPDATE travel_courses SET updated_at`).
		WithArgs(courseID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	place, err := repo.AddPlace(context.Background(), "device-1", courseID, types.AddCoursePlaceRequest{
		PlaceType: "restaurant",
		PlaceName: "광장시장 육회",
		DayNumber: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, place.DayNumber)
	// order_index comes from the course-wide MAX(order_index)+1 in the
	// insert itself.
	assert.Equal(t, 3, place.OrderIndex)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestReorderPlaces(t *testing.T) {
	t.Run("rewrites the full ordering in one transaction", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := NewRepositoryImpl(mockPool, testLogger())
		courseID := uuid.New()
		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`SELECT id FROM travel_courses`).
			WithArgs(courseID, "device-1").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(courseID))
		for i, id := range ids {
			mockPool.ExpectExec(`UPDATE course_places SET order_index`).
				WithArgs(i, id, courseID).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		}
		mockPool.ExpectExec(`UPDATE travel_courses SET updated_at`).
			WithArgs(courseID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectCommit()

		require.NoError(t, repo.ReorderPlaces(context.Background(), "device-1", courseID, ids))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("unknown place id rolls back", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := NewRepositoryImpl(mockPool, testLogger())
		courseID := uuid.New()
		ids := []uuid.UUID{uuid.New()}

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(`SELECT id FROM travel_courses`).
			WithArgs(courseID, "device-1").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(courseID))
		mockPool.ExpectExec(`UPDATE course_places SET order_index`).
			WithArgs(0, ids[0], courseID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockPool.ExpectRollback()

		err = repo.ReorderPlaces(context.Background(), "device-1", courseID, ids)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestSaveItinerary(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepositoryImpl(mockPool, testLogger())
	courseID, shareID := uuid.New(), uuid.New()

	it := types.Itinerary{
		Title: "전통 서울 코스",
		Days: []types.ItineraryDay{
			{Day: 1, Places: []types.ItineraryPlace{
				{Name: "경복궁", Type: "attraction", Tip: "화요일 휴궁"},
				{Name: "광장시장", Type: "restaurant"},
			}},
			{Day: 2, Places: []types.ItineraryPlace{
				{Name: "남산타워"},
			}},
		},
	}

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`INSERT INTO travel_courses`).
		WithArgs("전통 서울 코스", nilStr, "device-1").
		WillReturnRows(courseRow(courseID, shareID, "전통 서울 코스", "device-1"))
	mockPool.ExpectExec(`INSERT INTO course_places`).
		WithArgs(courseID, "attraction", "경복궁", 1, 0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec(`INSERT INTO course_places`).
		WithArgs(courseID, "restaurant", "광장시장", 1, 1, nilStr).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	// A missing type defaults to attraction, and day/order follow the plan.
	mockPool.ExpectExec(`INSERT INTO course_places`).
		WithArgs(courseID, "attraction", "남산타워", 2, 0, nilStr).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()
	mockPool.ExpectQuery(`SELECT (.+) FROM course_places`).
		WithArgs(courseID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "course_id", "place_id", "place_type", "place_name", "place_address",
			"place_latitude", "place_longitude", "place_rating", "place_category",
			"day_number", "order_index", "memo", "created_at",
		}))

	course, err := repo.SaveItinerary(context.Background(), "device-1", "", it)
	require.NoError(t, err)
	assert.Equal(t, "전통 서울 코스", course.Title)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
