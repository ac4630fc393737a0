package types

import (
	"time"

	"github.com/google/uuid"
)

// Course is a persisted trip. OwnerKey is either an authenticated user id or
// a per-browser device id; ShareID grants public read access and never
// changes after creation.
type Course struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	ShareID     uuid.UUID     `json:"share_id"`
	OwnerKey    string        `json:"-"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Places      []CoursePlace `json:"places,omitempty"`
}

// CoursePlace is a point-in-time snapshot of a place's display fields.
// Later edits to the source tables never change a saved trip.
type CoursePlace struct {
	ID             uuid.UUID  `json:"id"`
	CourseID       uuid.UUID  `json:"course_id"`
	PlaceID        *uuid.UUID `json:"place_id,omitempty"`
	PlaceType      string     `json:"place_type"`
	PlaceName      string     `json:"place_name"`
	PlaceAddress   *string    `json:"place_address,omitempty"`
	PlaceLatitude  *float64   `json:"place_latitude,omitempty"`
	PlaceLongitude *float64   `json:"place_longitude,omitempty"`
	PlaceRating    *float64   `json:"place_rating,omitempty"`
	PlaceCategory  *string    `json:"place_category,omitempty"`
	DayNumber      int        `json:"day_number"`
	OrderIndex     int        `json:"order_index"`
	Memo           *string    `json:"memo,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type CreateCourseRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

type UpdateCourseRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// AddCoursePlaceRequest carries the snapshot fields; day_number defaults to 1
// and order_index is assigned server side.
type AddCoursePlaceRequest struct {
	PlaceID        *uuid.UUID `json:"place_id,omitempty"`
	PlaceType      string     `json:"place_type"`
	PlaceName      string     `json:"place_name"`
	PlaceAddress   *string    `json:"place_address,omitempty"`
	PlaceLatitude  *float64   `json:"place_latitude,omitempty"`
	PlaceLongitude *float64   `json:"place_longitude,omitempty"`
	PlaceRating    *float64   `json:"place_rating,omitempty"`
	PlaceCategory  *string    `json:"place_category,omitempty"`
	DayNumber      int        `json:"day_number,omitempty"`
	Memo           *string    `json:"memo,omitempty"`
}

// ReorderRequest rewrites the whole ordering for a course in one shot.
type ReorderRequest struct {
	PlaceIDs []uuid.UUID `json:"place_ids"`
}

// SaveItineraryRequest persists an AI-generated itinerary as a course.
type SaveItineraryRequest struct {
	Title     string    `json:"title"`
	Itinerary Itinerary `json:"itinerary"`
}
