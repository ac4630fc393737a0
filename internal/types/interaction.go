package types

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is a user-owned bookmark keyed by (user, place id, place type),
// with the same display-field snapshot as CoursePlace.
type Favorite struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	PlaceID        uuid.UUID `json:"place_id"`
	PlaceType      string    `json:"place_type"`
	PlaceName      string    `json:"place_name"`
	PlaceAddress   *string   `json:"place_address,omitempty"`
	PlaceLatitude  *float64  `json:"place_latitude,omitempty"`
	PlaceLongitude *float64  `json:"place_longitude,omitempty"`
	PlaceRating    *float64  `json:"place_rating,omitempty"`
	PlaceCategory  *string   `json:"place_category,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type FavoriteRequest struct {
	PlaceID        uuid.UUID `json:"place_id"`
	PlaceType      string    `json:"place_type"`
	PlaceName      string    `json:"place_name"`
	PlaceAddress   *string   `json:"place_address,omitempty"`
	PlaceLatitude  *float64  `json:"place_latitude,omitempty"`
	PlaceLongitude *float64  `json:"place_longitude,omitempty"`
	PlaceRating    *float64  `json:"place_rating,omitempty"`
	PlaceCategory  *string   `json:"place_category,omitempty"`
}

type Review struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	PlaceID        uuid.UUID `json:"place_id"`
	PlaceType      string    `json:"place_type"`
	PlaceName      string    `json:"place_name"`
	Rating         int       `json:"rating"`
	Content        *string   `json:"content,omitempty"`
	AuthorNickname *string   `json:"author_nickname,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateReviewRequest struct {
	PlaceID   uuid.UUID `json:"place_id"`
	PlaceType string    `json:"place_type"`
	PlaceName string    `json:"place_name"`
	Rating    int       `json:"rating"`
	Content   *string   `json:"content,omitempty"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Content *string `json:"content,omitempty"`
}
