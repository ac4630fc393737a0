package types

import (
	"time"

	"github.com/google/uuid"
)

// PlaceType tags which reference table a place came from.
type PlaceType string

const (
	PlaceTypeRestaurant    PlaceType = "restaurant"
	PlaceTypeAccommodation PlaceType = "accommodation"
	PlaceTypeAttraction    PlaceType = "attraction"
	PlaceTypeSubway        PlaceType = "subway"
)

type Restaurant struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	FoodType    *string    `json:"food_type"`
	Address     *string    `json:"address"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	Rating      *float64   `json:"rating"`
	ReviewCount *int       `json:"review_count"`
	Description *string    `json:"description"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type Accommodation struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	AccommodationType *string    `json:"accommodation_type"`
	Address           *string    `json:"address"`
	Latitude          *float64   `json:"latitude"`
	Longitude         *float64   `json:"longitude"`
	Rating            *float64   `json:"rating"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
}

type Attraction struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Category    *string    `json:"category"`
	Description *string    `json:"description"`
	Address     *string    `json:"address"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type SubwayStation struct {
	ID          uuid.UUID  `json:"id"`
	StationName string     `json:"station_name"`
	LineNumbers *string    `json:"line_numbers"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Place is the unified view used by search results and map markers.
type Place struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        PlaceType `json:"type"`
	Address     *string   `json:"address"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Rating      *float64  `json:"rating,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Description *string   `json:"description,omitempty"`
}

// SearchResults groups unified-search hits per source table.
type SearchResults struct {
	Restaurants    []Restaurant    `json:"restaurants"`
	Accommodations []Accommodation `json:"accommodations"`
	Attractions    []Attraction    `json:"attractions"`
}
