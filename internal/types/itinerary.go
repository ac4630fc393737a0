package types

// Itinerary is the day-by-day plan embedded by the model in a fenced JSON
// block. Place names are free text and may not exist in the reference tables.
type Itinerary struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Days        []ItineraryDay `json:"days"`
}

type ItineraryDay struct {
	Day    int              `json:"day"`
	Theme  string           `json:"theme"`
	Places []ItineraryPlace `json:"places"`
}

type ItineraryPlace struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Time     string `json:"time"`
	Duration string `json:"duration,omitempty"`
	Tip      string `json:"tip,omitempty"`
}

// TravelMode selects the routing profile for the overlay polyline.
type TravelMode string

const (
	TravelModeTransit TravelMode = "transit"
	TravelModeDriving TravelMode = "driving"
	TravelModeWalking TravelMode = "walking"
)

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ResolvedMarker is one itinerary place that resolved to coordinates.
// Order is the 1-based position in the day-major place sequence; numbers of
// places that failed to resolve are absent, leaving gaps.
type ResolvedMarker struct {
	Order     int       `json:"order"`
	Name      string    `json:"name"`
	Type      PlaceType `json:"type"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Source    string    `json:"source"` // "restaurants", "accommodations", "attractions" or "geocode"
}

// MapFraming tells the client how to frame the viewport.
type MapFraming struct {
	Kind      string      `json:"kind"` // "bounds", "center" or "default"
	Bounds    *BoundingBox `json:"bounds,omitempty"`
	Center    *Coordinate  `json:"center,omitempty"`
	Zoom      int          `json:"zoom,omitempty"`
	PaddingPx int          `json:"padding_px,omitempty"`
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// RoutePath is the polyline returned by the routing API, in marker order.
type RoutePath struct {
	Mode     TravelMode   `json:"mode"`
	Points   []Coordinate `json:"points"`
	Distance float64      `json:"distance_m"`
	Duration float64      `json:"duration_s"`
}

// ResolvedItinerary is the full map-overlay payload.
type ResolvedItinerary struct {
	Markers []ResolvedMarker `json:"markers"`
	Framing MapFraming       `json:"framing"`
	Route   *RoutePath       `json:"route,omitempty"`
}
