package types

// Event is one row of the city cultural-event feed, trimmed for the widget.
type Event struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Place     string `json:"place"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IsFree    string `json:"isFree"`
	Link      string `json:"link"`
	Image     string `json:"image"`
}
