package types

// Sky is the bucketed forecast condition. Precipitation codes take
// precedence over sky codes when both are present.
type Sky string

const (
	SkyClear    Sky = "clear"
	SkyCloudy   Sky = "cloudy"
	SkyOvercast Sky = "overcast"
	SkyRain     Sky = "rain"
	SkySnow     Sky = "snow"
	SkySleet    Sky = "sleet"
)

type Weather struct {
	Temperature   string `json:"temperature"`
	Sky           Sky    `json:"sky"`
	Humidity      string `json:"humidity"`
	WindSpeed     string `json:"windSpeed"`
	Precipitation string `json:"precipitation"`
	Pop           string `json:"pop"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}
