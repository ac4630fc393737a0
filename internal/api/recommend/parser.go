package recommend

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

// ExtractStatus tags the outcome of pulling an itinerary out of model text.
type ExtractStatus int

const (
	// ExtractOK means a fenced JSON block parsed to a non-empty itinerary.
	ExtractOK ExtractStatus = iota
	// ExtractNone means the reply carried no fenced JSON block, or the block
	// had no itinerary field. Plain chat replies are valid, so this is not
	// an error.
	ExtractNone
	// ExtractMalformed means a fenced JSON block was present but did not
	// parse. Callers render the reply without a timeline card.
	ExtractMalformed
)

var fencedJSON = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")

// ExtractItinerary finds the first ```json fenced block in raw assistant
// text and returns its itinerary field.
func ExtractItinerary(content string) (*types.Itinerary, ExtractStatus) {
	match := fencedJSON.FindStringSubmatch(content)
	if match == nil {
		return nil, ExtractNone
	}

	var envelope struct {
		Itinerary *types.Itinerary `json:"itinerary"`
	}
	if err := json.Unmarshal([]byte(match[1]), &envelope); err != nil {
		return nil, ExtractMalformed
	}
	if envelope.Itinerary == nil || len(envelope.Itinerary.Days) == 0 {
		return nil, ExtractNone
	}
	return envelope.Itinerary, ExtractOK
}

// StripItineraryBlock removes fenced JSON blocks so the remaining prose can
// be rendered on its own.
func StripItineraryBlock(content string) string {
	return strings.TrimSpace(fencedJSON.ReplaceAllString(content, ""))
}
