package crop

import (
	"strconv"

	"github.com/i474232898/crop-advisor/internal/weather"
)

// Status discriminates a Result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusInfo    Status = "info"
)

// NoMatchMessage is returned when no rule applies.
const NoMatchMessage = "No specific crop recommendations found for the current conditions."

// NoMatchSuggestions returns the generic advice attached to a no-match result.
func NoMatchSuggestions() []string {
	return []string{"Consult with local agricultural experts for personalized advice."}
}

// Recommendation is one matched rule rendered for the client.
type Recommendation struct {
	Crop             string `json:"crop"`
	Advice           string `json:"advice"`
	WeatherCondition string `json:"weather_condition"`
	Temperature      string `json:"temperature"`
}

// Result is either a success carrying every matching rule in rule order, or an
// info result carrying a message and suggestions. Weather is set in both.
type Result struct {
	Status          Status
	Recommendations []Recommendation
	Message         string
	Suggestions     []string
	Weather         weather.Snapshot
}

// Recommend evaluates rules in order against snap and soil. Rules are not
// modified. An error is returned only when a rule's threshold has to be
// compared against a snapshot without a temperature.
func Recommend(snap weather.Snapshot, soil string, rules []Rule) (Result, error) {
	var recs []Recommendation
	for _, r := range rules {
		ok, err := r.Matches(snap.Condition, snap.Temperature, soil)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{
			Crop:             r.Crop,
			Advice:           r.Advice,
			WeatherCondition: snap.Condition,
			Temperature:      FormatTemperature(*snap.Temperature),
		})
	}

	if len(recs) == 0 {
		return Result{
			Status:      StatusInfo,
			Message:     NoMatchMessage,
			Suggestions: NoMatchSuggestions(),
			Weather:     snap,
		}, nil
	}
	return Result{
		Status:          StatusSuccess,
		Recommendations: recs,
		Weather:         snap,
	}, nil
}

// FormatTemperature renders t with the shortest exact decimal form, e.g. "12°C" or "12.5°C".
func FormatTemperature(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64) + "°C"
}
