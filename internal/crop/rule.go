package crop

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// DefaultCrop names a rule whose "crop" field is missing.
	DefaultCrop = "Unknown"
	// DefaultAdvice is used for a rule whose "advice" field is missing.
	DefaultAdvice = "No specific advice available."
)

// Conditions are the requirements a weather snapshot and soil type must meet.
type Conditions struct {
	WeatherMain    string  `json:"weather_main"`
	TempMinCelsius float64 `json:"temp_min_celsius"`
	Soil           string  `json:"soil"`
}

// Rule maps a (condition, minimum temperature, soil) triple to a crop and advice.
// Rules are immutable once loaded.
type Rule struct {
	Crop       string     `json:"crop"`
	Advice     string     `json:"advice"`
	Conditions Conditions `json:"conditions"`
}

// UnmarshalJSON fills absent crop and advice fields with their defaults.
// Absent conditions decode to the zero value, which only matches an empty
// condition label and soil.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Crop       *string     `json:"crop"`
		Advice     *string     `json:"advice"`
		Conditions *Conditions `json:"conditions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Rule{Crop: DefaultCrop, Advice: DefaultAdvice}
	if raw.Crop != nil {
		r.Crop = *raw.Crop
	}
	if raw.Advice != nil {
		r.Advice = *raw.Advice
	}
	if raw.Conditions != nil {
		r.Conditions = *raw.Conditions
	}
	return nil
}

// Matches reports whether all three conditions hold: the condition label and
// soil compare case-insensitively and temp is at or above the threshold.
// The temperature is only consulted once the label matches, so a missing
// temperature is only an error for rules that get that far.
func (r Rule) Matches(condition string, temp *float64, soil string) (bool, error) {
	if !strings.EqualFold(condition, r.Conditions.WeatherMain) {
		return false, nil
	}
	if temp == nil {
		return false, fmt.Errorf("%w: cannot compare against %g°C for %s", ErrMissingTemperature, r.Conditions.TempMinCelsius, r.Crop)
	}
	if *temp < r.Conditions.TempMinCelsius {
		return false, nil
	}
	return strings.EqualFold(soil, r.Conditions.Soil), nil
}
