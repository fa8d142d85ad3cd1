package crop

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
)

// RulesFileName is the well-known name of the rule configuration resource.
const RulesFileName = "crop_rules.json"

var (
	// ErrMalformedRules is returned when the rule file exists but cannot be parsed.
	ErrMalformedRules = errors.New("malformed crop rules")

	// ErrMissingTemperature is returned when a rule threshold has to be
	// compared against a snapshot that carries no temperature.
	ErrMissingTemperature = errors.New("snapshot has no numeric temperature")
)

// DefaultRules returns a fresh copy of the built-in fallback rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Crop:   "Wheat",
			Advice: "Ideal for current conditions. Requires moderate watering.",
			Conditions: Conditions{
				WeatherMain:    "Clear",
				TempMinCelsius: 10,
				Soil:           "loamy",
			},
		},
		{
			Crop:   "Rice",
			Advice: "Suitable for wet conditions. Ensure proper water management.",
			Conditions: Conditions{
				WeatherMain:    "Rain",
				TempMinCelsius: 20,
				Soil:           "clay",
			},
		},
	}
}

// LoadRules reads the rule set at path. A missing file yields DefaultRules
// and a log notice; any other read or parse failure is returned.
func LoadRules(path string) ([]Rule, error) {
	rules, _, err := LoadRulesReportingFallback(path)
	return rules, err
}

// LoadRulesReportingFallback is LoadRules that also reports whether the
// built-in rules were substituted for a missing file.
func LoadRulesReportingFallback(path string) ([]Rule, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("WARN: %s not found. Using default rules.", path)
			return DefaultRules(), true, nil
		}
		return nil, false, fmt.Errorf("read crop rules %s: %w", path, err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return rules, false, nil
}

// ParseRules decodes a JSON array of rules.
func ParseRules(data []byte) ([]Rule, error) {
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRules, err)
	}
	if rules == nil {
		return nil, fmt.Errorf("%w: expected a JSON array of rules", ErrMalformedRules)
	}
	return rules, nil
}
