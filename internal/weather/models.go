package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Condition labels in the OpenWeatherMap "weather.main" vocabulary.
// Crop rules are written against these labels.
const (
	ConditionUnknown      = "Unknown"
	ConditionClear        = "Clear"
	ConditionClouds       = "Clouds"
	ConditionRain         = "Rain"
	ConditionDrizzle      = "Drizzle"
	ConditionSnow         = "Snow"
	ConditionThunderstorm = "Thunderstorm"
	ConditionMist         = "Mist"
)

// HumidityUnavailable is rendered when a provider reports no humidity.
const HumidityUnavailable = "N/A"

// Snapshot is a normalized reading of the current weather for one city.
// Temperature is nil when the provider response carried no temperature.
type Snapshot struct {
	Temperature *float64 `json:"temperature"`
	Condition   string   `json:"condition"`
	Humidity    Humidity `json:"humidity"`
}

// Celsius is a convenience for building snapshots with a known temperature.
func Celsius(v float64) *float64 {
	return &v
}

// Humidity is a relative humidity percentage or the literal "N/A".
type Humidity struct {
	Percent float64
	Known   bool
}

// HumidityOf returns a known humidity value.
func HumidityOf(pct float64) Humidity {
	return Humidity{Percent: pct, Known: true}
}

func (h Humidity) String() string {
	if !h.Known {
		return HumidityUnavailable
	}
	return fmt.Sprintf("%g", h.Percent)
}

func (h Humidity) MarshalJSON() ([]byte, error) {
	if !h.Known {
		return json.Marshal(HumidityUnavailable)
	}
	return json.Marshal(h.Percent)
}

func (h *Humidity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*h = Humidity{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != HumidityUnavailable {
			return fmt.Errorf("invalid humidity %q", s)
		}
		*h = Humidity{}
		return nil
	}
	var pct float64
	if err := json.Unmarshal(data, &pct); err != nil {
		return err
	}
	*h = HumidityOf(pct)
	return nil
}
