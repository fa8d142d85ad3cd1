package weather

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is returned when no snapshot could be obtained for a city.
	ErrUnavailable = errors.New("weather unavailable")

	// ErrNoAPIKey is returned by providers that are missing their credential.
	ErrNoAPIKey = errors.New("weather api key is not configured")
)

// Provider abstracts a current-conditions weather source (e.g. OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (Snapshot, error)
}
