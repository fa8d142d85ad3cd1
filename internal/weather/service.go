package weather

import (
	"context"
	"fmt"
	"log"

	"github.com/i474232898/crop-advisor/internal/metrics"
)

// Service is the boundary the rest of the application uses to read current
// conditions. Every provider failure is reported as ErrUnavailable.
type Service struct {
	provider Provider
	metrics  *metrics.Metrics
}

// NewService creates a new Service backed by a single provider.
func NewService(provider Provider, m *metrics.Metrics) *Service {
	return &Service{
		provider: provider,
		metrics:  m,
	}
}

// Current fetches the current snapshot for city with a single attempt.
func (s *Service) Current(ctx context.Context, city string) (Snapshot, error) {
	if s.provider == nil {
		log.Printf("ERROR: no weather provider configured; cannot fetch %s", city)
		return Snapshot{}, fmt.Errorf("%w: no provider configured", ErrUnavailable)
	}

	log.Printf("INFO: fetching weather for %s via %s", city, s.provider.Name())

	snap, err := s.provider.Fetch(ctx, city)
	if err != nil {
		log.Printf("WARN: provider %s fetch failed for %s: %v", s.provider.Name(), city, err)
		s.metrics.WeatherFailure(s.provider.Name())
		return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrUnavailable, s.provider.Name(), err)
	}
	return snap, nil
}
