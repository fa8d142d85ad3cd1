package advisor

import (
	"context"
	"fmt"

	"github.com/i474232898/crop-advisor/internal/crop"
	"github.com/i474232898/crop-advisor/internal/weather"
)

// WeatherSource supplies the current snapshot for a city.
type WeatherSource interface {
	Current(ctx context.Context, city string) (weather.Snapshot, error)
}

// RuleSource supplies the active crop rule set.
type RuleSource interface {
	Rules() ([]crop.Rule, error)
}

// Advice is a crop recommendation for one city and soil type.
type Advice struct {
	City string
	Soil string
	crop.Result
}

// Service orchestrates the weather lookup and rule evaluation for a request.
type Service struct {
	weather WeatherSource
	rules   RuleSource
}

// NewService creates a new Service.
func NewService(w WeatherSource, rules RuleSource) *Service {
	return &Service{
		weather: w,
		rules:   rules,
	}
}

// Recommend looks up the weather for city and evaluates the rule set for soil.
// Weather failures are returned unchanged (wrapping weather.ErrUnavailable);
// rule loading and evaluation failures are wrapped with their stage.
func (s *Service) Recommend(ctx context.Context, city, soil string) (Advice, error) {
	snap, err := s.weather.Current(ctx, city)
	if err != nil {
		return Advice{}, err
	}

	rules, err := s.rules.Rules()
	if err != nil {
		return Advice{}, fmt.Errorf("load crop rules: %w", err)
	}

	res, err := crop.Recommend(snap, soil, rules)
	if err != nil {
		return Advice{}, fmt.Errorf("evaluate crop rules: %w", err)
	}

	return Advice{City: city, Soil: soil, Result: res}, nil
}
