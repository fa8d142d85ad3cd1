package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/crop-advisor/internal/common"
	"github.com/i474232898/crop-advisor/internal/weather"
	"github.com/sony/gobreaker"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	country string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey, country string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		country: country,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		client:  client,
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, city string) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("weatherapi: %w", weather.ErrNoAPIKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI accepts "city,country" in q.
	values.Set("q", locationQuery(city, p.country))

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	if err != nil {
		return weather.Snapshot{}, err
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			TempC     *float64 `json:"temp_c"`
			Humidity  *float64 `json:"humidity"`
			Condition struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("decode weatherapi response: %w", err)
	}

	snap := weather.Snapshot{
		Temperature: payload.Current.TempC,
		Condition:   mapWeatherAPICondition(payload.Current.Condition.Text),
	}
	if payload.Current.Humidity != nil {
		snap.Humidity = weather.HumidityOf(*payload.Current.Humidity)
	}
	return snap, nil
}

// mapWeatherAPICondition translates WeatherAPI free text into the
// OpenWeatherMap main-condition labels used by crop rules.
func mapWeatherAPICondition(text string) string {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case common.ContainsAnyFold(text, "thunder", "storm"):
		return weather.ConditionThunderstorm
	case common.ContainsAnyFold(text, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.ConditionSnow
	case common.ContainsAnyFold(text, "drizzle"):
		return weather.ConditionDrizzle
	case common.ContainsAnyFold(text, "rain", "shower"):
		return weather.ConditionRain
	case common.ContainsAnyFold(text, "mist", "fog", "haze"):
		return weather.ConditionMist
	case common.ContainsAnyFold(text, "cloud", "overcast"):
		return weather.ConditionClouds
	case common.ContainsAnyFold(text, "sunny", "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}
