package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/crop-advisor/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	country string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey, country string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		country: country,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		client:  client,
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, city string) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("openweather: %w", weather.ErrNoAPIKey)
	}

	values := url.Values{}
	values.Set("q", locationQuery(city, p.country))
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

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
		Main struct {
			Temp     *float64 `json:"temp"`
			Humidity *float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("decode openweather response: %w", err)
	}

	snap := weather.Snapshot{
		Temperature: payload.Main.Temp,
		Condition:   weather.ConditionUnknown,
	}
	if len(payload.Weather) > 0 && payload.Weather[0].Main != "" {
		snap.Condition = payload.Weather[0].Main
	}
	if payload.Main.Humidity != nil {
		snap.Humidity = weather.HumidityOf(*payload.Main.Humidity)
	}
	return snap, nil
}
