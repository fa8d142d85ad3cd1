package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/crop-advisor/internal/chat"
	"github.com/i474232898/crop-advisor/internal/crop"
)

// Weather providers selectable with WEATHER_PROVIDER.
const (
	ProviderOpenWeather = "openweather"
	ProviderWeatherAPI  = "weatherapi"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string

	// WeatherProvider selects the current-conditions source.
	WeatherProvider string
	// WeatherCountry qualifies every city lookup, e.g. "Surat,IN".
	WeatherCountry string

	// HTTPTimeout bounds each outbound weather and chat call.
	HTTPTimeout time.Duration

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	// RulesPath is the crop rule resource; RulesReloadInterval 0 disables reloads.
	RulesPath           string
	RulesReloadInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.WeatherProvider = strings.ToLower(getenvDefault("WEATHER_PROVIDER", ProviderOpenWeather))
	switch cfg.WeatherProvider {
	case ProviderOpenWeather, ProviderWeatherAPI:
	default:
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER %q: want %s or %s", cfg.WeatherProvider, ProviderOpenWeather, ProviderWeatherAPI)
	}
	cfg.WeatherCountry = getenvDefault("WEATHER_COUNTRY", "IN")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.GeminiModel = getenvDefault("GEMINI_MODEL", chat.DefaultModel)
	cfg.GeminiBaseURL = getenvDefault("GEMINI_BASE_URL", chat.DefaultBaseURL)

	cfg.RulesPath = getenvDefault("CROP_RULES_PATH", crop.RulesFileName)
	reload, err := getenvDuration("RULES_RELOAD_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	cfg.RulesReloadInterval = reload

	cfg.Port = getenvDefault("PORT", "5000")

	if cfg.OpenWeatherAPIKey == "" && cfg.WeatherProvider == ProviderOpenWeather {
		log.Println("WARN: OpenWeather API key not found. Please set it in the .env file.")
	}
	if cfg.WeatherAPIKey == "" && cfg.WeatherProvider == ProviderWeatherAPI {
		log.Println("WARN: WeatherAPI key not found. Please set it in the .env file.")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
