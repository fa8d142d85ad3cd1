package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/i474232898/crop-advisor/internal/advisor"
	httpapi "github.com/i474232898/crop-advisor/internal/api/http"
	"github.com/i474232898/crop-advisor/internal/chat"
	"github.com/i474232898/crop-advisor/internal/config"
	"github.com/i474232898/crop-advisor/internal/metrics"
	"github.com/i474232898/crop-advisor/internal/scheduler"
	"github.com/i474232898/crop-advisor/internal/store"
	"github.com/i474232898/crop-advisor/internal/weather"
	"github.com/i474232898/crop-advisor/internal/weather/providers"
)

func main() {
	// Load configuration (also reads .env if present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	m := metrics.New()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var provider weather.Provider
	switch cfg.WeatherProvider {
	case config.ProviderWeatherAPI:
		provider = providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey, cfg.WeatherCountry)
	default:
		provider = providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.WeatherCountry)
	}
	weatherSvc := weather.NewService(provider, m)

	// Malformed rules are fatal at startup; a missing file falls back to the defaults.
	rules := store.NewRuleStore(cfg.RulesPath)
	if err := rules.Reload(); err != nil {
		log.Fatalf("failed to load crop rules: %v", err)
	}

	sched := scheduler.New(cfg.RulesReloadInterval, rules, m)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	assistant := chat.NewAssistant(chat.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: httpClient,
	})

	app := httpapi.NewApp(httpapi.Options{
		AccessLog:    true,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	httpapi.RegisterRoutes(app, advisor.NewService(weatherSvc, rules), assistant, m)

	go func() {
		log.Printf("INFO: crop-advisor listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
