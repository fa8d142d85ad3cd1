package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/i474232898/crop-advisor/internal/advisor"
	"github.com/i474232898/crop-advisor/internal/chat"
	"github.com/i474232898/crop-advisor/internal/crop"
	"github.com/i474232898/crop-advisor/internal/metrics"
	"github.com/i474232898/crop-advisor/internal/weather"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

const (
	msgMissingFields  = "Missing city or soil type"
	msgWeatherFailed  = "Could not fetch weather for %s. Please check the city name and try again."
	msgUnexpected     = "An unexpected error occurred. Please try again later."
	msgMissingQuery   = "Missing query"
	msgChatNoKey      = "Gemini API key is not configured."
	msgChatFailed     = "An error occurred with the AI model: %v"
	statusError       = "error"
	healthMessage     = "Backend service is running"
	corsAllowWildcard = "*"
)

var validate = validator.New()

// Advisor produces crop advice for a city and soil type.
type Advisor interface {
	Recommend(ctx context.Context, city, soil string) (advisor.Advice, error)
}

// Assistant answers free-form farming questions.
type Assistant interface {
	Ask(ctx context.Context, query string) (string, error)
}

// Options controls the middleware stack built by NewApp.
type Options struct {
	AccessLog    bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the Fiber app with the service's error handler and global middleware.
func NewApp(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "crop-advisor",
		DisableStartupMessage: true,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		ErrorHandler:          ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsAllowWildcard,
		AllowHeaders: corsAllowWildcard,
		AllowMethods: "GET,POST,OPTIONS",
	}))

	return app
}

// ErrorHandler renders errors that escape a handler, including recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorResponse{Status: statusError, Error: fe.Message})
	}
	log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
		Status:  statusError,
		Error:   msgUnexpected,
		Details: err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Advisor, assistant Assistant, m *metrics.Metrics) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthResponse{
			Status:  "ok",
			Message: healthMessage,
			Version: Version,
		})
	})
	app.Options("/health", preflight)

	app.Post("/recommend", recommendHandler(svc, m))
	app.Options("/recommend", preflight)

	app.Post("/chat", chatHandler(assistant, m))
	app.Options("/chat", preflight)

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
}

// preflight answers OPTIONS requests the CORS middleware does not treat as
// preflights (e.g. no Access-Control-Request-Method header).
func preflight(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, corsAllowWildcard)
	c.Set(fiber.HeaderAccessControlAllowHeaders, corsAllowWildcard)
	c.Set(fiber.HeaderAccessControlAllowMethods, corsAllowWildcard)
	// SendStatus would write the status text as the body.
	c.Status(fiber.StatusOK)
	return nil
}

func recommendHandler(svc Advisor, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req recommendRequest
		if err := bindJSON(c, &req); err != nil {
			m.Recommendation("invalid")
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: msgMissingFields})
		}

		city, soil := *req.City, *req.Soil
		log.Printf("INFO: recommending crops for %s on %s soil", city, soil)

		advice, err := svc.Recommend(c.UserContext(), city, soil)
		switch {
		case errors.Is(err, weather.ErrUnavailable):
			m.Recommendation(statusError)
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
				Status: statusError,
				Error:  fmt.Sprintf(msgWeatherFailed, city),
			})
		case err != nil:
			log.Printf("ERROR: recommend failed for %s: %v", city, err)
			m.Recommendation(statusError)
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
				Status:  statusError,
				Error:   msgUnexpected,
				Details: err.Error(),
			})
		}

		m.Recommendation(string(advice.Status))
		if advice.Status == crop.StatusSuccess {
			return c.JSON(recommendSuccess{
				Status:          string(advice.Status),
				City:            advice.City,
				SoilType:        advice.Soil,
				Recommendations: advice.Recommendations,
				Weather:         advice.Weather,
			})
		}
		return c.JSON(recommendInfo{
			Status:      string(advice.Status),
			Message:     advice.Message,
			Suggestions: advice.Suggestions,
			Weather:     advice.Weather,
		})
	}
}

func chatHandler(assistant Assistant, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatRequest
		if err := bindJSON(c, &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: msgMissingQuery})
		}

		answer, err := assistant.Ask(c.UserContext(), *req.Query)
		m.ChatRequest(err)
		switch {
		case errors.Is(err, chat.ErrNotConfigured):
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: msgChatNoKey})
		case err != nil:
			log.Printf("ERROR: chat failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: fmt.Sprintf(msgChatFailed, err)})
		}
		return c.JSON(chatResponse{Answer: answer})
	}
}

// bindJSON decodes the request body regardless of Content-Type and validates it.
// Absent, non-JSON and mistyped bodies all fail here, same as missing fields.
func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// Fields are pointers so "required" means "present", as an empty string is a valid value.
type recommendRequest struct {
	City *string `json:"city" validate:"required"`
	Soil *string `json:"soil" validate:"required"`
}

type chatRequest struct {
	Query *string `json:"query" validate:"required"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

type errorResponse struct {
	Status  string `json:"status,omitempty"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type recommendSuccess struct {
	Status          string                `json:"status"`
	City            string                `json:"city"`
	SoilType        string                `json:"soil_type"`
	Recommendations []crop.Recommendation `json:"recommendations"`
	Weather         weather.Snapshot      `json:"weather"`
}

type recommendInfo struct {
	Status      string           `json:"status"`
	Message     string           `json:"message"`
	Suggestions []string         `json:"suggestions"`
	Weather     weather.Snapshot `json:"weather"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}
