package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel   = "gemini-2.0-flash"
)

var (
	// ErrNotConfigured is returned when no API key was supplied.
	ErrNotConfigured = errors.New("gemini api key is not configured")

	errEmptyAnswer = errors.New("model returned no answer")
)

const persona = `You are 'Kisan Mitra,' an expert AI farming assistant for farmers in Gujarat, India.
Your goal is to provide simple, clear, and helpful advice.
If possible, use common Gujarati terms for farming concepts.`

// Config configures the Gemini assistant.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Assistant answers farming questions through a chat-completion model.
type Assistant struct {
	client *openai.Client
	model  string
}

// NewAssistant creates an Assistant. Without an API key every Ask fails
// with ErrNotConfigured.
func NewAssistant(cfg Config) *Assistant {
	a := &Assistant{model: cfg.Model}
	if a.model == "" {
		a.model = DefaultModel
	}
	if cfg.APIKey == "" {
		log.Println("WARN: Gemini API key not found; /chat will be unavailable")
		return a
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}
	a.client = openai.NewClientWithConfig(clientCfg)
	return a
}

// Configured reports whether the assistant has credentials.
func (a *Assistant) Configured() bool {
	return a.client != nil
}

// Ask sends query to the model with the assistant persona and returns its answer.
func (a *Assistant) Ask(ctx context.Context, query string) (string, error) {
	if a.client == nil {
		return "", ErrNotConfigured
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: persona},
			{Role: openai.ChatMessageRoleUser, Content: "Answer the following question: " + query},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyAnswer
	}
	return resp.Choices[0].Message.Content, nil
}
