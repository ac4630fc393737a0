package generativeai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/seoulmate/seoul-travel-api/config"
)

// ErrNotConfigured is returned by model calls when no Gemini API key is set.
// The rest of the API keeps serving without one.
var ErrNotConfigured = errors.New("gemini api key is not configured")

// AIClient is the model surface the services depend on. Tests swap in a mock.
type AIClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Chat(ctx context.Context, history []*genai.Content, message string) (string, error)
}

var _ AIClient = (*GeminiClient)(nil)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, cfg config.ExternalConfig) (*GeminiClient, error) {
	model := cfg.GeminiModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if cfg.GeminiAPIKey == "" {
		// Key checks happen at call time so the process still boots.
		return &GeminiClient{model: model}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (ai *GeminiClient) Model() string {
	return ai.model
}

// GenerateContent runs a single-turn generation.
func (ai *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if ai.client == nil {
		return "", ErrNotConfigured
	}
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}

// Chat replays the given history into a fresh chat session and sends message.
func (ai *GeminiClient) Chat(ctx context.Context, history []*genai.Content, message string) (string, error) {
	if ai.client == nil {
		return "", ErrNotConfigured
	}
	chat, err := ai.client.Chats.Create(ctx, ai.model, nil, history)
	if err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}
	result, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("failed to send chat message: %w", err)
	}
	return result.Text(), nil
}
