package types

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn is one prior (role, content) pair replayed verbatim to the model.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

type RecommendRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history,omitempty"`
	Locale  string     `json:"locale,omitempty"`
}

// RecommendResponse carries the raw model reply plus the itinerary parsed
// out of it, when the reply embedded one.
type RecommendResponse struct {
	Response  string     `json:"response"`
	Itinerary *Itinerary `json:"itinerary,omitempty"`
}

// LlmInteraction records one model call for later inspection.
type LlmInteraction struct {
	ID           uuid.UUID `json:"id"`
	UserKey      string    `json:"user_key"`
	Prompt       string    `json:"prompt"`
	ResponseText string    `json:"response_text"`
	ModelUsed    string    `json:"model_used"`
	LatencyMs    int       `json:"latency_ms"`
	CreatedAt    time.Time `json:"created_at"`
}
