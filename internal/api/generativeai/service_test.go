package generativeai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoulmate/seoul-travel-api/config"
)

func TestNewGeminiClientWithoutKey(t *testing.T) {
	// A missing key must not prevent the process from wiring up; the
	// failure surfaces on the first model call instead.
	client, err := NewGeminiClient(context.Background(), config.ExternalConfig{})
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "gemini-2.0-flash", client.Model())

	_, err = client.GenerateContent(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = client.Chat(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
