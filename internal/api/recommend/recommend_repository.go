package recommend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seoulmate/seoul-travel-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists the model-call log.
type Repository interface {
	SaveInteraction(ctx context.Context, interaction types.LlmInteraction) (uuid.UUID, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepositoryImpl(pgpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) (uuid.UUID, error) {
	query := `
        INSERT INTO llm_interactions (user_key, prompt, response_text, model_used, latency_ms)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query,
		interaction.UserKey, interaction.Prompt, interaction.ResponseText,
		interaction.ModelUsed, interaction.LatencyMs,
	).Scan(&id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save LLM interaction", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("failed to save LLM interaction: %w", err)
	}
	return id, nil
}
