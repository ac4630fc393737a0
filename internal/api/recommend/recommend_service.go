package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"github.com/seoulmate/seoul-travel-api/app/observability/metrics"
	"github.com/seoulmate/seoul-travel-api/internal/api/generativeai"
	"github.com/seoulmate/seoul-travel-api/internal/api/place"
	"github.com/seoulmate/seoul-travel-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service turns a chat message plus history into a model reply that may
// carry an embedded itinerary.
type Service interface {
	GetRecommendation(ctx context.Context, userKey string, req types.RecommendRequest) (string, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	placeRepo place.Repository
	repo      Repository
	aiClient  generativeai.AIClient
	modelName string
}

func NewServiceImpl(placeRepo place.Repository, repo Repository, aiClient generativeai.AIClient, modelName string, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		placeRepo: placeRepo,
		repo:      repo,
		aiClient:  aiClient,
		modelName: modelName,
	}
}

// buildPlacesContext fetches the four reference sets concurrently and
// serializes them. Any single failure fails the whole build.
func (s *ServiceImpl) buildPlacesContext(ctx context.Context) (string, error) {
	var (
		restaurants    []types.Restaurant
		accommodations []types.Accommodation
		attractions    []types.Attraction
		stations       []types.SubwayStation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		restaurants, err = s.placeRepo.GetTopRestaurants(gctx, restaurantContextLimit)
		return err
	})
	g.Go(func() error {
		var err error
		accommodations, err = s.placeRepo.GetTopAccommodations(gctx, accommodationContextLimit)
		return err
	})
	g.Go(func() error {
		var err error
		attractions, err = s.placeRepo.GetAttractions(gctx, attractionContextLimit)
		return err
	})
	g.Go(func() error {
		var err error
		stations, err = s.placeRepo.GetSubwayStations(gctx, stationContextLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("failed to build places context: %w", err)
	}

	return FormatPlacesContext(restaurants, accommodations, attractions, stations), nil
}

func (s *ServiceImpl) GetRecommendation(ctx context.Context, userKey string, req types.RecommendRequest) (string, error) {
	l := s.logger.With(slog.String("service", "GetRecommendation"))

	placesContext, err := s.buildPlacesContext(ctx)
	if err != nil {
		return "", err
	}

	systemPrompt := SystemPrompt(placesContext)

	// The system prompt is seeded as a user turn with a fixed model
	// acknowledgment, then prior turns are replayed verbatim.
	history := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: "시스템 설정: " + systemPrompt}}},
		{Role: genai.RoleModel, Parts: []*genai.Part{{Text: SystemAck}}},
	}
	for _, turn := range req.History {
		role := genai.RoleModel
		if turn.Role == "user" {
			role = genai.RoleUser
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Content}},
		})
	}

	start := time.Now()
	response, err := s.aiClient.Chat(ctx, history, req.Message)
	latency := time.Since(start)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}

	m := metrics.Get()
	m.RecommendRequestsTotal.Add(ctx, 1)
	m.RecommendDurationSeconds.Record(ctx, latency.Seconds())

	// Log the interaction; a write failure must not lose the reply.
	_, err = s.repo.SaveInteraction(ctx, types.LlmInteraction{
		UserKey:      userKey,
		Prompt:       req.Message,
		ResponseText: response,
		ModelUsed:    s.modelName,
		LatencyMs:    int(latency.Milliseconds()),
	})
	if err != nil {
		l.WarnContext(ctx, "Failed to record LLM interaction", slog.Any("error", err))
	}

	return response, nil
}
