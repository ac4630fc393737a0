package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seoulmate/seoul-travel-api/config"
	"github.com/seoulmate/seoul-travel-api/internal/api/auth"
	"github.com/seoulmate/seoul-travel-api/internal/api/course"
	"github.com/seoulmate/seoul-travel-api/internal/api/event"
	"github.com/seoulmate/seoul-travel-api/internal/api/generativeai"
	"github.com/seoulmate/seoul-travel-api/internal/api/interaction"
	"github.com/seoulmate/seoul-travel-api/internal/api/itinerary"
	"github.com/seoulmate/seoul-travel-api/internal/api/place"
	"github.com/seoulmate/seoul-travel-api/internal/api/recommend"
	"github.com/seoulmate/seoul-travel-api/internal/api/weather"
)

// Container wires repositories, services and handlers once at startup.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	AuthHandler        *auth.Handler
	PlaceHandler       *place.Handler
	RecommendHandler   *recommend.Handler
	ItineraryHandler   *itinerary.Handler
	CourseHandler      *course.Handler
	InteractionHandler *interaction.Handler
	WeatherHandler     *weather.Handler
	EventHandler       *event.Handler
}

func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) (*Container, error) {
	aiClient, err := generativeai.NewGeminiClient(ctx, cfg.External)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI client: %w", err)
	}

	placeRepo := place.NewRepositoryImpl(pool, logger)
	placeService := place.NewServiceImpl(placeRepo, logger)

	recommendRepo := recommend.NewRepositoryImpl(pool, logger)
	recommendService := recommend.NewServiceImpl(placeRepo, recommendRepo, aiClient, aiClient.Model(), logger)

	geocoder := itinerary.NewNominatimGeocoder(cfg.External.GeocodeURL, cfg.Resolver.GeocodeTTL, logger)
	router := itinerary.NewOSRMRouter(cfg.External.RouteURL, logger)
	itineraryService := itinerary.NewServiceImpl(placeRepo, geocoder, router, int64(cfg.Resolver.Concurrency), logger)

	courseRepo := course.NewRepositoryImpl(pool, logger)
	courseService := course.NewServiceImpl(courseRepo, logger)

	interactionRepo := interaction.NewRepositoryImpl(pool, logger)
	interactionService := interaction.NewServiceImpl(interactionRepo, logger)

	authRepo := auth.NewRepositoryImpl(pool, logger)
	authService := auth.NewServiceImpl(authRepo, cfg.JWT, logger)

	weatherService := weather.NewServiceImpl(cfg.External.KMABaseURL, cfg.External.KMAAPIKey, logger)
	eventService := event.NewServiceImpl(cfg.External.SeoulDataURL, cfg.External.SeoulDataAPIKey, aiClient, logger)

	return &Container{
		Config:             cfg,
		Logger:             logger,
		AuthHandler:        auth.NewHandler(authService, logger),
		PlaceHandler:       place.NewHandler(placeService, logger),
		RecommendHandler:   recommend.NewHandler(recommendService, logger),
		ItineraryHandler:   itinerary.NewHandler(itineraryService, logger),
		CourseHandler:      course.NewHandler(courseService, logger),
		InteractionHandler: interaction.NewHandler(interactionService, logger),
		WeatherHandler:     weather.NewHandler(weatherService, logger),
		EventHandler:       event.NewHandler(eventService, logger),
	}, nil
}
