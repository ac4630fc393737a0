package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seoulmate/seoul-travel-api/app/logger"
	"github.com/seoulmate/seoul-travel-api/internal/api/auth"
	"github.com/seoulmate/seoul-travel-api/internal/container"
)

// NewRouter mounts the full API surface. Three access tiers: public routes,
// owner-keyed routes (device id or token) and token-only routes.
func NewRouter(c *container.Container) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.StructuredLogger(c.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Device-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	jwtCfg := c.Config.JWT

	r.Route("/api/v1", func(r chi.Router) {
		// Public.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", c.AuthHandler.Register)
			r.Post("/login", c.AuthHandler.Login)
			r.Post("/refresh", c.AuthHandler.Refresh)
			r.Post("/logout", c.AuthHandler.Logout)
		})

		r.Route("/places", func(r chi.Router) {
			r.Get("/restaurants", c.PlaceHandler.GetRestaurants)
			r.Get("/restaurants/nearby", c.PlaceHandler.GetNearbyRestaurants)
			r.Get("/accommodations", c.PlaceHandler.GetAccommodations)
			r.Get("/attractions", c.PlaceHandler.GetAttractions)
			r.Get("/subway-stations", c.PlaceHandler.GetSubwayStations)
			r.Get("/search", c.PlaceHandler.SearchPlaces)
			r.Get("/{placeID}/reviews", c.InteractionHandler.ListPlaceReviews)
		})

		r.Get("/weather", c.WeatherHandler.GetWeather)
		r.Get("/events", c.EventHandler.GetEvents)
		r.Get("/courses/shared/{shareID}", c.CourseHandler.GetSharedCourse)

		// Owner keyed: anonymous device id or bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.DeviceID(jwtCfg))

			r.Post("/ai/recommend", c.RecommendHandler.Recommend)
			r.Post("/itinerary/resolve", c.ItineraryHandler.Resolve)
			r.Post("/itinerary/route", c.ItineraryHandler.Route)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireOwnerKey)

				r.Route("/courses", func(r chi.Router) {
					r.Post("/", c.CourseHandler.CreateCourse)
					r.Get("/", c.CourseHandler.ListCourses)
					r.Post("/save-itinerary", c.CourseHandler.SaveItinerary)
					r.Route("/{courseID}", func(r chi.Router) {
						r.Get("/", c.CourseHandler.GetCourse)
						r.Put("/", c.CourseHandler.UpdateCourse)
						r.Delete("/", c.CourseHandler.DeleteCourse)
						r.Post("/places", c.CourseHandler.AddPlace)
						r.Put("/places/reorder", c.CourseHandler.ReorderPlaces)
						r.Delete("/places/{placeID}", c.CourseHandler.RemovePlace)
					})
				})
			})
		})

		// Token only.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(jwtCfg, c.Logger))

			r.Get("/auth/me", c.AuthHandler.GetProfile)
			r.Put("/auth/me", c.AuthHandler.UpdateProfile)

			r.Post("/favorites/toggle", c.InteractionHandler.ToggleFavorite)
			r.Get("/favorites", c.InteractionHandler.ListFavorites)

			r.Post("/reviews", c.InteractionHandler.CreateReview)
			r.Get("/reviews/mine", c.InteractionHandler.ListMyReviews)
			r.Put("/reviews/{reviewID}", c.InteractionHandler.UpdateReview)
			r.Delete("/reviews/{reviewID}", c.InteractionHandler.DeleteReview)
		})
	})

	return r
}
