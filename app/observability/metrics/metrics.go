package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RecommendRequestsTotal   metric.Int64Counter
	RecommendDurationSeconds metric.Float64Histogram
	GeocodeLookupsTotal      metric.Int64Counter
	GeocodeMissesTotal       metric.Int64Counter
	RouteRequestsTotal       metric.Int64Counter
	DbQueryDurationSeconds   metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("seoul-travel-api")
		var err error
		m := &AppMetrics{}

		m.RecommendRequestsTotal, err = meter.Int64Counter(
			"recommend_requests_total",
			metric.WithDescription("Total number of AI recommendation requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommend_requests_total: %v", err)
		}

		m.RecommendDurationSeconds, err = meter.Float64Histogram(
			"recommend_duration_seconds",
			metric.WithDescription("Duration of AI recommendation requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommend_duration_seconds: %v", err)
		}

		m.GeocodeLookupsTotal, err = meter.Int64Counter(
			"geocode_lookups_total",
			metric.WithDescription("Total number of itinerary place lookups attempted"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create geocode_lookups_total: %v", err)
		}

		m.GeocodeMissesTotal, err = meter.Int64Counter(
			"geocode_misses_total",
			metric.WithDescription("Itinerary places that resolved to no coordinates"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create geocode_misses_total: %v", err)
		}

		m.RouteRequestsTotal, err = meter.Int64Counter(
			"route_requests_total",
			metric.WithDescription("Total number of route overlay requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create route_requests_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized metrics, initializing them if needed.
func Get() *AppMetrics {
	if appMetrics == nil {
		InitAppMetrics()
	}
	return appMetrics
}
