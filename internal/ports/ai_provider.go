package ports

import (
	"context"

	"courier-route-service/internal/domain"
)

// ExtractionResult is what one screenshot yields: zero or more delivery
// stops plus the route block code when the screenshot shows one.
type ExtractionResult struct {
	Stops          []domain.Stop
	RouteBlockCode string
}

// Port: extracts structured delivery stops from a single screenshot.
type StopExtractor interface {
	// ExtractStops reads one image and returns the stops it shows.
	ExtractStops(ctx context.Context, image []byte, mimeType string) (ExtractionResult, error)
}

// Inputs for a route-order optimization request.
type OptimizeRequest struct {
	Stops          []domain.Stop
	StartLocation  *domain.Coordinates
	AvoidLeftTurns bool
}

// Port: reorders delivery stops for an efficient drive.
// Implementations return the same stops in a new order; callers must
// verify set-equality before applying the result.
type RouteOptimizer interface {
	OptimizeOrder(ctx context.Context, req OptimizeRequest) ([]domain.Stop, error)
}

// Distance and duration estimate for a whole route.
type SummaryResult struct {
	TotalDistance string
	TotalTime     string
}

// Port: estimates aggregate route metrics.
type RouteSummarizer interface {
	SummarizeRoute(ctx context.Context, stops []domain.Stop) (SummaryResult, error)
}

// Traffic conditions estimate for a whole route.
type TrafficResult struct {
	Status  domain.TrafficStatus
	Summary string
}

// Port: reports current traffic along the route.
type TrafficProvider interface {
	RouteTraffic(ctx context.Context, stops []domain.Stop) (TrafficResult, error)
}

// Port: reports current weather near a coordinate.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, coords domain.Coordinates) (domain.WeatherReport, error)
}
