package domain

import "time"

// Aggregate route metrics shown in the header. Distance and time come
// from the summary provider; TotalStops is counted locally. The block
// code is carried from the first extraction that reported one and
// survives summary refreshes.
type RouteSummary struct {
	TotalStops     int
	TotalDistance  string
	TotalTime      string
	RouteBlockCode string
}

type TrafficStatus string

const (
	TrafficLight    TrafficStatus = "light"
	TrafficModerate TrafficStatus = "moderate"
	TrafficHeavy    TrafficStatus = "heavy"
	TrafficUnknown  TrafficStatus = "unknown"
)

// ParseTrafficStatus normalizes provider output, defaulting to unknown.
func ParseTrafficStatus(v string) TrafficStatus {
	switch TrafficStatus(v) {
	case TrafficLight, TrafficModerate, TrafficHeavy:
		return TrafficStatus(v)
	}
	return TrafficUnknown
}

// Traffic conditions along the route at a point in time.
type TrafficReport struct {
	Status      TrafficStatus
	Summary     string
	LastUpdated time.Time
}

// Current weather near a coordinate.
type WeatherReport struct {
	Temperature string
	Condition   string
	Icon        string
}
