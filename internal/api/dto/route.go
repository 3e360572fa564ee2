package dto

import "time"

type StopResponse struct {
	StopNumber        int        `json:"stop_number"`
	Street            string     `json:"street"`
	City              string     `json:"city"`
	State             string     `json:"state"`
	Zip               string     `json:"zip"`
	Label             string     `json:"label"`
	PackageType       string     `json:"package_type"`
	StopType          string     `json:"stop_type"`
	TBA               string     `json:"tba"`
	PackageLabel      string     `json:"package_label"`
	DeliveryWindowEnd string     `json:"delivery_window_end,omitempty"`
	IsPriority        *bool      `json:"is_priority,omitempty"`
	Kind              string     `json:"kind"`
	Status            string     `json:"status"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	IsCurrentStop     bool       `json:"is_current_stop"`
	Lat               *float64   `json:"lat,omitempty"`
	Lon               *float64   `json:"lon,omitempty"`
}

type RouteResponse struct {
	Stops          []StopResponse `json:"stops"`
	RouteBlockCode string         `json:"route_block_code,omitempty"`
	Generation     uint64         `json:"generation"`
}

type ReorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type MoveRequest struct {
	Stop      int    `json:"stop"`
	Direction string `json:"direction"`
}

// EditStopRequest carries one or more field edits; absent fields are
// left untouched.
type EditStopRequest struct {
	Label             *string `json:"label"`
	PackageType       *string `json:"package_type"`
	StopType          *string `json:"stop_type"`
	TBA               *string `json:"tba"`
	PackageLabel      *string `json:"package_label"`
	DeliveryWindowEnd *string `json:"delivery_window_end"`
	IsPriority        *bool   `json:"is_priority"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type OptimizeRequest struct {
	StartLocation  *LatLon `json:"start_location"`
	AvoidLeftTurns bool    `json:"avoid_left_turns"`
}

type LinkResponse struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type ListLinksResponse struct {
	Links []LinkResponse `json:"links"`
}

type SummaryResponse struct {
	TotalStops     int    `json:"total_stops"`
	TotalDistance  string `json:"total_distance"`
	TotalTime      string `json:"total_time"`
	RouteBlockCode string `json:"route_block_code,omitempty"`
}

type TrafficResponse struct {
	Status      string    `json:"status"`
	Summary     string    `json:"summary"`
	LastUpdated time.Time `json:"last_updated"`
}

type WeatherResponse struct {
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
	Icon        string `json:"icon"`
}
