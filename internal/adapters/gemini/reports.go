package gemini

import (
	"context"
	"fmt"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"

	"github.com/google/generative-ai-go/genai"
)

const summarySystemPrompt = `You estimate aggregate metrics for a courier's delivery route.
Given a JSON list of stops in visiting order, return ONLY:

{"total_distance": "12.4 mi", "total_time": "1h 05m"}

Estimate realistic urban driving distance and time for visiting the stops in the given order,
including brief per-stop handling time. Any text outside the JSON object is an error.`

type summaryPayload struct {
	TotalDistance string `json:"total_distance"`
	TotalTime     string `json:"total_time"`
}

// SummarizeRoute estimates total distance and time for the route in its
// current order.
func (p *Provider) SummarizeRoute(ctx context.Context, stops []domain.Stop) (ports.SummaryResult, error) {
	if len(stops) == 0 {
		return ports.SummaryResult{}, fmt.Errorf("gemini summary: no stops")
	}

	list, err := stopsForPrompt(stops)
	if err != nil {
		return ports.SummaryResult{}, fmt.Errorf("gemini summary: %w", err)
	}

	var payload summaryPayload
	err = p.generateJSON(ctx, "gemini summary", summarySystemPrompt,
		[]genai.Part{genai.Text("Stops in visiting order:\n" + list)}, &payload)
	if err != nil {
		return ports.SummaryResult{}, err
	}
	if payload.TotalDistance == "" || payload.TotalTime == "" {
		return ports.SummaryResult{}, fmt.Errorf("gemini summary: incomplete response")
	}

	return ports.SummaryResult{
		TotalDistance: payload.TotalDistance,
		TotalTime:     payload.TotalTime,
	}, nil
}

const trafficSystemPrompt = `You report current typical traffic conditions for a courier's route area.
Given a JSON list of stops, return ONLY:

{"status": "light | moderate | heavy | unknown", "summary": "one short sentence"}

Base the status on current local time-of-day patterns for the area the addresses are in.
Any text outside the JSON object is an error.`

type trafficPayload struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

// RouteTraffic reports traffic conditions along the route.
func (p *Provider) RouteTraffic(ctx context.Context, stops []domain.Stop) (ports.TrafficResult, error) {
	if len(stops) == 0 {
		return ports.TrafficResult{}, fmt.Errorf("gemini traffic: no stops")
	}

	list, err := stopsForPrompt(stops)
	if err != nil {
		return ports.TrafficResult{}, fmt.Errorf("gemini traffic: %w", err)
	}

	var payload trafficPayload
	err = p.generateJSON(ctx, "gemini traffic", trafficSystemPrompt,
		[]genai.Part{genai.Text("Route stops:\n" + list)}, &payload)
	if err != nil {
		return ports.TrafficResult{}, err
	}

	return ports.TrafficResult{
		Status:  domain.ParseTrafficStatus(payload.Status),
		Summary: payload.Summary,
	}, nil
}

const weatherSystemPrompt = `You report current typical weather for a coordinate.
Return ONLY:

{"temperature": "78°F", "condition": "Partly cloudy", "icon": "partly-cloudy"}

icon is one of: clear, partly-cloudy, cloudy, rain, storm, snow, fog, wind.
Any text outside the JSON object is an error.`

type weatherPayload struct {
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
	Icon        string `json:"icon"`
}

// CurrentWeather reports weather near the given coordinate.
func (p *Provider) CurrentWeather(ctx context.Context, coords domain.Coordinates) (domain.WeatherReport, error) {
	var payload weatherPayload
	err := p.generateJSON(ctx, "gemini weather", weatherSystemPrompt,
		[]genai.Part{genai.Text("Coordinate (lat,lon): " + coords.String())}, &payload)
	if err != nil {
		return domain.WeatherReport{}, err
	}

	return domain.WeatherReport{
		Temperature: payload.Temperature,
		Condition:   payload.Condition,
		Icon:        payload.Icon,
	}, nil
}
