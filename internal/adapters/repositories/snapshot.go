package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"courier-route-service/internal/domain"
)

// Persisted route shape. Kept separate from the domain structs so the
// stored format is explicit and survives renames; every field of a stop
// round-trips exactly, including unset optionals.
type stopSnapshot struct {
	OriginalStopNumber int        `json:"original_stop_number"`
	Street             string     `json:"street"`
	City               string     `json:"city"`
	State              string     `json:"state"`
	Zip                string     `json:"zip"`
	Label              string     `json:"label"`
	PackageType        string     `json:"package_type"`
	StopType           string     `json:"stop_type"`
	TBA                string     `json:"tba"`
	PackageLabel       string     `json:"package_label"`
	DeliveryWindowEnd  string     `json:"delivery_window_end,omitempty"`
	IsPriority         *bool      `json:"is_priority,omitempty"`
	Kind               string     `json:"kind"`
	Status             string     `json:"status"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	IsCurrentStop      bool       `json:"is_current_stop"`
	Lat                *float64   `json:"lat,omitempty"`
	Lon                *float64   `json:"lon,omitempty"`
}

type routeSnapshot struct {
	Stops          []stopSnapshot `json:"stops"`
	RouteBlockCode string         `json:"route_block_code,omitempty"`
	SavedAt        time.Time      `json:"saved_at"`
}

func encodeRoute(route domain.Route) ([]byte, error) {
	snap := routeSnapshot{
		RouteBlockCode: route.RouteBlockCode,
		SavedAt:        time.Now().UTC(),
		Stops:          make([]stopSnapshot, 0, len(route.Stops)),
	}

	for _, s := range route.Stops {
		row := stopSnapshot{
			OriginalStopNumber: s.OriginalStopNumber,
			Street:             s.Street,
			City:               s.City,
			State:              s.State,
			Zip:                s.Zip,
			Label:              s.Label,
			PackageType:        string(s.PackageType),
			StopType:           string(s.StopType),
			TBA:                s.TBA,
			PackageLabel:       s.PackageLabel,
			DeliveryWindowEnd:  s.DeliveryWindowEnd,
			IsPriority:         s.IsPriority,
			Kind:               string(s.Kind),
			Status:             string(s.Status),
			CompletedAt:        s.CompletedAt,
			IsCurrentStop:      s.IsCurrentStop,
		}
		if s.Coords != nil {
			lat, lon := s.Coords.Lat, s.Coords.Lon
			row.Lat, row.Lon = &lat, &lon
		}
		snap.Stops = append(snap.Stops, row)
	}

	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode route snapshot: %w", err)
	}
	return b, nil
}

func decodeRoute(b []byte) (domain.Route, error) {
	var snap routeSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return domain.Route{}, fmt.Errorf("decode route snapshot: %w", err)
	}

	route := domain.Route{RouteBlockCode: snap.RouteBlockCode}
	for _, row := range snap.Stops {
		s := domain.Stop{
			OriginalStopNumber: row.OriginalStopNumber,
			Street:             row.Street,
			City:               row.City,
			State:              row.State,
			Zip:                row.Zip,
			Label:              row.Label,
			PackageType:        domain.PackageType(row.PackageType),
			StopType:           domain.StopType(row.StopType),
			TBA:                row.TBA,
			PackageLabel:       row.PackageLabel,
			DeliveryWindowEnd:  row.DeliveryWindowEnd,
			IsPriority:         row.IsPriority,
			Kind:               domain.StopKind(row.Kind),
			Status:             domain.StopStatus(row.Status),
			CompletedAt:        row.CompletedAt,
			IsCurrentStop:      row.IsCurrentStop,
		}
		if row.Lat != nil && row.Lon != nil {
			s.Coords = &domain.Coordinates{Lat: *row.Lat, Lon: *row.Lon}
		}
		route.Stops = append(route.Stops, s)
	}
	return route, nil
}
