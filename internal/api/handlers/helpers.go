package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeBody decodes a single JSON object, rejecting unknown fields and
// trailing content.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errTrailingBody
	}
	return nil
}

var errTrailingBody = &trailingBodyError{}

type trailingBodyError struct{}

func (*trailingBodyError) Error() string { return "body must contain only one JSON object" }

func routeResponse(route domain.Route, generation uint64) dto.RouteResponse {
	res := dto.RouteResponse{
		RouteBlockCode: route.RouteBlockCode,
		Generation:     generation,
		Stops:          make([]dto.StopResponse, 0, len(route.Stops)),
	}

	for _, s := range route.Stops {
		row := dto.StopResponse{
			StopNumber:        s.OriginalStopNumber,
			Street:            s.Street,
			City:              s.City,
			State:             s.State,
			Zip:               s.Zip,
			Label:             s.Label,
			PackageType:       string(s.PackageType),
			StopType:          string(s.StopType),
			TBA:               s.TBA,
			PackageLabel:      s.PackageLabel,
			DeliveryWindowEnd: s.DeliveryWindowEnd,
			IsPriority:        s.IsPriority,
			Kind:              string(s.Kind),
			Status:            string(s.Status),
			CompletedAt:       s.CompletedAt,
			IsCurrentStop:     s.IsCurrentStop,
		}
		if s.Coords != nil {
			lat, lon := s.Coords.Lat, s.Coords.Lon
			row.Lat, row.Lon = &lat, &lon
		}
		res.Stops = append(res.Stops, row)
	}
	return res
}
