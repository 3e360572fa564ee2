package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
)

// weatherTimeout bounds the weather lookup; the client is waiting on
// this one, unlike the background summary/traffic refreshes.
const weatherTimeout = 15 * time.Second

// ReportsHandler serves the summary and traffic reports maintained by
// the refresher, plus on-demand weather lookups.
type ReportsHandler struct {
	Refresher *services.Refresher
	Weather   ports.WeatherProvider
}

func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum := h.Refresher.Summary()
	writeJSON(w, r, http.StatusOK, dto.SummaryResponse{
		TotalStops:     sum.TotalStops,
		TotalDistance:  sum.TotalDistance,
		TotalTime:      sum.TotalTime,
		RouteBlockCode: sum.RouteBlockCode,
	})
}

func (h *ReportsHandler) Traffic(w http.ResponseWriter, r *http.Request) {
	rep := h.Refresher.Traffic()
	writeJSON(w, r, http.StatusOK, dto.TrafficResponse{
		Status:      string(rep.Status),
		Summary:     rep.Summary,
		LastUpdated: rep.LastUpdated,
	})
}

func (h *ReportsHandler) CurrentWeather(w http.ResponseWriter, r *http.Request) {
	coords, ok := queryCoords(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), weatherTimeout)
	defer cancel()

	report, err := h.Weather.CurrentWeather(ctx, coords)
	if err != nil {
		log.Printf("weather failed: coords=%s err=%v", coords, err)
		writeError(w, r, http.StatusBadGateway, "weather lookup failed")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.WeatherResponse{
		Temperature: report.Temperature,
		Condition:   report.Condition,
		Icon:        report.Icon,
	})
}

func queryCoords(r *http.Request) (domain.Coordinates, bool) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		return domain.Coordinates{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Lat: lat, Lon: lon}, true
}
