package handlers

import (
	"net/http"
	"strconv"

	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/services"
)

// LinksHandler generates navigation links for the route's current
// order. The waypoint limit is deployment configuration with a per-
// request override for clients targeting a different map provider.
type LinksHandler struct {
	Engine       *services.RouteState
	DefaultLimit int
}

func (h *LinksHandler) Links(w http.ResponseWriter, r *http.Request) {
	limit := h.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	route, _ := h.Engine.Snapshot()
	links := services.BuildNavigationLinks(route.Stops, limit)

	res := dto.ListLinksResponse{Links: make([]dto.LinkResponse, 0, len(links))}
	for _, l := range links {
		res.Links = append(res.Links, dto.LinkResponse{Label: l.Label, URL: l.URL})
	}
	writeJSON(w, r, http.StatusOK, res)
}
