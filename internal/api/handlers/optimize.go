package handlers

import (
	"errors"
	"log"
	"net/http"

	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
)

// OptimizeHandler delegates route ordering to the AI provider and
// applies the result through the engine's permutation and staleness
// checks. A failed or mismatched optimization leaves the route as it
// was; no partial reorder is ever applied.
type OptimizeHandler struct {
	Engine    *services.RouteState
	Optimizer ports.RouteOptimizer
}

func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	route, gen := h.Engine.Snapshot()
	deliveries := route.DeliveryStops()
	if len(deliveries) == 0 {
		writeError(w, r, http.StatusBadRequest, "route has no stops to optimize")
		return
	}

	var start *domain.Coordinates
	if req.StartLocation != nil {
		start = &domain.Coordinates{Lat: req.StartLocation.Lat, Lon: req.StartLocation.Lon}
	}

	ordered, err := h.Optimizer.OptimizeOrder(r.Context(), ports.OptimizeRequest{
		Stops:          deliveries,
		StartLocation:  start,
		AvoidLeftTurns: req.AvoidLeftTurns,
	})
	if err != nil {
		log.Printf("optimize failed: stops=%d err=%v", len(deliveries), err)
		writeError(w, r, http.StatusBadGateway, "route optimization failed")
		return
	}

	switch err := h.Engine.ApplyOptimizedOrder(gen, ordered, start); {
	case errors.Is(err, services.ErrOrderMismatch):
		log.Printf("optimize rejected: stops=%d err=%v", len(deliveries), err)
		writeError(w, r, http.StatusBadGateway, "optimization returned a mismatched stop set")
		return
	case errors.Is(err, services.ErrStaleRoute):
		writeError(w, r, http.StatusConflict, "route changed during optimization, try again")
		return
	case err != nil:
		log.Printf("optimize apply failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondRoute(w, r)
}

func (h *OptimizeHandler) respondRoute(w http.ResponseWriter, r *http.Request) {
	route, gen := h.Engine.Snapshot()
	writeJSON(w, r, http.StatusOK, routeResponse(route, gen))
}
