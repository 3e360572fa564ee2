package handlers

import (
	"errors"
	"log"
	"net/http"

	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
)

// SnapshotHandler persists and restores the active route through the
// snapshot store.
type SnapshotHandler struct {
	Engine *services.RouteState
	Store  ports.RouteStore
}

func (h *SnapshotHandler) Save(w http.ResponseWriter, r *http.Request) {
	route, _ := h.Engine.Snapshot()
	if route.Empty() {
		writeError(w, r, http.StatusBadRequest, "no route to save")
		return
	}

	if err := h.Store.Save(r.Context(), route); err != nil {
		log.Printf("save route failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "could not save the route")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "saved"})
}

// Load replaces the active route with the stored snapshot. A snapshot
// that fails to parse has already been cleared by the store when the
// error surfaces here.
func (h *SnapshotHandler) Load(w http.ResponseWriter, r *http.Request) {
	route, err := h.Store.Load(r.Context())
	if err != nil {
		if errors.Is(err, ports.ErrNoSavedRoute) {
			writeError(w, r, http.StatusNotFound, "no saved route")
			return
		}
		log.Printf("load route failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "could not load the saved route")
		return
	}

	h.Engine.SetRoute(route)
	snapshot, gen := h.Engine.Snapshot()
	writeJSON(w, r, http.StatusOK, routeResponse(snapshot, gen))
}

func (h *SnapshotHandler) DeleteSaved(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Clear(r.Context()); err != nil {
		log.Printf("clear saved route failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "could not clear the saved route")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "cleared"})
}
