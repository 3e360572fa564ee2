package handlers

import (
	"net/http"
	"strconv"
	"time"

	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/services"
)

// RouteHandler exposes the route state engine's mutations. Structurally
// valid requests that reference an unknown stop or index are no-ops and
// still return the current route, matching the engine's contract.
type RouteHandler struct {
	Engine *services.RouteState
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respondRoute(w, r)
}

func (h *RouteHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.Engine.ClearRoute()
	h.respondRoute(w, r)
}

func (h *RouteHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	h.Engine.Reorder(req.From, req.To)
	h.respondRoute(w, r)
}

func (h *RouteHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req dto.MoveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	dir := services.MoveDirection(req.Direction)
	if dir != services.MoveUp && dir != services.MoveDown {
		writeError(w, r, http.StatusBadRequest, "direction must be up or down")
		return
	}

	h.Engine.Move(req.Stop, dir)
	h.respondRoute(w, r)
}

func (h *RouteHandler) Edit(w http.ResponseWriter, r *http.Request) {
	stopNumber, ok := pathStop(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid stop number")
		return
	}

	var req dto.EditStopRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	ops, errMsg := editOps(req)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}
	if len(ops) == 0 {
		writeError(w, r, http.StatusBadRequest, "no editable fields in body")
		return
	}

	h.Engine.UpdateStop(stopNumber, ops...)
	h.respondRoute(w, r)
}

func (h *RouteHandler) DeleteStop(w http.ResponseWriter, r *http.Request) {
	stopNumber, ok := pathStop(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid stop number")
		return
	}

	h.Engine.Delete(stopNumber)
	h.respondRoute(w, r)
}

func (h *RouteHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	stopNumber, ok := pathStop(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid stop number")
		return
	}

	var req dto.StatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	status, ok := domain.ParseStopStatus(req.Status)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "unknown status")
		return
	}

	h.Engine.SetStatus(stopNumber, status)
	h.respondRoute(w, r)
}

func (h *RouteHandler) ResetOrder(w http.ResponseWriter, r *http.Request) {
	h.Engine.ResetToOriginalOrder()
	h.respondRoute(w, r)
}

func (h *RouteHandler) respondRoute(w http.ResponseWriter, r *http.Request) {
	route, gen := h.Engine.Snapshot()
	writeJSON(w, r, http.StatusOK, routeResponse(route, gen))
}

func pathStop(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(r.PathValue("stop"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// editOps maps request fields onto the engine's closed edit operations,
// validating enum and time-of-day values up front.
func editOps(req dto.EditStopRequest) ([]services.EditOp, string) {
	ops := make([]services.EditOp, 0, 4)

	if req.Label != nil {
		ops = append(ops, services.EditLabel(*req.Label))
	}
	if req.PackageType != nil {
		pt := domain.ParsePackageType(*req.PackageType)
		if pt == domain.PackageUnknown && *req.PackageType != string(domain.PackageUnknown) {
			return nil, "unknown package_type"
		}
		ops = append(ops, services.EditPackageType(pt))
	}
	if req.StopType != nil {
		st := domain.ParseStopType(*req.StopType)
		if st == domain.StopUnknown && *req.StopType != string(domain.StopUnknown) {
			return nil, "unknown stop_type"
		}
		ops = append(ops, services.EditStopType(st))
	}
	if req.TBA != nil {
		ops = append(ops, services.EditTBA(*req.TBA))
	}
	if req.PackageLabel != nil {
		ops = append(ops, services.EditPackageLabel(*req.PackageLabel))
	}
	if req.DeliveryWindowEnd != nil {
		if *req.DeliveryWindowEnd != "" {
			if _, err := time.Parse("15:04", *req.DeliveryWindowEnd); err != nil {
				return nil, "delivery_window_end must be HH:MM"
			}
		}
		ops = append(ops, services.EditDeliveryWindowEnd(*req.DeliveryWindowEnd))
	}
	if req.IsPriority != nil {
		ops = append(ops, services.EditPriority(req.IsPriority))
	}

	return ops, ""
}
