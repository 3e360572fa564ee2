package domain

// Represents the courier's planned route: at most one location pseudo-stop
// at the head, followed by delivery stops in planned visit order.
// Slice order IS the delivery sequence; all reordering operates on the
// delivery sub-sequence and never moves the location stop.
type Route struct {
	Stops          []Stop
	RouteBlockCode string
}

// Empty reports whether the route holds no stops at all.
func (r Route) Empty() bool { return len(r.Stops) == 0 }

// Location returns the location pseudo-stop if present.
func (r Route) Location() (Stop, bool) {
	if len(r.Stops) > 0 && r.Stops[0].Kind == KindLocation {
		return r.Stops[0], true
	}
	return Stop{}, false
}

// DeliveryStops returns the delivery sub-sequence in route order.
func (r Route) DeliveryStops() []Stop {
	out := make([]Stop, 0, len(r.Stops))
	for _, s := range r.Stops {
		if s.Kind == KindDelivery {
			out = append(out, s)
		}
	}
	return out
}

// PendingCount returns the number of delivery stops still pending.
func (r Route) PendingCount() int {
	n := 0
	for _, s := range r.Stops {
		if s.Kind == KindDelivery && s.Pending() {
			n++
		}
	}
	return n
}

// CurrentStop returns the stop flagged as current, if any.
func (r Route) CurrentStop() (Stop, bool) {
	for _, s := range r.Stops {
		if s.IsCurrentStop {
			return s, true
		}
	}
	return Stop{}, false
}

// FindDelivery locates a delivery stop by its original stop number.
func (r Route) FindDelivery(stopNumber int) (int, bool) {
	for i, s := range r.Stops {
		if s.Kind == KindDelivery && s.OriginalStopNumber == stopNumber {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing pointer fields with the live route.
func (r Route) Clone() Route {
	out := Route{RouteBlockCode: r.RouteBlockCode}
	if r.Stops == nil {
		return out
	}
	out.Stops = make([]Stop, len(r.Stops))
	for i, s := range r.Stops {
		if s.IsPriority != nil {
			v := *s.IsPriority
			s.IsPriority = &v
		}
		if s.CompletedAt != nil {
			t := *s.CompletedAt
			s.CompletedAt = &t
		}
		if s.Coords != nil {
			c := *s.Coords
			s.Coords = &c
		}
		out.Stops[i] = s
	}
	return out
}
