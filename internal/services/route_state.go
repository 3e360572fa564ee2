package services

import (
	"errors"
	"sync"
	"time"

	"courier-route-service/internal/domain"
)

// ErrOrderMismatch reports that an optimized order is not a permutation
// of the stops currently on the route. The route is left untouched.
var ErrOrderMismatch = errors.New("optimized order does not match route stops")

// ErrStaleRoute reports that the route changed while an optimization
// was in flight; the late result is discarded.
var ErrStaleRoute = errors.New("route changed while optimization was in flight")

// MoveDirection selects which neighbor a stop swaps with.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// RouteChange is delivered to the change hook after every successful
// mutation. Route is a snapshot; receivers may keep it.
type RouteChange struct {
	Route      domain.Route
	Generation uint64
}

// RouteState is the sole owner of the authoritative route. Every
// mutation funnels through it so two invariants always hold: the
// location pseudo-stop, when present, sits at index 0, and exactly the
// first pending delivery stop in order carries the current-stop flag.
//
// All mutators serialize behind one mutex. Each successful mutation
// bumps the generation counter and fires the change hook (outside the
// lock) with a snapshot; in-flight provider calls compare generations
// to discard responses for a route that no longer exists.
type RouteState struct {
	mu         sync.Mutex
	route      domain.Route
	generation uint64
	onChange   func(RouteChange)
}

// NewRouteState builds an empty engine. onChange may be nil.
func NewRouteState(onChange func(RouteChange)) *RouteState {
	return &RouteState{onChange: onChange}
}

// Snapshot returns a deep copy of the route and its generation.
func (e *RouteState) Snapshot() (domain.Route, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.route.Clone(), e.generation
}

// SetRoute replaces the route wholesale, as after ingestion or a
// snapshot load. The current-stop flag is recomputed over the result.
func (e *RouteState) SetRoute(route domain.Route) {
	e.mu.Lock()
	e.route = route.Clone()
	recomputeCurrentStop(e.route.Stops)
	change := e.bump()
	e.mu.Unlock()

	e.notify(change)
}

// ClearRoute drops the route entirely.
func (e *RouteState) ClearRoute() {
	e.SetRoute(domain.Route{})
}

// UpdateStop applies one or more typed field edits to the delivery stop
// with the given number. The whole batch runs under one lock
// acquisition, so a multi-field edit bumps the generation and fires the
// change hook exactly once. Unknown stop numbers and empty batches are
// a no-op. Edits never change order or the current-stop flag.
func (e *RouteState) UpdateStop(stopNumber int, ops ...EditOp) bool {
	if len(ops) == 0 {
		return false
	}

	e.mu.Lock()
	i, ok := e.route.FindDelivery(stopNumber)
	if !ok {
		e.mu.Unlock()
		return false
	}
	for _, op := range ops {
		op.apply(&e.route.Stops[i])
	}
	change := e.bump()
	e.mu.Unlock()

	e.notify(change)
	return true
}

// SetStatus transitions a delivery stop's status. Leaving pending
// stamps CompletedAt; returning to pending clears it and makes the stop
// eligible to be current again.
func (e *RouteState) SetStatus(stopNumber int, status domain.StopStatus) bool {
	e.mu.Lock()
	i, ok := e.route.FindDelivery(stopNumber)
	if !ok {
		e.mu.Unlock()
		return false
	}

	stop := &e.route.Stops[i]
	stop.Status = status
	if status == domain.StatusPending {
		stop.CompletedAt = nil
	} else {
		now := time.Now().UTC()
		stop.CompletedAt = &now
	}
	recomputeCurrentStop(e.route.Stops)
	change := e.bump()
	e.mu.Unlock()

	e.notify(change)
	return true
}

// Reorder relocates one delivery stop within the delivery sub-sequence.
// Indices are relative to the delivery stops only; the location stop is
// outside the index space and never moves. Out-of-range indices are a
// no-op.
func (e *RouteState) Reorder(from, to int) bool {
	e.mu.Lock()
	offset := e.deliveryOffset()
	n := len(e.route.Stops) - offset
	if from < 0 || from >= n || to < 0 || to >= n {
		e.mu.Unlock()
		return false
	}
	if from == to {
		e.mu.Unlock()
		return true
	}

	stops := e.route.Stops
	moved := stops[offset+from]
	if from < to {
		copy(stops[offset+from:], stops[offset+from+1:offset+to+1])
	} else {
		copy(stops[offset+to+1:offset+from+1], stops[offset+to:offset+from])
	}
	stops[offset+to] = moved

	recomputeCurrentStop(stops)
	change := e.bump()
	e.mu.Unlock()

	e.notify(change)
	return true
}

// Move swaps a delivery stop with its neighbor in the given direction.
// A stop already at the edge of the delivery sub-sequence stays put.
func (e *RouteState) Move(stopNumber int, dir MoveDirection) bool {
	e.mu.Lock()
	i, ok := e.route.FindDelivery(stopNumber)
	if !ok {
		e.mu.Unlock()
		return false
	}

	offset := e.deliveryOffset()
	j := i
	switch dir {
	case MoveUp:
		j = i - 1
	case MoveDown:
		j = i + 1
	default:
		e.mu.Unlock()
		return false
	}
	if j < offset || j >= len(e.route.Stops) {
		e.mu.Unlock()
		return true
	}

	stops := e.route.Stops
	stops[i], stops[j] = stops[j], stops[i]
	recomputeCurrentStop(stops)
	change := e.bump()
	e.mu.Unlock()

	e.notify(change)
	return true
}

// Delete removes one delivery stop. The location stop is not reachable
// through this path.
func (e *RouteState) Delete(stopNumber int) bool {
	e.mu.Lock()
	i, ok := e.route.FindDelivery(stopNumber)
	if !ok {
		e.mu.Unlock()
		return false
	}

	e.route.Stops = append(e.route.Stops[:i], e.route.Stops[i+1:]...)
	recomputeCurrentStop(e.route.Stops)
	change := e.bump()
	e.mu.Unlock()

	e.notify(change)
	return true
}

// ResetToOriginalOrder re-sorts the delivery sub-sequence ascending by
// original stop number, leaving field edits and statuses intact.
func (e *RouteState) ResetToOriginalOrder() {
	e.mu.Lock()
	offset := e.deliveryOffset()
	stops := e.route.Stops[offset:]
	// Insertion sort keeps this dependency-free and is plenty for a
	// courier-sized list.
	for i := 1; i < len(stops); i++ {
		for j := i; j > 0 && stops[j-1].OriginalStopNumber > stops[j].OriginalStopNumber; j-- {
			stops[j-1], stops[j] = stops[j], stops[j-1]
		}
	}
	recomputeCurrentStop(e.route.Stops)
	change := e.bump()
	e.mu.Unlock()

	e.notify(change)
}

// ApplyOptimizedOrder replaces the delivery order with an externally
// supplied permutation. The order is applied by stop identity: field
// edits and statuses made since the optimize call was dispatched are
// preserved, only positions change.
//
// expectedGen is the generation the optimize request was built from; a
// route mutated since then rejects the result with ErrStaleRoute. An
// order that is not a permutation of the current delivery stops is
// rejected with ErrOrderMismatch and the route is left untouched.
// A non-nil start prepends (or refreshes) the location stop, already
// resolved so it never becomes current.
func (e *RouteState) ApplyOptimizedOrder(expectedGen uint64, ordered []domain.Stop, start *domain.Coordinates) error {
	e.mu.Lock()
	if e.generation != expectedGen {
		e.mu.Unlock()
		return ErrStaleRoute
	}

	current := e.route.DeliveryStops()
	if len(ordered) != len(current) {
		e.mu.Unlock()
		return ErrOrderMismatch
	}

	byNumber := make(map[int]domain.Stop, len(current))
	for _, s := range current {
		byNumber[s.OriginalStopNumber] = s
	}

	next := make([]domain.Stop, 0, len(ordered)+1)
	if start != nil {
		next = append(next, domain.NewLocationStop(*start))
	} else if loc, ok := e.route.Location(); ok {
		next = append(next, loc)
	}

	for _, s := range ordered {
		kept, ok := byNumber[s.OriginalStopNumber]
		if !ok {
			e.mu.Unlock()
			return ErrOrderMismatch
		}
		// Repeated numbers would slip past the length check otherwise.
		delete(byNumber, s.OriginalStopNumber)
		next = append(next, kept)
	}

	e.route.Stops = next
	recomputeCurrentStop(e.route.Stops)
	change := e.bump()
	e.mu.Unlock()

	e.notify(change)
	return nil
}

// deliveryOffset returns the slice index where delivery stops begin.
// Callers must hold the mutex.
func (e *RouteState) deliveryOffset() int {
	if _, ok := e.route.Location(); ok {
		return 1
	}
	return 0
}

// bump advances the generation and builds the change notification.
// Callers must hold the mutex.
func (e *RouteState) bump() RouteChange {
	e.generation++
	return RouteChange{Route: e.route.Clone(), Generation: e.generation}
}

func (e *RouteState) notify(change RouteChange) {
	if e.onChange != nil {
		e.onChange(change)
	}
}

// recomputeCurrentStop flags exactly the first pending delivery stop in
// list order, or none when no pending delivery stops remain. The
// location stop and resolved stops are never current.
func recomputeCurrentStop(stops []domain.Stop) {
	found := false
	for i := range stops {
		s := &stops[i]
		if !found && s.Kind == domain.KindDelivery && s.Pending() {
			s.IsCurrentStop = true
			found = true
			continue
		}
		s.IsCurrentStop = false
	}
}
