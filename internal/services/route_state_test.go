package services

import (
	"errors"
	"testing"

	"courier-route-service/internal/domain"
)

func deliveryRoute(numbers ...int) domain.Route {
	stops := make([]domain.Stop, 0, len(numbers))
	for _, n := range numbers {
		stops = append(stops, domain.Stop{
			OriginalStopNumber: n,
			Street:             "St " + string(rune('A'+n)),
			Kind:               domain.KindDelivery,
			Status:             domain.StatusPending,
		})
	}
	return domain.Route{Stops: stops}
}

func currentNumber(t *testing.T, route domain.Route) int {
	t.Helper()
	count := 0
	number := -1
	for _, s := range route.Stops {
		if s.IsCurrentStop {
			count++
			number = s.OriginalStopNumber
		}
	}
	if count > 1 {
		t.Fatalf("current-stop flag set on %d stops, want at most 1", count)
	}
	return number
}

func stopNumbers(route domain.Route) []int {
	out := make([]int, 0, len(route.Stops))
	for _, s := range route.Stops {
		out = append(out, s.OriginalStopNumber)
	}
	return out
}

func TestSetRouteRecomputesCurrentStop(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2, 3))

	route, gen := engine.Snapshot()
	if gen == 0 {
		t.Fatal("generation not bumped by SetRoute")
	}
	if got := currentNumber(t, route); got != 1 {
		t.Fatalf("current stop = %d, want 1", got)
	}
}

func TestClearRoute(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2))
	engine.ClearRoute()

	route, _ := engine.Snapshot()
	if !route.Empty() {
		t.Fatalf("expected empty route, got %d stops", len(route.Stops))
	}
}

func TestDeleteCurrentStopAdvancesPointer(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2))

	if !engine.Delete(1) {
		t.Fatal("delete stop 1 reported not found")
	}

	route, _ := engine.Snapshot()
	if len(route.Stops) != 1 {
		t.Fatalf("expected 1 stop, got %d", len(route.Stops))
	}
	if got := currentNumber(t, route); got != 2 {
		t.Fatalf("current stop = %d, want 2", got)
	}
}

func TestStatusTransitionMovesCurrentStop(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2))

	if !engine.SetStatus(1, domain.StatusDelivered) {
		t.Fatal("set status reported not found")
	}

	route, _ := engine.Snapshot()
	if got := currentNumber(t, route); got != 2 {
		t.Fatalf("current stop = %d, want 2", got)
	}

	first := route.Stops[0]
	if first.Status != domain.StatusDelivered {
		t.Fatalf("status = %q, want delivered", first.Status)
	}
	if first.IsCurrentStop {
		t.Fatal("delivered stop still flagged current")
	}
	if first.CompletedAt == nil {
		t.Fatal("CompletedAt not stamped on delivery")
	}
}

func TestStatusBackToPendingRestoresEligibility(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2))

	engine.SetStatus(1, domain.StatusSkipped)
	engine.SetStatus(1, domain.StatusPending)

	route, _ := engine.Snapshot()
	if got := currentNumber(t, route); got != 1 {
		t.Fatalf("current stop = %d, want 1 after un-skip", got)
	}
	if route.Stops[0].CompletedAt != nil {
		t.Fatal("CompletedAt not cleared on return to pending")
	}
}

func TestNoPendingStopsMeansNoCurrentStop(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2))

	engine.SetStatus(1, domain.StatusDelivered)
	engine.SetStatus(2, domain.StatusAttempted)

	route, _ := engine.Snapshot()
	if got := currentNumber(t, route); got != -1 {
		t.Fatalf("current stop = %d, want none", got)
	}
}

func TestReorderChangesCurrentStop(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2, 3))

	// Move stop 3 to the front: it becomes the first pending stop.
	if !engine.Reorder(2, 0) {
		t.Fatal("reorder reported out of range")
	}

	route, _ := engine.Snapshot()
	want := []int{3, 1, 2}
	got := stopNumbers(route)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if cur := currentNumber(t, route); cur != 3 {
		t.Fatalf("current stop = %d, want 3", cur)
	}
}

func TestReorderOutOfRangeIsNoOp(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2))
	_, before := engine.Snapshot()

	if engine.Reorder(0, 5) {
		t.Fatal("out-of-range reorder reported success")
	}
	if engine.Reorder(-1, 0) {
		t.Fatal("negative index reorder reported success")
	}

	route, after := engine.Snapshot()
	if after != before {
		t.Fatal("no-op reorder bumped the generation")
	}
	got := stopNumbers(route)
	if got[0] != 1 || got[1] != 2 {
		t.Fatalf("order changed by no-op reorder: %v", got)
	}
}

func TestMoveSwapsNeighbors(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2, 3))

	if !engine.Move(2, MoveUp) {
		t.Fatal("move reported not found")
	}

	route, _ := engine.Snapshot()
	got := stopNumbers(route)
	want := []int{2, 1, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	// Moving the head further up keeps it in place.
	if !engine.Move(2, MoveUp) {
		t.Fatal("edge move reported not found")
	}
	route, _ = engine.Snapshot()
	if stopNumbers(route)[0] != 2 {
		t.Fatalf("edge move relocated the head: %v", stopNumbers(route))
	}
}

func TestUpdateStopEditsFieldOnly(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2))

	if !engine.UpdateStop(2, EditLabel("gate code 4711")) {
		t.Fatal("update reported not found")
	}
	if engine.UpdateStop(99, EditLabel("nope")) {
		t.Fatal("update of unknown stop reported success")
	}

	route, _ := engine.Snapshot()
	if route.Stops[1].Label != "gate code 4711" {
		t.Fatalf("label = %q", route.Stops[1].Label)
	}
	if got := currentNumber(t, route); got != 1 {
		t.Fatalf("edit moved the current stop to %d", got)
	}

	prio := true
	engine.UpdateStop(1, EditPriority(&prio))
	engine.UpdateStop(1, EditStopType(domain.StopApartment))
	engine.UpdateStop(1, EditDeliveryWindowEnd("14:30"))
	engine.UpdateStop(1, EditPackageType(domain.PackageEnvelope))
	engine.UpdateStop(1, EditTBA("TBA123"))
	engine.UpdateStop(1, EditPackageLabel("LMN"))

	route, _ = engine.Snapshot()
	s := route.Stops[0]
	if s.IsPriority == nil || !*s.IsPriority {
		t.Fatal("priority not set")
	}
	if s.StopType != domain.StopApartment || s.DeliveryWindowEnd != "14:30" {
		t.Fatalf("stop type/window = %q/%q", s.StopType, s.DeliveryWindowEnd)
	}
	if s.PackageType != domain.PackageEnvelope || s.TBA != "TBA123" || s.PackageLabel != "LMN" {
		t.Fatalf("package fields = %q/%q/%q", s.PackageType, s.TBA, s.PackageLabel)
	}
}

func TestUpdateStopBatchesEditsInOneGeneration(t *testing.T) {
	var changes []RouteChange
	engine := NewRouteState(func(c RouteChange) { changes = append(changes, c) })
	engine.SetRoute(deliveryRoute(1, 2))

	_, before := engine.Snapshot()

	prio := true
	ok := engine.UpdateStop(2,
		EditLabel("gate code 4711"),
		EditPackageType(domain.PackageEnvelope),
		EditPriority(&prio),
	)
	if !ok {
		t.Fatal("batch update reported not found")
	}

	route, after := engine.Snapshot()
	if after != before+1 {
		t.Fatalf("generation = %d after a batch edit, want %d", after, before+1)
	}
	if len(changes) != 2 { // SetRoute plus the one batch
		t.Fatalf("change notifications = %d, want 2", len(changes))
	}

	s := route.Stops[1]
	if s.Label != "gate code 4711" || s.PackageType != domain.PackageEnvelope {
		t.Fatalf("batch edits not all applied: %+v", s)
	}
	if s.IsPriority == nil || !*s.IsPriority {
		t.Fatal("priority edit dropped from the batch")
	}

	if engine.UpdateStop(1) {
		t.Fatal("empty batch reported success")
	}
	if _, gen := engine.Snapshot(); gen != after {
		t.Fatal("empty batch bumped the generation")
	}
}

func TestResetToOriginalOrderKeepsEdits(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2, 3))

	engine.Reorder(0, 2)
	engine.SetStatus(2, domain.StatusDelivered)
	engine.UpdateStop(3, EditLabel("leave at door"))

	engine.ResetToOriginalOrder()

	route, _ := engine.Snapshot()
	got := stopNumbers(route)
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if route.Stops[1].Status != domain.StatusDelivered {
		t.Fatal("reset wiped a status")
	}
	if route.Stops[2].Label != "leave at door" {
		t.Fatal("reset wiped an edit")
	}
	if cur := currentNumber(t, route); cur != 1 {
		t.Fatalf("current stop = %d, want 1", cur)
	}
}

func TestApplyOptimizedOrder(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2, 3))
	engine.UpdateStop(2, EditLabel("fragile"))

	_, gen := engine.Snapshot()
	ordered := []domain.Stop{
		{OriginalStopNumber: 2},
		{OriginalStopNumber: 3},
		{OriginalStopNumber: 1},
	}

	start := domain.Coordinates{Lat: 33.45, Lon: -112.07}
	if err := engine.ApplyOptimizedOrder(gen, ordered, &start); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	route, _ := engine.Snapshot()
	loc, ok := route.Location()
	if !ok {
		t.Fatal("location stop missing after optimize")
	}
	if loc.Status != domain.StatusDelivered {
		t.Fatal("location stop must be resolved")
	}
	if loc.IsCurrentStop {
		t.Fatal("location stop flagged current")
	}

	got := stopNumbers(route)
	want := []int{domain.LocationStopNumber, 2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	// Order is applied by identity: local edits survive.
	if route.Stops[1].Label != "fragile" {
		t.Fatalf("edit lost on optimize: label = %q", route.Stops[1].Label)
	}
	if cur := currentNumber(t, route); cur != 2 {
		t.Fatalf("current stop = %d, want 2", cur)
	}
}

func TestApplyOptimizedOrderRejectsMismatch(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2, 3))
	before, gen := engine.Snapshot()

	cases := [][]domain.Stop{
		{{OriginalStopNumber: 1}, {OriginalStopNumber: 2}},                                                   // missing stop
		{{OriginalStopNumber: 1}, {OriginalStopNumber: 2}, {OriginalStopNumber: 9}},                          // foreign stop
		{{OriginalStopNumber: 1}, {OriginalStopNumber: 2}, {OriginalStopNumber: 2}},                          // duplicate
		{{OriginalStopNumber: 1}, {OriginalStopNumber: 2}, {OriginalStopNumber: 3}, {OriginalStopNumber: 4}}, // extra
	}

	for i, ordered := range cases {
		if err := engine.ApplyOptimizedOrder(gen, ordered, nil); !errors.Is(err, ErrOrderMismatch) {
			t.Fatalf("case %d: expected ErrOrderMismatch, got %v", i, err)
		}
	}

	after, _ := engine.Snapshot()
	got, want := stopNumbers(after), stopNumbers(before)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rejected optimize modified the route: %v", got)
		}
	}
}

func TestApplyOptimizedOrderDiscardsStaleResult(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2))
	_, gen := engine.Snapshot()

	// The route moves on while the optimize call is in flight.
	engine.Delete(2)

	ordered := []domain.Stop{{OriginalStopNumber: 2}, {OriginalStopNumber: 1}}
	if err := engine.ApplyOptimizedOrder(gen, ordered, nil); !errors.Is(err, ErrStaleRoute) {
		t.Fatalf("expected ErrStaleRoute, got %v", err)
	}
}

func TestLocationStopStaysAtHead(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(1, 2, 3))

	_, gen := engine.Snapshot()
	ordered := []domain.Stop{
		{OriginalStopNumber: 3},
		{OriginalStopNumber: 1},
		{OriginalStopNumber: 2},
	}
	start := domain.Coordinates{Lat: 33.45, Lon: -112.07}
	if err := engine.ApplyOptimizedOrder(gen, ordered, &start); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Shuffle the deliveries every way we can; the head never moves.
	engine.Reorder(0, 2)
	engine.Move(1, MoveUp)
	engine.ResetToOriginalOrder()
	engine.Delete(2)

	route, _ := engine.Snapshot()
	if route.Stops[0].Kind != domain.KindLocation {
		t.Fatalf("index 0 kind = %q, want location", route.Stops[0].Kind)
	}
	for _, s := range route.Stops[1:] {
		if s.Kind == domain.KindLocation {
			t.Fatal("second location stop found")
		}
	}
}

func TestMutationsPreserveStopSet(t *testing.T) {
	engine := NewRouteState(nil)
	engine.SetRoute(deliveryRoute(4, 1, 3, 2))

	engine.Reorder(1, 3)
	engine.Move(3, MoveDown)
	engine.ResetToOriginalOrder()

	route, _ := engine.Snapshot()
	if len(route.Stops) != 4 {
		t.Fatalf("stop count = %d, want 4", len(route.Stops))
	}
	seen := map[int]bool{}
	for _, n := range stopNumbers(route) {
		if seen[n] {
			t.Fatalf("duplicate stop number %d", n)
		}
		seen[n] = true
	}
	for _, n := range []int{1, 2, 3, 4} {
		if !seen[n] {
			t.Fatalf("stop %d lost", n)
		}
	}
}

func TestChangeHookFiresWithSnapshot(t *testing.T) {
	var changes []RouteChange
	engine := NewRouteState(func(c RouteChange) { changes = append(changes, c) })

	engine.SetRoute(deliveryRoute(1, 2))
	engine.SetStatus(1, domain.StatusDelivered)
	engine.UpdateStop(99, EditLabel("x")) // no-op, no notification

	if len(changes) != 2 {
		t.Fatalf("change notifications = %d, want 2", len(changes))
	}
	if changes[1].Generation != changes[0].Generation+1 {
		t.Fatalf("generations not monotonic: %d then %d", changes[0].Generation, changes[1].Generation)
	}
	if got := currentNumber(t, changes[1].Route); got != 2 {
		t.Fatalf("snapshot current stop = %d, want 2", got)
	}
}
