package services

import (
	"errors"
	"sort"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
)

// ErrNoStops reports that extraction produced no usable stops at all.
// Callers surface it as an extraction failure, distinct from a route
// that legitimately has zero stops.
var ErrNoStops = errors.New("no stops extracted")

// MergeExtractions combines per-screenshot extraction results into one
// canonical delivery list.
//
// Screenshots often overlap, so the same stop number can appear in more
// than one batch. Batches are flattened in dispatch order and the FIRST
// occurrence of each stop number wins; later duplicates are dropped
// without merging fields. The kept stops are then sorted ascending by
// stop number, since the numbers printed in the screenshots are ground
// truth for the initial sequence.
//
// The route block code comes from the first batch reporting a non-empty
// value. The result carries no location stop and no current-stop flag;
// callers hand it to the route state engine, which recomputes those.
func MergeExtractions(batches []ports.ExtractionResult) (domain.Route, error) {
	seen := make(map[int]struct{})
	stops := make([]domain.Stop, 0, 32)
	blockCode := ""

	for _, batch := range batches {
		if blockCode == "" && batch.RouteBlockCode != "" {
			blockCode = batch.RouteBlockCode
		}

		for _, raw := range batch.Stops {
			if _, dup := seen[raw.OriginalStopNumber]; dup {
				continue
			}
			seen[raw.OriginalStopNumber] = struct{}{}

			raw.Kind = domain.KindDelivery
			raw.Status = domain.StatusPending
			raw.IsCurrentStop = false
			raw.CompletedAt = nil
			stops = append(stops, raw)
		}
	}

	if len(stops) == 0 {
		return domain.Route{}, ErrNoStops
	}

	sort.Slice(stops, func(i, j int) bool {
		return stops[i].OriginalStopNumber < stops[j].OriginalStopNumber
	})

	return domain.Route{Stops: stops, RouteBlockCode: blockCode}, nil
}
