package services

import (
	"context"
	"fmt"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// ScreenshotUpload is one submitted image, as received from the device.
type ScreenshotUpload struct {
	Data     []byte
	MIMEType string
}

// maxConcurrentExtractions bounds simultaneous provider calls for one
// batch upload.
const maxConcurrentExtractions = 4

// ExtractRoute runs extraction for every screenshot concurrently, waits
// for all of them, and merges the results into one canonical route.
//
// A single failed extraction fails the whole batch; no partial-success
// merge exists, so the caller never sees a route built from half the
// screenshots. Batch results keep dispatch order, which is what the
// merger's first-wins policy keys on.
func ExtractRoute(ctx context.Context, extractor ports.StopExtractor, images []ScreenshotUpload) (domain.Route, error) {
	if len(images) == 0 {
		return domain.Route{}, fmt.Errorf("extract route: %w", ErrNoStops)
	}

	batches := make([]ports.ExtractionResult, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentExtractions)

	for i, img := range images {
		g.Go(func() error {
			res, err := extractor.ExtractStops(gctx, img.Data, img.MIMEType)
			if err != nil {
				return fmt.Errorf("extract route: screenshot %d: %w", i+1, err)
			}
			batches[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Route{}, err
	}

	route, err := MergeExtractions(batches)
	if err != nil {
		return domain.Route{}, fmt.Errorf("extract route: %w", err)
	}
	return route, nil
}
