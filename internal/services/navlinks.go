package services

import (
	"fmt"
	"net/url"
	"strings"

	"courier-route-service/internal/domain"
)

// DefaultWaypointLimit is the number of stops a single directions link
// may carry when the deployment does not configure its own limit.
const DefaultWaypointLimit = 10

// NavLink is one ready-to-open map link covering a contiguous slice of
// the route.
type NavLink struct {
	Label string
	URL   string
}

// BuildNavigationLinks produces map links for the delivery portion of
// the route in its current order. The location stop is a start-point
// concept and is excluded.
//
// Zero delivery stops produce no links. One stop produces a search
// link. Up to limit stops produce a single directions link (first stop
// origin, last stop destination, middle stops waypoints). Beyond the
// limit the sequence is partitioned into contiguous chunks of at most
// limit stops, one link per chunk, labeled with the 1-based stop range
// it covers. Chunks never reorder or overlap stops.
func BuildNavigationLinks(stops []domain.Stop, limit int) []NavLink {
	if limit < 1 {
		limit = DefaultWaypointLimit
	}

	deliveries := make([]domain.Stop, 0, len(stops))
	for _, s := range stops {
		if s.Kind == domain.KindDelivery {
			deliveries = append(deliveries, s)
		}
	}
	if len(deliveries) == 0 {
		return nil
	}

	links := make([]NavLink, 0, (len(deliveries)+limit-1)/limit)
	for start := 0; start < len(deliveries); start += limit {
		end := start + limit
		if end > len(deliveries) {
			end = len(deliveries)
		}
		chunk := deliveries[start:end]

		link := NavLink{Label: chunkLabel(start+1, end)}
		if len(chunk) == 1 {
			link.URL = searchURL(chunk[0])
		} else {
			link.URL = directionsURL(chunk)
		}
		links = append(links, link)
	}

	return links
}

func chunkLabel(first, last int) string {
	if first == last {
		return fmt.Sprintf("Stop %d", first)
	}
	return fmt.Sprintf("Stops %d–%d", first, last)
}

// searchURL builds a "find this address" link for a single stop.
func searchURL(stop domain.Stop) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", stop.Address())
	return "https://www.google.com/maps/search/?" + q.Encode()
}

// directionsURL builds a turn-by-turn link visiting the chunk in order.
func directionsURL(chunk []domain.Stop) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", chunk[0].Address())
	q.Set("destination", chunk[len(chunk)-1].Address())

	if len(chunk) > 2 {
		mids := make([]string, 0, len(chunk)-2)
		for _, s := range chunk[1 : len(chunk)-1] {
			mids = append(mids, s.Address())
		}
		q.Set("waypoints", strings.Join(mids, "|"))
	}
	q.Set("travelmode", "driving")

	return "https://www.google.com/maps/dir/?" + q.Encode()
}
