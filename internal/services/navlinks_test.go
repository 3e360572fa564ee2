package services

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"courier-route-service/internal/domain"
)

func linkStops(n int) []domain.Stop {
	stops := make([]domain.Stop, 0, n)
	for i := 1; i <= n; i++ {
		stops = append(stops, domain.Stop{
			OriginalStopNumber: i,
			Street:             fmt.Sprintf("%d Main St", i),
			City:               "Phoenix",
			State:              "AZ",
			Zip:                "85009",
			Kind:               domain.KindDelivery,
		})
	}
	return stops
}

func TestBuildNavigationLinksCounts(t *testing.T) {
	cases := []struct {
		stops int
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{2, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{40, 20, 2},
	}

	for _, tc := range cases {
		links := BuildNavigationLinks(linkStops(tc.stops), tc.limit)
		if len(links) != tc.want {
			t.Errorf("stops=%d limit=%d: got %d links, want %d", tc.stops, tc.limit, len(links), tc.want)
		}
	}
}

func TestBuildNavigationLinksChunking(t *testing.T) {
	links := BuildNavigationLinks(linkStops(25), 10)
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}

	wantLabels := []string{"Stops 1–10", "Stops 11–20", "Stops 21–25"}
	for i, want := range wantLabels {
		if links[i].Label != want {
			t.Errorf("link %d label = %q, want %q", i, links[i].Label, want)
		}
	}

	// Chunk boundaries: link 2 runs from stop 11 to stop 20 in order.
	u, err := url.Parse(links[1].URL)
	if err != nil {
		t.Fatalf("bad URL: %v", err)
	}
	q := u.Query()
	if got := q.Get("origin"); !strings.HasPrefix(got, "11 Main St") {
		t.Errorf("chunk 2 origin = %q", got)
	}
	if got := q.Get("destination"); !strings.HasPrefix(got, "20 Main St") {
		t.Errorf("chunk 2 destination = %q", got)
	}
	waypoints := strings.Split(q.Get("waypoints"), "|")
	if len(waypoints) != 8 {
		t.Fatalf("chunk 2 waypoints = %d, want 8", len(waypoints))
	}
	if !strings.HasPrefix(waypoints[0], "12 Main St") || !strings.HasPrefix(waypoints[7], "19 Main St") {
		t.Errorf("chunk 2 waypoint order wrong: first=%q last=%q", waypoints[0], waypoints[7])
	}
}

func TestBuildNavigationLinksSingleStopIsSearch(t *testing.T) {
	links := BuildNavigationLinks(linkStops(1), 10)
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if links[0].Label != "Stop 1" {
		t.Errorf("label = %q, want %q", links[0].Label, "Stop 1")
	}
	if !strings.Contains(links[0].URL, "/maps/search/") {
		t.Errorf("single stop should use a search link: %q", links[0].URL)
	}
}

func TestBuildNavigationLinksPreservesRouteOrder(t *testing.T) {
	stops := linkStops(3)
	stops[0], stops[2] = stops[2], stops[0] // route order 3, 2, 1

	links := BuildNavigationLinks(stops, 10)
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}

	u, _ := url.Parse(links[0].URL)
	q := u.Query()
	if !strings.HasPrefix(q.Get("origin"), "3 Main St") {
		t.Errorf("origin = %q, want current route head", q.Get("origin"))
	}
	if !strings.HasPrefix(q.Get("destination"), "1 Main St") {
		t.Errorf("destination = %q, want current route tail", q.Get("destination"))
	}
}

func TestBuildNavigationLinksExcludesLocationStop(t *testing.T) {
	stops := append(
		[]domain.Stop{domain.NewLocationStop(domain.Coordinates{Lat: 33.4, Lon: -112.0})},
		linkStops(2)...,
	)

	links := BuildNavigationLinks(stops, 10)
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if strings.Contains(links[0].URL, url.QueryEscape("Current Location")) {
		t.Errorf("location stop leaked into link: %q", links[0].URL)
	}
}

func TestBuildNavigationLinksEscapesAddresses(t *testing.T) {
	stops := []domain.Stop{{
		OriginalStopNumber: 1,
		Street:             "12 1/2 O'Hara Way & 5th",
		City:               "Phoenix",
		Kind:               domain.KindDelivery,
	}}

	links := BuildNavigationLinks(stops, 10)
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}

	u, err := url.Parse(links[0].URL)
	if err != nil {
		t.Fatalf("generated URL does not parse: %v", err)
	}
	if got := u.Query().Get("query"); got != "12 1/2 O'Hara Way & 5th, Phoenix" {
		t.Errorf("round-tripped query = %q", got)
	}
	if strings.Contains(links[0].URL, " ") || strings.Contains(links[0].URL, "&amp;") {
		t.Errorf("raw characters in URL: %q", links[0].URL)
	}
}
