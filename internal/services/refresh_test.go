package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
)

type fakeSummarizer struct {
	res  ports.SummaryResult
	err  error
	hits atomic.Int32
}

func (f *fakeSummarizer) SummarizeRoute(context.Context, []domain.Stop) (ports.SummaryResult, error) {
	f.hits.Add(1)
	return f.res, f.err
}

type fakeTraffic struct {
	res  ports.TrafficResult
	err  error
	hits atomic.Int32
}

func (f *fakeTraffic) RouteTraffic(context.Context, []domain.Stop) (ports.TrafficResult, error) {
	f.hits.Add(1)
	return f.res, f.err
}

// eventually polls until cond holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestRefresherFetchesOnRouteChange(t *testing.T) {
	summarizer := &fakeSummarizer{res: ports.SummaryResult{TotalDistance: "12.4 mi", TotalTime: "1h 05m"}}
	traffic := &fakeTraffic{res: ports.TrafficResult{Status: domain.TrafficModerate, Summary: "slow on I-10"}}

	r := NewRefresher(summarizer, traffic, time.Hour)
	defer r.Close()

	route := deliveryRoute(1, 2, 3)
	route.RouteBlockCode = "CX9"
	r.RouteChanged(RouteChange{Route: route, Generation: 1})

	eventually(t, func() bool { return r.Summary().TotalDistance == "12.4 mi" }, "summary never refreshed")

	sum := r.Summary()
	if sum.TotalStops != 3 {
		t.Fatalf("total stops = %d, want 3", sum.TotalStops)
	}
	if sum.RouteBlockCode != "CX9" {
		t.Fatalf("block code = %q, want CX9", sum.RouteBlockCode)
	}

	eventually(t, func() bool { return r.Traffic().Status == domain.TrafficModerate }, "traffic never refreshed")
	if r.Traffic().LastUpdated.IsZero() {
		t.Fatal("traffic LastUpdated not stamped")
	}
}

func TestRefresherFallsBackOnFailure(t *testing.T) {
	summarizer := &fakeSummarizer{err: errors.New("model error")}
	traffic := &fakeTraffic{err: errors.New("model error")}

	r := NewRefresher(summarizer, traffic, time.Hour)
	defer r.Close()

	r.RouteChanged(RouteChange{Route: deliveryRoute(1, 2), Generation: 1})

	eventually(t, func() bool { return r.Summary().TotalStops == 2 }, "summary placeholder never stored")
	sum := r.Summary()
	if sum.TotalDistance != "N/A" || sum.TotalTime != "N/A" {
		t.Fatalf("placeholders = %q/%q, want N/A", sum.TotalDistance, sum.TotalTime)
	}

	eventually(t, func() bool { return !r.Traffic().LastUpdated.IsZero() }, "traffic cycle never ran")
	if r.Traffic().Status != domain.TrafficUnknown {
		t.Fatalf("traffic status = %q, want unknown", r.Traffic().Status)
	}
}

func TestRefresherPollsTraffic(t *testing.T) {
	summarizer := &fakeSummarizer{}
	traffic := &fakeTraffic{res: ports.TrafficResult{Status: domain.TrafficLight}}

	r := NewRefresher(summarizer, traffic, 20*time.Millisecond)
	defer r.Close()

	r.RouteChanged(RouteChange{Route: deliveryRoute(1), Generation: 1})

	// One fetch from the change hook plus at least two poll cycles.
	eventually(t, func() bool { return traffic.hits.Load() >= 3 }, "traffic poll never ticked")
}

func TestRefresherPollKeepsTickingDuringSlowFetch(t *testing.T) {
	traffic := &blockingTraffic{release: make(chan struct{})}
	defer close(traffic.release)

	r := NewRefresher(&fakeSummarizer{}, traffic, 10*time.Millisecond)
	defer r.Close()

	r.RouteChanged(RouteChange{Route: deliveryRoute(1), Generation: 1})

	// Every dispatched fetch hangs until the test ends; the ticker must
	// still fire new ones instead of waiting behind the first.
	eventually(t, func() bool { return traffic.started.Load() >= 3 }, "poll serialized behind a slow traffic fetch")
}

func TestRefresherStopsPollingWhenRouteEmpties(t *testing.T) {
	summarizer := &fakeSummarizer{}
	traffic := &fakeTraffic{res: ports.TrafficResult{Status: domain.TrafficHeavy}}

	r := NewRefresher(summarizer, traffic, 10*time.Millisecond)
	defer r.Close()

	r.RouteChanged(RouteChange{Route: deliveryRoute(1), Generation: 1})
	eventually(t, func() bool { return traffic.hits.Load() >= 1 }, "initial traffic fetch never ran")

	r.RouteChanged(RouteChange{Route: domain.Route{}, Generation: 2})

	if got := r.Summary(); got.TotalStops != 0 {
		t.Fatalf("summary not cleared: %+v", got)
	}
	if got := r.Traffic(); got.Status != domain.TrafficUnknown {
		t.Fatalf("traffic not cleared: %+v", got)
	}

	// Let in-flight cycles settle, then confirm the ticker is gone.
	time.Sleep(50 * time.Millisecond)
	before := traffic.hits.Load()
	time.Sleep(50 * time.Millisecond)
	if after := traffic.hits.Load(); after != before {
		t.Fatalf("traffic still polling after route emptied: %d -> %d", before, after)
	}
}

func TestRefresherIgnoresOutOfOrderChanges(t *testing.T) {
	summarizer := &fakeSummarizer{res: ports.SummaryResult{TotalDistance: "9.9 mi", TotalTime: "50m"}}
	traffic := &fakeTraffic{res: ports.TrafficResult{Status: domain.TrafficLight}}

	r := NewRefresher(summarizer, traffic, time.Hour)
	defer r.Close()

	// The engine fires the change hook outside its lock, so a clear can
	// be delivered before the older mutation it superseded.
	r.RouteChanged(RouteChange{Route: domain.Route{}, Generation: 2})
	r.RouteChanged(RouteChange{Route: deliveryRoute(1, 2), Generation: 1})

	time.Sleep(50 * time.Millisecond)
	if got := r.Summary(); got.TotalStops != 0 {
		t.Fatalf("stale change repopulated the summary: %+v", got)
	}
	if got := r.Traffic(); got.Status != domain.TrafficUnknown {
		t.Fatalf("stale change repopulated traffic: %+v", got)
	}
	if hits := summarizer.hits.Load(); hits != 0 {
		t.Fatalf("stale change triggered %d summary fetches, want 0", hits)
	}
}

func TestRefresherDropsStaleResponses(t *testing.T) {
	block := make(chan struct{})
	summarizer := &blockingSummarizer{block: block, res: ports.SummaryResult{TotalDistance: "old", TotalTime: "old"}}
	traffic := &fakeTraffic{res: ports.TrafficResult{Status: domain.TrafficLight}}

	r := NewRefresher(summarizer, traffic, time.Hour)
	defer r.Close()

	r.RouteChanged(RouteChange{Route: deliveryRoute(1, 2), Generation: 1})

	// A newer route arrives while the first summary fetch is blocked.
	r.RouteChanged(RouteChange{Route: domain.Route{}, Generation: 2})
	close(block)

	time.Sleep(50 * time.Millisecond)
	if got := r.Summary(); got.TotalDistance == "old" {
		t.Fatal("stale summary overwrote the newer route state")
	}
}

type blockingTraffic struct {
	release chan struct{}
	started atomic.Int32
}

func (b *blockingTraffic) RouteTraffic(context.Context, []domain.Stop) (ports.TrafficResult, error) {
	b.started.Add(1)
	<-b.release
	return ports.TrafficResult{Status: domain.TrafficLight}, nil
}

type blockingSummarizer struct {
	block chan struct{}
	res   ports.SummaryResult
}

func (b *blockingSummarizer) SummarizeRoute(context.Context, []domain.Stop) (ports.SummaryResult, error) {
	<-b.block
	return b.res, nil
}
