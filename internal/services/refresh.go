package services

import (
	"context"
	"log"
	"sync"
	"time"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
)

// DefaultTrafficInterval is how often live traffic is re-polled while
// the route has at least one delivery stop.
const DefaultTrafficInterval = 60 * time.Second

// fetchTimeout bounds each provider call issued by the refresher.
const fetchTimeout = 30 * time.Second

// Refresher owns the decision to (re)fetch the route summary and
// traffic report. The route state engine only announces that the route
// changed; all I/O scheduling lives here, so mutations never block on
// the provider.
//
// Summary and traffic failures are non-fatal: the refresher falls back
// to "N/A" / unknown placeholders and logs, keeping the rest of the UI
// usable. Responses carry the generation they were fetched for and are
// dropped when a newer route has arrived in the meantime.
type Refresher struct {
	summarizer ports.RouteSummarizer
	traffic    ports.TrafficProvider
	interval   time.Duration

	mu       sync.Mutex
	route    domain.Route
	gen      uint64
	summary  domain.RouteSummary
	report   domain.TrafficReport
	stopPoll chan struct{}
	closed   bool
}

func NewRefresher(summarizer ports.RouteSummarizer, traffic ports.TrafficProvider, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultTrafficInterval
	}
	return &Refresher{
		summarizer: summarizer,
		traffic:    traffic,
		interval:   interval,
		report:     domain.TrafficReport{Status: domain.TrafficUnknown},
	}
}

// RouteChanged is the route state engine's change hook. It records the
// new snapshot, kicks off summary and traffic fetches for it, and
// starts or cancels the traffic poll depending on whether any delivery
// stops remain.
//
// The engine fires the hook outside its own lock, so changes can arrive
// out of generation order. Only changes newer than the stored snapshot
// are applied; a late delivery for an older route is dropped here the
// same way its fetch results would be.
func (r *Refresher) RouteChanged(change RouteChange) {
	r.mu.Lock()
	if r.closed || change.Generation <= r.gen {
		r.mu.Unlock()
		return
	}

	r.route = change.Route
	r.gen = change.Generation

	deliveries := change.Route.DeliveryStops()
	if len(deliveries) == 0 {
		r.summary = domain.RouteSummary{}
		r.report = domain.TrafficReport{Status: domain.TrafficUnknown}
		r.stopPollLocked()
		r.mu.Unlock()
		return
	}

	if r.stopPoll == nil {
		ch := make(chan struct{})
		r.stopPoll = ch
		go r.poll(ch)
	}
	r.mu.Unlock()

	go r.refreshSummary(change)
	go r.refreshTraffic(change.Generation, deliveries)
}

// Summary returns the latest route summary, possibly a placeholder.
func (r *Refresher) Summary() domain.RouteSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Traffic returns the latest traffic report, possibly a placeholder.
func (r *Refresher) Traffic() domain.TrafficReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.report
}

// Close cancels the traffic poll. Fetches already in flight will be
// discarded by the generation guard at store time.
func (r *Refresher) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.stopPollLocked()
}

func (r *Refresher) stopPollLocked() {
	if r.stopPoll != nil {
		close(r.stopPoll)
		r.stopPoll = nil
	}
}

// poll re-fetches traffic on a fixed interval until stopped. A failed
// cycle stores the unknown placeholder and simply waits for the next
// tick; there is no backoff.
func (r *Refresher) poll(stop chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			gen := r.gen
			deliveries := r.route.DeliveryStops()
			r.mu.Unlock()

			if len(deliveries) == 0 {
				continue
			}
			// Dispatched like the change-hook path so a slow provider
			// cannot stretch the poll period past the interval.
			go r.refreshTraffic(gen, deliveries)
		}
	}
}

func (r *Refresher) refreshSummary(change RouteChange) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	deliveries := change.Route.DeliveryStops()
	summary := domain.RouteSummary{
		TotalStops:     len(deliveries),
		TotalDistance:  "N/A",
		TotalTime:      "N/A",
		RouteBlockCode: change.Route.RouteBlockCode,
	}

	res, err := r.summarizer.SummarizeRoute(ctx, deliveries)
	if err != nil {
		log.Printf("op=summary.refresh gen=%d err=%v", change.Generation, err)
	} else {
		summary.TotalDistance = res.TotalDistance
		summary.TotalTime = res.TotalTime
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != change.Generation {
		return
	}
	r.summary = summary
}

func (r *Refresher) refreshTraffic(gen uint64, deliveries []domain.Stop) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	report := domain.TrafficReport{
		Status:      domain.TrafficUnknown,
		LastUpdated: time.Now().UTC(),
	}

	res, err := r.traffic.RouteTraffic(ctx, deliveries)
	if err != nil {
		log.Printf("op=traffic.refresh gen=%d err=%v", gen, err)
	} else {
		report.Status = res.Status
		report.Summary = res.Summary
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return
	}
	r.report = report
}
