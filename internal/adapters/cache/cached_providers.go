package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/ports"
)

// Weather tolerates an old fix, so reports are cached for up to an hour
// per area; traffic goes stale within a poll cycle and is cached just
// long enough to absorb back-to-back refreshes for the same route.
const (
	DefaultWeatherTTL = time.Hour
	DefaultTrafficTTL = 45 * time.Second
)

// CachedWeather wraps a WeatherProvider with a TTL cache keyed by
// coordinate rounded to ~1km, so small GPS drift still hits.
// Cache errors are logged and treated as misses; the provider is the
// source of truth.
type CachedWeather struct {
	Provider ports.WeatherProvider
	Cache    ports.ReportCache
	TTL      time.Duration
}

func (w *CachedWeather) CurrentWeather(ctx context.Context, coords domain.Coordinates) (domain.WeatherReport, error) {
	key := fmt.Sprintf("weather:%.2f,%.2f", coords.Lat, coords.Lon)

	if b, ok, err := w.Cache.Get(ctx, key); err != nil {
		log.Printf("op=weather.cache.get key=%s err=%v", key, err)
	} else if ok {
		var report domain.WeatherReport
		if err := json.Unmarshal(b, &report); err == nil {
			return report, nil
		}
		log.Printf("op=weather.cache.decode key=%s err=%v", key, err)
	}

	report, err := w.Provider.CurrentWeather(ctx, coords)
	if err != nil {
		return domain.WeatherReport{}, err
	}

	ttl := w.TTL
	if ttl <= 0 {
		ttl = DefaultWeatherTTL
	}
	if b, err := json.Marshal(report); err == nil {
		if err := w.Cache.Put(ctx, key, b, ttl); err != nil {
			log.Printf("op=weather.cache.put key=%s err=%v", key, err)
		}
	}
	return report, nil
}

// CachedTraffic wraps a TrafficProvider with a short TTL cache keyed by
// the exact stop sequence, deduplicating the change-hook fetch and a
// near-simultaneous poll tick.
type CachedTraffic struct {
	Provider ports.TrafficProvider
	Cache    ports.ReportCache
	TTL      time.Duration
}

func (t *CachedTraffic) RouteTraffic(ctx context.Context, stops []domain.Stop) (ports.TrafficResult, error) {
	key := trafficKey(stops)

	if b, ok, err := t.Cache.Get(ctx, key); err != nil {
		log.Printf("op=traffic.cache.get key=%s err=%v", key, err)
	} else if ok {
		var res ports.TrafficResult
		if err := json.Unmarshal(b, &res); err == nil {
			return res, nil
		}
		log.Printf("op=traffic.cache.decode key=%s err=%v", key, err)
	}

	res, err := t.Provider.RouteTraffic(ctx, stops)
	if err != nil {
		return ports.TrafficResult{}, err
	}

	ttl := t.TTL
	if ttl <= 0 {
		ttl = DefaultTrafficTTL
	}
	if b, err := json.Marshal(res); err == nil {
		if err := t.Cache.Put(ctx, key, b, ttl); err != nil {
			log.Printf("op=traffic.cache.put key=%s err=%v", key, err)
		}
	}
	return res, nil
}

func trafficKey(stops []domain.Stop) string {
	var sb strings.Builder
	sb.WriteString("traffic:")
	for i, s := range stops {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", s.OriginalStopNumber)
	}
	return sb.String()
}
