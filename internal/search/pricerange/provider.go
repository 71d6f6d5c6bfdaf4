// internal/search/pricerange/provider.go

// Package pricerange resolves the valid [min,max] price bounds for a
// booking mode from the live catalog, memoized behind a TTL cache and a
// fetch throttle.
package pricerange

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/catalog"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/config"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/logger"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/metrics"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/models"
)

const cacheKeyFormat = "search:price_bounds_v1:%s"

type memoEntry struct {
	bounds    models.PriceRange
	expiresAt time.Time
}

// Provider resolves price bounds per booking mode. The cache and
// throttle state are owned by the instance, not package globals, so
// tests never pollute each other.
//
// Concurrent callers for the same mode are served eventually-consistent
// values: the throttle suppresses duplicate fetches within its window
// rather than single-flighting them.
type Provider struct {
	source catalog.Source
	cache  *redis.Client // optional shared cache layer, may be nil
	cfg    config.SearchConfig
	logger logger.Logger

	mu        sync.Mutex
	memo      map[models.BookingMode]memoEntry
	lastFetch map[models.BookingMode]time.Time

	now func() time.Time
}

func New(source catalog.Source, cache *redis.Client, cfg config.SearchConfig, log logger.Logger) *Provider {
	return &Provider{
		source:    source,
		cache:     cache,
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "pricerange"}),
		memo:      make(map[models.BookingMode]memoEntry),
		lastFetch: make(map[models.BookingMode]time.Time),
		now:       time.Now,
	}
}

// ResolveBounds returns the price bounds for the given booking mode.
// It never returns an error: fetch failures and empty catalogs degrade
// to the mode's fallback range.
func (p *Provider) ResolveBounds(ctx context.Context, mode models.BookingMode) models.PriceRange {
	if bounds, ok := p.freshMemo(mode); ok {
		metrics.PriceBoundsCacheHits.WithLabelValues("memory").Inc()
		return bounds
	}

	if bounds, ok := p.fromRedis(ctx, mode); ok {
		metrics.PriceBoundsCacheHits.WithLabelValues("redis").Inc()
		p.storeMemo(mode, bounds)
		return bounds
	}

	metrics.PriceBoundsCacheMisses.Inc()

	if !p.allowFetch(mode) {
		// Duplicate request inside the throttle window: serve whatever
		// we have, stale memo before fallback.
		if bounds, ok := p.staleMemo(mode); ok {
			return bounds
		}
		return p.fallback(mode)
	}

	bounds, err := p.fetchBounds(ctx, mode)
	if err != nil {
		p.logger.WithError(err).Warn("price bounds fetch failed, serving fallback", map[string]interface{}{
			"bookingMode": mode,
		})
		metrics.PriceBoundsFallbacks.WithLabelValues(string(mode)).Inc()
		bounds = p.fallback(mode)
	}

	// The fallback is cached too, so repeated empty results don't
	// re-fetch within the cache window.
	p.store(ctx, mode, bounds)
	return bounds
}

// Invalidate drops the cached bounds for a mode, forcing the next
// resolution to fetch.
func (p *Provider) Invalidate(ctx context.Context, mode models.BookingMode) {
	p.mu.Lock()
	delete(p.memo, mode)
	delete(p.lastFetch, mode)
	p.mu.Unlock()

	if p.cache != nil {
		if err := p.cache.Del(ctx, fmt.Sprintf(cacheKeyFormat, mode)).Err(); err != nil {
			p.logger.WithError(err).Debug("cache invalidation failed", nil)
		}
	}
}

func (p *Provider) fetchBounds(ctx context.Context, mode models.BookingMode) (models.PriceRange, error) {
	properties, err := p.source.QueryActiveApproved(ctx)
	if err != nil {
		return models.PriceRange{}, err
	}

	samples := collectSamples(properties, mode, p.cfg.MonthlyEstimateDays, p.cfg.MonthlySampleDivisor)
	if len(samples) == 0 {
		p.logger.Info("no eligible price samples, serving fallback", map[string]interface{}{
			"bookingMode": mode,
			"properties":  len(properties),
		})
		metrics.PriceBoundsFallbacks.WithLabelValues(string(mode)).Inc()
		return p.fallback(mode), nil
	}

	bounds := models.PriceRange{Min: samples[0], Max: samples[0]}
	for _, s := range samples[1:] {
		if s < bounds.Min {
			bounds.Min = s
		}
		if s > bounds.Max {
			bounds.Max = s
		}
	}

	p.logger.Debug("price bounds resolved", map[string]interface{}{
		"bookingMode": mode,
		"min":         bounds.Min,
		"max":         bounds.Max,
		"samples":     len(samples),
	})

	return bounds, nil
}

// collectSamples extracts one comparison price per eligible property for
// a concrete mode, or every independent sample for the unconstrained
// (flexible) default range.
func collectSamples(properties []models.Property, mode models.BookingMode, estimateDays, sampleDivisor int) []float64 {
	var samples []float64
	for _, prop := range properties {
		switch mode {
		case models.BookingModeDaily, models.BookingModeMonthly:
			if price, ok := prop.PriceForMode(mode, estimateDays); ok && price > 0 {
				samples = append(samples, price)
			}
		default:
			samples = append(samples, prop.PriceSamples(sampleDivisor)...)
		}
	}
	return samples
}

func (p *Provider) fallback(mode models.BookingMode) models.PriceRange {
	fb := p.cfg.Fallback
	switch mode {
	case models.BookingModeDaily:
		return models.PriceRange{Min: fb.DailyMin, Max: fb.DailyMax}
	case models.BookingModeMonthly:
		return models.PriceRange{Min: fb.MonthlyMin, Max: fb.MonthlyMax}
	default:
		return models.PriceRange{Min: fb.FlexibleMin, Max: fb.FlexibleMax}
	}
}

func (p *Provider) freshMemo(mode models.BookingMode) (models.PriceRange, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.memo[mode]
	if !ok || p.now().After(entry.expiresAt) {
		return models.PriceRange{}, false
	}
	return entry.bounds, true
}

// staleMemo returns the last resolved bounds regardless of TTL.
func (p *Provider) staleMemo(mode models.BookingMode) (models.PriceRange, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.memo[mode]
	return entry.bounds, ok
}

func (p *Provider) storeMemo(mode models.BookingMode, bounds models.PriceRange) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.memo[mode] = memoEntry{
		bounds:    bounds,
		expiresAt: p.now().Add(config.GetDuration(p.cfg.PriceCacheTTL)),
	}
}

// allowFetch records a fetch attempt and reports whether one may be
// issued, suppressing duplicates inside the throttle window.
func (p *Provider) allowFetch(mode models.BookingMode) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if last, ok := p.lastFetch[mode]; ok {
		if now.Sub(last) < config.GetDuration(p.cfg.FetchThrottle) {
			return false
		}
	}
	p.lastFetch[mode] = now
	return true
}

func (p *Provider) fromRedis(ctx context.Context, mode models.BookingMode) (models.PriceRange, bool) {
	if p.cache == nil {
		return models.PriceRange{}, false
	}

	val, err := p.cache.Get(ctx, fmt.Sprintf(cacheKeyFormat, mode)).Result()
	if err != nil {
		if err != redis.Nil {
			p.logger.WithError(err).Debug("bounds cache read failed", nil)
		}
		return models.PriceRange{}, false
	}

	var bounds models.PriceRange
	if err := json.Unmarshal([]byte(val), &bounds); err != nil {
		return models.PriceRange{}, false
	}
	return bounds, true
}

func (p *Provider) store(ctx context.Context, mode models.BookingMode, bounds models.PriceRange) {
	p.storeMemo(mode, bounds)

	if p.cache == nil {
		return
	}
	payload, err := json.Marshal(bounds)
	if err != nil {
		return
	}
	ttl := config.GetDuration(p.cfg.PriceCacheTTL)
	if err := p.cache.Set(ctx, fmt.Sprintf(cacheKeyFormat, mode), payload, ttl).Err(); err != nil {
		p.logger.WithError(err).Debug("bounds cache write failed", nil)
	}
}
