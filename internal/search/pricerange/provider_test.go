// internal/search/pricerange/provider_test.go
package pricerange

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/config"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/logger"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

// stubSource counts catalog queries and serves a fixed property list or
// a fixed error.
type stubSource struct {
	mu         sync.Mutex
	calls      int
	properties []models.Property
	err        error
}

func (s *stubSource) QueryActiveApproved(ctx context.Context) ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.properties, nil
}

func (s *stubSource) CheckBookingConflict(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (bool, error) {
	return false, nil
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func fptr(v float64) *float64 { return &v }

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		PriceCacheTTL:        1800000,
		FetchThrottle:        1000,
		MonthlyEstimateDays:  25,
		MonthlySampleDivisor: 30,
		Fallback: config.FallbackRange{
			DailyMin:    100,
			DailyMax:    5000,
			MonthlyMin:  5000,
			MonthlyMax:  500000,
			FlexibleMin: 100,
			FlexibleMax: 500000,
		},
	}
}

func testProperties() []models.Property {
	return []models.Property{
		{
			ID:            "p1",
			RentalType:    models.RentalTypeDaily,
			PricePerNight: 80,
		},
		{
			ID:            "p2",
			RentalType:    models.RentalTypeBoth,
			PricePerNight: 300,
			MonthlyPrice:  fptr(6000),
		},
		{
			ID:           "p3",
			RentalType:   models.RentalTypeMonthly,
			MonthlyPrice: fptr(9000),
		},
	}
}

func newTestProvider(t *testing.T, source *stubSource, cache *redis.Client) *Provider {
	t.Helper()
	return New(source, cache, testSearchConfig(), logger.NewNoOpLogger())
}

// ==========================
// Bounds Resolution Tests
// ==========================

func TestResolveBounds_DailyMode(t *testing.T) {
	src := &stubSource{properties: testProperties()}
	p := newTestProvider(t, src, nil)

	bounds := p.ResolveBounds(context.Background(), models.BookingModeDaily)
	assert.Equal(t, models.PriceRange{Min: 80, Max: 300}, bounds)
	assert.Equal(t, 1, src.callCount())
}

func TestResolveBounds_MonthlyModeUsesEstimates(t *testing.T) {
	src := &stubSource{properties: testProperties()}
	p := newTestProvider(t, src, nil)

	// p1 has no monthly price: estimate 80 * 25 = 2000
	bounds := p.ResolveBounds(context.Background(), models.BookingModeMonthly)
	assert.Equal(t, models.PriceRange{Min: 2000, Max: 9000}, bounds)
}

func TestResolveBounds_FlexibleModeSpansAllSamples(t *testing.T) {
	src := &stubSource{properties: testProperties()}
	p := newTestProvider(t, src, nil)

	// min sample is 80 (p1 nightly), max is 300 (p2 nightly); the
	// monthly-derived samples 200 and 300 sit in between
	bounds := p.ResolveBounds(context.Background(), models.BookingModeFlexible)
	assert.Equal(t, models.PriceRange{Min: 80, Max: 300}, bounds)
}

func TestResolveBounds_EmptyCatalogServesFallback(t *testing.T) {
	src := &stubSource{}
	p := newTestProvider(t, src, nil)

	bounds := p.ResolveBounds(context.Background(), models.BookingModeMonthly)
	assert.Equal(t, models.PriceRange{Min: 5000, Max: 500000}, bounds)
}

func TestResolveBounds_SourceErrorServesFallback(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}
	p := newTestProvider(t, src, nil)

	bounds := p.ResolveBounds(context.Background(), models.BookingModeDaily)
	assert.Equal(t, models.PriceRange{Min: 100, Max: 5000}, bounds)

	// the fallback was cached, so the broken source is not hammered
	p.ResolveBounds(context.Background(), models.BookingModeDaily)
	assert.Equal(t, 1, src.callCount())
}

// ==========================
// Cache & Throttle Tests
// ==========================

func TestResolveBounds_MemoizedWithinTTL(t *testing.T) {
	src := &stubSource{properties: testProperties()}
	p := newTestProvider(t, src, nil)

	first := p.ResolveBounds(context.Background(), models.BookingModeDaily)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, p.ResolveBounds(context.Background(), models.BookingModeDaily))
	}
	assert.Equal(t, 1, src.callCount())
}

func TestResolveBounds_ModesAreCachedIndependently(t *testing.T) {
	src := &stubSource{properties: testProperties()}
	p := newTestProvider(t, src, nil)

	p.ResolveBounds(context.Background(), models.BookingModeDaily)
	p.ResolveBounds(context.Background(), models.BookingModeMonthly)
	assert.Equal(t, 2, src.callCount())
}

func TestResolveBounds_ExpiredMemoRefetches(t *testing.T) {
	src := &stubSource{properties: testProperties()}
	p := newTestProvider(t, src, nil)

	base := time.Now()
	p.now = func() time.Time { return base }

	p.ResolveBounds(context.Background(), models.BookingModeDaily)
	require.Equal(t, 1, src.callCount())

	// past the TTL and past the throttle window
	p.now = func() time.Time { return base.Add(31 * time.Minute) }
	p.ResolveBounds(context.Background(), models.BookingModeDaily)
	assert.Equal(t, 2, src.callCount())
}

func TestResolveBounds_ThrottleServesStaleMemo(t *testing.T) {
	src := &stubSource{properties: testProperties()}
	p := newTestProvider(t, src, nil)

	base := time.Now()
	p.now = func() time.Time { return base }

	first := p.ResolveBounds(context.Background(), models.BookingModeDaily)
	require.Equal(t, 1, src.callCount())

	// TTL expired but the throttle window from the refetch below is
	// still open for the request after it
	p.now = func() time.Time { return base.Add(31 * time.Minute) }
	src.properties = nil
	p.Invalidate(context.Background(), models.BookingModeDaily)
	p.ResolveBounds(context.Background(), models.BookingModeDaily)
	require.Equal(t, 2, src.callCount())

	// expire the memo again without moving past the throttle window
	p.mu.Lock()
	entry := p.memo[models.BookingModeDaily]
	entry.expiresAt = base
	entry.bounds = first
	p.memo[models.BookingModeDaily] = entry
	p.mu.Unlock()

	p.now = func() time.Time { return base.Add(31*time.Minute + 500*time.Millisecond) }
	got := p.ResolveBounds(context.Background(), models.BookingModeDaily)
	assert.Equal(t, first, got, "stale bounds beat the fallback inside the throttle window")
	assert.Equal(t, 2, src.callCount())
}

func TestResolveBounds_ThrottleWithoutMemoServesFallback(t *testing.T) {
	src := &stubSource{properties: testProperties()}
	p := newTestProvider(t, src, nil)

	base := time.Now()
	p.now = func() time.Time { return base }

	// burn the throttle window without producing a memo entry
	require.True(t, p.allowFetch(models.BookingModeDaily))

	got := p.ResolveBounds(context.Background(), models.BookingModeDaily)
	assert.Equal(t, models.PriceRange{Min: 100, Max: 5000}, got)
	assert.Equal(t, 0, src.callCount())
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	src := &stubSource{properties: testProperties()}
	p := newTestProvider(t, src, nil)

	p.ResolveBounds(context.Background(), models.BookingModeDaily)
	p.Invalidate(context.Background(), models.BookingModeDaily)
	p.ResolveBounds(context.Background(), models.BookingModeDaily)
	assert.Equal(t, 2, src.callCount())
}

// ==========================
// Shared Cache Tests
// ==========================

func TestResolveBounds_RedisSharedAcrossProviders(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	src := &stubSource{properties: testProperties()}
	first := newTestProvider(t, src, rdb)
	second := newTestProvider(t, src, rdb)

	want := first.ResolveBounds(context.Background(), models.BookingModeDaily)
	require.Equal(t, 1, src.callCount())

	// the second instance has a cold memo but hits the shared layer
	got := second.ResolveBounds(context.Background(), models.BookingModeDaily)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, src.callCount())
}

func TestResolveBounds_CorruptRedisEntryFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	require.NoError(t, mr.Set("search:price_bounds_v1:daily", "not-json"))

	src := &stubSource{properties: testProperties()}
	p := newTestProvider(t, src, rdb)

	bounds := p.ResolveBounds(context.Background(), models.BookingModeDaily)
	assert.Equal(t, models.PriceRange{Min: 80, Max: 300}, bounds)
	assert.Equal(t, 1, src.callCount())
}
