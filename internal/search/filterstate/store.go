// internal/search/filterstate/store.go

// Package filterstate owns the combined search criteria: the primary
// search group, the advanced filter group, the cross-field invalidation
// rules between them, and the derived active-filter signals.
package filterstate

import (
	"sync"
	"time"

	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/logger"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/models"
)

// syncState tracks the price-bounds synchronization state machine.
type syncState int

const (
	boundsUninitialized syncState = iota
	boundsInitialized
)

// Store is the single source of truth for both criteria groups. It is
// safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	search   models.SearchCriteria
	advanced models.AdvancedFilters

	state       syncState
	knownBounds *models.PriceRange // full catalog bounds last delivered

	logger logger.Logger
}

func New(log logger.Logger) *Store {
	return &Store{
		search: models.DefaultSearchCriteria(),
		logger: log.WithFields(map[string]interface{}{"component": "filterstate"}),
	}
}

// SearchPatch is a partial update of the primary criteria. Nil fields
// are left unchanged; ClearDates drops both dates explicitly.
type SearchPatch struct {
	Location       *string
	CheckIn        *time.Time
	CheckOut       *time.Time
	ClearDates     bool
	Guests         *int
	BookingType    *models.BookingMode
	FlexibleOption *string
	DurationMonths *int
}

// AdvancedPatch is a partial update of the advanced group. Nil fields
// are left unchanged.
type AdvancedPatch struct {
	PriceRange    *models.PriceRange
	PropertyTypes *[]string
	Amenities     *[]string
	Bedrooms      *int
	Bathrooms     *int
	BookingType   *models.BookingMode
}

// UpdateSearch merges the patch into the primary criteria. When the
// booking type changes, fields invalid under the new mode are cleared.
// Always succeeds.
func (s *Store) UpdateSearch(patch SearchPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevMode := s.search.BookingType

	if patch.Location != nil {
		s.search.Location = *patch.Location
	}
	if patch.ClearDates {
		s.search.CheckIn = nil
		s.search.CheckOut = nil
	}
	if patch.CheckIn != nil {
		in := *patch.CheckIn
		s.search.CheckIn = &in
	}
	if patch.CheckOut != nil {
		out := *patch.CheckOut
		s.search.CheckOut = &out
	}
	if patch.Guests != nil {
		s.search.Guests = *patch.Guests
	}
	if patch.FlexibleOption != nil {
		s.search.FlexibleOption = *patch.FlexibleOption
	}
	if patch.DurationMonths != nil {
		s.search.DurationMonths = *patch.DurationMonths
	}
	if patch.BookingType != nil {
		s.search.BookingType = *patch.BookingType
	}

	if s.search.BookingType != prevMode {
		s.search = clearForMode(s.search)
	}
}

// clearForMode encodes the invalidation table as a pure switch over the
// new booking mode.
func clearForMode(c models.SearchCriteria) models.SearchCriteria {
	switch c.BookingType {
	case models.BookingModeMonthly:
		// Monthly stays are duration-based, not date-based.
		c.CheckIn = nil
		c.CheckOut = nil
		c.FlexibleOption = ""
	case models.BookingModeDaily:
		c.DurationMonths = 0
		c.FlexibleOption = ""
	case models.BookingModeFlexible:
		c.CheckIn = nil
		c.CheckOut = nil
		c.DurationMonths = 0
	}
	return c
}

// UpdateAdvanced merges the patch into the advanced group. It never
// resets the price interval on booking-mode changes; SyncPriceBounds
// owns that, so a user-entered custom range is not fought over.
func (s *Store) UpdateAdvanced(patch AdvancedPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.PriceRange != nil {
		pr := *patch.PriceRange
		s.advanced.PriceRange = &pr
	}
	if patch.PropertyTypes != nil {
		s.advanced.PropertyTypes = append([]string(nil), (*patch.PropertyTypes)...)
	}
	if patch.Amenities != nil {
		s.advanced.Amenities = append([]string(nil), (*patch.Amenities)...)
	}
	if patch.Bedrooms != nil {
		s.advanced.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		s.advanced.Bathrooms = *patch.Bathrooms
	}
	if patch.BookingType != nil {
		s.advanced.BookingType = *patch.BookingType
	}
}

// ClearAll resets both groups and the bounds state machine to defaults.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.search = models.DefaultSearchCriteria()
	s.advanced = models.AdvancedFilters{}
	s.state = boundsUninitialized
	s.knownBounds = nil
}

// ClearAdvanced resets the advanced group only. The next bounds arrival
// re-initializes the displayed price range.
func (s *Store) ClearAdvanced() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advanced = models.AdvancedFilters{}
	s.state = boundsUninitialized
}

// SyncPriceBounds feeds a freshly resolved full catalog range into the
// store.
//
// On the first valid arrival the advanced price interval is set to the
// full range so the UI has something to display; this must not count as
// an active filter. On later arrivals (booking-mode changes), the
// interval is replaced only when it still equals the previous full
// range, i.e. the user never customized it. A narrowed interval is left
// untouched across mode switches.
func (s *Store) SyncPriceBounds(bounds models.PriceRange) {
	if bounds.Max <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.state == boundsUninitialized, s.advanced.PriceRange == nil:
		pr := bounds
		s.advanced.PriceRange = &pr
		s.state = boundsInitialized

	case s.knownBounds != nil && *s.advanced.PriceRange == *s.knownBounds:
		// Untouched full range follows the new mode's bounds silently.
		pr := bounds
		s.advanced.PriceRange = &pr
	}

	kb := bounds
	s.knownBounds = &kb
}

// Snapshot returns an immutable copy of the combined criteria for one
// evaluation pass.
func (s *Store) Snapshot() models.CombinedFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := models.CombinedFilters{
		Search:   s.search,
		Advanced: s.advanced,
	}
	if s.advanced.PriceRange != nil {
		pr := *s.advanced.PriceRange
		snap.Advanced.PriceRange = &pr
	}
	snap.Advanced.PropertyTypes = append([]string(nil), s.advanced.PropertyTypes...)
	snap.Advanced.Amenities = append([]string(nil), s.advanced.Amenities...)
	return snap
}

// KnownBounds returns the last full catalog bounds delivered, if any.
func (s *Store) KnownBounds() *models.PriceRange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.knownBounds == nil {
		return nil
	}
	kb := *s.knownBounds
	return &kb
}

// HasActiveFilters reports whether any user-meaningful filter is set.
func (s *Store) HasActiveFilters() bool {
	return s.ActiveFilterCount() > 0
}

// ActiveFilterCount counts the distinct active filter dimensions.
//
// The initial auto-set price range equals the full catalog bounds and
// therefore never counts. The advanced booking-type override counts only
// when it differs from daily AND another dimension is active:
// mode-switching alone is navigation, not filtering.
func (s *Store) ActiveFilterCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	if s.search.Location != "" {
		count++
	}
	if s.search.Guests > 1 {
		count++
	}
	if s.search.CheckIn != nil || s.search.CheckOut != nil {
		count++
	}
	if s.priceIntervalNarrowed() {
		count++
	}
	if len(s.advanced.PropertyTypes) > 0 {
		count++
	}
	if len(s.advanced.Amenities) > 0 {
		count++
	}
	if s.advanced.Bedrooms > 0 {
		count++
	}
	if s.advanced.Bathrooms > 0 {
		count++
	}

	if s.advanced.BookingType != "" && s.advanced.BookingType != models.BookingModeDaily && count > 0 {
		count++
	}

	return count
}

// priceIntervalNarrowed reports whether the interval is strictly
// narrower than the full catalog bounds. Unknown bounds never count.
func (s *Store) priceIntervalNarrowed() bool {
	if s.advanced.PriceRange == nil || s.knownBounds == nil {
		return false
	}
	pr, kb := *s.advanced.PriceRange, *s.knownBounds
	return pr.Min > kb.Min || pr.Max < kb.Max
}
