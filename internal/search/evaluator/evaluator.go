// internal/search/evaluator/evaluator.go

// Package evaluator filters an in-memory property list through an
// ordered conjunction of independent predicates. It is stateless and
// deterministic given its inputs, never returns an error, and degrades
// to pass-through or fail-open on missing or malformed data: a wrong
// inclusion costs one extra card on screen, a crash costs the whole
// results page.
package evaluator

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/metrics"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/models"
)

// Evaluator applies the predicate chain. The monthly-estimate constant
// is injected so pricing stays consistent with the bounds provider.
type Evaluator struct {
	monthlyEstimateDays int
}

func New(monthlyEstimateDays int) *Evaluator {
	if monthlyEstimateDays <= 0 {
		monthlyEstimateDays = models.DefaultMonthlyEstimateDays
	}
	return &Evaluator{monthlyEstimateDays: monthlyEstimateDays}
}

// predicate reports whether a property survives one filter step.
type predicate func(models.Property) bool

// Filter returns the subset of properties matching the combined
// criteria. Predicates are applied in a fixed, documented order; any
// predicate whose triggering condition is absent passes everything
// through.
func (e *Evaluator) Filter(properties []models.Property, criteria models.CombinedFilters, bounds *models.PriceRange) []models.Property {
	start := time.Now()
	defer func() {
		metrics.FilterEvaluations.Inc()
		metrics.FilterEvaluationDuration.Observe(time.Since(start).Seconds())
	}()

	c := criteria.Normalized()
	mode := c.EffectiveBookingMode()

	chain := []predicate{
		e.locationPredicate(c.Search.Location),
		e.guestsPredicate(c.Search.Guests),
		e.bookingModePredicate(mode),
		e.pricePredicate(c.Advanced.PriceRange, bounds, mode),
		e.propertyTypePredicate(c.Advanced.PropertyTypes),
		e.amenitiesPredicate(c.Advanced.Amenities),
		e.minCountPredicate(c.Advanced.Bedrooms, func(p models.Property) int { return p.Bedrooms }),
		e.minCountPredicate(c.Advanced.Bathrooms, func(p models.Property) int { return p.Bathrooms }),
		e.availabilityPredicate(c.Search.CheckIn, c.Search.CheckOut),
	}

	filtered := make([]models.Property, 0, len(properties))
	filtered = append(filtered, properties...)
	for _, keep := range chain {
		filtered = applyPredicate(filtered, keep)
	}
	return filtered
}

func applyPredicate(properties []models.Property, keep predicate) []models.Property {
	out := make([]models.Property, 0, len(properties))
	for _, p := range properties {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// locationPredicate tokenizes the query on commas and whitespace and
// matches a property when ANY token has fuzzy overlap with ANY of city,
// state, country or title. Overlap is substring either way or an equal
// three-character prefix, case-insensitive. Deliberately permissive:
// recall over precision.
func (e *Evaluator) locationPredicate(location string) predicate {
	tokens := locationTokens(location)
	if len(tokens) == 0 {
		return passThrough
	}

	return func(p models.Property) bool {
		fields := []string{
			strings.ToLower(p.City),
			strings.ToLower(p.State),
			strings.ToLower(p.Country),
			strings.ToLower(p.Title),
		}
		for _, token := range tokens {
			for _, field := range fields {
				if fuzzyOverlap(token, field) {
					return true
				}
			}
		}
		return false
	}
}

func locationTokens(location string) []string {
	raw := strings.FieldsFunc(strings.ToLower(location), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	tokens := raw[:0]
	for _, t := range raw {
		if len(t) > 1 {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func fuzzyOverlap(token, field string) bool {
	if field == "" {
		return false
	}
	if strings.Contains(field, token) || strings.Contains(token, field) {
		return true
	}
	return prefix3(token) == prefix3(field)
}

func prefix3(s string) string {
	if len(s) > 3 {
		return s[:3]
	}
	return s
}

func (e *Evaluator) guestsPredicate(guests int) predicate {
	if guests <= 1 {
		return passThrough
	}
	return func(p models.Property) bool {
		return p.MaxGuests >= guests
	}
}

// bookingModePredicate gates on the property's rental type. Flexible
// mode applies no gating.
func (e *Evaluator) bookingModePredicate(mode models.BookingMode) predicate {
	switch mode {
	case models.BookingModeMonthly:
		return func(p models.Property) bool { return p.RentalType.SupportsMonthly() }
	case models.BookingModeDaily:
		return func(p models.Property) bool { return p.RentalType.SupportsDaily() }
	default:
		return passThrough
	}
}

// pricePredicate applies only when an interval is set AND resolved
// bounds exist with a positive minimum. A property with no resolvable
// positive price in the effective mode is excluded. Boundary-inclusive.
func (e *Evaluator) pricePredicate(interval *models.PriceRange, bounds *models.PriceRange, mode models.BookingMode) predicate {
	if interval == nil || bounds == nil || bounds.Min <= 0 {
		return passThrough
	}

	iv := *interval
	return func(p models.Property) bool {
		price, ok := p.PriceForMode(mode, e.monthlyEstimateDays)
		if !ok || price <= 0 {
			return false
		}
		return iv.Contains(price)
	}
}

func (e *Evaluator) propertyTypePredicate(types []string) predicate {
	if len(types) == 0 {
		return passThrough
	}
	allowed := toSet(types)
	return func(p models.Property) bool {
		return allowed[strings.ToLower(p.PropertyType)]
	}
}

// amenitiesPredicate keeps properties whose amenity set is a superset of
// the required set. AND semantics, not any-match.
func (e *Evaluator) amenitiesPredicate(required []string) predicate {
	if len(required) == 0 {
		return passThrough
	}
	return func(p models.Property) bool {
		have := make(map[string]bool, len(p.Amenities))
		for _, a := range p.Amenities {
			have[strings.ToLower(a)] = true
		}
		for _, want := range required {
			if !have[want] {
				return false
			}
		}
		return true
	}
}

func (e *Evaluator) minCountPredicate(min int, count func(models.Property) int) predicate {
	if min <= 0 {
		return passThrough
	}
	return func(p models.Property) bool {
		return count(p) >= min
	}
}

// availabilityPredicate excludes a property when any night in the
// half-open interval [checkIn, checkOut) matches one of its blocked
// dates by exact calendar-day equality. Properties with no blocked-dates
// list always pass: there is no positive availability check here, real
// conflicts are resolved by the booking authority.
func (e *Evaluator) availabilityPredicate(checkIn, checkOut *time.Time) predicate {
	if checkIn == nil || checkOut == nil || !checkOut.After(*checkIn) {
		return passThrough
	}

	in := truncateToDay(*checkIn)
	out := truncateToDay(*checkOut)

	return func(p models.Property) bool {
		if len(p.BlockedDates) == 0 {
			return true
		}

		blocked := make(map[string]bool, len(p.BlockedDates))
		for _, d := range p.BlockedDates {
			blocked[strings.TrimSpace(d)] = true
		}

		for day := in; day.Before(out); day = day.AddDate(0, 0, 1) {
			if blocked[day.Format("2006-01-02")] {
				return false
			}
		}
		return true
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func passThrough(models.Property) bool { return true }

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}

// Summary describes one evaluation pass.
type Summary struct {
	Total            int `json:"total"`
	Filtered         int `json:"filtered"`
	ReductionPercent int `json:"reduction_percent"`
}

// Stats computes result statistics. An empty input yields a zero
// reduction, never a division by zero.
func Stats(original, filtered []models.Property) Summary {
	s := Summary{Total: len(original), Filtered: len(filtered)}
	if s.Total > 0 {
		s.ReductionPercent = int(math.Round(float64(s.Total-s.Filtered) / float64(s.Total) * 100))
	}
	return s
}

// SortOption is a supported result ordering.
type SortOption string

const (
	SortNone         SortOption = ""
	SortPriceAsc     SortOption = "price_asc"
	SortPriceDesc    SortOption = "price_desc"
	SortBedroomsDesc SortOption = "bedrooms_desc"
	SortTitle        SortOption = "title"
)

// Sort orders the filtered result in place and returns it. Prices are
// compared in the effective booking mode; properties without a
// resolvable price sort last. Unknown options keep the input order.
func (e *Evaluator) Sort(properties []models.Property, opt SortOption, mode models.BookingMode) []models.Property {
	priceOf := func(p models.Property) (float64, bool) {
		return p.PriceForMode(mode, e.monthlyEstimateDays)
	}

	switch opt {
	case SortPriceAsc:
		sort.SliceStable(properties, func(i, j int) bool {
			pi, oki := priceOf(properties[i])
			pj, okj := priceOf(properties[j])
			if oki != okj {
				return oki
			}
			return pi < pj
		})
	case SortPriceDesc:
		sort.SliceStable(properties, func(i, j int) bool {
			pi, oki := priceOf(properties[i])
			pj, okj := priceOf(properties[j])
			if oki != okj {
				return oki
			}
			return pi > pj
		})
	case SortBedroomsDesc:
		sort.SliceStable(properties, func(i, j int) bool {
			return properties[i].Bedrooms > properties[j].Bedrooms
		})
	case SortTitle:
		sort.SliceStable(properties, func(i, j int) bool {
			return strings.ToLower(properties[i].Title) < strings.ToLower(properties[j].Title)
		})
	}
	return properties
}
