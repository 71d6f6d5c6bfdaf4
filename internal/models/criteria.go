// internal/models/criteria.go
package models

import (
	"strings"
	"time"
)

// SearchCriteria is the primary search group: where, when and for how
// many guests. CheckIn/CheckOut are meaningful only for date-based
// booking modes; DurationMonths only for monthly mode.
type SearchCriteria struct {
	Location       string      `json:"location"`
	CheckIn        *time.Time  `json:"check_in,omitempty"`
	CheckOut       *time.Time  `json:"check_out,omitempty"`
	Guests         int         `json:"guests"`
	BookingType    BookingMode `json:"booking_type"`
	FlexibleOption string      `json:"flexible_option,omitempty"`
	DurationMonths int         `json:"duration_months,omitempty"`
}

// DefaultSearchCriteria returns the store defaults.
func DefaultSearchCriteria() SearchCriteria {
	return SearchCriteria{
		Location:    "",
		Guests:      1,
		BookingType: BookingModeDaily,
	}
}

// AdvancedFilters is the advanced group. Zero values mean "unset":
// a nil PriceRange, empty sets, zero counts and an empty BookingType.
// BookingType, when set, overrides SearchCriteria.BookingType for
// filtering purposes.
type AdvancedFilters struct {
	PriceRange    *PriceRange `json:"price_range,omitempty"`
	PropertyTypes []string    `json:"property_types,omitempty"`
	Amenities     []string    `json:"amenities,omitempty"`
	Bedrooms      int         `json:"bedrooms,omitempty"`
	Bathrooms     int         `json:"bathrooms,omitempty"`
	BookingType   BookingMode `json:"booking_type,omitempty"`
}

// CombinedFilters is the immutable snapshot handed to the evaluator.
type CombinedFilters struct {
	Search   SearchCriteria  `json:"search"`
	Advanced AdvancedFilters `json:"advanced"`
}

// EffectiveBookingMode returns the advanced override when set, else the
// primary booking type.
func (c CombinedFilters) EffectiveBookingMode() BookingMode {
	if c.Advanced.BookingType != "" {
		return c.Advanced.BookingType
	}
	return c.Search.BookingType
}

// Normalized returns a copy with trimmed, lowercased tag sets and a
// trimmed location. Date ordering problems (check-out not after
// check-in) drop the check-out rather than erroring.
func (c CombinedFilters) Normalized() CombinedFilters {
	out := c
	out.Search.Location = strings.TrimSpace(out.Search.Location)
	out.Advanced.PropertyTypes = normalizeTokens(out.Advanced.PropertyTypes)
	out.Advanced.Amenities = normalizeTokens(out.Advanced.Amenities)
	if out.Search.Guests < 1 {
		out.Search.Guests = 1
	}
	if out.Search.CheckIn != nil && out.Search.CheckOut != nil &&
		!out.Search.CheckOut.After(*out.Search.CheckIn) {
		out.Search.CheckOut = nil
	}
	return out
}

func normalizeTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
