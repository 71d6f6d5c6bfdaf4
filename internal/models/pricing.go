// internal/models/pricing.go
package models

import "math"

// DefaultMonthlyEstimateDays is the occupancy-day approximation used to
// estimate a monthly price from a nightly price when no monthly override
// exists. It is a business heuristic, not a calendar month; overridable
// through config.
const DefaultMonthlyEstimateDays = 25

// DefaultMonthlySampleDivisor converts a monthly price back to a nightly
// sample for the unconstrained price range.
const DefaultMonthlySampleDivisor = 30

// PriceRange is a closed [Min, Max] price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsZero reports whether the range is unset.
func (r PriceRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Contains reports boundary-inclusive membership.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// PriceForMode returns the comparison price of p under the given booking
// mode and whether the property is priceable in that mode at all.
//
//   - daily:   daily override when set and positive, else the nightly price;
//     only rental types supporting daily stays are eligible.
//   - monthly: monthly override when set and positive; otherwise the
//     nightly price estimated over monthlyEstimateDays occupancy days;
//     only rental types supporting monthly stays are eligible.
//   - flexible: no gating; daily override when set, else nightly price.
func (p Property) PriceForMode(mode BookingMode, monthlyEstimateDays int) (float64, bool) {
	if monthlyEstimateDays <= 0 {
		monthlyEstimateDays = DefaultMonthlyEstimateDays
	}

	switch mode {
	case BookingModeDaily:
		if !p.RentalType.SupportsDaily() {
			return 0, false
		}
		return p.nightly(), p.nightly() > 0

	case BookingModeMonthly:
		if !p.RentalType.SupportsMonthly() {
			return 0, false
		}
		if p.MonthlyPrice != nil && *p.MonthlyPrice > 0 {
			return *p.MonthlyPrice, true
		}
		if nightly := p.nightly(); nightly > 0 {
			return nightly * float64(monthlyEstimateDays), true
		}
		return 0, false

	default:
		return p.nightly(), p.nightly() > 0
	}
}

// PriceSamples returns every independent price sample contributed by p to
// an unconstrained (mode-less) range: the nightly price, the daily
// override, and the monthly price normalized back to a nightly figure.
func (p Property) PriceSamples(monthlySampleDivisor int) []float64 {
	if monthlySampleDivisor <= 0 {
		monthlySampleDivisor = DefaultMonthlySampleDivisor
	}

	var samples []float64
	if p.PricePerNight > 0 {
		samples = append(samples, p.PricePerNight)
	}
	if p.DailyPrice != nil && *p.DailyPrice > 0 {
		samples = append(samples, *p.DailyPrice)
	}
	if p.MonthlyPrice != nil && *p.MonthlyPrice > 0 {
		samples = append(samples, math.Round(*p.MonthlyPrice/float64(monthlySampleDivisor)))
	}
	return samples
}

func (p Property) nightly() float64 {
	if p.DailyPrice != nil && *p.DailyPrice > 0 {
		return *p.DailyPrice
	}
	return p.PricePerNight
}
