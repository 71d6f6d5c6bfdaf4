// internal/models/property.go
package models

// BookingMode is the guest-selected rental mode used for searching.
type BookingMode string

const (
	BookingModeDaily    BookingMode = "daily"
	BookingModeMonthly  BookingMode = "monthly"
	BookingModeFlexible BookingMode = "flexible"
)

// Valid reports whether the mode is one of the supported values.
func (m BookingMode) Valid() bool {
	switch m {
	case BookingModeDaily, BookingModeMonthly, BookingModeFlexible:
		return true
	}
	return false
}

// RentalType is the per-property attribute describing which booking
// modes the property supports.
type RentalType string

const (
	RentalTypeDaily   RentalType = "daily"
	RentalTypeMonthly RentalType = "monthly"
	RentalTypeBoth    RentalType = "both"
)

// SupportsDaily reports whether the property can be booked nightly.
func (r RentalType) SupportsDaily() bool {
	return r == RentalTypeDaily || r == RentalTypeBoth
}

// SupportsMonthly reports whether the property can be booked monthly.
func (r RentalType) SupportsMonthly() bool {
	return r == RentalTypeMonthly || r == RentalTypeBoth
}

// Property is a catalog row as served by the catalog source. The search
// subsystem treats it as read-only.
//
// PricePerNight is always present; DailyPrice and MonthlyPrice are
// optional per-mode overrides.
type Property struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	Country        string     `json:"country"`
	PricePerNight  float64    `json:"price_per_night"`
	DailyPrice     *float64   `json:"daily_price,omitempty"`
	MonthlyPrice   *float64   `json:"monthly_price,omitempty"`
	RentalType     RentalType `json:"rental_type"`
	MaxGuests      int        `json:"max_guests"`
	Bedrooms       int        `json:"bedrooms"`
	Bathrooms      int        `json:"bathrooms"`
	PropertyType   string     `json:"property_type"`
	Amenities      []string   `json:"amenities"`
	BlockedDates   []string   `json:"blocked_dates,omitempty"`
	IsActive       bool       `json:"is_active"`
	ApprovalStatus string     `json:"approval_status"`
}
