// internal/server/models.go
package server

import (
	"time"

	apperrors "github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/errors"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/models"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/search/evaluator"
)

const dateLayout = "2006-01-02"

// SearchRequest is the wire form of a property search.
type SearchRequest struct {
	Location       string              `json:"location"`
	CheckIn        string              `json:"check_in,omitempty"`
	CheckOut       string              `json:"check_out,omitempty"`
	Guests         int                 `json:"guests,omitempty"`
	BookingType    string              `json:"booking_type,omitempty"`
	FlexibleOption string              `json:"flexible_option,omitempty"`
	DurationMonths int                 `json:"duration_months,omitempty"`
	Filters        *AdvancedFiltersDTO `json:"filters,omitempty"`
	SortBy         string              `json:"sort_by,omitempty"`
}

// AdvancedFiltersDTO is the wire form of the advanced group.
type AdvancedFiltersDTO struct {
	PriceRange    *PriceRangeDTO `json:"price_range,omitempty"`
	PropertyTypes []string       `json:"property_types,omitempty"`
	Amenities     []string       `json:"amenities,omitempty"`
	Bedrooms      int            `json:"bedrooms,omitempty"`
	Bathrooms     int            `json:"bathrooms,omitempty"`
	BookingType   string         `json:"booking_type,omitempty"`
}

type PriceRangeDTO struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SearchResponse carries the filtered page plus the evaluation summary.
type SearchResponse struct {
	Properties        []models.Property  `json:"properties"`
	Stats             evaluator.Summary  `json:"stats"`
	ActiveFilterCount int                `json:"active_filter_count"`
	PriceBounds       *models.PriceRange `json:"price_bounds,omitempty"`
	BookingMode       models.BookingMode `json:"booking_mode"`
}

// PriceRangeResponse is the resolved bounds for one booking mode.
type PriceRangeResponse struct {
	BookingMode models.BookingMode `json:"booking_mode"`
	Bounds      models.PriceRange  `json:"bounds"`
}

// ConflictRequest asks the delegated booking authority about an
// intended stay.
type ConflictRequest struct {
	PropertyID string `json:"property_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

type ConflictResponse struct {
	PropertyID  string `json:"property_id"`
	HasConflict bool   `json:"has_conflict"`
}

// parseDate accepts empty values and returns nil for them.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperrors.NewInvalidFilterFormatError("date must be YYYY-MM-DD: " + value)
	}
	return &t, nil
}
