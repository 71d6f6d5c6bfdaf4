// internal/catalog/source.go

// Package catalog is the search subsystem's only external data boundary:
// an opaque query service over the live property catalog.
package catalog

import (
	"context"
	"time"

	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/models"
)

// Source supplies catalog rows to the search subsystem.
type Source interface {
	// QueryActiveApproved returns every active, approval-status-approved
	// property. No pagination; a full scan is assumed. Callers must
	// tolerate undercounts under visibility restriction.
	QueryActiveApproved(ctx context.Context) ([]models.Property, error)

	// CheckBookingConflict is the delegated authority for true conflict
	// resolution, invoked at booking-submission time only.
	CheckBookingConflict(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (bool, error)
}
