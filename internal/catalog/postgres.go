// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	apperrors "github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/errors"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/logger"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/metrics"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/models"
)

const queryActiveApproved = `
	SELECT id, title, city, state, country,
	       price_per_night, daily_price, monthly_price, rental_type,
	       max_guests, bedrooms, bathrooms, property_type,
	       amenities, blocked_dates
	FROM properties
	WHERE is_active = true AND approval_status = 'approved'`

const queryBookingConflict = `
	SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE property_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND check_in < $3
		  AND check_out > $2
	)`

// PostgresSource is the relational implementation of Source.
type PostgresSource struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresSource(db *sql.DB, log logger.Logger) *PostgresSource {
	return &PostgresSource{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

func (s *PostgresSource) QueryActiveApproved(ctx context.Context) ([]models.Property, error) {
	rows, err := s.db.QueryContext(ctx, queryActiveApproved)
	if err != nil {
		metrics.CatalogFetches.WithLabelValues("error").Inc()
		s.logger.WithError(err).Error("catalog query failed", nil)
		return nil, apperrors.NewCatalogQueryError(err.Error())
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var (
			p            models.Property
			state        sql.NullString
			country      sql.NullString
			dailyPrice   sql.NullFloat64
			monthlyPrice sql.NullFloat64
			amenities    pq.StringArray
			blockedDates pq.StringArray
		)

		if err := rows.Scan(
			&p.ID, &p.Title, &p.City, &state, &country,
			&p.PricePerNight, &dailyPrice, &monthlyPrice, &p.RentalType,
			&p.MaxGuests, &p.Bedrooms, &p.Bathrooms, &p.PropertyType,
			&amenities, &blockedDates,
		); err != nil {
			metrics.CatalogFetches.WithLabelValues("error").Inc()
			return nil, apperrors.NewCatalogQueryError(err.Error())
		}

		p.State = state.String
		p.Country = country.String
		if dailyPrice.Valid {
			v := dailyPrice.Float64
			p.DailyPrice = &v
		}
		if monthlyPrice.Valid {
			v := monthlyPrice.Float64
			p.MonthlyPrice = &v
		}
		p.Amenities = []string(amenities)
		p.BlockedDates = []string(blockedDates)
		p.IsActive = true
		p.ApprovalStatus = "approved"

		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		metrics.CatalogFetches.WithLabelValues("error").Inc()
		return nil, apperrors.NewCatalogQueryError(err.Error())
	}

	metrics.CatalogFetches.WithLabelValues("success").Inc()
	s.logger.Debug("catalog fetched", map[string]interface{}{
		"properties": len(properties),
	})

	return properties, nil
}

func (s *PostgresSource) CheckBookingConflict(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (bool, error) {
	var conflict bool
	err := s.db.QueryRowContext(ctx, queryBookingConflict,
		propertyID, checkIn, checkOut).Scan(&conflict)
	if err != nil {
		s.logger.WithError(err).Error("booking conflict check failed", map[string]interface{}{
			"propertyId": propertyID,
		})
		return false, apperrors.NewConflictCheckError(err.Error())
	}
	return conflict, nil
}
