// internal/catalog/postgres_test.go
package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/errors"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/logger"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/models"
)

var catalogColumns = []string{
	"id", "title", "city", "state", "country",
	"price_per_night", "daily_price", "monthly_price", "rental_type",
	"max_guests", "bedrooms", "bathrooms", "property_type",
	"amenities", "blocked_dates",
}

func newTestSource(t *testing.T) (*PostgresSource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSource(db, logger.NewNoOpLogger()), mock
}

func TestQueryActiveApproved(t *testing.T) {
	src, mock := newTestSource(t)

	rows := sqlmock.NewRows(catalogColumns).
		AddRow("p1", "Nile View Apartment", "Cairo", nil, "Egypt",
			100.0, nil, nil, "daily",
			2, 1, 1, "apartment",
			[]byte(`{wifi,kitchen}`), []byte(`{}`)).
		AddRow("p2", "Pyramid Side Flat", "Giza", "Giza", "Egypt",
			0.0, 120.0, 3000.0, "monthly",
			4, 2, 2, "apartment",
			[]byte(`{wifi,pool}`), []byte(`{2025-07-10}`))

	mock.ExpectQuery("SELECT id, title, city").WillReturnRows(rows)

	properties, err := src.QueryActiveApproved(context.Background())
	require.NoError(t, err)
	require.Len(t, properties, 2)

	p1 := properties[0]
	assert.Equal(t, "p1", p1.ID)
	assert.Equal(t, models.RentalTypeDaily, p1.RentalType)
	assert.Equal(t, float64(100), p1.PricePerNight)
	assert.Nil(t, p1.DailyPrice)
	assert.Nil(t, p1.MonthlyPrice)
	assert.Empty(t, p1.State)
	assert.Equal(t, []string{"wifi", "kitchen"}, p1.Amenities)
	assert.Empty(t, p1.BlockedDates)
	assert.True(t, p1.IsActive)
	assert.Equal(t, "approved", p1.ApprovalStatus)

	p2 := properties[1]
	require.NotNil(t, p2.DailyPrice)
	assert.Equal(t, float64(120), *p2.DailyPrice)
	require.NotNil(t, p2.MonthlyPrice)
	assert.Equal(t, float64(3000), *p2.MonthlyPrice)
	assert.Equal(t, []string{"2025-07-10"}, p2.BlockedDates)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryActiveApproved_EmptyResult(t *testing.T) {
	src, mock := newTestSource(t)

	mock.ExpectQuery("SELECT id, title, city").
		WillReturnRows(sqlmock.NewRows(catalogColumns))

	properties, err := src.QueryActiveApproved(context.Background())
	require.NoError(t, err)
	assert.Empty(t, properties)
}

func TestQueryActiveApproved_QueryError(t *testing.T) {
	src, mock := newTestSource(t)

	mock.ExpectQuery("SELECT id, title, city").
		WillReturnError(errors.New("connection reset"))

	_, err := src.QueryActiveApproved(context.Background())
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeCatalogQueryFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestCheckBookingConflict(t *testing.T) {
	src, mock := newTestSource(t)

	checkIn := time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("p1", checkIn, checkOut).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	conflict, err := src.CheckBookingConflict(context.Background(), "p1", checkIn, checkOut)
	require.NoError(t, err)
	assert.True(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckBookingConflict_NoOverlap(t *testing.T) {
	src, mock := newTestSource(t)

	checkIn := time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("p1", checkIn, checkOut).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	conflict, err := src.CheckBookingConflict(context.Background(), "p1", checkIn, checkOut)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestCheckBookingConflict_Error(t *testing.T) {
	src, mock := newTestSource(t)

	checkIn := time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnError(errors.New("timeout"))

	_, err := src.CheckBookingConflict(context.Background(), "p1", checkIn, checkOut)
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeConflictCheckFailed, stdErr.Code)
}
