package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"sophia/api/models"
)

func newMockBusinessStore(t *testing.T) (*BusinessStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBusinessStore(db, nil), mock
}

func businessRow(id uuid.UUID, name string, ownerID int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "description", "industry", "monthly_price", "currency", "status", "owner_id",
		"website_url", "repository_url", "landing_page_url",
		"analytics_property_id", "analytics_measurement_id", "analytics_stream_id",
		"stripe_product_id", "stripe_price_id", "created_at", "updated_at",
	}).AddRow(
		id, name, "", "saas", 9.99, "USD", "PLANNING", ownerID,
		nil, nil, nil, nil, nil, nil, nil, nil, now, now,
	)
}

func TestBusinessStore_GetByID(t *testing.T) {
	store, mock := newMockBusinessStore(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM businesses WHERE id =`).
		WithArgs(id).
		WillReturnRows(businessRow(id, "Acme", 1))

	b, err := store.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "Acme", b.Name)
	assert.Equal(t, 1, b.OwnerID)
	assert.Nil(t, b.AnalyticsPropertyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessStore_GetByID_Missing(t *testing.T) {
	store, mock := newMockBusinessStore(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM businesses WHERE id =`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	b, err := store.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, b)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessStore_ExistsByNameAndOwner(t *testing.T) {
	store, mock := newMockBusinessStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM businesses WHERE lower\(name\)`).
		WithArgs("Acme", 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := store.ExistsByNameAndOwner(context.Background(), "Acme", 1)
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessStore_List(t *testing.T) {
	store, mock := newMockBusinessStore(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM businesses WHERE owner_id =`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM businesses WHERE owner_id =`).
		WithArgs(1, 1, 0).
		WillReturnRows(businessRow(id, "Acme", 1))

	businesses, total, err := store.List(context.Background(), 1, 1, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, businesses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessStore_UpdateStatus_Missing(t *testing.T) {
	store, mock := newMockBusinessStore(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE businesses SET status =`).
		WithArgs(id, models.StatusActive).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateStatus(context.Background(), id, models.StatusActive)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessStore_Search_OwnerScoped(t *testing.T) {
	store, mock := newMockBusinessStore(t)
	id := uuid.New()

	mock.ExpectQuery(`name ILIKE`).
		WithArgs("%acme%", 1).
		WillReturnRows(businessRow(id, "Acme", 1))

	businesses, err := store.Search(context.Background(), "acme", 1)
	assert.NoError(t, err)
	assert.Len(t, businesses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessStore_Search_Unscoped(t *testing.T) {
	store, mock := newMockBusinessStore(t)
	id := uuid.New()

	// ownerID 0 issues a single-argument query.
	mock.ExpectQuery(`name ILIKE`).
		WithArgs("%acme%").
		WillReturnRows(businessRow(id, "Acme", 2))

	businesses, err := store.Search(context.Background(), "acme", 0)
	assert.NoError(t, err)
	assert.Len(t, businesses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessStore_CountByStatus(t *testing.T) {
	store, mock := newMockBusinessStore(t)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM businesses`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("ACTIVE", 2).
			AddRow("PLANNING", 1))

	counts, err := store.CountByStatus(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, counts[models.StatusActive])
	assert.Equal(t, 1, counts[models.StatusPlanning])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessStore_SaveAnalyticsConfig(t *testing.T) {
	store, mock := newMockBusinessStore(t)
	id := uuid.New()

	mock.ExpectExec(`SET analytics_property_id =`).
		WithArgs(id, "prop-1", "G-TEST", "stream-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SaveAnalyticsConfig(context.Background(), id, "prop-1", "G-TEST", "stream-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
