package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sophia/api/models"
)

const businessColumns = `id, name, description, industry, monthly_price, currency, status, owner_id,
	website_url, repository_url, landing_page_url,
	analytics_property_id, analytics_measurement_id, analytics_stream_id,
	stripe_product_id, stripe_price_id, created_at, updated_at`

const (
	businessCacheTTL = 1 * time.Hour
	// Statistics are cached on TTL alone: status mutations carry only the
	// business id, not the owner, so per-owner invalidation is not possible.
	statsCacheTTL = 5 * time.Minute
)

type BusinessStore struct {
	db    *sql.DB
	cache *redis.Client // nil disables caching
}

func NewBusinessStore(db *sql.DB, cache *redis.Client) *BusinessStore {
	return &BusinessStore{db: db, cache: cache}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBusiness(row rowScanner) (*models.Business, error) {
	b := &models.Business{}
	err := row.Scan(
		&b.ID, &b.Name, &b.Description, &b.Industry, &b.MonthlyPrice, &b.Currency, &b.Status, &b.OwnerID,
		&b.WebsiteURL, &b.RepositoryURL, &b.LandingPageURL,
		&b.AnalyticsPropertyID, &b.AnalyticsMeasurementID, &b.AnalyticsStreamID,
		&b.StripeProductID, &b.StripePriceID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func businessCacheKey(id uuid.UUID) string {
	return "business:" + id.String()
}

func (s *BusinessStore) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		s.cache.Del(ctx, businessCacheKey(id))
	}
}

func (s *BusinessStore) Create(ctx context.Context, b *models.Business) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	query := `
		INSERT INTO businesses (id, name, description, industry, monthly_price, currency, status, owner_id,
			website_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		b.ID, b.Name, b.Description, b.Industry, b.MonthlyPrice, b.Currency, b.Status, b.OwnerID,
		b.WebsiteURL, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create business: %w", err)
	}
	return nil
}

// GetByID returns nil without error when no business matches. Reads go
// through the Redis cache when one is configured.
func (s *BusinessStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, businessCacheKey(id)).Result(); err == nil {
			b := &models.Business{}
			if err := json.Unmarshal([]byte(cached), b); err == nil {
				return b, nil
			}
		}
	}

	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`
	b, err := scanBusiness(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(b); err == nil {
			s.cache.SetEx(ctx, businessCacheKey(id), data, businessCacheTTL)
		}
	}
	return b, nil
}

func (s *BusinessStore) ExistsByNameAndOwner(ctx context.Context, name string, ownerID int) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM businesses WHERE lower(name) = lower($1) AND owner_id = $2`
	if err := s.db.QueryRowContext(ctx, query, name, ownerID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check business name: %w", err)
	}
	return count > 0, nil
}

// List returns one page of the owner's businesses plus the unpaged total.
func (s *BusinessStore) List(ctx context.Context, ownerID, limit, offset int) ([]models.Business, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM businesses WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count businesses: %w", err)
	}

	query := `SELECT ` + businessColumns + `
		FROM businesses WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer rows.Close()

	var businesses []models.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan business row: %w", err)
		}
		businesses = append(businesses, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row error listing businesses: %w", err)
	}
	return businesses, total, nil
}

func (s *BusinessStore) Update(ctx context.Context, b *models.Business) error {
	b.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE businesses SET name = $2, description = $3, industry = $4, monthly_price = $5,
			currency = $6, website_url = $7, repository_url = $8, landing_page_url = $9, updated_at = $10
		WHERE id = $1
	`
	_, err := s.db.ExecContext(ctx, query,
		b.ID, b.Name, b.Description, b.Industry, b.MonthlyPrice,
		b.Currency, b.WebsiteURL, b.RepositoryURL, b.LandingPageURL, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}
	s.invalidate(ctx, b.ID)
	return nil
}

func (s *BusinessStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BusinessStatus) error {
	query := `UPDATE businesses SET status = $2, updated_at = now() WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update business status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	s.invalidate(ctx, id)
	return nil
}

// Delete removes the business row; metrics, campaigns and deployments
// cascade at the schema level.
func (s *BusinessStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	s.invalidate(ctx, id)
	return nil
}

// Search matches a case-insensitive substring over name, description and
// industry. ownerID zero leaves the query unscoped.
func (s *BusinessStore) Search(ctx context.Context, query string, ownerID int) ([]models.Business, error) {
	pattern := "%" + query + "%"
	sqlQuery := `SELECT ` + businessColumns + `
		FROM businesses
		WHERE (name ILIKE $1 OR description ILIKE $1 OR industry ILIKE $1)`
	args := []interface{}{pattern}
	if ownerID != 0 {
		sqlQuery += ` AND owner_id = $2`
		args = append(args, ownerID)
	}
	sqlQuery += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search businesses: %w", err)
	}
	defer rows.Close()

	var businesses []models.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business row: %w", err)
		}
		businesses = append(businesses, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error searching businesses: %w", err)
	}
	return businesses, nil
}

// CountByStatus groups the owner's businesses by status. ownerID zero
// counts across all owners. Results are served from a short-TTL cache.
func (s *BusinessStore) CountByStatus(ctx context.Context, ownerID int) (map[models.BusinessStatus]int, error) {
	cacheKey := fmt.Sprintf("business-stats:%d", ownerID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			counts := make(map[models.BusinessStatus]int)
			if err := json.Unmarshal([]byte(cached), &counts); err == nil {
				return counts, nil
			}
		}
	}

	query := `SELECT status, COUNT(*) FROM businesses`
	args := []interface{}{}
	if ownerID != 0 {
		query += ` WHERE owner_id = $1`
		args = append(args, ownerID)
	}
	query += ` GROUP BY status`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count businesses by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.BusinessStatus]int)
	for rows.Next() {
		var status models.BusinessStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error counting businesses: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(counts); err == nil {
			s.cache.SetEx(ctx, cacheKey, data, statsCacheTTL)
		}
	}
	return counts, nil
}

// GetActive returns every ACTIVE business regardless of owner. Used by the
// monitoring sweep, not by user-facing handlers.
func (s *BusinessStore) GetActive(ctx context.Context) ([]models.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE status = $1 ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, models.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get active businesses: %w", err)
	}
	defer rows.Close()

	var businesses []models.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business row: %w", err)
		}
		businesses = append(businesses, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error getting active businesses: %w", err)
	}
	return businesses, nil
}

// SaveAnalyticsConfig persists the provider-issued tracking triple.
func (s *BusinessStore) SaveAnalyticsConfig(ctx context.Context, id uuid.UUID, propertyID, measurementID, streamID string) error {
	query := `
		UPDATE businesses
		SET analytics_property_id = $2, analytics_measurement_id = $3, analytics_stream_id = $4, updated_at = now()
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, id, propertyID, measurementID, streamID)
	if err != nil {
		return fmt.Errorf("failed to save analytics config: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	s.invalidate(ctx, id)
	return nil
}
