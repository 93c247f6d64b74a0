package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sophia/api/models"
)

// metricColumns whitelists the per-day series a trend query may select.
var metricColumns = map[string]string{
	"visitors":        "visitors",
	"conversions":     "conversions",
	"revenue":         "revenue",
	"bounceRate":      "bounce_rate",
	"sessionDuration": "session_duration",
	"pageViews":       "page_views",
}

// IsValidMetric reports whether a metric name can be used in a trend query.
func IsValidMetric(metric string) bool {
	_, ok := metricColumns[metric]
	return ok
}

type MetricStore struct {
	db *sql.DB
}

func NewMetricStore(db *sql.DB) *MetricStore {
	return &MetricStore{db: db}
}

// UpsertDaily writes the row for (business, date), replacing an existing one.
// Date is truncated to the calendar day.
func (s *MetricStore) UpsertDaily(ctx context.Context, m *models.BusinessMetric) error {
	query := `
		INSERT INTO business_metrics (business_id, date, visitors, conversions, revenue,
			bounce_rate, session_duration, page_views, ad_clicks, new_subscriptions, churned_subscriptions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (business_id, date) DO UPDATE SET
			visitors = EXCLUDED.visitors,
			conversions = EXCLUDED.conversions,
			revenue = EXCLUDED.revenue,
			bounce_rate = EXCLUDED.bounce_rate,
			session_duration = EXCLUDED.session_duration,
			page_views = EXCLUDED.page_views,
			ad_clicks = EXCLUDED.ad_clicks,
			new_subscriptions = EXCLUDED.new_subscriptions,
			churned_subscriptions = EXCLUDED.churned_subscriptions
	`
	_, err := s.db.ExecContext(ctx, query,
		m.BusinessID, m.Date.Truncate(24*time.Hour), m.Visitors, m.Conversions, m.Revenue,
		m.BounceRate, m.SessionDuration, m.PageViews, m.AdClicks, m.NewSubscriptions, m.ChurnedSubscriptions,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily metric: %w", err)
	}
	return nil
}

// GetRange returns metric rows in [from, to] ordered by date ascending.
func (s *MetricStore) GetRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]models.BusinessMetric, error) {
	query := `
		SELECT id, business_id, date, visitors, conversions, revenue,
			bounce_rate, session_duration, page_views, ad_clicks, new_subscriptions, churned_subscriptions
		FROM business_metrics
		WHERE business_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`
	rows, err := s.db.QueryContext(ctx, query, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric range: %w", err)
	}
	defer rows.Close()

	var metrics []models.BusinessMetric
	for rows.Next() {
		var m models.BusinessMetric
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.Date, &m.Visitors, &m.Conversions, &m.Revenue,
			&m.BounceRate, &m.SessionDuration, &m.PageViews, &m.AdClicks, &m.NewSubscriptions, &m.ChurnedSubscriptions); err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error querying metric range: %w", err)
	}
	return metrics, nil
}

// GetSeries returns the per-day series of one named metric over the trailing
// window, oldest first.
func (s *MetricStore) GetSeries(ctx context.Context, businessID uuid.UUID, metric string, days int) ([]models.MetricPoint, error) {
	column, ok := metricColumns[metric]
	if !ok {
		return nil, fmt.Errorf("invalid metric: %s", metric)
	}

	query := fmt.Sprintf(`
		SELECT date, %s::float8
		FROM business_metrics
		WHERE business_id = $1 AND date >= $2
		ORDER BY date ASC
	`, column)
	from := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -days+1)

	rows, err := s.db.QueryContext(ctx, query, businessID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric series: %w", err)
	}
	defer rows.Close()

	var series []models.MetricPoint
	for rows.Next() {
		var p models.MetricPoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan series point: %w", err)
		}
		series = append(series, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error querying metric series: %w", err)
	}
	return series, nil
}
