package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sophia/api/models"
	"sophia/api/store"
)

type MetricStore interface {
	UpsertDaily(ctx context.Context, m *models.BusinessMetric) error
	GetRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]models.BusinessMetric, error)
	GetSeries(ctx context.Context, businessID uuid.UUID, metric string, days int) ([]models.MetricPoint, error)
}

type ConversionStore interface {
	InsertEvents(ctx context.Context, events []models.ConversionEvent) error
	ListEvents(ctx context.Context, businessID string, start, end time.Time, limit uint64) ([]models.ConversionEvent, error)
	CountByName(ctx context.Context, businessID string, start, end time.Time) (map[string]uint64, error)
}

// TrackingProvider provisions properties and pulls reports from the external
// analytics backend (Google Analytics in production).
type TrackingProvider interface {
	ProvisionProperty(ctx context.Context, displayName, websiteURL string) (*models.TrackingConfig, error)
	RunReport(ctx context.Context, propertyID string, from, to time.Time) ([]models.ProviderMetricRow, error)
}

// insightMetrics are the series the insights endpoint analyzes.
var insightMetrics = []string{"visitors", "conversions", "revenue", "pageViews"}

type AnalyticsService struct {
	businesses  BusinessStore
	metrics     MetricStore
	conversions ConversionStore
	provider    TrackingProvider // nil when no credentials are configured
}

func NewAnalyticsService(businesses BusinessStore, metrics MetricStore, conversions ConversionStore, provider TrackingProvider) *AnalyticsService {
	return &AnalyticsService{
		businesses:  businesses,
		metrics:     metrics,
		conversions: conversions,
		provider:    provider,
	}
}

func (s *AnalyticsService) requireOwned(ctx context.Context, businessID uuid.UUID, ownerID int) (*models.Business, error) {
	b, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	if ownerID != 0 && b.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}
	return b, nil
}

func trailingWindow(days int) (from, to time.Time) {
	to = time.Now().UTC()
	from = to.Truncate(24 * time.Hour).AddDate(0, 0, -days+1)
	return from, to
}

// AggregateMetrics rolls up the trailing window of daily rows.
func (s *AnalyticsService) AggregateMetrics(ctx context.Context, businessID uuid.UUID, days int) (models.AggregatedMetrics, error) {
	from, to := trailingWindow(days)
	rows, err := s.metrics.GetRange(ctx, businessID, from, to)
	if err != nil {
		return models.AggregatedMetrics{}, err
	}
	return Aggregate(rows, days), nil
}

// SetupTracking provisions an analytics property and stream for the business
// and persists the issued identifiers. Already-configured businesses get
// their existing configuration back.
func (s *AnalyticsService) SetupTracking(ctx context.Context, businessID uuid.UUID, ownerID int) (*models.TrackingConfig, error) {
	b, err := s.requireOwned(ctx, businessID, ownerID)
	if err != nil {
		return nil, err
	}
	if b.HasTracking() {
		return &models.TrackingConfig{
			PropertyID:    *b.AnalyticsPropertyID,
			MeasurementID: *b.AnalyticsMeasurementID,
			StreamID:      *b.AnalyticsStreamID,
		}, nil
	}
	if s.provider == nil {
		return nil, fmt.Errorf("analytics provider is not configured")
	}

	website := ""
	if b.WebsiteURL != nil {
		website = *b.WebsiteURL
	}
	cfg, err := s.provider.ProvisionProperty(ctx, b.Name, website)
	if err != nil {
		return nil, fmt.Errorf("failed to provision analytics property: %w", err)
	}
	if err := s.businesses.SaveAnalyticsConfig(ctx, businessID, cfg.PropertyID, cfg.MeasurementID, cfg.StreamID); err != nil {
		return nil, err
	}
	return cfg, nil
}

// syncProviderMetrics pulls the provider report and upserts the daily rows.
// Best effort: a provider failure logs and leaves stored rows in place.
func (s *AnalyticsService) syncProviderMetrics(ctx context.Context, b *models.Business, days int) {
	if s.provider == nil || !b.HasTracking() {
		return
	}
	from, to := trailingWindow(days)
	rows, err := s.provider.RunReport(ctx, *b.AnalyticsPropertyID, from, to)
	if err != nil {
		log.Warn().Err(err).Str("business_id", b.ID.String()).Msg("Provider report failed, serving stored metrics")
		return
	}
	for _, row := range rows {
		m := &models.BusinessMetric{
			BusinessID:      b.ID,
			Date:            row.Date,
			Visitors:        int64(row.Metrics["activeUsers"]),
			Conversions:     int64(row.Metrics["conversions"]),
			Revenue:         row.Metrics["totalRevenue"],
			BounceRate:      row.Metrics["bounceRate"],
			SessionDuration: row.Metrics["averageSessionDuration"],
			PageViews:       int64(row.Metrics["screenPageViews"]),
		}
		if err := s.metrics.UpsertDaily(ctx, m); err != nil {
			log.Error().Err(err).Str("business_id", b.ID.String()).Msg("Failed to upsert provider metric row")
		}
	}
}

// Summary requires a fully configured tracking triple; partial configuration
// counts as not configured.
func (s *AnalyticsService) Summary(ctx context.Context, businessID uuid.UUID, ownerID, days int) (*models.AnalyticsSummary, error) {
	b, err := s.requireOwned(ctx, businessID, ownerID)
	if err != nil {
		return nil, err
	}
	if !b.HasTracking() {
		return nil, ErrNotConfigured
	}

	s.syncProviderMetrics(ctx, b, days)

	current, err := s.AggregateMetrics(ctx, businessID, days)
	if err != nil {
		return nil, err
	}

	prevTo := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -days)
	prevFrom := prevTo.AddDate(0, 0, -days+1)
	prevRows, err := s.metrics.GetRange(ctx, businessID, prevFrom, prevTo)
	if err != nil {
		return nil, err
	}
	previous := Aggregate(prevRows, days)

	return &models.AnalyticsSummary{
		Aggregated:       current,
		PerformanceScore: PerformanceScore(current),
		Trend:            DetermineTrend(float64(current.ActiveUsers), float64(previous.ActiveUsers)),
		Change:           PercentageChange(float64(previous.ActiveUsers), float64(current.ActiveUsers)),
	}, nil
}

// Insights analyzes the stored per-day series: trend class per metric,
// day-of-week seasonality on visitors, and a short forecast per metric.
func (s *AnalyticsService) Insights(ctx context.Context, businessID uuid.UUID, ownerID, days int) (*models.AnalyticsInsights, error) {
	b, err := s.requireOwned(ctx, businessID, ownerID)
	if err != nil {
		return nil, err
	}
	if !b.HasTracking() {
		return nil, ErrNotConfigured
	}

	insights := &models.AnalyticsInsights{
		Trends:    make(map[string]models.TrendAnalysis, len(insightMetrics)),
		Forecasts: make(map[string]models.Forecast, len(insightMetrics)),
	}
	for _, metric := range insightMetrics {
		points, err := s.metrics.GetSeries(ctx, businessID, metric, days)
		if err != nil {
			return nil, err
		}
		series := make([]float64, len(points))
		for i, p := range points {
			series[i] = p.Value
		}
		insights.Trends[metric] = AnalyzeTrend(series)
		insights.Forecasts[metric] = ForecastNextPeriod(series)
		if metric == "visitors" {
			insights.Seasonality = DetectSeasonality(points)
		}
	}
	return insights, nil
}

// ComparePeriods fetches the current and previous windows concurrently and
// reports per-metric change and trend.
func (s *AnalyticsService) ComparePeriods(ctx context.Context, businessID uuid.UUID, ownerID, days int) (*models.PeriodComparison, error) {
	if _, err := s.requireOwned(ctx, businessID, ownerID); err != nil {
		return nil, err
	}

	curFrom, curTo := trailingWindow(days)
	prevTo := curFrom.AddDate(0, 0, -1)
	prevFrom := prevTo.AddDate(0, 0, -days+1)

	var (
		wg                sync.WaitGroup
		curRows, prevRows []models.BusinessMetric
		curErr, prevErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		curRows, curErr = s.metrics.GetRange(ctx, businessID, curFrom, curTo)
	}()
	go func() {
		defer wg.Done()
		prevRows, prevErr = s.metrics.GetRange(ctx, businessID, prevFrom, prevTo)
	}()
	wg.Wait()
	if curErr != nil {
		return nil, curErr
	}
	if prevErr != nil {
		return nil, prevErr
	}

	current := Aggregate(curRows, days)
	previous := Aggregate(prevRows, days)

	changes := map[string][2]float64{
		"activeUsers":     {float64(previous.ActiveUsers), float64(current.ActiveUsers)},
		"conversions":     {float64(previous.Conversions), float64(current.Conversions)},
		"revenue":         {previous.Revenue, current.Revenue},
		"pageViews":       {float64(previous.PageViews), float64(current.PageViews)},
		"bounceRate":      {previous.BounceRate, current.BounceRate},
		"sessionDuration": {previous.SessionDuration, current.SessionDuration},
	}
	comparison := &models.PeriodComparison{
		Current:  current,
		Previous: previous,
		Changes:  make(map[string]models.MetricChange, len(changes)),
	}
	for metric, pair := range changes {
		comparison.Changes[metric] = models.MetricChange{
			Change: PercentageChange(pair[0], pair[1]),
			Trend:  DetermineTrend(pair[1], pair[0]),
		}
	}
	return comparison, nil
}

// MetricTrend analyzes one named per-day series.
func (s *AnalyticsService) MetricTrend(ctx context.Context, businessID uuid.UUID, ownerID int, metric string, days int) (*models.MetricTrendReport, error) {
	if !store.IsValidMetric(metric) {
		return nil, fmt.Errorf("invalid metric %q", metric)
	}
	if _, err := s.requireOwned(ctx, businessID, ownerID); err != nil {
		return nil, err
	}

	points, err := s.metrics.GetSeries(ctx, businessID, metric, days)
	if err != nil {
		return nil, err
	}
	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = p.Value
	}

	seasonality := DetectSeasonality(points)
	return &models.MetricTrendReport{
		Metric:      metric,
		Series:      points,
		Analysis:    AnalyzeTrend(series),
		Seasonality: &seasonality,
		Forecast:    ForecastNextPeriod(series),
	}, nil
}

// TrackConversion appends one event to the log.
func (s *AnalyticsService) TrackConversion(ctx context.Context, businessID uuid.UUID, ownerID int, req models.TrackConversionRequest) (*models.ConversionEvent, error) {
	if _, err := s.requireOwned(ctx, businessID, ownerID); err != nil {
		return nil, err
	}
	event := models.ConversionEvent{
		EventID:    uuid.New().String(),
		BusinessID: businessID.String(),
		EventName:  req.EventName,
		Value:      req.Value,
		Metadata:   req.Metadata,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.conversions.InsertEvents(ctx, []models.ConversionEvent{event}); err != nil {
		return nil, err
	}
	return &event, nil
}

// ListConversions reads back the trailing window of the event log.
func (s *AnalyticsService) ListConversions(ctx context.Context, businessID uuid.UUID, ownerID, days int, limit uint64) (*models.ConversionLog, error) {
	if _, err := s.requireOwned(ctx, businessID, ownerID); err != nil {
		return nil, err
	}
	from, to := trailingWindow(days)
	events, err := s.conversions.ListEvents(ctx, businessID.String(), from, to, limit)
	if err != nil {
		return nil, err
	}
	counts, err := s.conversions.CountByName(ctx, businessID.String(), from, to)
	if err != nil {
		return nil, err
	}
	return &models.ConversionLog{Events: events, Counts: counts}, nil
}
