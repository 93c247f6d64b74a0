package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"sophia/api/models"
)

type fakeTrackingProvider struct {
	provisioned int
	reportRows  []models.ProviderMetricRow
}

func (f *fakeTrackingProvider) ProvisionProperty(_ context.Context, _, _ string) (*models.TrackingConfig, error) {
	f.provisioned++
	return &models.TrackingConfig{PropertyID: "prop-1", MeasurementID: "G-TEST", StreamID: "stream-1"}, nil
}

func (f *fakeTrackingProvider) RunReport(_ context.Context, _ string, _, _ time.Time) ([]models.ProviderMetricRow, error) {
	return f.reportRows, nil
}

func strPtr(s string) *string { return &s }

func trackedBusiness(ownerID int) *models.Business {
	return &models.Business{
		Name:                   "Tracked",
		OwnerID:                ownerID,
		AnalyticsPropertyID:    strPtr("prop-1"),
		AnalyticsMeasurementID: strPtr("G-TEST"),
		AnalyticsStreamID:      strPtr("stream-1"),
	}
}

func TestAnalyticsService_SetupTracking(t *testing.T) {
	businesses := newFakeBusinessStore()
	provider := &fakeTrackingProvider{}
	svc := NewAnalyticsService(businesses, newFakeMetricStore(), &fakeConversionStore{}, provider)

	b := businesses.add(&models.Business{Name: "Fresh", OwnerID: 1, WebsiteURL: strPtr("https://fresh.example")})

	cfg, err := svc.SetupTracking(context.Background(), b.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, "G-TEST", cfg.MeasurementID)
	assert.Equal(t, 1, provider.provisioned)
	assert.Equal(t, [3]string{"prop-1", "G-TEST", "stream-1"}, businesses.saved[b.ID])

	// Second call is idempotent and does not re-provision.
	cfg, err = svc.SetupTracking(context.Background(), b.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, "prop-1", cfg.PropertyID)
	assert.Equal(t, 1, provider.provisioned)
}

func TestAnalyticsService_SetupTracking_NoProvider(t *testing.T) {
	businesses := newFakeBusinessStore()
	svc := NewAnalyticsService(businesses, newFakeMetricStore(), &fakeConversionStore{}, nil)
	b := businesses.add(&models.Business{Name: "Fresh", OwnerID: 1})

	_, err := svc.SetupTracking(context.Background(), b.ID, 1)
	assert.Error(t, err)
}

func TestAnalyticsService_Summary_NotConfigured(t *testing.T) {
	businesses := newFakeBusinessStore()
	svc := NewAnalyticsService(businesses, newFakeMetricStore(), &fakeConversionStore{}, nil)

	// Fully unconfigured.
	plain := businesses.add(&models.Business{Name: "Plain", OwnerID: 1})
	_, err := svc.Summary(context.Background(), plain.ID, 1, 30)
	assert.ErrorIs(t, err, ErrNotConfigured)

	// A partial triple also counts as not configured.
	partial := businesses.add(&models.Business{
		Name:                "Partial",
		OwnerID:             1,
		AnalyticsPropertyID: strPtr("prop-1"),
	})
	_, err = svc.Summary(context.Background(), partial.ID, 1, 30)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = svc.Insights(context.Background(), plain.ID, 1, 30)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAnalyticsService_Summary(t *testing.T) {
	businesses := newFakeBusinessStore()
	metrics := newFakeMetricStore()
	svc := NewAnalyticsService(businesses, metrics, &fakeConversionStore{}, nil)

	b := businesses.add(trackedBusiness(1))

	today := time.Now().UTC().Truncate(24 * time.Hour)
	metrics.rows[b.ID] = []models.BusinessMetric{
		{BusinessID: b.ID, Date: today.AddDate(0, 0, -1), Visitors: 120, Conversions: 6, Revenue: 300, BounceRate: 40},
		{BusinessID: b.ID, Date: today.AddDate(0, 0, -8), Visitors: 100, Conversions: 4, Revenue: 200, BounceRate: 50},
	}

	summary, err := svc.Summary(context.Background(), b.ID, 1, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(120), summary.Aggregated.ActiveUsers)
	assert.Equal(t, models.TrendUp, summary.Trend)
	assert.InDelta(t, 20.0, summary.Change, 1e-9)
	assert.Greater(t, summary.PerformanceScore, 0.0)

	_, err = svc.Summary(context.Background(), b.ID, 2, 7)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Summary(context.Background(), uuid.New(), 1, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyticsService_Summary_SyncsProviderRows(t *testing.T) {
	businesses := newFakeBusinessStore()
	metrics := newFakeMetricStore()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	provider := &fakeTrackingProvider{
		reportRows: []models.ProviderMetricRow{
			{Date: today, Metrics: map[string]float64{
				"activeUsers":     80,
				"conversions":     4,
				"totalRevenue":    99.5,
				"bounceRate":      42,
				"screenPageViews": 400,
			}},
		},
	}
	svc := NewAnalyticsService(businesses, metrics, &fakeConversionStore{}, provider)
	b := businesses.add(trackedBusiness(1))

	_, err := svc.Summary(context.Background(), b.ID, 1, 7)
	assert.NoError(t, err)
	assert.Len(t, metrics.upserted, 1)
	assert.Equal(t, int64(80), metrics.upserted[0].Visitors)
	assert.Equal(t, 99.5, metrics.upserted[0].Revenue)
}

func TestAnalyticsService_Insights(t *testing.T) {
	businesses := newFakeBusinessStore()
	metrics := newFakeMetricStore()
	svc := NewAnalyticsService(businesses, metrics, &fakeConversionStore{}, nil)
	b := businesses.add(trackedBusiness(1))

	points := seriesOverDays([]float64{100, 110, 120, 130, 140, 150, 160})
	for _, metric := range []string{"visitors", "conversions", "revenue", "pageViews"} {
		metrics.series[metric] = points
	}

	insights, err := svc.Insights(context.Background(), b.ID, 1, 30)
	assert.NoError(t, err)
	assert.Len(t, insights.Trends, 4)
	assert.Len(t, insights.Forecasts, 4)
	assert.Equal(t, models.TrendIncreasing, insights.Trends["visitors"].Trend)
	assert.False(t, insights.Seasonality.Seasonal) // under 14 points
}

func TestAnalyticsService_ComparePeriods(t *testing.T) {
	businesses := newFakeBusinessStore()
	metrics := newFakeMetricStore()
	svc := NewAnalyticsService(businesses, metrics, &fakeConversionStore{}, nil)
	b := businesses.add(trackedBusiness(1))

	today := time.Now().UTC().Truncate(24 * time.Hour)
	metrics.rows[b.ID] = []models.BusinessMetric{
		{BusinessID: b.ID, Date: today.AddDate(0, 0, -1), Visitors: 120, Revenue: 240},
		{BusinessID: b.ID, Date: today.AddDate(0, 0, -8), Visitors: 100, Revenue: 200},
	}

	comparison, err := svc.ComparePeriods(context.Background(), b.ID, 1, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(120), comparison.Current.ActiveUsers)
	assert.Equal(t, int64(100), comparison.Previous.ActiveUsers)
	assert.InDelta(t, 20.0, comparison.Changes["activeUsers"].Change, 1e-9)
	assert.Equal(t, models.TrendUp, comparison.Changes["activeUsers"].Trend)
	assert.Len(t, comparison.Changes, 6)
}

func TestAnalyticsService_MetricTrend_InvalidMetric(t *testing.T) {
	businesses := newFakeBusinessStore()
	svc := NewAnalyticsService(businesses, newFakeMetricStore(), &fakeConversionStore{}, nil)
	b := businesses.add(trackedBusiness(1))

	_, err := svc.MetricTrend(context.Background(), b.ID, 1, "drop table", 30)
	assert.Error(t, err)
}

func TestAnalyticsService_TrackAndListConversions(t *testing.T) {
	businesses := newFakeBusinessStore()
	conversions := &fakeConversionStore{}
	svc := NewAnalyticsService(businesses, newFakeMetricStore(), conversions, nil)
	b := businesses.add(trackedBusiness(1))

	event, err := svc.TrackConversion(context.Background(), b.ID, 1, models.TrackConversionRequest{
		EventName: "signup",
		Value:     49.0,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, b.ID.String(), event.BusinessID)

	_, err = svc.TrackConversion(context.Background(), b.ID, 2, models.TrackConversionRequest{EventName: "signup"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.TrackConversion(context.Background(), b.ID, 1, models.TrackConversionRequest{EventName: "purchase"})
	assert.NoError(t, err)

	logResult, err := svc.ListConversions(context.Background(), b.ID, 1, 30, 100)
	assert.NoError(t, err)
	assert.Len(t, logResult.Events, 2)
	assert.Equal(t, uint64(1), logResult.Counts["signup"])
	assert.Equal(t, uint64(1), logResult.Counts["purchase"])
}
