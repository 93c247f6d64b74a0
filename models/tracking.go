package models

import "time"

// TrackingConfig is the provider-issued identifier triple stored on a
// business once analytics is provisioned.
type TrackingConfig struct {
	PropertyID    string `json:"propertyId"`
	MeasurementID string `json:"measurementId"`
	StreamID      string `json:"streamId"`
}

// ProviderMetricRow is one per-day row of a provider report. Metrics the
// provider omitted are absent from the map and default to zero downstream.
type ProviderMetricRow struct {
	Date    time.Time
	Metrics map[string]float64
}

type AnalyticsInsights struct {
	Trends      map[string]TrendAnalysis `json:"trends"`
	Seasonality SeasonalityResult        `json:"seasonality"`
	Forecasts   map[string]Forecast      `json:"forecasts"`
}

type ConversionLog struct {
	Events []ConversionEvent `json:"events"`
	Counts map[string]uint64 `json:"counts"`
}
