package models

import "time"

// Trend directions for period-over-period comparison (±5% band).
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Trend classes for series analysis.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendVolatile   = "volatile"
)

type MetricPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type TrendAnalysis struct {
	Trend    string  `json:"trend"`
	Slope    float64 `json:"slope"`
	Strength float64 `json:"strength"`
}

type SeasonalityResult struct {
	Seasonal        bool                     `json:"seasonal"`
	Spread          float64                  `json:"spread"`
	WeekdayAverages map[time.Weekday]float64 `json:"weekdayAverages,omitempty"`
}

type Forecast struct {
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

type MetricChange struct {
	Change float64 `json:"change"`
	Trend  string  `json:"trend"`
}

type PeriodComparison struct {
	Current  AggregatedMetrics       `json:"current"`
	Previous AggregatedMetrics       `json:"previous"`
	Changes  map[string]MetricChange `json:"changes"`
}

type AnalyticsSummary struct {
	Aggregated       AggregatedMetrics `json:"aggregated"`
	PerformanceScore float64           `json:"performanceScore"`
	Trend            string            `json:"trend"`
	Change           float64           `json:"change"`
}

type MetricTrendReport struct {
	Metric      string             `json:"metric"`
	Series      []MetricPoint      `json:"series"`
	Analysis    TrendAnalysis      `json:"analysis"`
	Seasonality *SeasonalityResult `json:"seasonality,omitempty"`
	Forecast    Forecast           `json:"forecast"`
}
