package services

import (
	"math"
	"time"

	"sophia/api/models"
)

// Closed-form indicators over small per-day series. All of them tolerate
// empty input and return zero values instead of dividing by zero.

// PercentageChange returns (new-old)/old*100. A zero baseline maps to 100
// when the new value is positive and 0 otherwise, not IEEE infinity.
func PercentageChange(oldValue, newValue float64) float64 {
	if oldValue == 0 {
		if newValue > 0 {
			return 100
		}
		return 0
	}
	return (newValue - oldValue) / oldValue * 100
}

// DetermineTrend classifies a period-over-period change with a fixed ±5% band.
func DetermineTrend(current, previous float64) string {
	change := PercentageChange(previous, current)
	switch {
	case change > 5:
		return models.TrendUp
	case change < -5:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}

// Aggregate sums additive fields and takes the arithmetic mean of rate
// fields across the rows. The mean is per returned row, not traffic-weighted.
func Aggregate(rows []models.BusinessMetric, days int) models.AggregatedMetrics {
	agg := models.AggregatedMetrics{Days: days}
	if len(rows) == 0 {
		return agg
	}

	var bounceSum, durationSum float64
	for _, row := range rows {
		agg.ActiveUsers += row.Visitors
		agg.Conversions += row.Conversions
		agg.Revenue += row.Revenue
		agg.PageViews += row.PageViews
		bounceSum += row.BounceRate
		durationSum += row.SessionDuration
	}
	n := float64(len(rows))
	agg.BounceRate = bounceSum / n
	agg.SessionDuration = durationSum / n
	return agg
}

// PerformanceScore composes four independent 0-25 buckets into a 0-100 score.
func PerformanceScore(agg models.AggregatedMetrics) float64 {
	var score float64

	switch {
	case agg.ActiveUsers >= 1000:
		score += 25
	case agg.ActiveUsers >= 500:
		score += 20
	case agg.ActiveUsers >= 100:
		score += 15
	case agg.ActiveUsers >= 50:
		score += 10
	case agg.ActiveUsers > 0:
		score += 5
	}

	var conversionRate float64
	if agg.ActiveUsers > 0 {
		conversionRate = float64(agg.Conversions) / float64(agg.ActiveUsers) * 100
	}
	switch {
	case conversionRate >= 10:
		score += 25
	case conversionRate >= 5:
		score += 20
	case conversionRate >= 2:
		score += 15
	case conversionRate >= 1:
		score += 10
	case conversionRate > 0:
		score += 5
	}

	// Bounce rate is inverted: lower is better.
	switch {
	case agg.BounceRate <= 20:
		score += 25
	case agg.BounceRate <= 35:
		score += 20
	case agg.BounceRate <= 50:
		score += 15
	case agg.BounceRate <= 70:
		score += 10
	case agg.BounceRate <= 90:
		score += 5
	}

	switch {
	case agg.Revenue >= 10000:
		score += 25
	case agg.Revenue >= 5000:
		score += 20
	case agg.Revenue >= 1000:
		score += 15
	case agg.Revenue >= 100:
		score += 10
	case agg.Revenue > 0:
		score += 5
	}

	return math.Min(score, 100)
}

func meanStdev(series []float64) (mean, stdev float64) {
	if len(series) == 0 {
		return 0, 0
	}
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	var variance float64
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(series))
	return mean, math.Sqrt(variance)
}

// AnalyzeTrend fits an ordinary least-squares slope over index vs value.
// A coefficient of variation above 0.5 classifies the series volatile
// before the slope sign is considered.
func AnalyzeTrend(series []float64) models.TrendAnalysis {
	if len(series) < 2 {
		return models.TrendAnalysis{Trend: models.TrendStable}
	}

	mean, stdev := meanStdev(series)
	if mean == 0 {
		return models.TrendAnalysis{Trend: models.TrendStable}
	}

	n := float64(len(series))
	xMean := (n - 1) / 2
	var num, den float64
	for i, v := range series {
		dx := float64(i) - xMean
		num += dx * (v - mean)
		den += dx * dx
	}
	slope := num / den
	strength := math.Min(math.Abs(slope)/math.Abs(mean), 1)

	if stdev/math.Abs(mean) > 0.5 {
		return models.TrendAnalysis{Trend: models.TrendVolatile, Slope: slope, Strength: strength}
	}

	relative := math.Abs(slope) / math.Abs(mean)
	switch {
	case relative > 0.01 && slope > 0:
		return models.TrendAnalysis{Trend: models.TrendIncreasing, Slope: slope, Strength: strength}
	case relative > 0.01 && slope < 0:
		return models.TrendAnalysis{Trend: models.TrendDecreasing, Slope: slope, Strength: strength}
	default:
		return models.TrendAnalysis{Trend: models.TrendStable, Slope: slope, Strength: strength}
	}
}

// DetectSeasonality buckets a series by day of week. Fewer than 14 points
// is too little signal, and the result says not seasonal.
func DetectSeasonality(points []models.MetricPoint) models.SeasonalityResult {
	if len(points) < 14 {
		return models.SeasonalityResult{}
	}

	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for _, p := range points {
		day := p.Date.Weekday()
		sums[day] += p.Value
		counts[day]++
	}

	averages := make(map[time.Weekday]float64, len(sums))
	minAvg := math.MaxFloat64
	maxAvg := -math.MaxFloat64
	for day, sum := range sums {
		avg := sum / float64(counts[day])
		averages[day] = avg
		minAvg = math.Min(minAvg, avg)
		maxAvg = math.Max(maxAvg, avg)
	}

	if minAvg <= 0 {
		return models.SeasonalityResult{WeekdayAverages: averages}
	}

	spread := (maxAvg - minAvg) / minAvg
	return models.SeasonalityResult{
		Seasonal:        spread > 0.3,
		Spread:          spread,
		WeekdayAverages: averages,
	}
}

// ForecastNextPeriod is a 3-point trailing moving average with a confidence
// derived from the dispersion of the whole series, clamped to [0.3, 0.9].
func ForecastNextPeriod(series []float64) models.Forecast {
	if len(series) == 0 {
		return models.Forecast{Confidence: 0.3}
	}

	window := 3
	if len(series) < window {
		window = len(series)
	}
	var sum float64
	for _, v := range series[len(series)-window:] {
		sum += v
	}
	value := sum / float64(window)

	mean, stdev := meanStdev(series)
	confidence := 0.3
	if mean != 0 {
		confidence = 1 - stdev/math.Abs(mean)
	}
	confidence = math.Max(0.3, math.Min(confidence, 0.9))

	return models.Forecast{Value: value, Confidence: confidence}
}
