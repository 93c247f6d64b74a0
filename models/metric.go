package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BusinessMetric is one row per business per calendar day.
type BusinessMetric struct {
	ID                   int64     `json:"id"`
	BusinessID           uuid.UUID `json:"businessId"`
	Date                 time.Time `json:"date"`
	Visitors             int64     `json:"visitors"`
	Conversions          int64     `json:"conversions"`
	Revenue              float64   `json:"revenue"`
	BounceRate           float64   `json:"bounceRate"`
	SessionDuration      float64   `json:"sessionDuration"`
	PageViews            int64     `json:"pageViews"`
	AdClicks             int64     `json:"adClicks"`
	NewSubscriptions     int64     `json:"newSubscriptions"`
	ChurnedSubscriptions int64     `json:"churnedSubscriptions"`
}

// AggregatedMetrics is the trailing-window rollup returned by the analytics
// summary: additive fields are summed, rate fields are arithmetic means.
type AggregatedMetrics struct {
	ActiveUsers     int64   `json:"activeUsers"`
	Conversions     int64   `json:"conversions"`
	Revenue         float64 `json:"revenue"`
	PageViews       int64   `json:"pageViews"`
	BounceRate      float64 `json:"bounceRate"`
	SessionDuration float64 `json:"sessionDuration"`
	Days            int     `json:"days"`
}

// ConversionEvent is an append-only log entry attributable to a business.
type ConversionEvent struct {
	EventID    string          `json:"eventId"`
	BusinessID string          `json:"businessId"`
	EventName  string          `json:"eventName"`
	Value      float64         `json:"value"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

type TrackConversionRequest struct {
	EventName string          `json:"eventName" binding:"required"`
	Value     float64         `json:"value" binding:"gte=0"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}
