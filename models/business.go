package models

import (
	"time"

	"github.com/google/uuid"
)

type BusinessStatus string

const (
	StatusPlanning   BusinessStatus = "PLANNING"
	StatusDeveloping BusinessStatus = "DEVELOPING"
	StatusActive     BusinessStatus = "ACTIVE"
	StatusPaused     BusinessStatus = "PAUSED"
	StatusClosed     BusinessStatus = "CLOSED"
)

// Business is a tenant-owned SaaS product record tracked by the platform.
type Business struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Industry     string         `json:"industry"`
	MonthlyPrice float64        `json:"monthlyPrice"`
	Currency     string         `json:"currency"`
	Status       BusinessStatus `json:"status"`
	OwnerID      int            `json:"ownerId"`

	WebsiteURL     *string `json:"websiteUrl,omitempty"`
	RepositoryURL  *string `json:"repositoryUrl,omitempty"`
	LandingPageURL *string `json:"landingPageUrl,omitempty"`

	AnalyticsPropertyID    *string `json:"analyticsPropertyId,omitempty"`
	AnalyticsMeasurementID *string `json:"analyticsMeasurementId,omitempty"`
	AnalyticsStreamID      *string `json:"analyticsStreamId,omitempty"`

	StripeProductID *string `json:"stripeProductId,omitempty"`
	StripePriceID   *string `json:"stripePriceId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasTracking reports whether the analytics integration is fully configured.
// A partially populated triple counts as not configured.
func (b *Business) HasTracking() bool {
	return b.AnalyticsPropertyID != nil && *b.AnalyticsPropertyID != "" &&
		b.AnalyticsMeasurementID != nil && *b.AnalyticsMeasurementID != "" &&
		b.AnalyticsStreamID != nil && *b.AnalyticsStreamID != ""
}

type CreateBusinessRequest struct {
	Name         string  `json:"name" binding:"required,min=2"`
	Description  string  `json:"description" binding:"required"`
	Industry     string  `json:"industry" binding:"required"`
	MonthlyPrice float64 `json:"monthlyPrice" binding:"gte=0"`
	Currency     string  `json:"currency" binding:"required,len=3"`
	WebsiteURL   *string `json:"websiteUrl,omitempty" binding:"omitempty,url"`
}

type UpdateBusinessRequest struct {
	Name           *string  `json:"name,omitempty" binding:"omitempty,min=2"`
	Description    *string  `json:"description,omitempty"`
	Industry       *string  `json:"industry,omitempty"`
	MonthlyPrice   *float64 `json:"monthlyPrice,omitempty" binding:"omitempty,gte=0"`
	Currency       *string  `json:"currency,omitempty" binding:"omitempty,len=3"`
	WebsiteURL     *string  `json:"websiteUrl,omitempty" binding:"omitempty,url"`
	RepositoryURL  *string  `json:"repositoryUrl,omitempty" binding:"omitempty,url"`
	LandingPageURL *string  `json:"landingPageUrl,omitempty" binding:"omitempty,url"`
}

type UpdateStatusRequest struct {
	Status BusinessStatus `json:"status" binding:"required,oneof=PLANNING DEVELOPING ACTIVE PAUSED CLOSED"`
}

type BusinessStatistics struct {
	Total    int                    `json:"total"`
	ByStatus map[BusinessStatus]int `json:"byStatus"`
}

type BusinessPage struct {
	Businesses []Business `json:"businesses"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}
