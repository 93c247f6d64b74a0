package models

import (
	"time"

	"github.com/google/uuid"
)

type MarketingCampaign struct {
	ID          uuid.UUID `json:"id"`
	BusinessID  uuid.UUID `json:"businessId"`
	Name        string    `json:"name"`
	Platform    string    `json:"platform"`
	Status      string    `json:"status"`
	Budget      float64   `json:"budget"`
	Spent       float64   `json:"spent"`
	Clicks      int64     `json:"clicks"`
	Impressions int64     `json:"impressions"`
	Conversions int64     `json:"conversions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateCampaignRequest struct {
	Name     string  `json:"name" binding:"required"`
	Platform string  `json:"platform" binding:"required,oneof=google facebook instagram tiktok linkedin"`
	Budget   float64 `json:"budget" binding:"gte=0"`
}
