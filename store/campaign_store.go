package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sophia/api/models"
)

type CampaignStore struct {
	db *sql.DB
}

func NewCampaignStore(db *sql.DB) *CampaignStore {
	return &CampaignStore{db: db}
}

func (s *CampaignStore) Create(ctx context.Context, c *models.MarketingCampaign) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	if c.Status == "" {
		c.Status = "draft"
	}
	query := `
		INSERT INTO marketing_campaigns (id, business_id, name, platform, status, budget, spent,
			clicks, impressions, conversions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.BusinessID, c.Name, c.Platform, c.Status, c.Budget, c.Spent,
		c.Clicks, c.Impressions, c.Conversions, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (s *CampaignStore) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.MarketingCampaign, error) {
	query := `
		SELECT id, business_id, name, platform, status, budget, spent,
			clicks, impressions, conversions, created_at, updated_at
		FROM marketing_campaigns
		WHERE business_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.MarketingCampaign
	for rows.Next() {
		var c models.MarketingCampaign
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.Name, &c.Platform, &c.Status, &c.Budget, &c.Spent,
			&c.Clicks, &c.Impressions, &c.Conversions, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign row: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing campaigns: %w", err)
	}
	return campaigns, nil
}

// DeleteByBusiness is the cleanup hook used when a business is removed.
func (s *CampaignStore) DeleteByBusiness(ctx context.Context, businessID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM marketing_campaigns WHERE business_id = $1`, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete campaigns: %w", err)
	}
	return nil
}
