package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sophia/api/models"
)

type DeploymentStore struct {
	db *sql.DB
}

func NewDeploymentStore(db *sql.DB) *DeploymentStore {
	return &DeploymentStore{db: db}
}

func (s *DeploymentStore) Create(ctx context.Context, d *models.Deployment) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO deployments (id, business_id, status, url, commit_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, d.ID, d.BusinessID, d.Status, d.URL, d.CommitHash, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deployment: %w", err)
	}
	return nil
}

func (s *DeploymentStore) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.Deployment, error) {
	query := `
		SELECT id, business_id, status, url, commit_hash, created_at
		FROM deployments
		WHERE business_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}
	defer rows.Close()

	var deployments []models.Deployment
	for rows.Next() {
		var d models.Deployment
		if err := rows.Scan(&d.ID, &d.BusinessID, &d.Status, &d.URL, &d.CommitHash, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deployment row: %w", err)
		}
		deployments = append(deployments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing deployments: %w", err)
	}
	return deployments, nil
}

// DeleteByBusiness is the cleanup hook used when a business is removed.
func (s *DeploymentStore) DeleteByBusiness(ctx context.Context, businessID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM deployments WHERE business_id = $1`, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete deployments: %w", err)
	}
	return nil
}
