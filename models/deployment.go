package models

import (
	"time"

	"github.com/google/uuid"
)

type Deployment struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"businessId"`
	Status     string    `json:"status"`
	URL        string    `json:"url"`
	CommitHash string    `json:"commitHash"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateDeploymentRequest struct {
	Status     string `json:"status" binding:"required,oneof=pending building deployed failed"`
	URL        string `json:"url" binding:"omitempty,url"`
	CommitHash string `json:"commitHash" binding:"required"`
}
