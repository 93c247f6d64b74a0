package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sophia/api/models"
	"sophia/api/store"
	"sophia/api/utils"
)

// BusinessStore is the persistence surface the service needs. The concrete
// implementation lives in the store package.
type BusinessStore interface {
	Create(ctx context.Context, b *models.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	ExistsByNameAndOwner(ctx context.Context, name string, ownerID int) (bool, error)
	List(ctx context.Context, ownerID, limit, offset int) ([]models.Business, int, error)
	Update(ctx context.Context, b *models.Business) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.BusinessStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, ownerID int) ([]models.Business, error)
	CountByStatus(ctx context.Context, ownerID int) (map[models.BusinessStatus]int, error)
	GetActive(ctx context.Context) ([]models.Business, error)
	SaveAnalyticsConfig(ctx context.Context, id uuid.UUID, propertyID, measurementID, streamID string) error
}

type CampaignStore interface {
	Create(ctx context.Context, c *models.MarketingCampaign) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.MarketingCampaign, error)
	DeleteByBusiness(ctx context.Context, businessID uuid.UUID) error
}

type DeploymentStore interface {
	Create(ctx context.Context, d *models.Deployment) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]models.Deployment, error)
	DeleteByBusiness(ctx context.Context, businessID uuid.UUID) error
}

type BusinessService struct {
	businesses  BusinessStore
	campaigns   CampaignStore
	deployments DeploymentStore
}

func NewBusinessService(businesses BusinessStore, campaigns CampaignStore, deployments DeploymentStore) *BusinessService {
	return &BusinessService{
		businesses:  businesses,
		campaigns:   campaigns,
		deployments: deployments,
	}
}

// Create persists a new business in PLANNING. A name the owner already uses
// fails with ErrAlreadyExists.
func (s *BusinessService) Create(ctx context.Context, req models.CreateBusinessRequest, ownerID int) (*models.Business, error) {
	exists, err := s.businesses.ExistsByNameAndOwner(ctx, req.Name, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check business name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("business %q: %w", req.Name, ErrAlreadyExists)
	}

	b := &models.Business{
		Name:         req.Name,
		Description:  req.Description,
		Industry:     req.Industry,
		MonthlyPrice: req.MonthlyPrice,
		Currency:     req.Currency,
		Status:       models.StatusPlanning,
		OwnerID:      ownerID,
		WebsiteURL:   req.WebsiteURL,
	}
	if err := s.businesses.Create(ctx, b); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("business %q: %w", req.Name, ErrAlreadyExists)
		}
		return nil, err
	}
	return b, nil
}

// GetByID returns nil without error when the business does not exist. With
// a non-zero ownerID, a mismatch is ErrUnauthorized, not a not-found.
func (s *BusinessService) GetByID(ctx context.Context, id uuid.UUID, ownerID int) (*models.Business, error) {
	b, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	if ownerID != 0 && b.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}
	return b, nil
}

func (s *BusinessService) List(ctx context.Context, ownerID, page, limit int) (*models.BusinessPage, error) {
	offset := (page - 1) * limit
	businesses, total, err := s.businesses.List(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &models.BusinessPage{
		Businesses: businesses,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: utils.TotalPages(total, limit),
	}, nil
}

// requireOwned fetches and checks ownership, distinguishing absent from
// forbidden at the error level.
func (s *BusinessService) requireOwned(ctx context.Context, id uuid.UUID, ownerID int) (*models.Business, error) {
	b, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	if b.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}
	return b, nil
}

func (s *BusinessService) Update(ctx context.Context, id uuid.UUID, req models.UpdateBusinessRequest, ownerID int) (*models.Business, error) {
	b, err := s.requireOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != b.Name {
		exists, err := s.businesses.ExistsByNameAndOwner(ctx, *req.Name, ownerID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("business %q: %w", *req.Name, ErrAlreadyExists)
		}
		b.Name = *req.Name
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.Industry != nil {
		b.Industry = *req.Industry
	}
	if req.MonthlyPrice != nil {
		b.MonthlyPrice = *req.MonthlyPrice
	}
	if req.Currency != nil {
		b.Currency = *req.Currency
	}
	if req.WebsiteURL != nil {
		b.WebsiteURL = req.WebsiteURL
	}
	if req.RepositoryURL != nil {
		b.RepositoryURL = req.RepositoryURL
	}
	if req.LandingPageURL != nil {
		b.LandingPageURL = req.LandingPageURL
	}

	if err := s.businesses.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BusinessService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BusinessStatus, ownerID int) (*models.Business, error) {
	b, err := s.requireOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.businesses.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.Status = status
	return b, nil
}

// Delete removes the business after its dependent records. Campaign and
// deployment cleanup failures abort the delete.
func (s *BusinessService) Delete(ctx context.Context, id uuid.UUID, ownerID int) error {
	if _, err := s.requireOwned(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.campaigns.DeleteByBusiness(ctx, id); err != nil {
		return err
	}
	if err := s.deployments.DeleteByBusiness(ctx, id); err != nil {
		return err
	}
	if err := s.businesses.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	log.Info().Str("business_id", id.String()).Int("owner_id", ownerID).Msg("Business deleted")
	return nil
}

func (s *BusinessService) Search(ctx context.Context, query string, ownerID int) ([]models.Business, error) {
	return s.businesses.Search(ctx, query, ownerID)
}

func (s *BusinessService) GetStatistics(ctx context.Context, ownerID int) (*models.BusinessStatistics, error) {
	counts, err := s.businesses.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	stats := &models.BusinessStatistics{ByStatus: counts}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// GetActiveBusinesses is unscoped. It feeds the monitoring sweep, never a
// user-facing response.
func (s *BusinessService) GetActiveBusinesses(ctx context.Context) ([]models.Business, error) {
	return s.businesses.GetActive(ctx)
}

func (s *BusinessService) CreateCampaign(ctx context.Context, businessID uuid.UUID, req models.CreateCampaignRequest, ownerID int) (*models.MarketingCampaign, error) {
	if _, err := s.requireOwned(ctx, businessID, ownerID); err != nil {
		return nil, err
	}
	c := &models.MarketingCampaign{
		BusinessID: businessID,
		Name:       req.Name,
		Platform:   req.Platform,
		Budget:     req.Budget,
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *BusinessService) ListCampaigns(ctx context.Context, businessID uuid.UUID, ownerID int) ([]models.MarketingCampaign, error) {
	if _, err := s.requireOwned(ctx, businessID, ownerID); err != nil {
		return nil, err
	}
	return s.campaigns.ListByBusiness(ctx, businessID)
}

func (s *BusinessService) CreateDeployment(ctx context.Context, businessID uuid.UUID, req models.CreateDeploymentRequest, ownerID int) (*models.Deployment, error) {
	if _, err := s.requireOwned(ctx, businessID, ownerID); err != nil {
		return nil, err
	}
	d := &models.Deployment{
		BusinessID: businessID,
		Status:     req.Status,
		URL:        req.URL,
		CommitHash: req.CommitHash,
	}
	if err := s.deployments.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *BusinessService) ListDeployments(ctx context.Context, businessID uuid.UUID, ownerID int) ([]models.Deployment, error) {
	if _, err := s.requireOwned(ctx, businessID, ownerID); err != nil {
		return nil, err
	}
	return s.deployments.ListByBusiness(ctx, businessID)
}
