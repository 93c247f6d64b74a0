package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"sophia/api/models"
)

func newTestBusinessService() (*BusinessService, *fakeBusinessStore) {
	businesses := newFakeBusinessStore()
	svc := NewBusinessService(businesses, newFakeCampaignStore(), newFakeDeploymentStore())
	return svc, businesses
}

func TestBusinessService_Create(t *testing.T) {
	svc, _ := newTestBusinessService()
	ctx := context.Background()

	b, err := svc.Create(ctx, models.CreateBusinessRequest{
		Name:         "Acme Notes",
		Industry:     "productivity",
		MonthlyPrice: 9.99,
		Currency:     "USD",
	}, 1)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, models.StatusPlanning, b.Status)
	assert.Equal(t, 1, b.OwnerID)
}

func TestBusinessService_Create_DuplicateName(t *testing.T) {
	svc, _ := newTestBusinessService()
	ctx := context.Background()

	_, err := svc.Create(ctx, models.CreateBusinessRequest{Name: "Acme Notes"}, 1)
	assert.NoError(t, err)

	_, err = svc.Create(ctx, models.CreateBusinessRequest{Name: "acme notes"}, 1)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Same name under a different owner is fine.
	_, err = svc.Create(ctx, models.CreateBusinessRequest{Name: "Acme Notes"}, 2)
	assert.NoError(t, err)
}

func TestBusinessService_GetByID_Unknown(t *testing.T) {
	svc, _ := newTestBusinessService()

	b, err := svc.GetByID(context.Background(), uuid.New(), 0)
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestBusinessService_GetByID_Ownership(t *testing.T) {
	svc, businesses := newTestBusinessService()
	owned := businesses.add(&models.Business{Name: "Mine", OwnerID: 1})

	b, err := svc.GetByID(context.Background(), owned.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, "Mine", b.Name)

	b, err = svc.GetByID(context.Background(), owned.ID, 2)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, b)

	// ownerID 0 skips the ownership check.
	b, err = svc.GetByID(context.Background(), owned.ID, 0)
	assert.NoError(t, err)
	assert.NotNil(t, b)
}

func TestBusinessService_List_Pagination(t *testing.T) {
	svc, businesses := newTestBusinessService()
	businesses.add(&models.Business{Name: "One", OwnerID: 1})
	businesses.add(&models.Business{Name: "Two", OwnerID: 1})
	businesses.add(&models.Business{Name: "Other", OwnerID: 2})

	page, err := svc.List(context.Background(), 1, 1, 1)
	assert.NoError(t, err)
	assert.Len(t, page.Businesses, 1)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.Page)
}

func TestBusinessService_Update(t *testing.T) {
	svc, businesses := newTestBusinessService()
	owned := businesses.add(&models.Business{Name: "Before", Industry: "saas", OwnerID: 1})

	name := "After"
	price := 19.0
	b, err := svc.Update(context.Background(), owned.ID, models.UpdateBusinessRequest{
		Name:         &name,
		MonthlyPrice: &price,
	}, 1)
	assert.NoError(t, err)
	assert.Equal(t, "After", b.Name)
	assert.Equal(t, 19.0, b.MonthlyPrice)
	assert.Equal(t, "saas", b.Industry) // untouched field survives

	_, err = svc.Update(context.Background(), owned.ID, models.UpdateBusinessRequest{Name: &name}, 2)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Update(context.Background(), uuid.New(), models.UpdateBusinessRequest{}, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBusinessService_UpdateStatus(t *testing.T) {
	svc, businesses := newTestBusinessService()
	owned := businesses.add(&models.Business{Name: "Biz", OwnerID: 1, Status: models.StatusPlanning})

	b, err := svc.UpdateStatus(context.Background(), owned.ID, models.StatusActive, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusActive, b.Status)

	_, err = svc.UpdateStatus(context.Background(), owned.ID, models.StatusPaused, 9)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBusinessService_Delete(t *testing.T) {
	campaigns := newFakeCampaignStore()
	deployments := newFakeDeploymentStore()
	businesses := newFakeBusinessStore()
	svc := NewBusinessService(businesses, campaigns, deployments)

	owned := businesses.add(&models.Business{Name: "Gone", OwnerID: 1})
	_, err := svc.CreateCampaign(context.Background(), owned.ID, models.CreateCampaignRequest{Name: "Launch", Platform: "google"}, 1)
	assert.NoError(t, err)

	err = svc.Delete(context.Background(), owned.ID, 2)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = svc.Delete(context.Background(), owned.ID, 1)
	assert.NoError(t, err)
	assert.Empty(t, campaigns.campaigns[owned.ID])

	b, err := svc.GetByID(context.Background(), owned.ID, 0)
	assert.NoError(t, err)
	assert.Nil(t, b)

	err = svc.Delete(context.Background(), owned.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBusinessService_Statistics(t *testing.T) {
	svc, businesses := newTestBusinessService()
	businesses.add(&models.Business{Name: "A", OwnerID: 1, Status: models.StatusActive})
	businesses.add(&models.Business{Name: "B", OwnerID: 1, Status: models.StatusActive})
	businesses.add(&models.Business{Name: "C", OwnerID: 1, Status: models.StatusPlanning})
	businesses.add(&models.Business{Name: "D", OwnerID: 2, Status: models.StatusActive})

	stats, err := svc.GetStatistics(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[models.StatusActive])
	assert.Equal(t, 1, stats.ByStatus[models.StatusPlanning])
}

func TestBusinessService_CampaignsAndDeployments(t *testing.T) {
	svc, businesses := newTestBusinessService()
	owned := businesses.add(&models.Business{Name: "Biz", OwnerID: 1})

	campaign, err := svc.CreateCampaign(context.Background(), owned.ID, models.CreateCampaignRequest{
		Name:     "Spring push",
		Platform: "google",
		Budget:   250,
	}, 1)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, campaign.ID)

	listed, err := svc.ListCampaigns(context.Background(), owned.ID, 1)
	assert.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = svc.ListCampaigns(context.Background(), owned.ID, 2)
	assert.ErrorIs(t, err, ErrUnauthorized)

	deployment, err := svc.CreateDeployment(context.Background(), owned.ID, models.CreateDeploymentRequest{
		Status: "deployed",
	}, 1)
	assert.NoError(t, err)
	assert.Equal(t, "deployed", deployment.Status)

	deployments, err := svc.ListDeployments(context.Background(), owned.ID, 1)
	assert.NoError(t, err)
	assert.Len(t, deployments, 1)
}
