package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"sophia/api/models"
)

// fakeBusinessStore is an in-memory BusinessStore used across the service
// tests.
type fakeBusinessStore struct {
	businesses map[uuid.UUID]*models.Business
	saved      map[uuid.UUID][3]string // analytics config writes
}

func newFakeBusinessStore() *fakeBusinessStore {
	return &fakeBusinessStore{
		businesses: make(map[uuid.UUID]*models.Business),
		saved:      make(map[uuid.UUID][3]string),
	}
}

func (f *fakeBusinessStore) add(b *models.Business) *models.Business {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.businesses[b.ID] = b
	return b
}

func (f *fakeBusinessStore) Create(_ context.Context, b *models.Business) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	f.businesses[b.ID] = b
	return nil
}

func (f *fakeBusinessStore) GetByID(_ context.Context, id uuid.UUID) (*models.Business, error) {
	b, ok := f.businesses[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBusinessStore) ExistsByNameAndOwner(_ context.Context, name string, ownerID int) (bool, error) {
	for _, b := range f.businesses {
		if b.OwnerID == ownerID && strings.EqualFold(b.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBusinessStore) List(_ context.Context, ownerID, limit, offset int) ([]models.Business, int, error) {
	var owned []models.Business
	for _, b := range f.businesses {
		if b.OwnerID == ownerID {
			owned = append(owned, *b)
		}
	}
	total := len(owned)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (f *fakeBusinessStore) Update(_ context.Context, b *models.Business) error {
	if _, ok := f.businesses[b.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *b
	f.businesses[b.ID] = &clone
	return nil
}

func (f *fakeBusinessStore) UpdateStatus(_ context.Context, id uuid.UUID, status models.BusinessStatus) error {
	b, ok := f.businesses[id]
	if !ok {
		return sql.ErrNoRows
	}
	b.Status = status
	return nil
}

func (f *fakeBusinessStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.businesses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.businesses, id)
	return nil
}

func (f *fakeBusinessStore) Search(_ context.Context, query string, ownerID int) ([]models.Business, error) {
	var matched []models.Business
	for _, b := range f.businesses {
		if ownerID != 0 && b.OwnerID != ownerID {
			continue
		}
		if strings.Contains(strings.ToLower(b.Name), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(b.Description), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(b.Industry), strings.ToLower(query)) {
			matched = append(matched, *b)
		}
	}
	return matched, nil
}

func (f *fakeBusinessStore) CountByStatus(_ context.Context, ownerID int) (map[models.BusinessStatus]int, error) {
	counts := make(map[models.BusinessStatus]int)
	for _, b := range f.businesses {
		if ownerID == 0 || b.OwnerID == ownerID {
			counts[b.Status]++
		}
	}
	return counts, nil
}

func (f *fakeBusinessStore) GetActive(_ context.Context) ([]models.Business, error) {
	var active []models.Business
	for _, b := range f.businesses {
		if b.Status == models.StatusActive {
			active = append(active, *b)
		}
	}
	return active, nil
}

func (f *fakeBusinessStore) SaveAnalyticsConfig(_ context.Context, id uuid.UUID, propertyID, measurementID, streamID string) error {
	b, ok := f.businesses[id]
	if !ok {
		return sql.ErrNoRows
	}
	b.AnalyticsPropertyID = &propertyID
	b.AnalyticsMeasurementID = &measurementID
	b.AnalyticsStreamID = &streamID
	f.saved[id] = [3]string{propertyID, measurementID, streamID}
	return nil
}

type fakeCampaignStore struct {
	campaigns map[uuid.UUID][]models.MarketingCampaign
}

func newFakeCampaignStore() *fakeCampaignStore {
	return &fakeCampaignStore{campaigns: make(map[uuid.UUID][]models.MarketingCampaign)}
}

func (f *fakeCampaignStore) Create(_ context.Context, c *models.MarketingCampaign) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	f.campaigns[c.BusinessID] = append(f.campaigns[c.BusinessID], *c)
	return nil
}

func (f *fakeCampaignStore) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]models.MarketingCampaign, error) {
	return f.campaigns[businessID], nil
}

func (f *fakeCampaignStore) DeleteByBusiness(_ context.Context, businessID uuid.UUID) error {
	delete(f.campaigns, businessID)
	return nil
}

type fakeDeploymentStore struct {
	deployments map[uuid.UUID][]models.Deployment
}

func newFakeDeploymentStore() *fakeDeploymentStore {
	return &fakeDeploymentStore{deployments: make(map[uuid.UUID][]models.Deployment)}
}

func (f *fakeDeploymentStore) Create(_ context.Context, d *models.Deployment) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now().UTC()
	f.deployments[d.BusinessID] = append(f.deployments[d.BusinessID], *d)
	return nil
}

func (f *fakeDeploymentStore) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]models.Deployment, error) {
	return f.deployments[businessID], nil
}

func (f *fakeDeploymentStore) DeleteByBusiness(_ context.Context, businessID uuid.UUID) error {
	delete(f.deployments, businessID)
	return nil
}

// fakeMetricStore serves canned per-day rows and series.
type fakeMetricStore struct {
	rows     map[uuid.UUID][]models.BusinessMetric
	series   map[string][]models.MetricPoint
	upserted []models.BusinessMetric
}

func newFakeMetricStore() *fakeMetricStore {
	return &fakeMetricStore{
		rows:   make(map[uuid.UUID][]models.BusinessMetric),
		series: make(map[string][]models.MetricPoint),
	}
}

func (f *fakeMetricStore) UpsertDaily(_ context.Context, m *models.BusinessMetric) error {
	f.upserted = append(f.upserted, *m)
	return nil
}

func (f *fakeMetricStore) GetRange(_ context.Context, businessID uuid.UUID, from, to time.Time) ([]models.BusinessMetric, error) {
	var out []models.BusinessMetric
	for _, m := range f.rows[businessID] {
		if !m.Date.Before(from) && !m.Date.After(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMetricStore) GetSeries(_ context.Context, _ uuid.UUID, metric string, _ int) ([]models.MetricPoint, error) {
	return f.series[metric], nil
}

type fakeConversionStore struct {
	events []models.ConversionEvent
}

func (f *fakeConversionStore) InsertEvents(_ context.Context, events []models.ConversionEvent) error {
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeConversionStore) ListEvents(_ context.Context, businessID string, _, _ time.Time, _ uint64) ([]models.ConversionEvent, error) {
	var out []models.ConversionEvent
	for _, e := range f.events {
		if e.BusinessID == businessID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeConversionStore) CountByName(_ context.Context, businessID string, _, _ time.Time) (map[string]uint64, error) {
	counts := make(map[string]uint64)
	for _, e := range f.events {
		if e.BusinessID == businessID {
			counts[e.EventName]++
		}
	}
	return counts, nil
}
