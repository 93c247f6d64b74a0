package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sophia/api/models"
	"sophia/api/services"
	"sophia/api/utils"
)

type BusinessHandlers struct {
	Service *services.BusinessService
}

func NewBusinessHandlers(service *services.BusinessService) *BusinessHandlers {
	return &BusinessHandlers{Service: service}
}

func businessID(c *gin.Context) (uuid.UUID, bool) {
	return parseUUIDParam(c, "id")
}

// businessIDParam reads the :businessId segment used by the analytics,
// monitoring and agent route groups.
func businessIDParam(c *gin.Context) (uuid.UUID, bool) {
	return parseUUIDParam(c, "businessId")
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid business id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *BusinessHandlers) Create(c *gin.Context) {
	var req models.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	business, err := h.Service.Create(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, business)
}

func (h *BusinessHandlers) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"))
	result, err := h.Service.List(c.Request.Context(), currentUserID(c), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *BusinessHandlers) Get(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	business, err := h.Service.GetByID(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if business == nil {
		respondMessage(c, http.StatusNotFound, "Business not found")
		return
	}
	respondOK(c, business)
}

func (h *BusinessHandlers) Update(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	var req models.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	business, err := h.Service.Update(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, business)
}

func (h *BusinessHandlers) UpdateStatus(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	business, err := h.Service.UpdateStatus(c.Request.Context(), id, req.Status, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, business)
}

func (h *BusinessHandlers) Delete(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Business deleted")
}

func (h *BusinessHandlers) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondMessage(c, http.StatusBadRequest, "q query parameter is required")
		return
	}
	businesses, err := h.Service.Search(c.Request.Context(), query, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, businesses)
}

func (h *BusinessHandlers) Statistics(c *gin.Context) {
	stats, err := h.Service.GetStatistics(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stats)
}

func (h *BusinessHandlers) CreateCampaign(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	campaign, err := h.Service.CreateCampaign(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, campaign)
}

func (h *BusinessHandlers) ListCampaigns(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	campaigns, err := h.Service.ListCampaigns(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, campaigns)
}

func (h *BusinessHandlers) CreateDeployment(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	var req models.CreateDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	deployment, err := h.Service.CreateDeployment(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, deployment)
}

func (h *BusinessHandlers) ListDeployments(c *gin.Context) {
	id, ok := businessID(c)
	if !ok {
		return
	}
	deployments, err := h.Service.ListDeployments(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, deployments)
}
