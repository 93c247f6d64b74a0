package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sophia/api/models"
	"sophia/api/services"
	"sophia/api/store"
	"sophia/api/utils"
)

type AnalyticsHandlers struct {
	Service *services.AnalyticsService
}

func NewAnalyticsHandlers(service *services.AnalyticsService) *AnalyticsHandlers {
	return &AnalyticsHandlers{Service: service}
}

func (h *AnalyticsHandlers) SetupTracking(c *gin.Context) {
	id, ok := businessIDParam(c)
	if !ok {
		return
	}
	cfg, err := h.Service.SetupTracking(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, cfg)
}

func (h *AnalyticsHandlers) Summary(c *gin.Context) {
	id, ok := businessIDParam(c)
	if !ok {
		return
	}
	days := utils.ParseDays(c.Query("days"), 30)
	summary, err := h.Service.Summary(c.Request.Context(), id, currentUserID(c), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, summary)
}

func (h *AnalyticsHandlers) Insights(c *gin.Context) {
	id, ok := businessIDParam(c)
	if !ok {
		return
	}
	days := utils.ParseDays(c.Query("days"), 30)
	insights, err := h.Service.Insights(c.Request.Context(), id, currentUserID(c), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, insights)
}

func (h *AnalyticsHandlers) ComparePeriods(c *gin.Context) {
	id, ok := businessIDParam(c)
	if !ok {
		return
	}
	days := utils.ParseDays(c.Query("days"), 30)
	comparison, err := h.Service.ComparePeriods(c.Request.Context(), id, currentUserID(c), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, comparison)
}

func (h *AnalyticsHandlers) MetricTrend(c *gin.Context) {
	id, ok := businessIDParam(c)
	if !ok {
		return
	}
	metric := c.Param("metric")
	if !store.IsValidMetric(metric) {
		respondMessage(c, http.StatusBadRequest, "Unknown metric: "+metric)
		return
	}
	days := utils.ParseDays(c.Query("days"), 30)
	report, err := h.Service.MetricTrend(c.Request.Context(), id, currentUserID(c), metric, days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, report)
}

func (h *AnalyticsHandlers) TrackConversion(c *gin.Context) {
	id, ok := businessIDParam(c)
	if !ok {
		return
	}
	var req models.TrackConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	event, err := h.Service.TrackConversion(c.Request.Context(), id, currentUserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, event)
}

func (h *AnalyticsHandlers) ListConversions(c *gin.Context) {
	id, ok := businessIDParam(c)
	if !ok {
		return
	}
	days := utils.ParseDays(c.Query("days"), 30)
	limit, _ := strconv.ParseUint(c.DefaultQuery("limit", "100"), 10, 64)
	logResult, err := h.Service.ListConversions(c.Request.Context(), id, currentUserID(c), days, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, logResult)
}
