package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sophia/api/services"
)

// MonitoringHandlers resolves the target URL from the owned business record
// and delegates to the browser-backed diagnostics.
type MonitoringHandlers struct {
	Businesses *services.BusinessService
	Monitoring *services.MonitoringService
}

func NewMonitoringHandlers(businesses *services.BusinessService, monitoring *services.MonitoringService) *MonitoringHandlers {
	return &MonitoringHandlers{Businesses: businesses, Monitoring: monitoring}
}

// targetURL loads the owned business and picks the URL to exercise:
// the landing page when preferLanding is set and one exists, otherwise
// the main website.
func (h *MonitoringHandlers) targetURL(c *gin.Context, preferLanding bool) (string, bool) {
	id, ok := businessIDParam(c)
	if !ok {
		return "", false
	}
	business, err := h.Businesses.GetByID(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return "", false
	}
	if business == nil {
		respondMessage(c, http.StatusNotFound, "Business not found")
		return "", false
	}

	var url string
	if preferLanding && business.LandingPageURL != nil && *business.LandingPageURL != "" {
		url = *business.LandingPageURL
	} else if business.WebsiteURL != nil && *business.WebsiteURL != "" {
		url = *business.WebsiteURL
	}
	if url == "" {
		respondMessage(c, http.StatusBadRequest, "Business has no website URL configured")
		return "", false
	}
	return url, true
}

func (h *MonitoringHandlers) CheckUptime(c *gin.Context) {
	url, ok := h.targetURL(c, false)
	if !ok {
		return
	}
	result := h.Monitoring.CheckUptime(c.Request.Context(), url)
	respondOK(c, result)
}

func (h *MonitoringHandlers) RunAudit(c *gin.Context) {
	url, ok := h.targetURL(c, false)
	if !ok {
		return
	}
	result := h.Monitoring.RunAudit(c.Request.Context(), url)
	respondOK(c, result)
}

func (h *MonitoringHandlers) TestPaymentFlow(c *gin.Context) {
	url, ok := h.targetURL(c, true)
	if !ok {
		return
	}
	result := h.Monitoring.TestPaymentFlow(c.Request.Context(), url)
	respondOK(c, result)
}
