package handlers

import (
	"github.com/gin-gonic/gin"

	"sophia/api/services"
)

type AgentHandlers struct {
	Service *services.AgentService
}

func NewAgentHandlers(service *services.AgentService) *AgentHandlers {
	return &AgentHandlers{Service: service}
}

func (h *AgentHandlers) AnalyzeMarket(c *gin.Context) {
	id, ok := businessIDParam(c)
	if !ok {
		return
	}
	analysis, err := h.Service.AnalyzeMarket(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, analysis)
}

func (h *AgentHandlers) GenerateBusinessPlan(c *gin.Context) {
	id, ok := businessIDParam(c)
	if !ok {
		return
	}
	plan, err := h.Service.GenerateBusinessPlan(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, plan)
}

func (h *AgentHandlers) RecommendActions(c *gin.Context) {
	id, ok := businessIDParam(c)
	if !ok {
		return
	}
	actions, err := h.Service.RecommendActions(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, actions)
}
