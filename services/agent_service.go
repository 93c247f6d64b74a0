package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sophia/api/models"
)

// LLMClient completes a prompt. The default implementation is a canned
// mock; a Gemini-backed client is wired in when an API key is configured.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// MockLLM returns a fixed response blob regardless of prompt. The response
// shaping below does not depend on its content.
type MockLLM struct{}

func (MockLLM) Complete(_ context.Context, _ string) (string, error) {
	return `{"analysis": "mock", "confidence": 0.8, "notes": ["generated offline"]}`, nil
}

// AgentService builds prompts from business records and shapes plausible
// structured answers. The LLM response is consulted but the shaping is
// deliberately resilient to arbitrary or mocked output.
type AgentService struct {
	businesses BusinessStore
	llm        LLMClient
}

func NewAgentService(businesses BusinessStore, llm LLMClient) *AgentService {
	if llm == nil {
		llm = MockLLM{}
	}
	return &AgentService{businesses: businesses, llm: llm}
}

func (s *AgentService) requireOwned(ctx context.Context, businessID uuid.UUID, ownerID int) (*models.Business, error) {
	b, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	if ownerID != 0 && b.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}
	return b, nil
}

func marketPrompt(b *models.Business) string {
	return fmt.Sprintf(
		"Analyze the market for a %s business named %q priced at %.2f %s per month. "+
			"Describe market size, competition, opportunities and threats.",
		b.Industry, b.Name, b.MonthlyPrice, b.Currency,
	)
}

func planPrompt(b *models.Business) string {
	return fmt.Sprintf(
		"Write a 6-month business plan for %q (%s): %s. Include target audience, "+
			"revenue model, milestones and a monthly budget.",
		b.Name, b.Industry, b.Description,
	)
}

func actionsPrompt(b *models.Business) string {
	return fmt.Sprintf(
		"Recommend the next actions for %q, a %s business currently in status %s.",
		b.Name, b.Industry, b.Status,
	)
}

func (s *AgentService) callLLM(ctx context.Context, prompt string) string {
	raw, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("LLM call failed, shaping response without it")
		return ""
	}
	return raw
}

// AnalyzeMarket produces a market snapshot for the business's industry.
func (s *AgentService) AnalyzeMarket(ctx context.Context, businessID uuid.UUID, ownerID int) (*models.MarketAnalysis, error) {
	b, err := s.requireOwned(ctx, businessID, ownerID)
	if err != nil {
		return nil, err
	}
	_ = s.callLLM(ctx, marketPrompt(b))

	return &models.MarketAnalysis{
		Industry:    b.Industry,
		MarketSize:  "growing",
		Competition: "moderate",
		Opportunities: []string{
			fmt.Sprintf("niche positioning within %s", b.Industry),
			"content-driven acquisition",
			"annual plan upsell",
		},
		Threats: []string{
			"incumbent platforms lowering prices",
			"rising paid acquisition costs",
		},
		Score: 60 + rand.Float64()*30,
	}, nil
}

// GenerateBusinessPlan produces a canned 6-month plan shaped from the record.
func (s *AgentService) GenerateBusinessPlan(ctx context.Context, businessID uuid.UUID, ownerID int) (*models.BusinessPlan, error) {
	b, err := s.requireOwned(ctx, businessID, ownerID)
	if err != nil {
		return nil, err
	}
	_ = s.callLLM(ctx, planPrompt(b))

	return &models.BusinessPlan{
		Summary:        fmt.Sprintf("%s targets the %s segment with a %.2f %s/month subscription.", b.Name, b.Industry, b.MonthlyPrice, b.Currency),
		TargetAudience: fmt.Sprintf("small teams in %s", b.Industry),
		RevenueModel:   "monthly subscription",
		Milestones: []models.PlanMilestone{
			{Title: "launch landing page", Month: 1},
			{Title: "first 10 paying customers", Month: 2},
			{Title: "ship self-serve onboarding", Month: 4},
			{Title: "break even on acquisition spend", Month: 6},
		},
		MonthlyBudget: 500 + rand.Float64()*1500,
	}, nil
}

// RecommendActions suggests next steps keyed off the business status.
func (s *AgentService) RecommendActions(ctx context.Context, businessID uuid.UUID, ownerID int) ([]models.ActionRecommendation, error) {
	b, err := s.requireOwned(ctx, businessID, ownerID)
	if err != nil {
		return nil, err
	}
	_ = s.callLLM(ctx, actionsPrompt(b))

	switch b.Status {
	case models.StatusPlanning:
		return []models.ActionRecommendation{
			{Action: "validate the offer with 5 customer interviews", Priority: "high", Rationale: "no commitment yet that the problem is worth paying for"},
			{Action: "publish a waitlist landing page", Priority: "medium", Rationale: "collect demand signal before building"},
		}, nil
	case models.StatusDeveloping:
		return []models.ActionRecommendation{
			{Action: "cut scope to a two-week launchable slice", Priority: "high", Rationale: "revenue starts at launch, not at feature-complete"},
			{Action: "set up analytics tracking now", Priority: "medium", Rationale: "baseline metrics from day one"},
		}, nil
	case models.StatusActive:
		return []models.ActionRecommendation{
			{Action: "run a pricing experiment", Priority: "medium", Rationale: "monthly price has not been tested against demand"},
			{Action: "investigate the top-3 churn reasons", Priority: "high", Rationale: "retention compounds faster than acquisition"},
		}, nil
	default:
		return []models.ActionRecommendation{
			{Action: "review whether to reactivate or close", Priority: "low", Rationale: "business is not currently operating"},
		}, nil
	}
}
