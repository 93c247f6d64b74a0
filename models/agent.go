package models

type MarketAnalysis struct {
	Industry      string   `json:"industry"`
	MarketSize    string   `json:"marketSize"`
	Competition   string   `json:"competition"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
	Score         float64  `json:"score"`
}

type PlanMilestone struct {
	Title string `json:"title"`
	Month int    `json:"month"`
}

type BusinessPlan struct {
	Summary        string          `json:"summary"`
	TargetAudience string          `json:"targetAudience"`
	RevenueModel   string          `json:"revenueModel"`
	Milestones     []PlanMilestone `json:"milestones"`
	MonthlyBudget  float64         `json:"monthlyBudget"`
}

type ActionRecommendation struct {
	Action    string `json:"action"`
	Priority  string `json:"priority"`
	Rationale string `json:"rationale"`
}
