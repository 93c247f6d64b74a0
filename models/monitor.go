package models

import "time"

// UptimeResult is a best-effort health snapshot of a business site.
// Failures fold into HasErrors/ErrorMessages instead of propagating.
type UptimeResult struct {
	URL           string    `json:"url"`
	Up            bool      `json:"up"`
	HTTPStatus    int       `json:"httpStatus"`
	Title         string    `json:"title"`
	LoadTimeMs    int64     `json:"loadTimeMs"`
	HasErrors     bool      `json:"hasErrors"`
	ErrorMessages []string  `json:"errorMessages,omitempty"`
	CheckedAt     time.Time `json:"checkedAt"`
}

type AuditResult struct {
	URL              string   `json:"url"`
	Title            string   `json:"title"`
	MetaDescription  string   `json:"metaDescription"`
	ImagesMissingAlt int      `json:"imagesMissingAlt"`
	BrokenResources  int      `json:"brokenResources"`
	DOMNodes         int      `json:"domNodes"`
	HasErrors        bool     `json:"hasErrors"`
	ErrorMessages    []string `json:"errorMessages,omitempty"`
}

type PaymentFlowStep struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

type PaymentFlowResult struct {
	URL       string            `json:"url"`
	Steps     []PaymentFlowStep `json:"steps"`
	Completed bool              `json:"completed"`
}
