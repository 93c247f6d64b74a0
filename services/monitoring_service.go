package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"sophia/api/browser"
	"sophia/api/models"
)

// Browser opens pages. The production implementation drives headless
// Chrome; tests substitute a fake.
type Browser interface {
	Open(ctx context.Context, url string) (browser.Page, error)
}

// subscribeSelectors are tried in order when hunting for a subscribe
// control on a landing page.
var subscribeSelectors = []string{
	"#subscribe",
	".subscribe-button",
	"button[data-subscribe]",
	"a[href*='subscribe']",
	"a[href*='pricing']",
	"button[type='submit']",
}

// checkoutSelectors indicate a payment form was reached.
var checkoutSelectors = []string{
	"form[action*='checkout']",
	"iframe[src*='stripe']",
	"input[name='cardnumber']",
	"#checkout",
}

// MonitoringService runs best-effort diagnostics against business sites.
// Failures fold into the result object rather than propagating; these are
// diagnostics, not correctness-critical operations.
type MonitoringService struct {
	browser Browser
}

func NewMonitoringService(b Browser) *MonitoringService {
	return &MonitoringService{browser: b}
}

type pageSnapshot struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	Errors          []string `json:"errors"`
	BrokenImages    int      `json:"brokenImages"`
	MissingAlt      int      `json:"missingAlt"`
	DOMNodes        int      `json:"domNodes"`
}

const snapshotJS = `() => {
	const imgs = Array.from(document.images);
	const meta = document.querySelector('meta[name="description"]');
	return {
		title: document.title,
		metaDescription: meta ? meta.content : '',
		errors: window.__pageErrors || [],
		brokenImages: imgs.filter(i => i.complete && i.naturalWidth === 0).length,
		missingAlt: imgs.filter(i => !i.alt).length,
		domNodes: document.getElementsByTagName('*').length,
	};
}`

// CheckUptime loads the site and reads a health snapshot. A navigation
// failure is reported as httpStatus 500, not an error return.
func (s *MonitoringService) CheckUptime(ctx context.Context, url string) models.UptimeResult {
	result := models.UptimeResult{URL: url, CheckedAt: time.Now().UTC()}

	start := time.Now()
	page, err := s.browser.Open(ctx, url)
	if err != nil {
		result.HTTPStatus = 500
		result.HasErrors = true
		result.ErrorMessages = append(result.ErrorMessages, err.Error())
		return result
	}
	defer page.Close()

	result.Up = true
	result.HTTPStatus = 200
	result.LoadTimeMs = time.Since(start).Milliseconds()

	var snap pageSnapshot
	if err := page.Eval(ctx, snapshotJS, &snap); err != nil {
		result.HasErrors = true
		result.ErrorMessages = append(result.ErrorMessages, fmt.Sprintf("snapshot failed: %v", err))
		return result
	}
	result.Title = snap.Title
	if len(snap.Errors) > 0 || snap.BrokenImages > 0 {
		result.HasErrors = true
		result.ErrorMessages = append(result.ErrorMessages, snap.Errors...)
		if snap.BrokenImages > 0 {
			result.ErrorMessages = append(result.ErrorMessages, fmt.Sprintf("%d broken images", snap.BrokenImages))
		}
	}

	if _, err := page.Screenshot(ctx); err != nil {
		log.Debug().Err(err).Str("url", url).Msg("Screenshot capture failed")
	}

	return result
}

// RunAudit runs a simplified performance/accessibility pass.
func (s *MonitoringService) RunAudit(ctx context.Context, url string) models.AuditResult {
	result := models.AuditResult{URL: url}

	page, err := s.browser.Open(ctx, url)
	if err != nil {
		result.HasErrors = true
		result.ErrorMessages = append(result.ErrorMessages, err.Error())
		return result
	}
	defer page.Close()

	var snap pageSnapshot
	if err := page.Eval(ctx, snapshotJS, &snap); err != nil {
		result.HasErrors = true
		result.ErrorMessages = append(result.ErrorMessages, fmt.Sprintf("snapshot failed: %v", err))
		return result
	}

	result.Title = snap.Title
	result.MetaDescription = snap.MetaDescription
	result.ImagesMissingAlt = snap.MissingAlt
	result.BrokenResources = snap.BrokenImages
	result.DOMNodes = snap.DOMNodes
	if snap.Title == "" {
		result.HasErrors = true
		result.ErrorMessages = append(result.ErrorMessages, "page has no title")
	}
	if snap.MetaDescription == "" {
		result.HasErrors = true
		result.ErrorMessages = append(result.ErrorMessages, "page has no meta description")
	}
	return result
}

// TestPaymentFlow scripts a subscribe attempt against a fixed list of
// selector heuristics, recording partial success per step.
func (s *MonitoringService) TestPaymentFlow(ctx context.Context, url string) models.PaymentFlowResult {
	result := models.PaymentFlowResult{URL: url}

	page, err := s.browser.Open(ctx, url)
	if err != nil {
		result.Steps = append(result.Steps, models.PaymentFlowStep{Name: "navigate", Detail: err.Error()})
		return result
	}
	defer page.Close()
	result.Steps = append(result.Steps, models.PaymentFlowStep{Name: "navigate", OK: true})

	var subscribe string
	for _, selector := range subscribeSelectors {
		has, err := page.Has(ctx, selector)
		if err != nil {
			continue
		}
		if has {
			subscribe = selector
			break
		}
	}
	if subscribe == "" {
		result.Steps = append(result.Steps, models.PaymentFlowStep{Name: "find subscribe control", Detail: "no matching selector"})
		return result
	}
	result.Steps = append(result.Steps, models.PaymentFlowStep{Name: "find subscribe control", OK: true, Detail: subscribe})

	if err := page.Click(ctx, subscribe); err != nil {
		result.Steps = append(result.Steps, models.PaymentFlowStep{Name: "click subscribe", Detail: err.Error()})
		return result
	}
	result.Steps = append(result.Steps, models.PaymentFlowStep{Name: "click subscribe", OK: true})

	reached := false
	for _, selector := range checkoutSelectors {
		has, err := page.Has(ctx, selector)
		if err == nil && has {
			reached = true
			break
		}
	}
	result.Steps = append(result.Steps, models.PaymentFlowStep{Name: "reach checkout", OK: reached})
	result.Completed = reached
	return result
}
