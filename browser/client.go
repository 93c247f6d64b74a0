// Package browser wraps a headless Chrome instance behind the small surface
// the monitoring service needs: open a page, evaluate JavaScript, poke at
// selectors, screenshot.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Headless          bool
	ViewportWidth     int
	ViewportHeight    int
	NavigationTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Headless:          true,
		ViewportWidth:     1280,
		ViewportHeight:    800,
		NavigationTimeout: 30 * time.Second,
	}
}

// Client owns the Chrome instance. Launch is lazy: the first page open
// starts the browser.
type Client struct {
	cfg     Config
	mu      sync.Mutex
	browser *rod.Browser
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) ensureStarted() (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		if _, err := c.browser.Version(); err == nil {
			return c.browser, nil
		}
		log.Warn().Msg("Stale browser connection detected, reconnecting")
		_ = c.browser.Close()
		c.browser = nil
	}

	controlURL, err := launcher.New().Headless(c.cfg.Headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	c.browser = browser
	return browser, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.browser == nil {
		return nil
	}
	err := c.browser.Close()
	c.browser = nil
	return err
}

// Open navigates a fresh incognito page to the URL and waits for load.
func (c *Client) Open(ctx context.Context, url string) (Page, error) {
	browser, err := c.ensureStarted()
	if err != nil {
		return nil, err
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             c.cfg.ViewportWidth,
		Height:            c.cfg.ViewportHeight,
		DeviceScaleFactor: 1.0,
	}).Call(page); err != nil {
		log.Warn().Err(err).Msg("Failed to set viewport")
	}

	timed := page.Context(ctx).Timeout(c.cfg.NavigationTimeout)
	if err := timed.Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := timed.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("wait load %s: %w", url, err)
	}

	return &rodPage{page: page, timeout: c.cfg.NavigationTimeout}, nil
}

// Page is the per-page surface. The monitoring tests fake it.
type Page interface {
	Eval(ctx context.Context, js string, out interface{}) error
	Has(ctx context.Context, selector string) (bool, error)
	Click(ctx context.Context, selector string) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

type rodPage struct {
	page    *rod.Page
	timeout time.Duration
}

func (p *rodPage) Eval(ctx context.Context, js string, out interface{}) error {
	res, err := p.page.Context(ctx).Timeout(p.timeout).Eval(js)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	data, err := json.Marshal(res.Value.Val())
	if err != nil {
		return fmt.Errorf("marshal eval result: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode eval result: %w", err)
	}
	return nil
}

func (p *rodPage) Has(ctx context.Context, selector string) (bool, error) {
	has, _, err := p.page.Context(ctx).Has(selector)
	return has, err
}

func (p *rodPage) Click(ctx context.Context, selector string) error {
	el, err := p.page.Context(ctx).Timeout(p.timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s: %w", selector, err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (p *rodPage) Screenshot(ctx context.Context) ([]byte, error) {
	return p.page.Context(ctx).Screenshot(false, nil)
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
