// Package uibot is the browser-driven delivery strategy. The target UI is
// not a stable contract: label text, element structure, and attribute names
// vary by account state, locale, and UI experiment, so every control is
// resolved through an ordered chain of independent detection strategies and
// total failure degrades to a diagnostic classification.
package uibot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// QueryKind selects the element search strategy.
type QueryKind int

const (
	ByCSS QueryKind = iota
	ByXPath
)

// Query is one element search expression.
type Query struct {
	Kind QueryKind
	Expr string
}

func CSS(expr string) Query   { return Query{Kind: ByCSS, Expr: expr} }
func XPath(expr string) Query { return Query{Kind: ByXPath, Expr: expr} }

// Element is a located page control.
type Element interface {
	Click() error
	Input(text string) error
}

// Surface is the controllable-browser capability the connect and login
// state machines operate on. The rod implementation is the production
// surface; tests substitute a scripted one.
type Surface interface {
	Navigate(ctx context.Context, url string) error
	// Find returns all current matches; an empty slice is not an error.
	Find(q Query) ([]Element, error)
	// WaitVisible polls for the first match up to timeout.
	WaitVisible(q Query, timeout time.Duration) (Element, error)
	ScrollBy(x, y int) error
	CurrentURL() (string, error)
	Sleep(d time.Duration)
}

// Config holds browser launch settings.
type Config struct {
	Headless            bool
	ViewportWidth       int
	ViewportHeight      int
	NavigationTimeoutMs int
	UserAgent           string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            false,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 30000,
		UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// NavigationTimeout returns the navigation timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// Browser owns the launched Chrome instance and its single working page.
type Browser struct {
	cfg      Config
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// Launch starts Chrome and opens the working page. The automation-control
// blink feature is disabled and navigator.webdriver masked so the session
// looks like an ordinary browser.
func Launch(ctx context.Context, cfg Config) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.ViewportWidth,
		Height:            cfg.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if cfg.UserAgent != "" {
		if err := (proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent}).Call(page); err != nil {
			_ = browser.Close()
			l.Cleanup()
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}
	if _, err := page.EvalOnNewDocument(
		`Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`); err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("mask webdriver flag: %w", err)
	}

	return &Browser{cfg: cfg, launcher: l, browser: browser, page: page}, nil
}

// Surface exposes the working page as a Surface.
func (b *Browser) Surface() Surface {
	return &rodSurface{page: b.page, cfg: b.cfg}
}

// Close shuts the browser down and reaps the Chrome process.
func (b *Browser) Close() error {
	err := b.browser.Close()
	b.launcher.Cleanup()
	return err
}

type rodSurface struct {
	page *rod.Page
	cfg  Config
}

func (s *rodSurface) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx).Timeout(s.cfg.NavigationTimeout())
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

func (s *rodSurface) Find(q Query) ([]Element, error) {
	var els rod.Elements
	var err error
	switch q.Kind {
	case ByXPath:
		els, err = s.page.ElementsX(q.Expr)
	default:
		els, err = s.page.Elements(q.Expr)
	}
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", q.Expr, err)
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = &rodElement{el: el}
	}
	return out, nil
}

func (s *rodSurface) WaitVisible(q Query, timeout time.Duration) (Element, error) {
	page := s.page.Timeout(timeout)
	var el *rod.Element
	var err error
	switch q.Kind {
	case ByXPath:
		el, err = page.ElementX(q.Expr)
	default:
		el, err = page.Element(q.Expr)
	}
	if err != nil {
		return nil, fmt.Errorf("wait for %q: %w", q.Expr, err)
	}
	if err := el.WaitVisible(); err != nil {
		return nil, fmt.Errorf("wait visible %q: %w", q.Expr, err)
	}
	return &rodElement{el: el}, nil
}

func (s *rodSurface) ScrollBy(x, y int) error {
	_, err := s.page.Eval(`(x, y) => window.scrollBy(x, y)`, x, y)
	return err
}

func (s *rodSurface) CurrentURL() (string, error) {
	info, err := s.page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (s *rodSurface) Sleep(d time.Duration) {
	time.Sleep(d)
}

type rodElement struct {
	el *rod.Element
}

// Click scrolls the control into view first; profile pages float sticky
// overlays that swallow clicks on off-screen targets.
func (e *rodElement) Click() error {
	if err := e.el.ScrollIntoView(); err != nil {
		return err
	}
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Input(text string) error {
	if err := e.el.SelectAllText(); err != nil {
		return err
	}
	return e.el.Input(text)
}

// truncate cuts s to at most n runes for diagnostic strings.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
