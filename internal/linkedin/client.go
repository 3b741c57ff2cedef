// Package linkedin is the direct API delivery strategy: a cookie-session
// HTTP client against the Voyager-style endpoints. Authentication failures
// are fatal to the whole run; a single profile's resolve or send failure is
// a per-item classification.
package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://www.linkedin.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	sessionCookie    = "li_at"
	csrfCookie       = "JSESSIONID"
)

// ErrAuthFailed marks an authentication boundary failure. Callers abort the
// run on it rather than retrying per profile.
var ErrAuthFailed = errors.New("linkedin: authentication failed")

// ErrProfileNotFound reports a missing or private profile.
var ErrProfileNotFound = errors.New("linkedin: profile not found")

// apiError is a non-OK or malformed response from a voyager endpoint.
type apiError struct {
	status int
	path   string
	reason string
}

func (e *apiError) Error() string {
	if e.reason != "" {
		return fmt.Sprintf("linkedin: %s: %s", e.path, e.reason)
	}
	return fmt.Sprintf("linkedin: %s returned %d", e.path, e.status)
}

// Options configures a Client.
type Options struct {
	Email    string
	Password string

	// BaseURL overrides the endpoint root, for tests.
	BaseURL string
	// CookiePath is where the session cookies are cached between runs.
	// Empty disables caching.
	CookiePath string
	// RequestsPerSecond gates all voyager calls. <=0 disables the limiter.
	RequestsPerSecond float64
	Timeout           time.Duration
	Log               *zap.Logger
}

// Client is a cookie-session LinkedIn API client.
type Client struct {
	http       *http.Client
	jar        *cookiejar.Jar
	base       *url.URL
	limiter    *rate.Limiter
	log        *zap.Logger
	email      string
	password   string
	cookiePath string
}

// NewClient builds a client. Call Authenticate before any other operation.
func NewClient(opts Options) (*Client, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		http:       &http.Client{Jar: jar, Timeout: timeout},
		jar:        jar,
		base:       base,
		limiter:    limiter,
		log:        log,
		email:      opts.Email,
		password:   opts.Password,
		cookiePath: opts.CookiePath,
	}, nil
}

// Authenticate establishes a session. Cached cookies are reused unless
// refresh is set; otherwise the credential handshake runs and the resulting
// cookies are cached for the next run.
func (c *Client) Authenticate(ctx context.Context, refresh bool) error {
	if !refresh && c.loadCookies() {
		c.log.Info("using cached session cookies", zap.String("path", c.cookiePath))
		return nil
	}

	// Seed the CSRF cookie first; the login endpoint requires it echoed
	// back as a header.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/uas/authenticate"), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: seed request: %v", ErrAuthFailed, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	form := url.Values{}
	form.Set("session_key", c.email)
	form.Set("session_password", c.password)

	req, err = http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("/uas/authenticate"), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("csrf-token", c.csrfToken())

	resp, err = c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}
	var result struct {
		LoginResult string `json:"login_result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrAuthFailed, err)
	}
	if result.LoginResult != "PASS" {
		return fmt.Errorf("%w: login_result=%s", ErrAuthFailed, result.LoginResult)
	}
	if !c.hasSessionCookie() {
		return fmt.Errorf("%w: no session cookie issued", ErrAuthFailed)
	}

	c.saveCookies()
	c.log.Info("authenticated", zap.String("email", c.email))
	return nil
}

// Profile is the subset of the profile payload this system reads.
type Profile struct {
	EntityURN        string `json:"entityUrn"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Headline         string `json:"headline"`
	PublicIdentifier string `json:"publicIdentifier"`
}

// URNID returns the bare identifier from the profile's entity URN
// (urn:li:fs_profile:<id> → <id>), or "" when the payload carried none.
func (p Profile) URNID() string {
	if p.EntityURN == "" {
		return ""
	}
	parts := strings.Split(p.EntityURN, ":")
	return parts[len(parts)-1]
}

// GetProfile fetches the structured profile for a public handle.
func (c *Client) GetProfile(ctx context.Context, handle string) (Profile, error) {
	path := "/voyager/api/identity/profiles/" + url.PathEscape(handle) + "/profileView"
	body, err := c.get(ctx, path)
	if err != nil {
		return Profile{}, err
	}

	var view struct {
		Profile Profile `json:"profile"`
	}
	if err := json.Unmarshal(body, &view); err != nil {
		return Profile{}, &apiError{path: path, reason: "malformed payload"}
	}
	return view.Profile, nil
}

// AddConnection sends an invitation using a pre-resolved profile URN. It
// never re-fetches the profile. Returns false when the platform rejected the
// invite without a transport failure.
func (c *Client) AddConnection(ctx context.Context, handle, urnID, message string) (bool, error) {
	payload := map[string]any{
		"trackingId":         uuid.NewString(),
		"message":            message,
		"invitations":        []any{},
		"excludeInvitations": []any{},
		"invitee": map[string]any{
			"com.linkedin.voyager.growth.invitation.InviteeProfile": map[string]any{
				"profileId": urnID,
			},
		},
	}
	status, err := c.post(ctx, "/voyager/api/growth/normInvitations", payload)
	if err != nil {
		return false, err
	}
	if status == http.StatusOK || status == http.StatusCreated {
		return true, nil
	}
	c.log.Debug("invitation rejected", zap.String("handle", handle), zap.Int("status", status))
	return false, nil
}

// UnfollowProfile stops following a profile by URN id. Used as a best-effort
// side-effect after a successful invite.
func (c *Client) UnfollowProfile(ctx context.Context, urnID string) error {
	payload := map[string]any{
		"urn": "urn:li:fs_followingInfo:" + urnID,
	}
	status, err := c.post(ctx, "/voyager/api/feed/follows?action=unfollowByEntityUrn", payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &apiError{status: status, path: "unfollowByEntityUrn"}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return nil, err
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProfileNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, &apiError{status: resp.StatusCode, path: path}
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	c.decorate(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("csrf-token", c.csrfToken())
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.base.String(), "/") + path
}

// csrfToken echoes the JSESSIONID cookie value, quotes stripped, the way the
// voyager endpoints expect it.
func (c *Client) csrfToken() string {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == csrfCookie {
			return strings.Trim(ck.Value, `"`)
		}
	}
	return ""
}

func (c *Client) hasSessionCookie() bool {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == sessionCookie && ck.Value != "" {
			return true
		}
	}
	return false
}

// cachedCookie is the on-disk cookie form.
type cachedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// loadCookies restores a cached session. Returns true only when a session
// cookie was restored.
func (c *Client) loadCookies() bool {
	if c.cookiePath == "" {
		return false
	}
	data, err := os.ReadFile(c.cookiePath)
	if err != nil {
		return false
	}
	var cached []cachedCookie
	if err := json.Unmarshal(data, &cached); err != nil {
		c.log.Debug("discarding unreadable cookie cache", zap.Error(err))
		return false
	}
	cookies := make([]*http.Cookie, 0, len(cached))
	for _, ck := range cached {
		cookies = append(cookies, &http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	c.jar.SetCookies(c.base, cookies)
	return c.hasSessionCookie()
}

func (c *Client) saveCookies() {
	if c.cookiePath == "" {
		return
	}
	var cached []cachedCookie
	for _, ck := range c.jar.Cookies(c.base) {
		cached = append(cached, cachedCookie{Name: ck.Name, Value: ck.Value})
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.cookiePath), 0o755); err != nil {
		c.log.Debug("cookie cache dir", zap.Error(err))
		return
	}
	if err := os.WriteFile(c.cookiePath, data, 0o600); err != nil {
		c.log.Debug("cookie cache write", zap.Error(err))
	}
}
