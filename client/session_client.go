// Package client implements the authenticated transport layer of the
// placements portal: bearer token injection, the single refresh-and-retry on
// 401, and the login/logout flows around it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"placements-hub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"
)

// Config holds session client settings.
type Config struct {
	// BaseURL is the placements backend root, e.g. http://127.0.0.1:8000.
	BaseURL string
	// Timeout bounds each HTTP attempt.
	Timeout time.Duration
	// UserAgent is reported in session details and outgoing requests.
	UserAgent string
	// EnableGeo turns on the external IP/geolocation lookups during session
	// detail collection. Off by default; lookups are best-effort either way.
	EnableGeo bool
	// OnSessionExpired is invoked when a token refresh fails irrecoverably,
	// after credentials have been cleared. The navigation-to-login hook.
	OnSessionExpired func()
}

// SessionClient wraps an HTTP client with transparent authentication against
// the placements backend. It is constructed once at application start and
// injected wherever authenticated calls are made.
type SessionClient struct {
	cfg        Config
	httpClient *http.Client
	store      domain.CredentialStore
	provider   domain.AuthProvider
	profiles   *ProfileService
	logger     *slog.Logger
}

// New creates a session client. The provider decides whether login/refresh go
// to the real backend or the offline mock.
func New(cfg Config, store domain.CredentialStore, provider domain.AuthProvider, logger *slog.Logger) *SessionClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "placements-hub/dev"
	}

	c := &SessionClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		store:      store,
		provider:   provider,
		logger:     logger,
	}
	c.profiles = NewProfileService(c, store, logger)
	return c
}

// Profiles returns the profile fetcher bound to this client.
func (c *SessionClient) Profiles() *ProfileService {
	return c.profiles
}

// Store returns the credential store this client writes to.
func (c *SessionClient) Store() domain.CredentialStore {
	return c.store
}

// Do sends an authenticated request. On a 401 it attempts one token refresh
// and retries the request once; a second 401 is returned as-is.
func (c *SessionClient) Do(req *http.Request) (*http.Response, error) {
	return c.do(req, 0)
}

// do carries the attempt count explicitly so the retry policy has no hidden
// state on the request object.
func (c *SessionClient) do(req *http.Request, attempt int) (*http.Response, error) {
	if token, ok := c.store.AccessToken(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	// Only the original attempt may trigger a refresh.
	if resp.StatusCode != http.StatusUnauthorized || attempt > 0 {
		return resp, nil
	}

	refresh, ok := c.store.RefreshToken()
	if !ok {
		// Nothing to refresh with; the original 401 stands.
		return resp, nil
	}

	creds, err := c.provider.Refresh(req.Context(), refresh)
	if err != nil {
		resp.Body.Close()
		c.store.Logout()
		if c.cfg.OnSessionExpired != nil {
			c.cfg.OnSessionExpired()
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
	}
	c.store.SetTokens(creds.Access, creds.Refresh)
	c.logger.DebugContext(req.Context(), "access token refreshed after 401", "url", req.URL.Path)

	resp.Body.Close()
	retry, err := cloneRequest(req)
	if err != nil {
		return nil, err
	}
	return c.do(retry, attempt+1)
}

// Get issues an authenticated GET against a backend path.
func (c *SessionClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Post issues an authenticated JSON POST against a backend path.
func (c *SessionClient) Post(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

// Login authenticates, stores the normalized token pair and email, then runs
// the post-login steps (profile prefetch, session detail reporting). The
// post-login steps are best-effort: their failures are logged, never
// propagated.
func (c *SessionClient) Login(ctx context.Context, email, password string) (*domain.Credentials, error) {
	creds, err := c.provider.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	c.store.SetTokens(creds.Access, creds.Refresh)
	c.store.SetUserEmail(email)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := c.profiles.Fetch(gctx); err != nil {
			c.logger.WarnContext(gctx, "profile prefetch after login failed", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		details := c.collectSessionDetails(gctx)
		if err := c.sendSessionDetails(gctx, details); err != nil {
			c.logger.WarnContext(gctx, "failed to report session details", "error", err)
		}
		return nil
	})
	_ = g.Wait()

	return creds, nil
}

// Logout clears all stored credentials and the cached profile.
func (c *SessionClient) Logout() {
	c.store.Logout()
}

// IsAuthenticated reports whether a usable access token is stored. Tokens
// that parse as JWTs are checked against their embedded expiry claim (an
// expired token is cleared); anything else counts by presence alone, which
// covers the mock provider's opaque tokens.
func (c *SessionClient) IsAuthenticated() bool {
	raw, ok := c.store.AccessToken()
	if !ok {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	if exp.Before(time.Now()) {
		c.store.Logout()
		return false
	}
	return true
}

// HasGroup reports whether the cached profile carries the group.
func (c *SessionClient) HasGroup(group string) bool {
	profile, ok := c.store.Profile()
	return ok && profile.HasGroup(group)
}

// HasPermission reports whether the cached profile carries the permission.
func (c *SessionClient) HasPermission(permission string) bool {
	profile, ok := c.store.Profile()
	return ok && profile.HasPermission(permission)
}

// IsUserActive reports the cached profile's active flag; no profile reads as
// inactive.
func (c *SessionClient) IsUserActive() bool {
	profile, ok := c.store.Profile()
	return ok && profile.IsActive
}

func (c *SessionClient) url(path string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + path
}

// cloneRequest duplicates a request for the retry, rewinding the body via
// GetBody. Requests built with bytes or strings readers get GetBody for free
// from net/http.
func cloneRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("cannot retry request: body is not rewindable")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}
