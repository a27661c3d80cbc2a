// Package gateway provides the authentication providers the session client is
// wired with: the real placements backend and an in-process mock.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"placements-hub/internal/domain"
)

const (
	tokenPath   = "/api/auth/token/"
	refreshPath = "/api/auth/token/refresh/"
)

// Backend talks to the placements backend's auth endpoints.
// Implements domain.AuthProvider.
type Backend struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewBackend creates a backend gateway with a tuned HTTP transport.
func NewBackend(baseURL string, timeout time.Duration, logger *slog.Logger) *Backend {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// Login authenticates with form-encoded username/password. The backend keys
// accounts by username, so the email's local part is tried first and the full
// email second.
func (g *Backend) Login(ctx context.Context, email, password string) (*domain.Credentials, error) {
	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}

	body, err := g.postForm(ctx, tokenPath, url.Values{
		"username": {username},
		"password": {password},
	})
	if err != nil && username != email {
		g.logger.DebugContext(ctx, "login with derived username failed, retrying with full email",
			"username", username, "error", err)
		body, err = g.postForm(ctx, tokenPath, url.Values{
			"username": {email},
			"password": {password},
		})
	}
	if err != nil {
		return nil, err
	}

	return normalizeTokens(body)
}

// Refresh exchanges a refresh token for a new pair, trying each known
// request-body variant until one succeeds.
func (g *Backend) Refresh(ctx context.Context, refreshToken string) (*domain.Credentials, error) {
	var lastErr error
	for _, payload := range refreshPayloads(refreshToken) {
		body, err := g.postJSON(ctx, refreshPath, payload)
		if err != nil {
			lastErr = err
			continue
		}
		creds, err := normalizeTokens(body)
		if err != nil {
			lastErr = err
			continue
		}
		return creds, nil
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrRefreshFailed, lastErr)
}

func (g *Backend) postForm(ctx context.Context, path string, values url.Values) (map[string]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path,
		strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return g.send(req)
}

func (g *Backend) postJSON(ctx context.Context, path string, payload any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return g.send(req)
}

func (g *Backend) send(req *http.Request) (map[string]json.RawMessage, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, g.apiError(resp.StatusCode, data)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidResponse, err)
	}
	return body, nil
}

// apiError maps a non-2xx auth response onto the domain error set, keeping
// the backend's detail message available through the chain.
func (g *Backend) apiError(status int, body []byte) error {
	apiErr := &domain.APIError{Status: status}
	_ = json.Unmarshal(body, apiErr)

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, apiErr)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrAccessDenied, apiErr)
	default:
		return apiErr
	}
}
