package domain

import (
	"errors"
	"fmt"
)

// Credential errors, surfaced verbatim to the user.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrAccessDenied       = errors.New("access denied")
)

// Session lifecycle errors.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")
	ErrRefreshFailed    = errors.New("token refresh failed")
)

// Transport and format errors.
var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInvalidResponse    = errors.New("invalid response format")
)

// APIError carries the backend's HTTP status and `detail` payload so callers
// can tell credential rejections apart from transport failures.
type APIError struct {
	Status int    `json:"-"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}
