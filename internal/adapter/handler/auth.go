// Package handler implements the mock placements backend's HTTP endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"placements-hub/internal/domain"
	"placements-hub/internal/infrastructure/sessionlog"
	"placements-hub/internal/infrastructure/token"
	"placements-hub/internal/mockdata"
	"placements-hub/middleware"

	"github.com/labstack/echo/v4"
)

// Profile response shapes the user endpoint can be configured to serve. The
// non-canonical shapes exist to exercise client-side normalization.
const (
	ProfileShapeStandard    = "standard"
	ProfileShapePermissions = "permissions"
	ProfileShapeMinimal     = "minimal"
)

const (
	detailInvalidCredentials = "Invalid credentials"
	detailInactiveAccount    = "Account is inactive"
	detailAccessDenied       = "Access denied. User must be placement staff or student."
	detailInvalidRefresh     = "Invalid or expired refresh token"
)

// AuthHandler serves the token, user and session endpoints.
type AuthHandler struct {
	issuer       *token.Issuer
	sessions     *sessionlog.Store
	profileShape string
	logger       *slog.Logger
}

// NewAuthHandler creates the auth handler. profileShape selects which user
// endpoint response layout is served; unknown values fall back to standard.
func NewAuthHandler(issuer *token.Issuer, sessions *sessionlog.Store, profileShape string, logger *slog.Logger) *AuthHandler {
	switch profileShape {
	case ProfileShapeStandard, ProfileShapePermissions, ProfileShapeMinimal:
	default:
		profileShape = ProfileShapeStandard
	}
	return &AuthHandler{
		issuer:       issuer,
		sessions:     sessions,
		profileShape: profileShape,
		logger:       logger,
	}
}

// tokenRequest accepts the JSON login body; form logins are read separately.
type tokenRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Token handles POST /api/auth/token/: password login for both form-encoded
// and JSON bodies.
func (h *AuthHandler) Token(c echo.Context) error {
	ctx := c.Request().Context()

	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "malformed request body")
	}
	if req.Password == "" || (req.Email == "" && req.Username == "") {
		return detail(c, http.StatusBadRequest, "username and password are required")
	}

	user, ok := mockdata.FindByLogin(req.Email, req.Username)
	if !ok || user.Password != req.Password {
		h.logger.InfoContext(ctx, "login rejected", "username", req.Username, "email", req.Email)
		return detail(c, http.StatusUnauthorized, detailInvalidCredentials)
	}
	if !user.Profile.IsActive {
		h.logger.InfoContext(ctx, "login rejected for inactive account", "username", user.Username)
		return detail(c, http.StatusUnauthorized, detailInactiveAccount)
	}
	if !user.Profile.HasGroup(domain.PlacementGroup) && !user.Profile.HasGroup("student") {
		h.logger.InfoContext(ctx, "login rejected for unauthorized group", "username", user.Username)
		return detail(c, http.StatusForbidden, detailAccessDenied)
	}

	pair, err := h.issuer.IssuePair(user.ID, user.UserType, &user.Profile)
	if err != nil {
		h.logger.ErrorContext(ctx, "token generation failed", "error", err)
		return detail(c, http.StatusInternalServerError, "token generation failed")
	}

	h.logger.InfoContext(ctx, "login succeeded", "username", user.Username, "user_type", user.UserType)
	return c.JSON(http.StatusOK, pair)
}

// refreshRequest accepts any of the refresh body variants clients send.
type refreshRequest struct {
	Refresh      string `json:"refresh"`
	RefreshToken string `json:"refresh_token"`
	Token        string `json:"token"`
}

func (r *refreshRequest) value() string {
	switch {
	case r.Refresh != "":
		return r.Refresh
	case r.RefreshToken != "":
		return r.RefreshToken
	default:
		return r.Token
	}
}

// Refresh handles POST /api/auth/token/refresh/: exchanges a refresh token
// for a new pair. The account is re-read so deactivation takes effect at the
// next refresh.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "malformed request body")
	}
	raw := req.value()
	if raw == "" {
		return detail(c, http.StatusBadRequest, "refresh token is required")
	}

	claims, err := h.issuer.VerifyRefresh(raw)
	if err != nil {
		return detail(c, http.StatusUnauthorized, detailInvalidRefresh)
	}

	user, ok := mockdata.FindByID(claims.UserID)
	if !ok || !user.Profile.IsActive {
		h.logger.InfoContext(ctx, "refresh rejected", "user_id", claims.UserID)
		return detail(c, http.StatusUnauthorized, detailInvalidRefresh)
	}

	pair, err := h.issuer.IssuePair(user.ID, user.UserType, &user.Profile)
	if err != nil {
		h.logger.ErrorContext(ctx, "token generation failed", "error", err)
		return detail(c, http.StatusInternalServerError, "token generation failed")
	}
	return c.JSON(http.StatusOK, pair)
}

// User handles GET /api/auth/user/: the authenticated user's profile, in the
// configured response shape.
func (h *AuthHandler) User(c echo.Context) error {
	claims := middleware.AccessClaims(c)
	if claims == nil {
		return detail(c, http.StatusUnauthorized, "authentication required")
	}

	user, ok := mockdata.FindByID(claims.UserID)
	if !ok {
		return detail(c, http.StatusNotFound, "user not found")
	}

	switch h.profileShape {
	case ProfileShapePermissions:
		return c.JSON(http.StatusOK, map[string]any{
			"id":          user.ID,
			"email":       user.Email,
			"username":    user.Username,
			"first_name":  user.Profile.FirstName,
			"last_name":   user.Profile.LastName,
			"is_active":   user.Profile.IsActive,
			"groups":      user.Profile.Groups,
			"permissions": user.Profile.Permissions,
		})
	case ProfileShapeMinimal:
		return c.JSON(http.StatusOK, map[string]any{
			"id":        user.ID,
			"email":     user.Email,
			"firstName": user.Profile.FirstName,
			"lastName":  user.Profile.LastName,
			"roles":     user.Profile.Groups,
		})
	default:
		return c.JSON(http.StatusOK, user.Profile)
	}
}

// CreateSession handles POST /api/auth/session/: validated session snapshot
// intake.
func (h *AuthHandler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	var details domain.SessionDetails
	if err := c.Bind(&details); err != nil {
		return detail(c, http.StatusBadRequest, "malformed request body")
	}
	if err := c.Validate(&details); err != nil {
		return err
	}

	if err := h.sessions.Record(ctx, details); err != nil {
		h.logger.ErrorContext(ctx, "recording session details failed", "error", err)
		return detail(c, http.StatusInternalServerError, "failed to record session")
	}

	h.logger.InfoContext(ctx, "session details recorded", "ip", details.IP, "os", details.OS)
	return c.JSON(http.StatusCreated, map[string]string{"status": "recorded"})
}

// ListSessions handles GET /api/auth/sessions/: the live audit entries.
func (h *AuthHandler) ListSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"count":   h.sessions.Len(),
		"results": h.sessions.List(),
	})
}

// detail writes the backend's error envelope.
func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}
