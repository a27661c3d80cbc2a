package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"placements-hub/internal/domain"
	"placements-hub/internal/infrastructure/sessionlog"
	"placements-hub/internal/infrastructure/token"
	"placements-hub/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T, profileShape string) (*echo.Echo, *AuthHandler, *token.Issuer) {
	t.Helper()
	issuer := token.NewIssuer(token.Config{
		Secret:     "test-secret",
		Issuer:     "placements-hub-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	sessions := sessionlog.NewStore(time.Hour)
	t.Cleanup(sessions.Stop)
	h := NewAuthHandler(issuer, sessions, profileShape, slog.Default())

	e := echo.New()
	e.Validator = NewValidator()
	e.POST("/api/auth/token/", h.Token)
	e.POST("/api/auth/token/refresh/", h.Refresh)
	e.GET("/api/auth/user/", h.User, middleware.BearerAuth(issuer))
	e.POST("/api/auth/session/", h.CreateSession, middleware.BearerAuth(issuer))
	e.GET("/api/auth/session/", h.ListSessions, middleware.BearerAuth(issuer))
	return e, h, issuer
}

func doJSON(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func loginStaff(t *testing.T, e *echo.Echo) domain.Credentials {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/auth/token/",
		`{"username":"placement_admin","password":"Mits@1234"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var pair domain.Credentials
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func TestToken_FormLogin(t *testing.T) {
	e, _, issuer := newAuthFixture(t, ProfileShapeStandard)

	form := url.Values{"username": {"placement_admin"}, "password": {"Mits@1234"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var pair domain.Credentials
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	claims, err := issuer.VerifyAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "placement_admin", claims.Username)
	assert.Contains(t, claims.Groups, "placement")
}

func TestToken_JSONLoginByEmail(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeStandard)

	rec := doJSON(e, http.MethodPost, "/api/auth/token/",
		`{"email":"mrvidhyasree@mits.ac.in","password":"password123"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestToken_WrongPassword(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeStandard)

	rec := doJSON(e, http.MethodPost, "/api/auth/token/",
		`{"username":"placement_admin","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestToken_InactiveAccount(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeStandard)

	// A correct password on a deactivated account is a distinct rejection
	// from a bad password.
	rec := doJSON(e, http.MethodPost, "/api/auth/token/",
		`{"username":"disabled_staff","password":"password123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Account is inactive")
	assert.NotContains(t, rec.Body.String(), "Invalid credentials")
}

func TestToken_WrongGroupIsForbidden(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeStandard)

	rec := doJSON(e, http.MethodPost, "/api/auth/token/",
		`{"username":"guest","password":"guest123"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")
}

func TestToken_MissingFields(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeStandard)

	rec := doJSON(e, http.MethodPost, "/api/auth/token/", `{"username":"placement_admin"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefresh_AcceptsAllBodyVariants(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeStandard)
	pair := loginStaff(t, e)

	for _, key := range []string{"refresh", "refresh_token", "token"} {
		body, _ := json.Marshal(map[string]string{key: pair.Refresh})
		rec := doJSON(e, http.MethodPost, "/api/auth/token/refresh/", string(body), "")
		require.Equal(t, http.StatusOK, rec.Code, "variant %q", key)

		var renewed domain.Credentials
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &renewed))
		assert.NotEmpty(t, renewed.Access)
	}
}

func TestRefresh_RejectsGarbage(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeStandard)

	rec := doJSON(e, http.MethodPost, "/api/auth/token/refresh/", `{"refresh":"garbage"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired refresh token")
}

func TestRefresh_MissingToken(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeStandard)

	rec := doJSON(e, http.MethodPost, "/api/auth/token/refresh/", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUser_StandardShape(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeStandard)
	pair := loginStaff(t, e)

	rec := doJSON(e, http.MethodGet, "/api/auth/user/", "", pair.Access)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "user_permissions")
	assert.Contains(t, body, "groups")
}

func TestUser_PermissionsShape(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapePermissions)
	pair := loginStaff(t, e)

	rec := doJSON(e, http.MethodGet, "/api/auth/user/", "", pair.Access)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "permissions")
	assert.NotContains(t, body, "user_permissions")
}

func TestUser_MinimalShape(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeMinimal)
	pair := loginStaff(t, e)

	rec := doJSON(e, http.MethodGet, "/api/auth/user/", "", pair.Access)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "roles")
	assert.Contains(t, body, "firstName")
	assert.NotContains(t, body, "is_active")
}

func TestUser_RequiresToken(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeStandard)

	rec := doJSON(e, http.MethodGet, "/api/auth/user/", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateSession_RecordsAndLists(t *testing.T) {
	e, h, _ := newAuthFixture(t, ProfileShapeStandard)
	pair := loginStaff(t, e)

	body := `{"ip":"10.1.2.3","login_at":"2026-08-30T10:00:00Z","user_agent":"placementsctl/test","os":"linux"}`
	rec := doJSON(e, http.MethodPost, "/api/auth/session/", body, pair.Access)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, 1, h.sessions.Len())

	rec = doJSON(e, http.MethodGet, "/api/auth/session/", "", pair.Access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "10.1.2.3")
}

func TestCreateSession_ValidationFailure(t *testing.T) {
	e, _, _ := newAuthFixture(t, ProfileShapeStandard)
	pair := loginStaff(t, e)

	rec := doJSON(e, http.MethodPost, "/api/auth/session/", `{"os":"linux"}`, pair.Access)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
