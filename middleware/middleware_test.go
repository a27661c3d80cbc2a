package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"placements-hub/internal/domain"
	"placements-hub/internal/infrastructure/token"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testIssuer() *token.Issuer {
	return token.NewIssuer(token.Config{
		Secret:     "test-secret",
		Issuer:     "placements-hub-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
}

func staffPair(t *testing.T, issuer *token.Issuer) *domain.Credentials {
	t.Helper()
	creds, err := issuer.IssuePair(1, "staff", &domain.UserProfile{
		Email:       "staff@example.edu",
		Username:    "staff",
		IsActive:    true,
		Groups:      []string{"placement"},
		Permissions: []string{"view_dashboard"},
	})
	require.NoError(t, err)
	return creds
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/companies/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, err
}

func TestBearerAuth_ValidToken(t *testing.T) {
	issuer := testIssuer()
	creds := staffPair(t, issuer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/companies/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+creds.Access)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := BearerAuth(issuer)(func(c echo.Context) error {
		claims := AccessClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, "staff", claims.Username)
		assert.Contains(t, claims.Groups, "placement")
		return c.NoContent(http.StatusOK)
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	_, err := invoke(t, BearerAuth(testIssuer()), "")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestBearerAuth_GarbageToken(t *testing.T) {
	_, err := invoke(t, BearerAuth(testIssuer()), "Bearer not-a-jwt")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestBearerAuth_WrongSecret(t *testing.T) {
	other := token.NewIssuer(token.Config{
		Secret: "other-secret", Issuer: "x", AccessTTL: time.Minute, RefreshTTL: time.Hour,
	})
	creds := staffPair(t, other)

	_, err := invoke(t, BearerAuth(testIssuer()), "Bearer "+creds.Access)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func requirementContext(t *testing.T, issuer *token.Issuer, access string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/companies/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	claims, err := issuer.VerifyAccess(access)
	require.NoError(t, err)
	c.Set(claimsContextKey, claims)
	return c
}

func TestRequireGroup(t *testing.T) {
	issuer := testIssuer()
	creds := staffPair(t, issuer)

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	c := requirementContext(t, issuer, creds.Access)
	require.NoError(t, RequireGroup("placement")(ok)(c))

	c = requirementContext(t, issuer, creds.Access)
	err := RequireGroup("admin")(ok)(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
	assert.Contains(t, httpErr.Message, "admin")
}

func TestRequirePermission(t *testing.T) {
	issuer := testIssuer()
	creds := staffPair(t, issuer)

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	c := requirementContext(t, issuer, creds.Access)
	require.NoError(t, RequirePermission("view_dashboard")(ok)(c))

	c = requirementContext(t, issuer, creds.Access)
	err := RequirePermission("delete_company")(ok)(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestLoginRateLimiter(t *testing.T) {
	rl := NewLoginRateLimiter(rate.Limit(1), 2)
	mw := rl.Middleware()

	e := echo.New()
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	var lastErr error
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/token/", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		lastErr = handler(e.NewContext(req, rec))
	}

	var httpErr *echo.HTTPError
	require.ErrorAs(t, lastErr, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
}

func TestLoginRateLimiter_PerIP(t *testing.T) {
	rl := NewLoginRateLimiter(rate.Limit(1), 1)
	mw := rl.Middleware()

	e := echo.New()
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/api/auth/token/", nil)
	req.RemoteAddr = "10.0.0.1:1000"
	require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))

	req = httptest.NewRequest(http.MethodPost, "/api/auth/token/", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	assert.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())), "limits are per client")
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := SecurityHeaders()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
