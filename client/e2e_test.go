package client_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"placements-hub/client"
	"placements-hub/guard"
	"placements-hub/internal/adapter/gateway"
	"placements-hub/internal/adapter/handler"
	"placements-hub/internal/infrastructure/credstore"
	"placements-hub/internal/infrastructure/sessionlog"
	"placements-hub/internal/infrastructure/token"
	"placements-hub/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startBackend hosts the real mock backend handlers and counts requests, so
// the test can assert which steps hit the network.
func startBackend(t *testing.T, requests *atomic.Int64) *httptest.Server {
	t.Helper()

	issuer := token.NewIssuer(token.Config{
		Secret:     "e2e-secret",
		Issuer:     "placements-hub-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	sessions := sessionlog.NewStore(time.Hour)
	t.Cleanup(sessions.Stop)
	auth := handler.NewAuthHandler(issuer, sessions,
		handler.ProfileShapeStandard, slog.Default())

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requests.Add(1)
			return next(c)
		}
	})
	e.POST("/api/auth/token/", auth.Token)
	e.POST("/api/auth/token/refresh/", auth.Refresh)
	bearer := middleware.BearerAuth(issuer)
	e.GET("/api/auth/user/", auth.User, bearer)
	e.POST("/api/auth/session/", auth.CreateSession, bearer)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginThenGuardedRoute(t *testing.T) {
	var requests atomic.Int64
	srv := startBackend(t, &requests)

	store := credstore.NewMemory()
	provider := gateway.NewBackend(srv.URL, 5*time.Second, slog.Default())
	c := client.New(client.Config{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, store, provider, slog.Default())

	_, err := c.Login(context.Background(), "placement@mits.ac.in", "Mits@1234")
	require.NoError(t, err)

	access, ok := store.AccessToken()
	require.True(t, ok)
	assert.NotEmpty(t, access)
	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	assert.NotEmpty(t, refresh)

	profile, ok := store.Profile()
	require.True(t, ok, "profile cached during login")
	assert.True(t, profile.IsActive)
	assert.Contains(t, profile.Groups, "placement")

	before := requests.Load()

	g := guard.New(store, c.Profiles(), slog.Default())
	decision := g.Check(context.Background(), "/companies")

	assert.Equal(t, guard.Granted, decision.State)
	assert.Equal(t, before, requests.Load(),
		"guard decides from the cached profile without further network calls")
}

func TestLoginRejectedEndToEnd(t *testing.T) {
	var requests atomic.Int64
	srv := startBackend(t, &requests)

	store := credstore.NewMemory()
	provider := gateway.NewBackend(srv.URL, 5*time.Second, slog.Default())
	c := client.New(client.Config{BaseURL: srv.URL, Timeout: 5 * time.Second},
		store, provider, slog.Default())

	_, err := c.Login(context.Background(), "placement@mits.ac.in", "wrong-password")
	require.Error(t, err)

	_, ok := store.AccessToken()
	assert.False(t, ok, "nothing stored on failed login")
}
