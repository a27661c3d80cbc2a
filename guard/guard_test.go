package guard

import (
	"context"
	"log/slog"
	"testing"

	"placements-hub/internal/domain"
	"placements-hub/internal/infrastructure/credstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher records whether the guard had to fetch and what it hands back.
type stubFetcher struct {
	profile *domain.UserProfile
	calls   int
}

func (s *stubFetcher) Fetch(context.Context) (*domain.UserProfile, error) {
	s.calls++
	return s.profile, nil
}

func activeStaff() *domain.UserProfile {
	return &domain.UserProfile{
		ID:          1,
		Email:       "staff@example.edu",
		Username:    "staff",
		IsActive:    true,
		Groups:      []string{"placement"},
		Permissions: []string{"view_dashboard"},
	}
}

func newGuard(store domain.CredentialStore, fetcher domain.ProfileFetcher) *Guard {
	return New(store, fetcher, slog.Default())
}

func TestCheck_NoTokenRedirectsToLogin(t *testing.T) {
	store := credstore.NewMemory()
	g := newGuard(store, &stubFetcher{})

	d := g.Check(context.Background(), "/companies")

	assert.Equal(t, Denied, d.State)
	assert.Equal(t, "/login", d.RedirectTo)
	assert.Equal(t, "/companies", d.From, "original path preserved for post-login redirect")
}

func TestCheck_GrantedWithCachedProfile(t *testing.T) {
	store := credstore.NewMemory()
	store.SetTokens("tok", "ref")
	store.SetProfile(activeStaff())
	fetcher := &stubFetcher{}
	g := newGuard(store, fetcher)

	d := g.Check(context.Background(), "/companies")

	assert.Equal(t, Granted, d.State)
	assert.Empty(t, d.Reason)
	assert.Zero(t, fetcher.calls, "cached profile used without a fetch")
}

func TestCheck_FetchesWhenProfileMissing(t *testing.T) {
	store := credstore.NewMemory()
	store.SetTokens("tok", "ref")
	fetcher := &stubFetcher{profile: activeStaff()}
	g := newGuard(store, fetcher)

	d := g.Check(context.Background(), "/companies")

	assert.Equal(t, Granted, d.State)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCheck_InactiveAccountClearsCredentials(t *testing.T) {
	store := credstore.NewMemory()
	store.SetTokens("tok", "ref")
	profile := activeStaff()
	profile.IsActive = false
	store.SetProfile(profile)
	g := newGuard(store, &stubFetcher{})

	d := g.Check(context.Background(), "/companies")

	assert.Equal(t, Denied, d.State)
	assert.Contains(t, d.Reason, "inactive")
	assert.Equal(t, "/login", d.RedirectTo)

	_, ok := store.AccessToken()
	assert.False(t, ok, "stale credentials cleared")
}

func TestCheck_MissingGroupNamesIt(t *testing.T) {
	store := credstore.NewMemory()
	store.SetTokens("tok", "ref")
	profile := activeStaff()
	profile.Groups = []string{}
	store.SetProfile(profile)
	g := newGuard(store, &stubFetcher{})

	d := g.Check(context.Background(), "/companies")

	assert.Equal(t, Denied, d.State)
	assert.Contains(t, d.Reason, "placement")
	assert.Equal(t, "/", d.RedirectTo, "authorization denial keeps the session")

	_, ok := store.AccessToken()
	assert.True(t, ok, "tokens survive a group denial")
}

func TestCheck_MissingPermissionNamesIt(t *testing.T) {
	store := credstore.NewMemory()
	store.SetTokens("tok", "ref")
	store.SetProfile(activeStaff())
	g := newGuard(store, &stubFetcher{})
	g.RequiredPermission = "delete_company"

	d := g.Check(context.Background(), "/companies/3/delete")

	assert.Equal(t, Denied, d.State)
	assert.Contains(t, d.Reason, "delete_company")
}

func TestCheck_PermissionGranted(t *testing.T) {
	store := credstore.NewMemory()
	store.SetTokens("tok", "ref")
	store.SetProfile(activeStaff())
	g := newGuard(store, &stubFetcher{})
	g.RequiredPermission = "view_dashboard"

	d := g.Check(context.Background(), "/dashboard")
	assert.Equal(t, Granted, d.State)
}

func TestCheck_ChecksShortCircuitInOrder(t *testing.T) {
	// An inactive profile without the group is reported as inactive: the
	// active check runs before the group check.
	store := credstore.NewMemory()
	store.SetTokens("tok", "ref")
	profile := activeStaff()
	profile.IsActive = false
	profile.Groups = nil
	store.SetProfile(profile)
	g := newGuard(store, &stubFetcher{})

	d := g.Check(context.Background(), "/companies")
	require.Equal(t, Denied, d.State)
	assert.Contains(t, d.Reason, "inactive")
	assert.NotContains(t, d.Reason, "group")
}

func TestCheck_CustomRequiredGroup(t *testing.T) {
	store := credstore.NewMemory()
	store.SetTokens("tok", "ref")
	store.SetProfile(activeStaff())
	g := newGuard(store, &stubFetcher{})
	g.RequiredGroup = "admin"

	d := g.Check(context.Background(), "/admin")
	assert.Equal(t, Denied, d.State)
	assert.Contains(t, d.Reason, "admin")
}
