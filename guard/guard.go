// Package guard implements the route-level authorization gate: a short
// sequence of checks over the stored credentials and cached profile that ends
// in a grant or a denial with a redirect target.
package guard

import (
	"context"
	"fmt"
	"log/slog"

	"placements-hub/internal/domain"
)

// State is the gate's lifecycle for one check. A check starts at Checking and
// ends at exactly one of Granted or Denied; re-evaluation starts fresh.
type State string

const (
	Checking State = "CHECKING"
	Granted  State = "GRANTED"
	Denied   State = "DENIED"
)

// Decision is the outcome of one gate evaluation.
type Decision struct {
	State State
	// Reason explains a denial; empty on grants.
	Reason string
	// RedirectTo is where the caller should send the user on denial.
	RedirectTo string
	// From preserves the originally requested path so an authentication
	// denial can return there after login.
	From string
}

// Guard evaluates access to a protected route. A zero RequiredGroup defaults
// to the placement group; RequiredPermission is optional.
type Guard struct {
	RequiredGroup      string
	RequiredPermission string
	LoginPath          string
	FallbackPath       string

	store    domain.CredentialStore
	profiles domain.ProfileFetcher
	logger   *slog.Logger
}

// New creates a guard over the given store and profile fetcher.
func New(store domain.CredentialStore, profiles domain.ProfileFetcher, logger *slog.Logger) *Guard {
	return &Guard{
		RequiredGroup: domain.PlacementGroup,
		LoginPath:     "/login",
		FallbackPath:  "/",
		store:         store,
		profiles:      profiles,
		logger:        logger,
	}
}

// Check runs the ordered authorization checks for the requested path,
// short-circuiting on the first failure.
//
// Denials rooted in authentication (missing token, inactive account) clear
// the stored credentials so a stale token is not reused on the next check.
// Group and permission denials keep the session: the user is authenticated,
// just not allowed here.
func (g *Guard) Check(ctx context.Context, requestedPath string) Decision {
	group := g.RequiredGroup
	if group == "" {
		group = domain.PlacementGroup
	}

	if _, ok := g.store.AccessToken(); !ok {
		return g.denyAuth(ctx, requestedPath, domain.ErrNotAuthenticated.Error())
	}

	profile, ok := g.store.Profile()
	if !ok {
		// The fetcher fails open to a minimal profile, so this always
		// yields something to examine.
		profile, _ = g.profiles.Fetch(ctx)
		if profile == nil {
			return g.denyAuth(ctx, requestedPath, "unable to load user profile")
		}
	}

	if !profile.IsActive {
		return g.denyAuth(ctx, requestedPath, domain.ErrAccountInactive.Error())
	}

	if !profile.HasGroup(group) {
		return g.denyAccess(ctx, requestedPath,
			fmt.Sprintf("access denied: missing required group %q", group))
	}

	if g.RequiredPermission != "" && !profile.HasPermission(g.RequiredPermission) {
		return g.denyAccess(ctx, requestedPath,
			fmt.Sprintf("access denied: missing required permission %q", g.RequiredPermission))
	}

	return Decision{State: Granted, From: requestedPath}
}

// denyAuth handles authentication-rooted denials: credentials are cleared and
// the user is sent to login with the original path preserved.
func (g *Guard) denyAuth(ctx context.Context, requestedPath, reason string) Decision {
	g.logger.InfoContext(ctx, "access denied, clearing credentials",
		"path", requestedPath, "reason", reason)
	g.store.Logout()
	return Decision{
		State:      Denied,
		Reason:     reason,
		RedirectTo: g.LoginPath,
		From:       requestedPath,
	}
}

// denyAccess handles authorization denials for an otherwise valid session.
func (g *Guard) denyAccess(ctx context.Context, requestedPath, reason string) Decision {
	g.logger.InfoContext(ctx, "access denied",
		"path", requestedPath, "reason", reason)
	return Decision{
		State:      Denied,
		Reason:     reason,
		RedirectTo: g.FallbackPath,
		From:       requestedPath,
	}
}
