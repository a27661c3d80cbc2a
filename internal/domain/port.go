package domain

import "context"

// CredentialStore persists the token pair, the user's email and the cached
// profile. Storage operations always succeed; a malformed stored profile
// degrades to "no profile" rather than an error.
type CredentialStore interface {
	SetTokens(access, refresh string)
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	SetUserEmail(email string)
	UserEmail() (string, bool)
	SetProfile(profile *UserProfile)
	Profile() (*UserProfile, bool)
	Logout()
}

// AuthProvider performs the login and refresh operations against an
// authentication backend. Implementations normalize whatever response shape
// the backend uses into the canonical Credentials pair.
type AuthProvider interface {
	Login(ctx context.Context, email, password string) (*Credentials, error)
	Refresh(ctx context.Context, refreshToken string) (*Credentials, error)
}

// ProfileFetcher retrieves the authenticated user's profile in canonical
// shape. On fetch failure implementations synthesize a minimal profile so
// authorization checks always have a deterministic object to examine.
type ProfileFetcher interface {
	Fetch(ctx context.Context) (*UserProfile, error)
}

// SessionRecorder accepts login session snapshots for audit storage.
type SessionRecorder interface {
	Record(ctx context.Context, details SessionDetails) error
}
