package credstore

import (
	"log/slog"
	"path/filepath"
	"testing"

	"placements-hub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]domain.CredentialStore {
	t.Helper()
	return map[string]domain.CredentialStore{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(t.TempDir(), "credentials.json"), slog.Default()),
	}
}

func TestSetTokens_LastWriteWins(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			store.SetTokens("a1", "r1")
			store.SetTokens("a2", "r2")
			store.SetTokens("a3", "r3")

			access, ok := store.AccessToken()
			assert.True(t, ok)
			assert.Equal(t, "a3", access)

			refresh, ok := store.RefreshToken()
			assert.True(t, ok)
			assert.Equal(t, "r3", refresh)
		})
	}
}

func TestLogout_ClearsEverything(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			store.SetTokens("access", "refresh")
			store.SetUserEmail("staff@example.edu")
			store.SetProfile(&domain.UserProfile{ID: 1, Email: "staff@example.edu", IsActive: true})

			store.Logout()

			_, ok := store.AccessToken()
			assert.False(t, ok)
			_, ok = store.RefreshToken()
			assert.False(t, ok)
			_, ok = store.UserEmail()
			assert.False(t, ok)
			_, ok = store.Profile()
			assert.False(t, ok)
		})
	}
}

func TestProfile_RoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			store.SetProfile(&domain.UserProfile{
				ID:          7,
				Email:       "staff@example.edu",
				Username:    "staff",
				IsActive:    true,
				Groups:      []string{"placement"},
				Permissions: []string{"companies.view_company"},
			})

			profile, ok := store.Profile()
			require.True(t, ok)
			assert.Equal(t, 7, profile.ID)
			assert.Equal(t, []string{"placement"}, profile.Groups)
			assert.True(t, profile.HasPermission("companies.view_company"))
		})
	}
}

func TestProfile_AbsentWhenNeverSet(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			profile, ok := store.Profile()
			assert.False(t, ok)
			assert.Nil(t, profile)
		})
	}
}

func TestMemory_MalformedProfileReadsAsAbsent(t *testing.T) {
	store := NewMemory()
	store.profile = []byte("{not json")

	profile, ok := store.Profile()
	assert.False(t, ok)
	assert.Nil(t, profile)
}

func TestFile_MalformedProfileReadsAsAbsent(t *testing.T) {
	store := NewFile(filepath.Join(t.TempDir(), "credentials.json"), slog.Default())
	store.state.UserProfile = []byte(`"not a profile object`)

	profile, ok := store.Profile()
	assert.False(t, ok)
	assert.Nil(t, profile)
}

func TestFile_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	first := NewFile(path, slog.Default())
	first.SetTokens("persisted-access", "persisted-refresh")
	first.SetUserEmail("staff@example.edu")
	first.SetProfile(&domain.UserProfile{ID: 3, IsActive: true, Groups: []string{"placement"}})

	reopened := NewFile(path, slog.Default())

	access, ok := reopened.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "persisted-access", access)

	profile, ok := reopened.Profile()
	require.True(t, ok)
	assert.Equal(t, 3, profile.ID)
	assert.True(t, profile.HasGroup("placement"))
}

func TestFile_ProfileReplacedAtomically(t *testing.T) {
	store := NewFile(filepath.Join(t.TempDir(), "credentials.json"), slog.Default())
	store.SetProfile(&domain.UserProfile{ID: 1, Groups: []string{"placement"}, Permissions: []string{"a", "b"}})
	store.SetProfile(&domain.UserProfile{ID: 2, Groups: []string{"student"}})

	profile, ok := store.Profile()
	require.True(t, ok)
	assert.Equal(t, 2, profile.ID)
	assert.Equal(t, []string{"student"}, profile.Groups)
	assert.Empty(t, profile.Permissions, "old permissions must not leak into the replaced profile")
}
