// Package credstore provides durable key-value storage for the session
// credentials: access/refresh tokens, user email and the cached profile.
package credstore

import (
	"encoding/json"
	"sync"

	"placements-hub/internal/domain"
)

// Memory is an in-process credential store. It is the default for tests and
// for short-lived sessions that do not need to survive a restart.
// Implements domain.CredentialStore.
type Memory struct {
	mu sync.RWMutex

	access  string
	refresh string
	email   string
	// profile is kept serialized so reads exercise the same
	// malformed-degrades-to-absent path as the file store.
	profile []byte
}

// NewMemory creates an empty in-memory credential store.
func NewMemory() *Memory {
	return &Memory{}
}

// SetTokens overwrites the stored token pair unconditionally.
func (m *Memory) SetTokens(access, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	m.refresh = refresh
}

// AccessToken returns the stored access token, if any.
func (m *Memory) AccessToken() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access, m.access != ""
}

// RefreshToken returns the stored refresh token, if any.
func (m *Memory) RefreshToken() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh, m.refresh != ""
}

// SetUserEmail stores the email the user logged in with.
func (m *Memory) SetUserEmail(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.email = email
}

// UserEmail returns the stored login email, if any.
func (m *Memory) UserEmail() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.email, m.email != ""
}

// SetProfile replaces the cached profile as a whole. A nil profile clears it.
func (m *Memory) SetProfile(profile *domain.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile == nil {
		m.profile = nil
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		m.profile = nil
		return
	}
	m.profile = data
}

// Profile returns the cached profile. A missing or malformed entry reads as
// absent, never as an error.
func (m *Memory) Profile() (*domain.UserProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return decodeProfile(m.profile)
}

// Logout removes all stored items together.
func (m *Memory) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	m.email = ""
	m.profile = nil
}

func decodeProfile(data []byte) (*domain.UserProfile, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var profile domain.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, false
	}
	return &profile, true
}
