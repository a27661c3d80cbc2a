package credstore

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"placements-hub/internal/domain"
)

// fileState is the on-disk layout. The raw profile bytes are kept as written
// so a malformed profile entry degrades to absent on read instead of
// poisoning the whole file.
type fileState struct {
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	UserEmail    string          `json:"user_email,omitempty"`
	UserProfile  json.RawMessage `json:"user_profile,omitempty"`
}

// File is a credential store backed by a JSON file, so a session survives
// process restarts. Write failures are logged and otherwise ignored: storage
// is treated as always succeeding.
// Implements domain.CredentialStore.
type File struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	state  fileState
}

// NewFile opens (or creates) a file-backed credential store at path.
func NewFile(path string, logger *slog.Logger) *File {
	s := &File{path: path, logger: logger}
	data, err := os.ReadFile(path)
	if err == nil {
		// An unreadable state file is equivalent to a fresh one.
		_ = json.Unmarshal(data, &s.state)
	}
	return s
}

// DefaultPath returns the conventional store location under the user's home.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".placementsctl/credentials.json"
	}
	return filepath.Join(home, ".placementsctl", "credentials.json")
}

func (s *File) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessToken = access
	s.state.RefreshToken = refresh
	s.persist()
}

func (s *File) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken, s.state.AccessToken != ""
}

func (s *File) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RefreshToken, s.state.RefreshToken != ""
}

func (s *File) SetUserEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UserEmail = email
	s.persist()
}

func (s *File) UserEmail() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UserEmail, s.state.UserEmail != ""
}

func (s *File) SetProfile(profile *domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile == nil {
		s.state.UserProfile = nil
		s.persist()
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		s.state.UserProfile = nil
		s.persist()
		return
	}
	s.state.UserProfile = data
	s.persist()
}

func (s *File) Profile() (*domain.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeProfile(s.state.UserProfile)
}

// Logout removes all four items together and rewrites the file.
func (s *File) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fileState{}
	s.persist()
}

// persist writes the current state to disk. Callers hold the lock.
func (s *File) persist() {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.warn(err)
		return
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		s.warn(err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.warn(err)
	}
}

func (s *File) warn(err error) {
	if s.logger != nil {
		s.logger.Warn("failed to persist credential store", "path", s.path, "error", err)
	}
}
