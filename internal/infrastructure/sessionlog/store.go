// Package sessionlog stores login session snapshots received from clients.
// Records are audit telemetry, kept only for a bounded window.
package sessionlog

import (
	"context"
	"time"

	"placements-hub/internal/domain"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

// Entry is a recorded session snapshot.
type Entry struct {
	ID         string                `json:"id"`
	ReceivedAt time.Time             `json:"received_at"`
	Details    domain.SessionDetails `json:"details"`
}

// Store keeps session entries in memory with automatic expiry.
// Implements domain.SessionRecorder.
type Store struct {
	cache *ttlcache.Cache[string, *Entry]
}

// NewStore creates a session store whose entries expire after retention.
func NewStore(retention time.Duration) *Store {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *Entry](retention),
		ttlcache.WithDisableTouchOnHit[string, *Entry](),
	)
	go cache.Start()

	return &Store{cache: cache}
}

// Stop halts the background expiry loop started by NewStore.
func (s *Store) Stop() {
	s.cache.Stop()
}

// Record stores a session snapshot under a fresh ID.
func (s *Store) Record(_ context.Context, details domain.SessionDetails) error {
	entry := &Entry{
		ID:         uuid.NewString(),
		ReceivedAt: time.Now().UTC(),
		Details:    details,
	}
	s.cache.Set(entry.ID, entry, ttlcache.DefaultTTL)
	return nil
}

// List returns all live entries, newest first.
func (s *Store) List() []*Entry {
	entries := make([]*Entry, 0, s.cache.Len())
	for _, item := range s.cache.Items() {
		entries = append(entries, item.Value())
	}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[j].ReceivedAt.After(entries[i].ReceivedAt) {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}
	return entries
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	return s.cache.Len()
}
