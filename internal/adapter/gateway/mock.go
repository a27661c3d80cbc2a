package gateway

import (
	"context"

	"placements-hub/internal/domain"
)

// Fixed pair handed out by the mock provider. The values deliberately do not
// parse as JWTs; token presence alone counts as authenticated for them.
const (
	MockAccessToken  = "mock.access.token"
	MockRefreshToken = "mock.refresh.token"
)

// Mock is the offline authentication provider used for demos and tests. It
// accepts any credentials and never talks to a network.
// Implements domain.AuthProvider.
type Mock struct{}

// NewMock creates a mock provider.
func NewMock() *Mock {
	return &Mock{}
}

// Login returns the fixed mock pair for any credentials.
func (m *Mock) Login(_ context.Context, _, _ string) (*domain.Credentials, error) {
	return &domain.Credentials{Access: MockAccessToken, Refresh: MockRefreshToken}, nil
}

// Refresh returns the fixed mock pair.
func (m *Mock) Refresh(_ context.Context, _ string) (*domain.Credentials, error) {
	return &domain.Credentials{Access: MockAccessToken, Refresh: MockRefreshToken}, nil
}
