// Package token mints and verifies the HS256 token pairs the mock placements
// backend hands out.
package token

import (
	"errors"
	"time"

	"placements-hub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config holds token generation settings.
type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AccessClaims carries the identity snapshot embedded in access tokens.
type AccessClaims struct {
	UserID      int      `json:"user_id"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	UserType    string   `json:"user_type"`
	Groups      []string `json:"groups"`
	Permissions []string `json:"user_permissions"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the user reference; the profile is re-read at
// refresh time so deactivated accounts cannot renew.
type RefreshClaims struct {
	UserID   int    `json:"user_id"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned for tokens that fail parsing or verification.
var ErrInvalidToken = errors.New("invalid token")

// Issuer generates and verifies token pairs.
type Issuer struct {
	cfg Config
}

// NewIssuer creates a new token issuer.
func NewIssuer(cfg Config) *Issuer {
	return &Issuer{cfg: cfg}
}

// IssuePair mints an access/refresh pair for the given user.
func (i *Issuer) IssuePair(id int, userType string, profile *domain.UserProfile) (*domain.Credentials, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID:      id,
		Email:       profile.Email,
		Username:    profile.Username,
		UserType:    userType,
		Groups:      profile.Groups,
		Permissions: profile.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.cfg.Issuer,
			Subject:   profile.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.AccessTTL)),
		},
	})
	accessStr, err := access.SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		UserID:   id,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.RefreshTTL)),
		},
	})
	refreshStr, err := refresh.SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return nil, err
	}

	return &domain.Credentials{Access: accessStr, Refresh: refreshStr}, nil
}

// VerifyAccess parses and verifies an access token.
func (i *Issuer) VerifyAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := i.verify(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh parses and verifies a refresh token.
func (i *Issuer) VerifyRefresh(raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.verify(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (i *Issuer) verify(raw string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(i.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
