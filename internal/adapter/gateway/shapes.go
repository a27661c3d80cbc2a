package gateway

import (
	"encoding/json"

	"placements-hub/internal/domain"
)

// tokenShape is one recognized login/refresh response layout. Shapes are
// evaluated in order; the first match wins.
type tokenShape struct {
	name      string
	match     func(body map[string]json.RawMessage) bool
	normalize func(body map[string]json.RawMessage) *domain.Credentials
}

var tokenShapes = []tokenShape{
	{
		name: "access/refresh",
		match: func(body map[string]json.RawMessage) bool {
			return hasString(body, "access") && hasString(body, "refresh")
		},
		normalize: func(body map[string]json.RawMessage) *domain.Credentials {
			return &domain.Credentials{
				Access:  stringField(body, "access"),
				Refresh: stringField(body, "refresh"),
			}
		},
	},
	{
		name: "access_token/refresh_token",
		match: func(body map[string]json.RawMessage) bool {
			return hasString(body, "access_token") && hasString(body, "refresh_token")
		},
		normalize: func(body map[string]json.RawMessage) *domain.Credentials {
			return &domain.Credentials{
				Access:  stringField(body, "access_token"),
				Refresh: stringField(body, "refresh_token"),
			}
		},
	},
	{
		// Single-token backends reuse the same value for both roles.
		name: "token",
		match: func(body map[string]json.RawMessage) bool {
			return hasString(body, "token")
		},
		normalize: func(body map[string]json.RawMessage) *domain.Credentials {
			token := stringField(body, "token")
			return &domain.Credentials{Access: token, Refresh: token}
		},
	},
}

// normalizeTokens maps whichever response shape the backend used onto the
// canonical pair. Unknown shapes are a format error, not a crash.
func normalizeTokens(body map[string]json.RawMessage) (*domain.Credentials, error) {
	for _, shape := range tokenShapes {
		if shape.match(body) {
			return shape.normalize(body), nil
		}
	}
	return nil, domain.ErrInvalidResponse
}

// refreshPayloads are the request-body variants tried against the refresh
// endpoint, in order.
func refreshPayloads(refreshToken string) []map[string]string {
	return []map[string]string{
		{"refresh": refreshToken},
		{"refresh_token": refreshToken},
		{"token": refreshToken},
	}
}

func hasString(body map[string]json.RawMessage, key string) bool {
	return stringField(body, key) != ""
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
