package middleware

import (
	"net/http"
	"strings"

	"placements-hub/internal/infrastructure/token"

	"github.com/labstack/echo/v4"
)

// claimsContextKey is the echo context key the verified access claims are
// stored under.
const claimsContextKey = "access_claims"

// BearerAuth verifies the Authorization bearer token on protected routes and
// stores the verified claims in the request context.
func BearerAuth(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := issuer.VerifyAccess(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// AccessClaims returns the verified claims stored by BearerAuth, or nil when
// the route is unauthenticated.
func AccessClaims(c echo.Context) *token.AccessClaims {
	claims, _ := c.Get(claimsContextKey).(*token.AccessClaims)
	return claims
}
