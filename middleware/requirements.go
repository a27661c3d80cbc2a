package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireGroup rejects authenticated requests whose token lacks the group.
// Must run after BearerAuth.
func RequireGroup(group string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := AccessClaims(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			for _, g := range claims.Groups {
				if g == group {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("access denied: requires group %q", group))
		}
	}
}

// RequirePermission rejects authenticated requests whose token lacks the
// permission. Must run after BearerAuth.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := AccessClaims(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			for _, p := range claims.Permissions {
				if p == permission {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("access denied: requires permission %q", permission))
		}
	}
}
