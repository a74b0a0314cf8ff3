package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// Context keys set by Auth.
const (
	ActorKey = "actor"
	RoleKey  = "role"
)

// Auth verifies the bearer credential and injects the actor into the context.
// Revoked credentials fail verification like expired ones.
func Auth(tokens ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			actor, err := tokens.Verify(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ActorKey, actor)
			c.Set(RoleKey, string(actor.Role))

			return next(c)
		}
	}
}

// ActorFrom returns the actor injected by Auth.
func ActorFrom(c echo.Context) (domain.Actor, bool) {
	actor, ok := c.Get(ActorKey).(domain.Actor)
	return actor, ok && actor.ID != ""
}
