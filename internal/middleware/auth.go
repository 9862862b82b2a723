package middleware

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/airport-ground-ops/internal/auth"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// Authenticate requires a valid bearer token and stores its actor on the context.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			actor, err := auth.ParseToken(strings.TrimSpace(raw), secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) (auth.Actor, bool) {
	actor, ok := c.Get(actorKey).(auth.Actor)
	return actor, ok
}

func SetActor(c echo.Context, actor auth.Actor) {
	c.Set(actorKey, actor)
}

// RequirePermission lets the request through when the actor holds any of perms.
func RequirePermission(az *auth.Authorizer, perms ...auth.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			for _, p := range perms {
				if az.HasPermission(actor, p) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "permission denied")
		}
	}
}
