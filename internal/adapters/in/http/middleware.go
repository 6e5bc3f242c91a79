package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"parceltrack/internal/adapters/in/auth"
	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/pkg/errs"
)

const actorContextKey = "parceltrack.actor"

// NewAuthMiddleware resolves the Authorization bearer token into an actor
// and stores it on the request context. Requests without a valid token
// are rejected before any handler runs.
func NewAuthMiddleware(tokens *auth.TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == "" || tokenString == header {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "missing bearer token",
				})
			}

			act, err := tokens.ParseToken(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "invalid token",
				})
			}

			c.Set(actorContextKey, act)
			return next(c)
		}
	}
}

func actorFromContext(c echo.Context) (actor.Actor, error) {
	act, ok := c.Get(actorContextKey).(actor.Actor)
	if !ok {
		return actor.Actor{}, errs.NewNotAuthorizedError("resolve request actor")
	}
	return act, nil
}
