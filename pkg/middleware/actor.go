package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	ActorHeader = "X-Actor"
	ActorCookie = "ACTOR"
	actorKey    = "actor"
)

// Actor records who is making the change. There is no login; the name comes
// from the X-Actor header, then the ACTOR cookie, then def.
func Actor(def string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := strings.TrimSpace(c.Request().Header.Get(ActorHeader))
			if actor == "" {
				if ck, err := c.Cookie(ActorCookie); err == nil {
					actor = strings.TrimSpace(ck.Value)
				}
			}
			if actor == "" {
				actor = def
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// ActorFrom returns the actor set by Actor, or "" outside that middleware.
func ActorFrom(c echo.Context) string {
	v, _ := c.Get(actorKey).(string)
	return v
}
