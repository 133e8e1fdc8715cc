// app/echoServer/authctx/actor.go
package authctx

import (
	"github.com/labstack/echo/v4"

	"bookinventory/model"
)

const actorKey = "actor"

// Set stores the authenticated user on the request context.
func Set(c echo.Context, u *model.User) { c.Set(actorKey, u) }

// Actor returns the authenticated user, or nil on public routes.
func Actor(c echo.Context) *model.User {
	u, _ := c.Get(actorKey).(*model.User)
	return u
}
