package echoServer

import (
	"github.com/labstack/echo/v4"

	"bookinventory/app/echoServer/controller/auth"
	"bookinventory/app/echoServer/controller/book"
	authsvc "bookinventory/service/auth"
)

type C struct {
	Auth *auth.Controller
	Book *book.Controller

	AuthSvc authsvc.Service
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/signup", c.Auth.Signup)
	pub.POST("/users/login", c.Auth.Login)
	pub.POST("/users/forgot_password", c.Auth.ForgotPassword)
	pub.POST("/users/password_reset/:token", c.Auth.ResetPassword)

	// Bearer token required
	priv := e.Group("/v1")
	priv.Use(TokenAuth(c.AuthSvc))

	priv.GET("/books", c.Book.List)
	priv.GET("/books/:id", c.Book.Detail)
	priv.POST("/books", c.Book.Create)
	priv.PATCH("/books/:id", c.Book.Update)
	priv.DELETE("/books/:id", c.Book.Delete)
	priv.PATCH("/books/:id/checkout", c.Book.Checkout)
	priv.PATCH("/books/:id/return", c.Book.Return)
	priv.GET("/books/:id/checkouts", c.Book.Checkouts)

	priv.GET("/users/me", c.Auth.Me)
	priv.POST("/users/logout", c.Auth.Logout)
	priv.POST("/users/change_password", c.Auth.ChangePassword)
}
