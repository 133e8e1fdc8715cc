// app/echoServer/middleware.go
package echoServer

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"bookinventory/app/echoServer/authctx"
	authsvc "bookinventory/service/auth"
)

func RegisterMiddlewares(e *echo.Echo) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
				"ua", c.Request().UserAgent(),
			)
			return err
		}
	}
}

// TokenAuth resolves the bearer key against the token store and puts the
// acting user on the context. Missing or unknown keys are a 401; role checks
// happen later, in the services.
func TokenAuth(auth authsvc.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			key := raw
			if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
				key = strings.TrimSpace(raw[7:])
			}
			if key == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			u, err := auth.Authenticate(c.Request().Context(), key)
			if err != nil {
				if authsvc.Code(err) == authsvc.ErrInvalidToken {
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
			}
			authctx.Set(c, u)
			return next(c)
		}
	}
}
