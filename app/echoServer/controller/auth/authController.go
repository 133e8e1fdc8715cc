package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"bookinventory/app/echoServer/authctx"
	authsvc "bookinventory/service/auth"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func (ct *Controller) bindAndValidate(c echo.Context, req any) bool {
	if err := c.Bind(req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return false
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return false
	}
	return true
}

func (ct *Controller) fail(c echo.Context, op string, err error) error {
	switch authsvc.Code(err) {
	case authsvc.ErrBadInput:
		return echo.NewHTTPError(http.StatusBadRequest, "bad input")
	case authsvc.ErrEmailTaken:
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	case authsvc.ErrInvalidCreds:
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	case authsvc.ErrWrongPassword:
		return echo.NewHTTPError(http.StatusBadRequest, "incorrect password")
	case authsvc.ErrUserNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	case authsvc.ErrResetTokenInvalid:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired token")
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error(op+" failed",
			"err", err,
			"req_id", rid,
			"path", c.Path(),
			"method", c.Request().Method,
		)
		return echo.NewHTTPError(http.StatusInternalServerError, op+" failed")
	}
}

// Signup a new user
// @Summary      Sign up
// @Description  Create a user with a unique email, returns a bearer token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  SignupReq  true  "Signup payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "email already registered"
// @Router       /v1/users/signup [post]
func (ct *Controller) Signup(c echo.Context) error {
	var req SignupReq
	if !ct.bindAndValidate(c, &req) {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	u, token, err := ct.Svc.Signup(c.Request().Context(), authsvc.SignupInput{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		AccountType: req.AccountType,
	})
	if err != nil {
		return ct.fail(c, "signup", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"token": token,
		"user":  u,
	})
}

// Login
// @Summary      Login
// @Description  Login with email + password, returns the user's bearer token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /v1/users/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req LoginReq
	if !ct.bindAndValidate(c, &req) {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	u, token, err := ct.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return ct.fail(c, "login", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  u,
	})
}

// GET /v1/users/me
func (ct *Controller) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, authctx.Actor(c))
}

// POST /v1/users/logout
func (ct *Controller) Logout(c echo.Context) error {
	if err := ct.Svc.Logout(c.Request().Context(), authctx.Actor(c)); err != nil {
		return ct.fail(c, "logout", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// POST /v1/users/change_password
func (ct *Controller) ChangePassword(c echo.Context) error {
	var req ChangePasswordReq
	if !ct.bindAndValidate(c, &req) {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	err := ct.Svc.ChangePassword(c.Request().Context(), authctx.Actor(c), req.OldPassword, req.NewPassword)
	if err != nil {
		return ct.fail(c, "change password", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// POST /v1/users/forgot_password
func (ct *Controller) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordReq
	if !ct.bindAndValidate(c, &req) {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	if err := ct.Svc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return ct.fail(c, "forgot password", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reset link sent"})
}

// POST /v1/users/password_reset/:token
func (ct *Controller) ResetPassword(c echo.Context) error {
	var req ResetPasswordReq
	if !ct.bindAndValidate(c, &req) {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	if err := ct.Svc.ResetPassword(c.Request().Context(), c.Param("token"), req.NewPassword); err != nil {
		return ct.fail(c, "password reset", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset"})
}
