// Package main book inventory API.
//
// @title           Book Inventory API
// @version         1.0
// @description     book inventory service (books, checkouts, users).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <token>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bookinventory/app/echoServer"
	authctrl "bookinventory/app/echoServer/controller/auth"
	bookctrl "bookinventory/app/echoServer/controller/book"
	"bookinventory/app/echoServer/validation"
	"bookinventory/config"
	bookrepo "bookinventory/repository/book"
	tokenrepo "bookinventory/repository/token"
	userrepo "bookinventory/repository/user"
	authsvc "bookinventory/service/auth"
	inventorysvc "bookinventory/service/inventory"
	"bookinventory/util/cache"
	"bookinventory/util/database"
	"bookinventory/util/mailer"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// transient cache for reset tokens
	kv, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}
	defer kv.Close()

	smtp := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)

	// repos
	br := bookrepo.New(db)
	ur := userrepo.New(db)
	tr := tokenrepo.New(db)

	// services
	as := authsvc.New(ur, tr, kv, smtp, cfg.ResetURLBase)
	is := inventorysvc.New(br)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: is, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Book:    bookC,
		AuthSvc: as,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
