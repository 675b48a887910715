package main

import (
	"log"
	"net/http"

	"smartfridge/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"smartfridge/internal/auth"
	"smartfridge/internal/cache"
	"smartfridge/internal/config"
	"smartfridge/internal/db"
	"smartfridge/internal/handler"
	"smartfridge/internal/mail"
	"smartfridge/internal/model"
	"smartfridge/internal/repository"
	"smartfridge/internal/router"
	"smartfridge/internal/service"
)

// @title SmartFridge API
// @version 1.0
// @description Household inventory API with user identity, credential-change workflows, and fridge contents tracking.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Food{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	foodRepo := repository.NewFoodRepository(gormDB)

	// Initialize auth and mail components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	mailer := mail.NewSMTPGateway(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, tokenStore, mailer, cacheClient, cfg.AppBaseURL)
	foodService := service.NewFoodService(foodRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	foodHandler := handler.NewFoodHandler(foodService)

	// Register routes
	router.Register(
		e,
		jwtService,
		authHandler,
		userHandler,
		foodHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
