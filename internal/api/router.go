package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streamgate/webshare-addon/internal/api/handler"
	"github.com/streamgate/webshare-addon/internal/api/middleware"
	"github.com/streamgate/webshare-addon/internal/core/service"
	mongostore "github.com/streamgate/webshare-addon/internal/infrastructure/db/mongo"
	redisdb "github.com/streamgate/webshare-addon/internal/infrastructure/db/redis"
	"github.com/streamgate/webshare-addon/internal/pkg/config"
	"github.com/streamgate/webshare-addon/internal/webshare"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("streamgate"))

	// --- Dependencies ---
	accountRepo := mongostore.NewAccountRepository(db)
	grantRepo := mongostore.NewGrantRepository(db)
	usageMeter := redisdb.NewUsageMeter(rdb, log)
	wsClient := webshare.NewClient(cfg.Webshare.BaseURL, cfg.Webshare.Timeout, log)

	accessGate := service.NewAccessGate(accountRepo, grantRepo, log)
	streamService := service.NewStreamService(wsClient, wsClient, log)
	adminService := service.NewAdminService(accountRepo, grantRepo, wsClient, usageMeter, log)

	streamHandler := handler.NewStreamHandler(streamService, usageMeter)
	adminHandler := handler.NewAdminHandler(adminService, cfg.Admin.Username, cfg.Admin.Password, cfg.JWTSecret)

	// --- Addon routes, gated by (token, device) ---
	gated := e.Group("/:token/:device", middleware.Gate(accessGate))
	gated.GET("/manifest.json", streamHandler.Manifest)
	gated.GET("/stream/:type/:id", streamHandler.Streams)

	// --- Admin routes ---
	e.POST("/admin/login", adminHandler.Login)

	admin := e.Group("/admin", middleware.Auth(cfg.JWTSecret), middleware.RBAC("admin"))
	admin.POST("/devices", adminHandler.RegisterDevice)
	admin.DELETE("/devices/:token", adminHandler.RevokeDevice)
	admin.PUT("/accounts/:username/expiry", adminHandler.ResetExpiry)
	admin.POST("/credentials/test", adminHandler.TestCredentials)
	admin.GET("/overview", adminHandler.Overview)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
