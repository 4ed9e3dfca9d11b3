package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/vaguthu/election-console/api/swagger"
	"github.com/vaguthu/election-console/internal/handler"
	"github.com/vaguthu/election-console/internal/middleware"
	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/internal/policy"
	"github.com/vaguthu/election-console/internal/repository"
	"github.com/vaguthu/election-console/internal/service"
	"github.com/vaguthu/election-console/pkg/cache"
	"github.com/vaguthu/election-console/pkg/config"
	"github.com/vaguthu/election-console/pkg/database"
	"github.com/vaguthu/election-console/pkg/logger"
	corsmiddleware "github.com/vaguthu/election-console/pkg/middleware/cors"
	reqidmiddleware "github.com/vaguthu/election-console/pkg/middleware/requestid"
	"github.com/vaguthu/election-console/pkg/storage"
)

// @title Election Console API
// @version 1.0.0
// @description Voter registration and election-day management console
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
		}
	}

	fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	voterRepo := repository.NewVoterRepository(db)
	userRepo := repository.NewUserRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	exportRepo := repository.NewExportRepository(db)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, nil, logr)
	voterSvc := service.NewVoterService(voterRepo, rosterRepo, cacheSvc, logr)
	rosterSvc := service.NewRosterService(rosterRepo, logr)
	taskSvc := service.NewTaskService(taskRepo, userRepo, logr)
	chatSvc := service.NewChatService(messageRepo, cfg.Chat.HistoryLimit, logr)
	settingsSvc := service.NewSettingsService(settingsRepo, cacheSvc, logr)
	dashboardSvc := service.NewDashboardService(voterRepo, settingsRepo, cacheSvc, logr, cfg.Dashboard.CacheTTL)
	exportSvc := service.NewExportService(exportRepo, voterSvc, fileStore, signer, metricsSvc, logr, service.ExportConfig{
		WorkerConcurrency: cfg.Exports.WorkerConcurrency,
		WorkerRetries:     cfg.Exports.WorkerRetries,
		DownloadPath:      cfg.APIPrefix + "/exports/download",
		FileTTL:           cfg.Exports.SignedURLTTL,
		CleanupInterval:   cfg.Exports.CleanupInterval,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exportSvc.Start(ctx)
	defer exportSvc.Stop()

	chatFeed := service.NewChatFeed()
	chatPoller := service.NewChatPoller(chatFeed, chatSvc, cfg.Chat.PollInterval, logr)
	go chatPoller.Run(ctx)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	voterHandler := handler.NewVoterHandler(voterSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	chatHandler := handler.NewChatHandler(chatSvc, chatFeed)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc, fileStore)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	// token download links carry their own HMAC, no session required
	api.GET("/exports/download", exportHandler.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/voters", voterHandler.List)
		authed.GET("/voters/:id", voterHandler.Get)
		authed.POST("/voters", middleware.RequireCapability(func(c policy.Capabilities) bool { return c.CanCreateVoter }), voterHandler.Create)
		authed.PUT("/voters/:id", middleware.RequireCapability(func(c policy.Capabilities) bool { return c.CanEditVoterDetails }), voterHandler.Update)
		authed.PATCH("/voters/:id/vote", middleware.RequireCapability(func(c policy.Capabilities) bool { return c.CanEditVoteStatus }), voterHandler.SetVoteStatus)
		authed.DELETE("/voters/:id", middleware.RequireCapability(func(c policy.Capabilities) bool { return c.CanDeleteVoter }), voterHandler.Delete)

		authed.GET("/islands", rosterHandler.ListIslands)
		authed.POST("/islands", middleware.RequireCapability(func(c policy.Capabilities) bool { return c.CanManageLists }), rosterHandler.AddIsland)
		authed.DELETE("/islands/:id", middleware.RequireCapability(func(c policy.Capabilities) bool { return c.CanManageLists }), rosterHandler.RemoveIsland)
		authed.GET("/parties", rosterHandler.ListParties)
		authed.POST("/parties", middleware.RequireCapability(func(c policy.Capabilities) bool { return c.CanManageLists }), rosterHandler.AddParty)
		authed.DELETE("/parties/:id", middleware.RequireCapability(func(c policy.Capabilities) bool { return c.CanManageLists }), rosterHandler.RemoveParty)

		authed.GET("/users", middleware.RequireRoles(models.RoleAdmin), userHandler.List)
		authed.GET("/users/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Get)
		authed.POST("/users", middleware.RequireRoles(models.RoleAdmin), userHandler.Create)
		authed.PUT("/users/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Update)
		authed.DELETE("/users/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Delete)

		authed.GET("/tasks", taskHandler.List)
		authed.POST("/tasks", middleware.RequireRoles(models.RoleAdmin), taskHandler.Create)
		authed.PATCH("/tasks/:id/status", taskHandler.SetStatus)
		authed.DELETE("/tasks/:id", middleware.RequireRoles(models.RoleAdmin), taskHandler.Delete)

		authed.GET("/messages", chatHandler.List)
		authed.POST("/messages", chatHandler.Post)
		authed.DELETE("/messages/:id", chatHandler.Delete)

		authed.GET("/settings", settingsHandler.Get)
		authed.PUT("/settings", middleware.RequireRoles(models.RoleAdmin), settingsHandler.Update)

		authed.GET("/dashboard", dashboardHandler.Summary)

		authed.POST("/exports", exportHandler.Create)
		authed.GET("/exports/:id", exportHandler.Status)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
