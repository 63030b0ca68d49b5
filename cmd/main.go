package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/karthikrshet/nexora-share-service/internal/auth"
	"github.com/karthikrshet/nexora-share-service/internal/cache"
	"github.com/karthikrshet/nexora-share-service/internal/config"
	"github.com/karthikrshet/nexora-share-service/internal/database"
	"github.com/karthikrshet/nexora-share-service/internal/handler"
	"github.com/karthikrshet/nexora-share-service/internal/middleware"
	"github.com/karthikrshet/nexora-share-service/internal/repository"
	"github.com/karthikrshet/nexora-share-service/internal/service"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.Connect(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}
	log.Info().Msg("database connected")

	redisClient, err := cache.NewRedisClient(cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		CacheTTL:     cfg.Redis.CacheTTL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to Redis, running without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("redis connected")
	}

	var shareRepo repository.ShareLinkRepository = repository.NewPostgresShareLinkRepository(db)
	if redisClient != nil {
		shareRepo = repository.NewCachedShareLinkRepository(shareRepo, redisClient, log)
	}

	shareService := service.NewShareService(shareRepo, cfg.App.BaseURL, log)
	adminService := service.NewAdminStatsService(shareRepo, log)

	shareHandler := handler.NewShareHandler(shareService, log)
	adminHandler := handler.NewAdminShareHandler(adminService, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetAllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		response := gin.H{
			"status": "healthy",
			"services": gin.H{
				"database": "healthy",
				"cache":    "disabled",
			},
		}

		if err := database.HealthCheck(db); err != nil {
			response["services"].(gin.H)["database"] = "unhealthy"
			response["status"] = "degraded"
		}

		if redisClient != nil {
			if err := redisClient.HealthCheck(c.Request.Context()); err != nil {
				response["services"].(gin.H)["cache"] = "unhealthy"
				response["status"] = "degraded"
			} else {
				response["services"].(gin.H)["cache"] = "healthy"
			}
		}

		statusCode := http.StatusOK
		if response["status"] == "degraded" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, response)
	})

	// Public redirect path, no auth.
	router.GET("/s/:shortId", shareHandler.Redirect)

	api := router.Group("/api")

	share := api.Group("/share", auth.Middleware(cfg.Auth.JWTSecret))
	{
		share.POST("", shareHandler.Create)
		share.POST("/track", shareHandler.Track)
	}

	admin := api.Group("/admin/shares", auth.Middleware(cfg.Auth.JWTSecret), auth.RequireAdmin())
	{
		admin.GET("/overview", adminHandler.Overview)
		admin.GET("/top", adminHandler.Top)
		admin.GET("/recent", adminHandler.Recent)
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().Str("addr", cfg.GetServerAddress()).Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
