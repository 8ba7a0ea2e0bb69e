package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"animehub/database"
	"animehub/internal/api/handler"
	"animehub/internal/api/middleware"
	"animehub/internal/api/repository"
	"animehub/internal/api/service"
	"animehub/internal/cache"
	"animehub/internal/chat"
	"animehub/internal/config"
	"animehub/internal/ingestion/jikan"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	recCache := cache.NewRecommendationCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RecommendationsTTL, logger)
	defer recCache.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	animeRepo := repository.NewAnimeRepo(db)
	ratingRepo := repository.NewRatingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	friendRepo := repository.NewFriendshipRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	recRepo := repository.NewRecommendationRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	animeService := service.NewAnimeService(animeRepo)
	ratingService := service.NewRatingService(ratingRepo, animeRepo, recCache)
	commentService := service.NewCommentService(commentRepo, animeRepo)
	watchlistService := service.NewWatchlistService(watchlistRepo, animeRepo)
	friendService := service.NewFriendService(friendRepo, userRepo, notifRepo, recCache)
	messageService := service.NewMessageService(messageRepo, friendRepo, userRepo, notifRepo)
	notificationService := service.NewNotificationService(notifRepo)
	recommendationService := service.NewRecommendationService(recRepo, ratingRepo, friendRepo, animeRepo, recCache)

	jikanClient := jikan.NewClient(cfg.JikanAPIURL, logger)
	syncService := jikan.NewSyncService(jikanClient, animeRepo, watchlistRepo, notifRepo, logger)

	// Chat hub
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	hub := chat.NewHub(messageService)
	go hub.Run(hubCtx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Public routes
	authHandler := handler.NewAuthHandler(authService)
	authHandler.RegisterRoutes(api)

	// Authenticated routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		handler.NewAnimeHandler(animeService).RegisterRoutes(protected)
		handler.NewRatingHandler(ratingService).RegisterRoutes(protected)
		handler.NewCommentHandler(commentService).RegisterRoutes(protected)
		handler.NewWatchlistHandler(watchlistService).RegisterRoutes(protected)
		handler.NewFriendHandler(friendService).RegisterRoutes(protected)
		handler.NewMessageHandler(messageService).RegisterRoutes(protected)
		handler.NewNotificationHandler(notificationService).RegisterRoutes(protected)
		handler.NewRecommendationHandler(recommendationService).RegisterRoutes(protected)

		protected.GET("/ws", chat.WSHandler(hub))

		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())
		handler.NewSyncHandler(syncService).RegisterRoutes(admin)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("api server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	hubCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
