// BdAsk - Bengali AI assistant API server
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bdask/bdask/internal/api"
	"github.com/bdask/bdask/internal/assistant"
	"github.com/bdask/bdask/internal/config"
	"github.com/bdask/bdask/internal/feeds"
	"github.com/bdask/bdask/internal/middleware"
	"github.com/bdask/bdask/internal/store"
	"github.com/bdask/bdask/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		defer func() { _ = rotator.Close() }()
		logOut = io.MultiWriter(os.Stdout, rotator)
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	var processor assistant.Processor
	if cfg.AIEnabled() {
		processor = assistant.NewOpenAIProcessor(assistant.Config{
			BaseURL:    cfg.LLM.BaseURL,
			APIKey:     cfg.LLM.APIKey,
			Model:      cfg.LLM.Model,
			MaxHistory: cfg.LLM.MaxHistory,
			Timeout:    cfg.LLM.Timeout,
		})
		slog.Info("Assistant enabled", "model", cfg.LLM.Model)
	} else {
		slog.Info("AI features disabled (LLM_API_KEY not set)")
	}

	feedCache, closeCache := newFeedCache(cfg.Feeds)
	defer closeCache()
	feedService := feeds.NewService(feeds.Config{
		CricketAPIKey:  cfg.Feeds.CricketAPIKey,
		NewsAPIKey:     cfg.Feeds.NewsAPIKey,
		FootballAPIKey: cfg.Feeds.FootballAPIKey,
		ExchangeAPIKey: cfg.Feeds.ExchangeAPIKey,
		Timeout:        cfg.Feeds.Timeout,
		CacheTTL:       cfg.Feeds.CacheTTL,
	}, feedCache, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration)

	// Initialize handlers.
	baseHandler := api.NewHandler(repo)
	healthHandler := api.NewHealthHandler(repo, cfg.AIEnabled())
	chatHandler := api.NewChatHandler(baseHandler, processor, limiter)
	featureHandler := api.NewFeatureHandler(baseHandler, processor, feedService)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Identity(cfg.IsDevelopment()))

	// Public routes.
	healthHandler.RegisterHealth(r)

	r.Route("/api", func(r chi.Router) {
		featureHandler.RegisterRoutes(r)
		chatHandler.RegisterRoutes(r)
	})

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Chat replies can take a while, so the write timeout follows the LLM timeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

// newFeedCache uses Redis when REDIS_ADDR is set and reachable, otherwise an
// in-process cache.
func newFeedCache(cfg config.FeedsConfig) (feeds.Cache, func()) {
	if cfg.RedisAddr == "" {
		return feeds.NewMemoryCache(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Warn("Redis unreachable, using in-memory feed cache", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		return feeds.NewMemoryCache(), func() {}
	}

	slog.Info("Feed cache connected to Redis", "addr", cfg.RedisAddr)
	return feeds.NewRedisCache(rdb), func() {
		if err := rdb.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}
}
