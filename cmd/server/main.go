package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fizikblog/internal/cache"
	"fizikblog/internal/config"
	"fizikblog/internal/database"
	"fizikblog/internal/middleware"
	"fizikblog/internal/observability"
	"fizikblog/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "fizikblog-api",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		middleware.Logger.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	cache.InitRedis(cfg.RedisURL)
	middleware.InitMiddleware(cfg)

	srv := server.NewServer(cfg, db, cache.GetClient())
	srv.SetupApp()

	go func() {
		if err := srv.Listen(); err != nil {
			middleware.Logger.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()
	middleware.Logger.Info("Server started", "port", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	middleware.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		middleware.Logger.Error("Server shutdown error", "error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		middleware.Logger.Error("Tracing shutdown error", "error", err)
	}
	if err := database.Close(db); err != nil {
		middleware.Logger.Error("Database close error", "error", err)
	}
	middleware.Logger.Info("Server stopped")
}
