package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/itemguard/moderation-api/internal/app"
	"github.com/itemguard/moderation-api/internal/logger"
	"github.com/itemguard/moderation-api/pkg/config"
)

func main() {
	log := logger.NewStdLogger()

	// Load environment variables before reading configuration
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}

	cfg := config.New()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	application := app.New(cfg, log)
	if err := application.Startup(context.Background()); err != nil {
		log.Fatal("Failed to start application", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: application.Router(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", err)
		}
	}()
	log.Info("Server started", "port", cfg.Port)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	// Stop accepting requests before releasing resources
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", err)
	}

	if err := application.Shutdown(); err != nil {
		log.Error("Application shutdown failed", err)
	}
}
