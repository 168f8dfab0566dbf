package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"juspatria-backend/app"
	"juspatria-backend/config"
	"juspatria-backend/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	foundEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logMode := "development"
	if cfg.IsProduction() {
		logMode = "production"
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	log, err := logger.New(logMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if !foundEnv {
		log.Warn("No .env file found, using environment variables")
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log, app.Options{Files: true, Generation: true})
	if err != nil {
		log.Fatal("Failed to initialize application", "error", err)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// generation calls are not cancelled, so give them time to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	log.Info("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
}
