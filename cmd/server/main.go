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

	"github.com/Lixing-Zhang/food-dashboard/internal/config"
	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/Lixing-Zhang/food-dashboard/internal/realtime"
	"github.com/Lixing-Zhang/food-dashboard/internal/repository"
	"github.com/Lixing-Zhang/food-dashboard/internal/router"
	"github.com/Lixing-Zhang/food-dashboard/internal/seed"
	"github.com/Lixing-Zhang/food-dashboard/internal/service"
	"github.com/Lixing-Zhang/food-dashboard/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting foods api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"auth", len(cfg.Auth.APIKeys) > 0,
	)

	foods, err := loadSeed(cfg.Seed.File, log)
	if err != nil {
		log.Error("failed to load seed file", "path", cfg.Seed.File, "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := realtime.NewHub(log)
	go hub.Run()

	repo := repository.NewInMemoryFoodRepository(foods)
	foodService := service.NewFoodService(repo, hub, log)

	if cfg.Seed.Watch {
		fw, err := seed.NewFileWatcher(cfg.Seed.File, foodService, log)
		if err != nil {
			log.Error("failed to watch seed file", "path", cfg.Seed.File, "error", err)
			os.Exit(1)
		}
		go fw.Watch(ctx)
		log.Info("watching seed file", "path", cfg.Seed.File)
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.New(cfg.Auth, foodService, hub, log),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	hub.Close()

	log.Info("server stopped gracefully")
}

// loadSeed reads the seed file, falling back to the built-in menu when it
// does not exist
func loadSeed(path string, log *slog.Logger) ([]models.Food, error) {
	foods, err := seed.LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("seed file not found, using default menu", "path", path)
		return repository.DefaultFoods(), nil
	}
	if err != nil {
		return nil, err
	}

	log.Info("seed file loaded", "path", path, "foods", len(foods))
	return foods, nil
}
