package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	travelwebui "github.com/MegaGrindStone/travel-web-ui"
	"github.com/MegaGrindStone/travel-web-ui/internal/handlers"
	"github.com/MegaGrindStone/travel-web-ui/internal/markdown"
	"github.com/MegaGrindStone/travel-web-ui/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatal(fmt.Errorf("error getting user config dir: %w", err))
	}
	dataDir := filepath.Join(cfgDir, "travelwebui")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatal(fmt.Errorf("error creating config directory: %w", err))
	}

	cfgPath := flag.String("config", filepath.Join(dataDir, "config.yaml"), "Path to the YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}

	cfg, err := loadConfig(*cfgPath, dataDir)
	if err != nil {
		log.Fatal(err)
	}

	level, _ := cfg.logLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	backend, err := cfg.API.newBackend(logger)
	if err != nil {
		logger.Error("Failed to create api client", slog.String("err", err.Error()))
		os.Exit(1)
	}

	boltDB, err := services.NewBoltDB(cfg.StorePath)
	if err != nil {
		logger.Error("Failed to open store", slog.String("path", cfg.StorePath), slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer boltDB.Close()

	m, err := handlers.NewMain(backend, boltDB, markdown.NewRenderer(markdown.DefaultStyles), logger)
	if err != nil {
		logger.Error("Failed to create handlers", slog.String("err", err.Error()))
		os.Exit(1)
	}

	staticFS, err := fs.Sub(travelwebui.StaticFS, "static")
	if err != nil {
		logger.Error("Failed to open static files", slog.String("err", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.addr(),
		Handler:           m.Router(staticFS),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv.RegisterOnShutdown(func() {
		if err := m.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown sse server", slog.String("err", err.Error()))
		}
	})

	// Channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("Server starting",
			slog.String("addr", srv.Addr),
			slog.String("api", cfg.API.BaseURL))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", slog.String("err", err.Error()))
		}
	case sig := <-shutdown:
		logger.Info("Starting shutdown", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", slog.String("err", err.Error()))
			if err := srv.Close(); err != nil {
				logger.Error("Forced shutdown failed", slog.String("err", err.Error()))
			}
		}
	}

	logger.Info("Server stopped")
}
