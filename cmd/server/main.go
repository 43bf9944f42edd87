package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/investi-gate/portal-sub000/internal/config"
	"github.com/investi-gate/portal-sub000/internal/logger"
	"github.com/investi-gate/portal-sub000/internal/logger/console"
	"github.com/investi-gate/portal-sub000/internal/server"
)

func main() {
	envErr := godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)

	debug := cfg != nil && cfg.Log.Debug
	logger.Init(console.New(console.Params{Debug: debug}))
	if envErr != nil {
		logger.Debug("No .env file found, using environment")
	}
	if err != nil {
		logger.Fatal("Failed to load configuration", "path", cfgPath, "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewFromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open store", "backend", cfg.Store.Backend, "err", err)
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.SetupRouter(),
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Server.Port, "backend", cfg.Store.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
	if err := srv.Close(shutdownCtx); err != nil {
		logger.Error("Failed to close store", "err", err)
	}
}
