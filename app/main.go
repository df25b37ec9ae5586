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

	"github.com/joho/godotenv"

	"github.com/lysyi3m/a2z-signals/app/api"
	"github.com/lysyi3m/a2z-signals/app/cfg"
	"github.com/lysyi3m/a2z-signals/app/config"
	"github.com/lysyi3m/a2z-signals/app/feed"
	"github.com/lysyi3m/a2z-signals/app/signals"
)

func main() {
	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
	}

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting A2Z Signals server", "version", appCfg.Version, "port", appCfg.Port)

	profile, err := config.NewLoader(appCfg.ScoringProfile).Load()
	if err != nil {
		slog.Error("Failed to load scoring profile", "path", appCfg.ScoringProfile, "error", err)
		os.Exit(1)
	}
	slog.Info("Scoring profile ready", "name", profile.Name, "scoring_version", signals.ScoringVersion)

	engine := signals.NewEngine(profile.Weights)
	apiHandler := api.NewHandler(engine, feed.NewParser(), feed.NewFilterer(profile.NewsFilters), profile.Name, appCfg.Version)
	server := api.NewServer(apiHandler, api.ServerOptions{
		APIAccessKey:   appCfg.APIAccessKey,
		MaxBodyBytes:   appCfg.MaxBodyBytes,
		RateLimit:      appCfg.RateLimit,
		RateBurst:      appCfg.RateBurst,
		TrustedProxies: appCfg.TrustedProxies,
	})

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("A2Z Signals server shutdown complete")
}
