// Command recapd serves the dashboard API: submit analyses, poll jobs, list
// finished reports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/recap/internal/analysis"
	"github.com/MikeSquared-Agency/recap/internal/api"
	"github.com/MikeSquared-Agency/recap/internal/config"
	"github.com/MikeSquared-Agency/recap/internal/insight"
	"github.com/MikeSquared-Agency/recap/internal/llm"
)

func main() {
	configPath := flag.String("config", "", "path to recap.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		slog.Error("create output dir", "error", err)
		os.Exit(1)
	}
	if cfg.APIToken == "" {
		slog.Warn("no API token configured — endpoints are open")
	}

	model := llm.NewClient(cfg.Model.APIKey, cfg.Model.BaseURL, cfg.Model.Name, cfg.Model.MaxTokens)
	runner := analysis.NewRunner(model, insightConfig(cfg), cfg.Insights.ChunkBudgetChars, slog.Default())
	srv := api.NewServer(cfg.APIToken, runner, cfg.OutputDir, slog.Default())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Handler(),
	}
	go func() {
		slog.Info("recapd ready", "port", cfg.Port, "model", cfg.Model.Name, "output", cfg.OutputDir)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("recapd stopped")
}

func insightConfig(cfg *config.Config) insight.Config {
	return insight.Config{
		Language:    cfg.Insights.Language,
		MaxAttempts: cfg.Insights.MaxAttempts,
		BackoffBase: time.Duration(cfg.Insights.BackoffBaseMs) * time.Millisecond,
		CallTimeout: time.Duration(cfg.Model.RequestTimeoutSeconds) * time.Second,
		Concurrency: cfg.Insights.Concurrency,
	}
}

func setupLogging(level string) {
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
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
