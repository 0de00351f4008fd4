// Command recap runs one analysis over a chat export and writes the report
// artifacts.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/recap/internal/analysis"
	"github.com/MikeSquared-Agency/recap/internal/chatlog"
	"github.com/MikeSquared-Agency/recap/internal/config"
	"github.com/MikeSquared-Agency/recap/internal/insight"
	"github.com/MikeSquared-Agency/recap/internal/llm"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "path to the chat export file (required)")
		channel    = flag.String("channel", "", "channel name for the report header (default: input filename)")
		year       = flag.Int("year", 0, "year to analyze (required)")
		quarter    = flag.Int("quarter", 0, "quarter 1-4, or 0 for the whole year")
		lang       = flag.String("lang", "", "insight language (overrides config)")
		outDir     = flag.String("out", "", "output directory (overrides config)")
		configPath = flag.String("config", "", "path to recap.yaml (optional)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	if *inputPath == "" || *year == 0 {
		slog.Error("-input and -year are required")
		flag.Usage()
		os.Exit(2)
	}
	if *lang != "" {
		cfg.Insights.Language = *lang
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	window := chatlog.PeriodWindow{Year: *year, Quarter: *quarter}
	if err := window.Validate(); err != nil {
		slog.Error("bad window", "error", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	model := llm.NewClient(cfg.Model.APIKey, cfg.Model.BaseURL, cfg.Model.Name, cfg.Model.MaxTokens)
	runner := analysis.NewRunner(model, insightConfig(cfg), cfg.Insights.ChunkBudgetChars, slog.Default())

	slog.Info("recap starting", "input", *inputPath, "window", window.String(), "model", cfg.Model.Name)

	rep, err := runner.Run(ctx, *inputPath, *channel, window)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	jsonPath, err := rep.WriteJSON(cfg.OutputDir)
	if err != nil {
		slog.Error("write json artifact", "error", err)
		os.Exit(1)
	}
	htmlPath, err := rep.WriteHTML(cfg.OutputDir)
	if err != nil {
		slog.Error("write html artifact", "error", err)
		os.Exit(1)
	}

	ok, failed := 0, 0
	for _, m := range rep.Months {
		if m.Status == insight.StatusOk {
			ok++
		} else {
			failed++
		}
	}
	slog.Info("recap done",
		"json", jsonPath,
		"html", htmlPath,
		"messages", rep.Stats.TotalMessages,
		"months_ok", ok,
		"months_failed", failed,
	)
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
