// Package analysis wires the parsing pipeline, statistics, and the insight
// orchestration into one run.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/recap/internal/chatlog"
	"github.com/MikeSquared-Agency/recap/internal/insight"
	"github.com/MikeSquared-Agency/recap/internal/llm"
	"github.com/MikeSquared-Agency/recap/internal/report"
	"github.com/MikeSquared-Agency/recap/internal/stats"
)

// Runner executes one analysis over an export file.
type Runner struct {
	llm         llm.Summarizer
	insightCfg  insight.Config
	chunkBudget int
	logger      *slog.Logger
}

func NewRunner(s llm.Summarizer, insightCfg insight.Config, chunkBudget int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		llm:         s,
		insightCfg:  insightCfg,
		chunkBudget: chunkBudget,
		logger:      logger,
	}
}

// Run parses the export, narrows it to the window, and computes statistics
// and AI insights over the same immutable filtered dataset. The only fatal
// error is an unreadable input; a model outage degrades to a statistics-only
// report.
func (r *Runner) Run(ctx context.Context, inputPath, channelName string, window chatlog.PeriodWindow) (*report.Report, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if channelName == "" {
		channelName = deriveChannelName(inputPath)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	ds, integrity, err := chatlog.Build(chatlog.NewAssembler(f, r.logger))
	if err != nil {
		return nil, err
	}
	r.logger.Info("export parsed",
		"messages", integrity.Total,
		"earliest", integrity.Earliest,
		"latest", integrity.Latest,
		"anomalies", len(integrity.Anomalies),
	)

	filtered := ds.FilterPeriod(window)
	if len(filtered.Messages) == 0 {
		r.logger.Warn("no messages in window", "window", window.String())
	}

	rep := report.New(channelName, window)
	rep.Integrity = integrity

	// Statistics and insights both read the immutable filtered dataset, so
	// they run concurrently. Neither side returns an error: insight
	// failures degrade per chunk and stats cannot fail.
	var months []insight.MonthlyInsight
	var synthesis insight.PeriodSynthesis

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rep.Stats = stats.Compute(filtered)
		return nil
	})
	g.Go(func() error {
		chunks := chatlog.PlanChunks(filtered, r.chunkBudget)
		r.logger.Info("chunks planned", "count", len(chunks))

		orch := insight.New(r.llm, r.insightCfg, r.logger)
		months = insight.MergeByMonth(orch.Run(gctx, chunks))
		synthesis = orch.Synthesize(gctx, window.String(), months)
		return nil
	})
	_ = g.Wait()

	rep.Months = months
	rep.Synthesis = synthesis
	return rep, nil
}

// deriveChannelName falls back to the export filename when no channel name
// was supplied.
func deriveChannelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
