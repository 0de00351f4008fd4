package insight

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/recap/internal/chatlog"
	"github.com/MikeSquared-Agency/recap/internal/llm"
)

// Config controls the retry policy and worker pool for model calls.
type Config struct {
	Language    string
	MaxAttempts int           // total attempts per chunk, transient failures only
	BackoffBase time.Duration // first retry delay, doubled each attempt
	CallTimeout time.Duration // per-attempt deadline; exceeding it is transient
	Concurrency int           // chunks in flight at once
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = "English"
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 4
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 2 * time.Second
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 120 * time.Second
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 3
	}
}

// Orchestrator submits chunks to the model service and aggregates the
// results. A failed chunk never aborts the run: it degrades to a Failed
// insight and the statistics pipeline proceeds unaffected.
type Orchestrator struct {
	llm    llm.Summarizer
	cfg    Config
	logger *slog.Logger

	// sleep is swappable so the backoff schedule is testable with a mock
	// clock.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(s llm.Summarizer, cfg Config, logger *slog.Logger) *Orchestrator {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		llm:    s,
		cfg:    cfg,
		logger: logger,
		sleep:  ctxSleep,
	}
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Process runs one chunk through the call state machine and always returns
// an insight: Ok on success, Failed with a reason otherwise.
func (o *Orchestrator) Process(ctx context.Context, chunk chatlog.Chunk) MonthlyInsight {
	out := MonthlyInsight{Label: chunk.Label, BaseLabel: chunk.BaseLabel}

	system := fmt.Sprintf(monthlySystemPrompt, o.cfg.Language)
	user := fmt.Sprintf(monthlyUserPrompt, chunk.Label, chatlog.FormatTranscript(chunk))

	raw, err := o.callWithRetry(ctx, chunk.Label, system, user)
	if err != nil {
		out.Status = StatusFailed
		out.FailureReason = err.Error()
		o.logger.Error("chunk insight failed", "label", chunk.Label, "error", err)
		return out
	}

	payload, err := parsePayload(raw)
	if err != nil {
		// Malformed responses are permanent: retrying the same prompt is
		// unlikely to fix the format, and the raw text is in the reason.
		out.Status = StatusFailed
		out.FailureReason = err.Error()
		o.logger.Error("chunk insight unparsable", "label", chunk.Label, "error", err)
		return out
	}

	out.Status = StatusOk
	out.SummaryBullets = payload.Summary
	out.Sentiment = payload.Sentiment
	out.FunniestQuote = payload.FunniestQuote
	out.ImpactfulQuote = payload.ImpactfulQuote

	o.logger.Info("chunk insight ready",
		"label", chunk.Label,
		"bullets", len(out.SummaryBullets),
	)
	return out
}

// callWithRetry issues the model call with exponential backoff on transient
// failures. Auth errors and other permanent failures return immediately.
func (o *Orchestrator) callWithRetry(ctx context.Context, label, system, user string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= o.cfg.MaxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
		raw, err := o.llm.Summarize(callCtx, system, user)
		cancel()

		if err == nil {
			return raw, nil
		}
		lastErr = err

		if llm.IsAuth(err) {
			return "", fmt.Errorf("auth error (not retried): %w", err)
		}
		if !llm.IsTransient(err) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == o.cfg.MaxAttempts {
			break
		}

		delay := o.cfg.BackoffBase << (attempt - 1)
		o.logger.Warn("transient model failure, backing off",
			"label", label,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
		if err := o.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("gave up after %d attempts: %w", o.cfg.MaxAttempts, lastErr)
}

// Run processes all chunks through a bounded worker pool and returns the
// insights sorted by period label, independent of completion order.
func (o *Orchestrator) Run(ctx context.Context, chunks []chatlog.Chunk) []MonthlyInsight {
	results := make([]MonthlyInsight, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Concurrency)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			results[i] = o.Process(gctx, chunk)
			return nil
		})
	}
	// Workers never return errors; failures live in the results.
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Label < results[j].Label })
	return results
}

// MergeByMonth folds sub-chunk insights (2025-03a, 2025-03b) back into one
// insight per base label. Bullets concatenate in label order; sentiment and
// quotes come from the first successful sub-chunk; a month is Ok when at
// least one sub-chunk succeeded.
func MergeByMonth(insights []MonthlyInsight) []MonthlyInsight {
	var order []string
	groups := make(map[string][]MonthlyInsight)
	for _, in := range insights {
		if _, ok := groups[in.BaseLabel]; !ok {
			order = append(order, in.BaseLabel)
		}
		groups[in.BaseLabel] = append(groups[in.BaseLabel], in)
	}
	sort.Strings(order)

	merged := make([]MonthlyInsight, 0, len(order))
	for _, base := range order {
		group := groups[base]
		if len(group) == 1 && group[0].Label == base {
			merged = append(merged, group[0])
			continue
		}

		out := MonthlyInsight{Label: base, BaseLabel: base, Status: StatusFailed}
		var reasons []string
		for _, in := range group {
			if in.Status != StatusOk {
				reasons = append(reasons, in.FailureReason)
				continue
			}
			if out.Status != StatusOk {
				out.Status = StatusOk
				out.Sentiment = in.Sentiment
				out.FunniestQuote = in.FunniestQuote
				out.ImpactfulQuote = in.ImpactfulQuote
			}
			out.SummaryBullets = append(out.SummaryBullets, in.SummaryBullets...)
		}
		if out.Status != StatusOk {
			out.FailureReason = strings.Join(reasons, "; ")
		}
		merged = append(merged, out)
	}
	return merged
}

// Synthesize issues one higher-level call over the successful monthly
// insights. Zero successful months (or a failed synthesis call) yields an
// explicit unavailable marker instead of failing the run.
func (o *Orchestrator) Synthesize(ctx context.Context, period string, months []MonthlyInsight) PeriodSynthesis {
	var sb strings.Builder
	succeeded := 0
	for _, m := range months {
		if m.Status != StatusOk {
			continue
		}
		succeeded++
		fmt.Fprintf(&sb, "%s (%s):\n", m.Label, m.Sentiment)
		for _, b := range m.SummaryBullets {
			fmt.Fprintf(&sb, "- %s\n", b)
		}
		sb.WriteString("\n")
	}

	if succeeded == 0 {
		return PeriodSynthesis{
			Unavailable: true,
			Reason:      "insights unavailable: no month produced a usable digest",
		}
	}

	system := fmt.Sprintf(synthesisSystemPrompt, o.cfg.Language)
	user := fmt.Sprintf(synthesisUserPrompt, period, sb.String())

	text, err := o.callWithRetry(ctx, "synthesis", system, user)
	if err != nil {
		o.logger.Error("period synthesis failed", "error", err)
		return PeriodSynthesis{
			Unavailable: true,
			Reason:      fmt.Sprintf("insights unavailable: %v", err),
		}
	}

	return PeriodSynthesis{Text: strings.TrimSpace(text)}
}
