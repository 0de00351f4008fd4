package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/recap/internal/chatlog"
	"github.com/MikeSquared-Agency/recap/internal/insight"
)

const sampleExport = `[03-Jan-25 09:15 AM] Alice: morning all
[03-Jan-25 09:16 AM] Bob: hello!
[10-Feb-25 08:00 PM] Alice: shipping the thing today
[11-Feb-25 10:30 PM] Cara: late night push https://example.com/pr/42
[05-Jul-25 01:00 PM] Bob: out of window message
`

const monthlyReply = `{"summary": ["stuff happened"], "sentiment": "upbeat", "funniest_quote": null, "impactful_quote": null}`

type stubModel struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubModel) Summarize(_ context.Context, system, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if strings.Contains(system, "schema") {
		return monthlyReply, nil
	}
	return "A fine quarter for the channel.", nil
}

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "general chat.txt")
	if err := os.WriteFile(path, []byte(sampleExport), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func testInsightCfg() insight.Config {
	return insight.Config{MaxAttempts: 1, BackoffBase: time.Millisecond, CallTimeout: time.Second}
}

func TestRun_FullReport(t *testing.T) {
	model := &stubModel{}
	r := NewRunner(model, testInsightCfg(), 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rep, err := r.Run(context.Background(), writeExport(t), "", chatlog.PeriodWindow{Year: 2025, Quarter: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.ChannelName != "general chat" {
		t.Errorf("channel = %q, want derived from filename", rep.ChannelName)
	}
	if rep.Period != "2025-Q1" {
		t.Errorf("period = %q", rep.Period)
	}
	if rep.Stats.TotalMessages != 4 {
		t.Errorf("stats messages = %d, want 4 (July excluded)", rep.Stats.TotalMessages)
	}
	if got := len(rep.Months); got != 2 {
		t.Fatalf("months = %d, want Jan and Feb", got)
	}
	for _, m := range rep.Months {
		if m.Status != insight.StatusOk {
			t.Errorf("month %s status = %s: %s", m.Label, m.Status, m.FailureReason)
		}
	}
	if rep.Synthesis.Unavailable || rep.Synthesis.Text == "" {
		t.Errorf("synthesis = %+v, want available text", rep.Synthesis)
	}
	if rep.Integrity == nil || rep.Integrity.Total != 5 {
		t.Errorf("integrity should count all parsed messages, got %+v", rep.Integrity)
	}
}

func TestRun_ModelOutageDegradesToStats(t *testing.T) {
	model := &stubModel{err: errors.New("boom")}
	r := NewRunner(model, testInsightCfg(), 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rep, err := r.Run(context.Background(), writeExport(t), "general", chatlog.PeriodWindow{Year: 2025})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Stats.TotalMessages == 0 {
		t.Error("stats should survive a model outage")
	}
	for _, m := range rep.Months {
		if m.Status != insight.StatusFailed {
			t.Errorf("month %s status = %s, want failed", m.Label, m.Status)
		}
	}
	if !rep.Synthesis.Unavailable {
		t.Error("synthesis should be marked unavailable")
	}
}

func TestRun_MissingInput(t *testing.T) {
	r := NewRunner(&stubModel{}, testInsightCfg(), 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := r.Run(context.Background(), "/nonexistent/export.txt", "x", chatlog.PeriodWindow{Year: 2025}); err == nil {
		t.Fatal("expected error for unreadable input")
	}
}

func TestRun_InvalidWindow(t *testing.T) {
	r := NewRunner(&stubModel{}, testInsightCfg(), 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := r.Run(context.Background(), "whatever", "x", chatlog.PeriodWindow{Year: 2025, Quarter: 7}); err == nil {
		t.Fatal("expected error for invalid quarter")
	}
}
