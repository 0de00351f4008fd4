package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/recap/internal/chatlog"
	"github.com/MikeSquared-Agency/recap/internal/insight"
	"github.com/MikeSquared-Agency/recap/internal/stats"
)

//go:embed report.html.tmpl
var templateFS embed.FS

var reportTmpl = template.Must(template.New("report.html.tmpl").
	Funcs(template.FuncMap{"splitParagraphs": splitParagraphs}).
	ParseFS(templateFS, "report.html.tmpl"))

func splitParagraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Report is the complete output payload of one analysis run: integrity
// diagnostics, statistics, and whatever subset of insights succeeded.
type Report struct {
	RunID       uuid.UUID                `json:"run_id"`
	ChannelName string                   `json:"channel_name"`
	Period      string                   `json:"period"`
	GeneratedAt time.Time                `json:"generated_at"`
	Integrity   *chatlog.IntegrityReport `json:"integrity"`
	Stats       stats.Stats              `json:"stats"`
	Months      []insight.MonthlyInsight `json:"months"`
	Synthesis   insight.PeriodSynthesis  `json:"synthesis"`
}

// New stamps a fresh report envelope for the given channel and window.
func New(channel string, window chatlog.PeriodWindow) *Report {
	return &Report{
		RunID:       uuid.New(),
		ChannelName: channel,
		Period:      window.String(),
		GeneratedAt: time.Now().UTC(),
	}
}

// baseName builds the artifact filename stem, e.g. "general_Report_2025-Q1".
func (r *Report) baseName() string {
	return fmt.Sprintf("%s_Report_%s", sanitizeName(r.ChannelName), r.Period)
}

// WriteJSON writes the machine-readable artifact and returns its path.
func (r *Report) WriteJSON(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	path := filepath.Join(dir, r.baseName()+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// RenderHTML renders the narrative report. Failed months render with their
// "insights unavailable" annotation rather than disappearing.
func (r *Report) RenderHTML(w io.Writer) error {
	if err := reportTmpl.Execute(w, r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// WriteHTML writes the rendered report next to the JSON artifact.
func (r *Report) WriteHTML(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	path := filepath.Join(dir, r.baseName()+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := r.RenderHTML(f); err != nil {
		return "", err
	}
	return path, nil
}

// sanitizeName keeps channel names filesystem-safe.
func sanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "channel"
	}
	return sb.String()
}
