package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/recap/internal/chatlog"
	"github.com/MikeSquared-Agency/recap/internal/insight"
)

func sampleReport() *Report {
	r := New("general chat", chatlog.PeriodWindow{Year: 2025, Quarter: 1})
	r.Integrity = &chatlog.IntegrityReport{Total: 2}
	r.Months = []insight.MonthlyInsight{
		{Label: "2025-01", BaseLabel: "2025-01", Status: insight.StatusOk,
			SummaryBullets: []string{"ski trip planning"}, Sentiment: "excited",
			FunniestQuote: &insight.Quote{Author: "Bob", Text: "pineapple again"}},
		{Label: "2025-02", BaseLabel: "2025-02", Status: insight.StatusFailed,
			FailureReason: "gave up after 4 attempts"},
	}
	r.Synthesis = insight.PeriodSynthesis{Text: "First paragraph.\n\nSecond paragraph."}
	return r
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().RenderHTML(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"general chat — 2025-Q1 recap",
		"ski trip planning",
		"pineapple again",
		"Insights unavailable for this month.",
		"<p>First paragraph.</p>",
		"<p>Second paragraph.</p>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
}

func TestRenderHTML_SynthesisUnavailable(t *testing.T) {
	r := sampleReport()
	r.Synthesis = insight.PeriodSynthesis{Unavailable: true, Reason: "insights unavailable: outage"}

	var buf bytes.Buffer
	if err := r.RenderHTML(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "insights unavailable: outage") {
		t.Errorf("unavailable synthesis must still be annotated")
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := sampleReport().WriteJSON(dir)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasSuffix(path, "general_chat_Report_2025-Q1.json") {
		t.Errorf("artifact path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if decoded.Period != "2025-Q1" || len(decoded.Months) != 2 {
		t.Errorf("artifact round trip = %+v", decoded)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"general chat":     "general_chat",
		"weird/../name?":   "weirdname",
		"❄❄❄":              "channel",
		"normal-name_2025": "normal-name_2025",
	}
	for in, want := range cases {
		if got := sanitizeName(in); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
