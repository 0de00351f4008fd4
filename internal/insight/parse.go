package insight

import (
	"encoding/json"
	"fmt"
	"strings"
)

type insightPayload struct {
	Summary        []string `json:"summary"`
	Sentiment      string   `json:"sentiment"`
	FunniestQuote  *Quote   `json:"funniest_quote"`
	ImpactfulQuote *Quote   `json:"impactful_quote"`
}

// parsePayload decodes the model's structured monthly response. Any missing
// required section classifies the response as malformed; the raw text is
// surfaced in the error for diagnosis.
func parsePayload(raw string) (*insightPayload, error) {
	cleaned := stripFences(raw)

	var p insightPayload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return nil, fmt.Errorf("malformed model response (%v): %s", err, snippet(raw))
	}
	if len(p.Summary) == 0 {
		return nil, fmt.Errorf("malformed model response (missing summary section): %s", snippet(raw))
	}
	if strings.TrimSpace(p.Sentiment) == "" {
		return nil, fmt.Errorf("malformed model response (missing sentiment section): %s", snippet(raw))
	}
	// Quotes are optional; drop empty ones rather than rendering blanks.
	if p.FunniestQuote != nil && strings.TrimSpace(p.FunniestQuote.Text) == "" {
		p.FunniestQuote = nil
	}
	if p.ImpactfulQuote != nil && strings.TrimSpace(p.ImpactfulQuote.Text) == "" {
		p.ImpactfulQuote = nil
	}
	return &p, nil
}

// stripFences removes markdown code fences some models wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "…"
	}
	return s
}
