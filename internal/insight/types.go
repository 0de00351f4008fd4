package insight

// Status marks whether a chunk's insight call ultimately succeeded.
type Status string

const (
	StatusOk     Status = "ok"
	StatusFailed Status = "failed"
)

// Quote is a message the model singled out, attributed to its author.
type Quote struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// MonthlyInsight is the structured narrative for one chunk (or one merged
// month after sub-chunk aggregation). A Failed insight keeps its label and
// reason so the report can annotate the gap instead of dropping the month.
type MonthlyInsight struct {
	Label          string   `json:"label"`
	BaseLabel      string   `json:"base_label"`
	SummaryBullets []string `json:"summary,omitempty"`
	Sentiment      string   `json:"sentiment,omitempty"`
	FunniestQuote  *Quote   `json:"funniest_quote,omitempty"`
	ImpactfulQuote *Quote   `json:"impactful_quote,omitempty"`
	Status         Status   `json:"status"`
	FailureReason  string   `json:"failure_reason,omitempty"`
}

// PeriodSynthesis is the cross-month narrative for the whole window. When no
// month produced a usable insight (or the synthesis call itself failed),
// Unavailable is set and the report renders statistics only.
type PeriodSynthesis struct {
	Text        string `json:"text,omitempty"`
	Unavailable bool   `json:"unavailable,omitempty"`
	Reason      string `json:"reason,omitempty"`
}
