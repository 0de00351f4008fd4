package chatlog

import "time"

// Message is one cleaned chat message reconstructed from the export stream.
// Body may span multiple source lines; embedded URLs are preserved verbatim.
type Message struct {
	Timestamp time.Time
	Author    string
	Body      string
}

// LineKind tags the result of classifying a single raw line.
type LineKind int

const (
	// KindHeader starts a new message: bracketed timestamp, author, colon.
	KindHeader LineKind = iota
	// KindContinuation extends the previous message's body.
	KindContinuation
	// KindNoise carries no message content (see NoiseReason).
	KindNoise
)

// NoiseReason says why a line was classified as noise. The assembler treats
// empty lines specially: inside a message they become paragraph breaks.
type NoiseReason int

const (
	NoiseNone NoiseReason = iota
	NoiseEmpty
	NoiseBotCommand
	NoiseSystem
)

// ClassifiedLine is the classifier's verdict on one raw line. For headers,
// Text holds the content that followed the colon on the same line.
type ClassifiedLine struct {
	Kind   LineKind
	Noise  NoiseReason
	Stamp  time.Time
	Author string
	Text   string
}

// Chunk is a month-sized slice of a dataset, rendered for one model call.
// Sub-chunks of an oversized month share a BaseLabel ("2025-03") and get
// distinct Labels ("2025-03a", "2025-03b").
type Chunk struct {
	Label      string
	BaseLabel  string
	Messages   []Message
	ApproxSize int
}
