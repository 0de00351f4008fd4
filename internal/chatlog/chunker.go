package chatlog

import (
	"sort"
	"strings"
)

// DefaultChunkBudget is the per-chunk character budget. Character count is a
// deliberate approximation of tokens; the default leaves ~30% headroom below
// a nominal 128k-character context so prompt scaffolding always fits.
const DefaultChunkBudget = 90_000

// PlanChunks partitions a dataset into one chunk per calendar month, in
// chronological order. A month whose rendered text exceeds the budget is
// split at message boundaries into sub-chunks labeled "2025-03a", "2025-03b",
// and so on; a single message is never split across chunks.
func PlanChunks(ds *Dataset, budget int) []Chunk {
	if budget <= 0 {
		budget = DefaultChunkBudget
	}

	byMonth := make(map[string][]Message)
	for _, m := range ds.Messages {
		label := m.Timestamp.Format("2006-01")
		byMonth[label] = append(byMonth[label], m)
	}

	labels := make([]string, 0, len(byMonth))
	for label := range byMonth {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var chunks []Chunk
	for _, label := range labels {
		chunks = append(chunks, splitMonth(label, byMonth[label], budget)...)
	}
	return chunks
}

func splitMonth(label string, msgs []Message, budget int) []Chunk {
	var parts []Chunk
	var current []Message
	size := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		parts = append(parts, Chunk{
			BaseLabel:  label,
			Messages:   current,
			ApproxSize: size,
		})
		current = nil
		size = 0
	}

	for _, m := range msgs {
		sz := renderedSize(m)
		if len(current) > 0 && size+sz > budget {
			flush()
		}
		current = append(current, m)
		size += sz
	}
	flush()

	if len(parts) == 1 {
		parts[0].Label = label
		return parts
	}
	for i := range parts {
		parts[i].Label = label + subChunkSuffix(i)
	}
	return parts
}

// subChunkSuffix yields a, b, ..., z, aa, ab, ... for sub-chunk ordinals.
func subChunkSuffix(i int) string {
	var sb strings.Builder
	for {
		sb.WriteByte(byte('a' + i%26))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	// Digits were emitted least-significant first.
	b := []byte(sb.String())
	for l, r := 0, len(b)-1; l < r; l, r = l+1, r-1 {
		b[l], b[r] = b[r], b[l]
	}
	return string(b)
}

// FormatTranscript renders a chunk's messages as "author: body" lines for the
// model prompt.
func FormatTranscript(c Chunk) string {
	var sb strings.Builder
	for _, m := range c.Messages {
		sb.WriteString(m.Author)
		sb.WriteString(": ")
		sb.WriteString(m.Body)
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderedSize(m Message) int {
	return len(m.Author) + 2 + len(m.Body) + 1
}
