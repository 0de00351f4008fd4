package chatlog

import (
	"fmt"
	"hash/fnv"
	"time"
)

// Dataset is the time-ordered message table for one analysis run. The source
// stream is assumed chronological; Build validates monotonicity rather than
// re-sorting.
type Dataset struct {
	Messages []Message
}

// IntegrityReport carries the diagnostics produced while building a dataset.
// Anomalies are reported, never fatal: a Build always yields a usable Dataset.
type IntegrityReport struct {
	Total        int       `json:"total"`
	Earliest     time.Time `json:"earliest"`
	Latest       time.Time `json:"latest"`
	NonMonotonic int       `json:"non_monotonic"`
	Duplicates   int       `json:"duplicates"`
	Orphans      int       `json:"orphan_continuations"`
	Anomalies    []string  `json:"anomalies,omitempty"`
}

// Build drains the assembler into a Dataset and checks its integrity.
// The only hard error is a read failure on the underlying stream.
func Build(a *Assembler) (*Dataset, *IntegrityReport, error) {
	ds := &Dataset{}
	rep := &IntegrityReport{}

	seen := make(map[uint64]bool)
	var prev time.Time

	for a.Scan() {
		m := a.Message()

		if !prev.IsZero() && m.Timestamp.Before(prev) {
			rep.NonMonotonic++
			if rep.NonMonotonic <= 3 {
				rep.Anomalies = append(rep.Anomalies, fmt.Sprintf(
					"timestamp went backwards at message %d: %s after %s",
					len(ds.Messages), m.Timestamp.Format("2006-01-02 15:04"), prev.Format("2006-01-02 15:04"),
				))
			}
		}
		prev = m.Timestamp

		// Exact repeats are flagged but kept: the source may genuinely
		// contain them, and downstream counts must match the export.
		fp := fingerprint(m)
		if seen[fp] {
			rep.Duplicates++
		}
		seen[fp] = true

		if rep.Earliest.IsZero() || m.Timestamp.Before(rep.Earliest) {
			rep.Earliest = m.Timestamp
		}
		if m.Timestamp.After(rep.Latest) {
			rep.Latest = m.Timestamp
		}

		ds.Messages = append(ds.Messages, m)
	}
	if err := a.Err(); err != nil {
		return nil, nil, fmt.Errorf("read export stream: %w", err)
	}

	rep.Total = len(ds.Messages)
	rep.Orphans = a.Orphans()

	if rep.Duplicates > 0 {
		rep.Anomalies = append(rep.Anomalies, fmt.Sprintf("%d exact duplicate messages", rep.Duplicates))
	}
	if rep.Orphans > 0 {
		rep.Anomalies = append(rep.Anomalies, fmt.Sprintf("%d continuation lines before the first header", rep.Orphans))
	}
	if rep.Total == 0 {
		rep.Anomalies = append(rep.Anomalies, "no messages parsed from stream")
	}

	return ds, rep, nil
}

// fingerprint hashes the (timestamp, author, body) triple for duplicate
// detection.
func fingerprint(m Message) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%s", m.Timestamp.UnixNano(), m.Author, m.Body)
	return h.Sum64()
}
