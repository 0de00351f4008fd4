package chatlog

import (
	"fmt"
	"time"
)

// PeriodWindow narrows a dataset to a year and, optionally, a fiscal quarter.
// Quarter 0 means the full year.
type PeriodWindow struct {
	Year    int
	Quarter int // 0 or 1..4
}

// Validate checks the window's year and quarter bounds.
func (w PeriodWindow) Validate() error {
	if w.Year < 1 {
		return fmt.Errorf("year is required, got %d", w.Year)
	}
	if w.Quarter < 0 || w.Quarter > 4 {
		return fmt.Errorf("quarter must be 1-4, got %d", w.Quarter)
	}
	return nil
}

// Months returns the inclusive month range covered by the window.
func (w PeriodWindow) Months() (first, last time.Month) {
	if w.Quarter == 0 {
		return time.January, time.December
	}
	first = time.Month((w.Quarter-1)*3 + 1)
	return first, first + 2
}

// String renders the window for labels and filenames, e.g. "2025" or "2025-Q1".
func (w PeriodWindow) String() string {
	if w.Quarter == 0 {
		return fmt.Sprintf("%d", w.Year)
	}
	return fmt.Sprintf("%d-Q%d", w.Year, w.Quarter)
}

// FilterPeriod returns a new dataset holding only the messages whose local
// timestamps fall inside the window, boundaries inclusive. An empty result is
// valid: callers distinguish "no data in range" from a parse failure upstream.
func (ds *Dataset) FilterPeriod(w PeriodWindow) *Dataset {
	first, last := w.Months()

	out := &Dataset{}
	for _, m := range ds.Messages {
		if m.Timestamp.Year() != w.Year {
			continue
		}
		if month := m.Timestamp.Month(); month < first || month > last {
			continue
		}
		out.Messages = append(out.Messages, m)
	}
	return out
}
