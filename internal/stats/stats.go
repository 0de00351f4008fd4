// Package stats computes the numeric aggregates for the report. Rendering
// (charts, images) happens elsewhere; this package only produces the values.
package stats

import (
	"regexp"
	"sort"

	"github.com/MikeSquared-Agency/recap/internal/chatlog"
)

const topN = 10

// minYapMessages keeps drive-by authors out of the average-length ranking;
// a handful of messages says nothing about how someone writes.
const minYapMessages = 10

var urlRE = regexp.MustCompile(`https?://\S+`)

// AuthorCount pairs a display name with a count for ranked listings.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// AuthorAvg pairs a display name with an average for ranked listings.
type AuthorAvg struct {
	Author  string  `json:"author"`
	Average float64 `json:"average"`
}

// MonthCount is one point on the activity timeline.
type MonthCount struct {
	Month string `json:"month"` // "2025-03"
	Count int    `json:"count"`
}

// Stats holds every aggregate the report renders.
type Stats struct {
	TotalMessages   int           `json:"total_messages"`
	DistinctAuthors int           `json:"distinct_authors"`
	TopContributors []AuthorCount `json:"top_contributors"`
	Timeline        []MonthCount  `json:"timeline"`
	Heatmap         [7][24]int    `json:"heatmap"`      // weekday (Sunday=0) x hour
	YapScores       []AuthorAvg   `json:"yap_scores"`   // avg body length, chattiest first
	NightOwls       []AuthorCount `json:"night_owls"`   // messages 22:00-04:59
	LinkSharers     []AuthorCount `json:"link_sharers"`
}

// Compute aggregates the filtered dataset. It never fails; an empty dataset
// yields zeroed stats.
func Compute(ds *chatlog.Dataset) Stats {
	var s Stats

	counts := make(map[string]int)
	lengths := make(map[string]int)
	nightOwls := make(map[string]int)
	linkSharers := make(map[string]int)
	months := make(map[string]int)

	for _, m := range ds.Messages {
		s.TotalMessages++
		counts[m.Author]++
		lengths[m.Author] += len(m.Body)
		months[m.Timestamp.Format("2006-01")]++
		s.Heatmap[int(m.Timestamp.Weekday())][m.Timestamp.Hour()]++

		if h := m.Timestamp.Hour(); h >= 22 || h < 5 {
			nightOwls[m.Author]++
		}
		if urlRE.MatchString(m.Body) {
			linkSharers[m.Author]++
		}
	}

	s.DistinctAuthors = len(counts)
	s.TopContributors = rankCounts(counts)
	s.NightOwls = rankCounts(nightOwls)
	s.LinkSharers = rankCounts(linkSharers)

	// Ranked across every author above the floor, not just the top
	// contributors: a verbose occasional poster still places.
	for author, n := range counts {
		if n <= minYapMessages {
			continue
		}
		s.YapScores = append(s.YapScores, AuthorAvg{
			Author:  author,
			Average: float64(lengths[author]) / float64(n),
		})
	}
	sort.Slice(s.YapScores, func(i, j int) bool {
		if s.YapScores[i].Average != s.YapScores[j].Average {
			return s.YapScores[i].Average > s.YapScores[j].Average
		}
		return s.YapScores[i].Author < s.YapScores[j].Author
	})
	if len(s.YapScores) > topN {
		s.YapScores = s.YapScores[:topN]
	}

	for month := range months {
		s.Timeline = append(s.Timeline, MonthCount{Month: month, Count: months[month]})
	}
	sort.Slice(s.Timeline, func(i, j int) bool { return s.Timeline[i].Month < s.Timeline[j].Month })

	return s
}

// rankCounts sorts a counter map descending by count (ties by name for
// stable output) and caps the listing.
func rankCounts(counts map[string]int) []AuthorCount {
	out := make([]AuthorCount, 0, len(counts))
	for author, n := range counts {
		out = append(out, AuthorCount{Author: author, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Author < out[j].Author
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
