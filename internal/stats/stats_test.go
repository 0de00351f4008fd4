package stats

import (
	"testing"
	"time"

	"github.com/MikeSquared-Agency/recap/internal/chatlog"
)

func msg(author, body string, hour int) chatlog.Message {
	return chatlog.Message{
		// 2025-06-02 is a Monday.
		Timestamp: time.Date(2025, 6, 2, hour, 0, 0, 0, time.UTC),
		Author:    author,
		Body:      body,
	}
}

func TestCompute_Basics(t *testing.T) {
	ds := &chatlog.Dataset{Messages: []chatlog.Message{
		msg("Alice", "short", 10),
		msg("Alice", "a somewhat longer message body", 11),
		msg("Bob", "hi", 12),
	}}

	s := Compute(ds)

	if s.TotalMessages != 3 {
		t.Errorf("total = %d, want 3", s.TotalMessages)
	}
	if s.DistinctAuthors != 2 {
		t.Errorf("authors = %d, want 2", s.DistinctAuthors)
	}
	if s.TopContributors[0].Author != "Alice" || s.TopContributors[0].Count != 2 {
		t.Errorf("top contributor = %+v", s.TopContributors[0])
	}
	if s.Heatmap[1][10] != 1 { // Monday, 10:00
		t.Errorf("heatmap[Mon][10] = %d, want 1", s.Heatmap[1][10])
	}
}

func TestCompute_Timeline(t *testing.T) {
	ds := &chatlog.Dataset{Messages: []chatlog.Message{
		{Timestamp: time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC), Author: "a", Body: "x"},
		{Timestamp: time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC), Author: "a", Body: "x"},
		{Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), Author: "a", Body: "x"},
	}}

	s := Compute(ds)

	if len(s.Timeline) != 2 {
		t.Fatalf("timeline points = %d, want 2", len(s.Timeline))
	}
	if s.Timeline[0].Month != "2025-01" || s.Timeline[0].Count != 2 {
		t.Errorf("timeline[0] = %+v", s.Timeline[0])
	}
	if s.Timeline[1].Month != "2025-03" || s.Timeline[1].Count != 1 {
		t.Errorf("timeline[1] = %+v", s.Timeline[1])
	}
}

func TestCompute_NightOwls(t *testing.T) {
	ds := &chatlog.Dataset{Messages: []chatlog.Message{
		msg("Alice", "late", 23),
		msg("Alice", "later", 2),
		msg("Bob", "daytime", 14),
		msg("Carol", "edge of night", 4),
		msg("Dave", "just morning", 5),
	}}

	s := Compute(ds)

	counts := map[string]int{}
	for _, ac := range s.NightOwls {
		counts[ac.Author] = ac.Count
	}
	if counts["Alice"] != 2 || counts["Carol"] != 1 {
		t.Errorf("night owls = %+v", s.NightOwls)
	}
	if _, ok := counts["Bob"]; ok {
		t.Errorf("14:00 message counted as night owl")
	}
	if _, ok := counts["Dave"]; ok {
		t.Errorf("05:00 message counted as night owl")
	}
}

func TestCompute_LinkSharers(t *testing.T) {
	ds := &chatlog.Dataset{Messages: []chatlog.Message{
		msg("Alice", "look at https://example.com/a", 10),
		msg("Alice", "http://example.com", 11),
		msg("Bob", "no links here", 12),
	}}

	s := Compute(ds)

	if len(s.LinkSharers) != 1 || s.LinkSharers[0].Author != "Alice" || s.LinkSharers[0].Count != 2 {
		t.Errorf("link sharers = %+v", s.LinkSharers)
	}
}

func repeat(author, body string, n int) []chatlog.Message {
	msgs := make([]chatlog.Message, n)
	for i := range msgs {
		msgs[i] = msg(author, body, 10)
	}
	return msgs
}

func TestCompute_YapScores(t *testing.T) {
	var msgs []chatlog.Message
	// Ten chatty one-worders fill the contributor top list.
	for _, a := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		msgs = append(msgs, repeat(a, "ok", 20)...)
	}
	// Rambler posts far less but writes essays.
	msgs = append(msgs, repeat("Rambler", "this message goes on for quite a while indeed", 11)...)
	// Below the floor: long messages but too few to rank.
	msgs = append(msgs, repeat("DriveBy", "one very long impressive message body here", 3)...)

	s := Compute(&chatlog.Dataset{Messages: msgs})

	if len(s.YapScores) == 0 || s.YapScores[0].Author != "Rambler" {
		t.Fatalf("yap ranking = %+v, want Rambler first despite low volume", s.YapScores)
	}
	for _, av := range s.YapScores {
		if av.Author == "DriveBy" {
			t.Errorf("author under the message floor must not rank: %+v", s.YapScores)
		}
	}
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(&chatlog.Dataset{})
	if s.TotalMessages != 0 || len(s.TopContributors) != 0 || len(s.Timeline) != 0 {
		t.Errorf("empty dataset must yield zeroed stats: %+v", s)
	}
}
