package chatlog

import (
	"testing"
	"time"
)

func mkMessage(y int, m time.Month, d int, author string) Message {
	return Message{
		Timestamp: time.Date(y, m, d, 12, 0, 0, 0, time.UTC),
		Author:    author,
		Body:      "body",
	}
}

func TestFilterPeriod_Quarter(t *testing.T) {
	ds := &Dataset{Messages: []Message{
		mkMessage(2025, time.January, 1, "a"),   // Q1 lower boundary
		mkMessage(2025, time.March, 31, "b"),    // Q1 upper boundary
		mkMessage(2025, time.April, 1, "c"),     // Q2
		mkMessage(2024, time.February, 10, "d"), // wrong year
	}}

	out := ds.FilterPeriod(PeriodWindow{Year: 2025, Quarter: 1})

	if len(out.Messages) != 2 {
		t.Fatalf("expected 2 messages in Q1, got %d", len(out.Messages))
	}
	if out.Messages[0].Author != "a" || out.Messages[1].Author != "b" {
		t.Errorf("wrong messages kept: %+v", out.Messages)
	}
}

func TestFilterPeriod_FullYear(t *testing.T) {
	ds := &Dataset{Messages: []Message{
		mkMessage(2025, time.January, 1, "a"),
		mkMessage(2025, time.December, 31, "b"),
		mkMessage(2026, time.January, 1, "c"),
	}}

	out := ds.FilterPeriod(PeriodWindow{Year: 2025})

	if len(out.Messages) != 2 {
		t.Fatalf("expected 2 messages for 2025, got %d", len(out.Messages))
	}
}

func TestFilterPeriod_NoDataIsEmptyNotError(t *testing.T) {
	ds := &Dataset{Messages: []Message{
		mkMessage(2025, time.June, 1, "a"),
	}}

	out := ds.FilterPeriod(PeriodWindow{Year: 1999})

	if len(out.Messages) != 0 {
		t.Fatalf("expected empty dataset, got %d", len(out.Messages))
	}
}

func TestPeriodWindow_Months(t *testing.T) {
	cases := []struct {
		quarter     int
		first, last time.Month
	}{
		{0, time.January, time.December},
		{1, time.January, time.March},
		{2, time.April, time.June},
		{3, time.July, time.September},
		{4, time.October, time.December},
	}
	for _, tc := range cases {
		first, last := PeriodWindow{Year: 2025, Quarter: tc.quarter}.Months()
		if first != tc.first || last != tc.last {
			t.Errorf("Q%d: months = %v..%v, want %v..%v", tc.quarter, first, last, tc.first, tc.last)
		}
	}
}

func TestPeriodWindow_Validate(t *testing.T) {
	if err := (PeriodWindow{Year: 2025, Quarter: 5}).Validate(); err == nil {
		t.Errorf("expected error for quarter 5")
	}
	if err := (PeriodWindow{Year: 2025, Quarter: 0}).Validate(); err != nil {
		t.Errorf("quarter 0 (full year) must validate: %v", err)
	}
	if err := (PeriodWindow{Quarter: 1}).Validate(); err == nil {
		t.Errorf("expected error for missing year")
	}
}

func TestPeriodWindow_String(t *testing.T) {
	if s := (PeriodWindow{Year: 2025}).String(); s != "2025" {
		t.Errorf("String() = %q", s)
	}
	if s := (PeriodWindow{Year: 2025, Quarter: 3}).String(); s != "2025-Q3" {
		t.Errorf("String() = %q", s)
	}
}
