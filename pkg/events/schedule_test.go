package events

import (
	"testing"

	"github.com/iwvelando/loan-ledger/pkg/datetime"
)

func TestSchedule(t *testing.T) {
	in := []Event{
		{Date: datetime.MustParseDate("2024-03-01"), Kind: Interest},
		{Date: datetime.MustParseDate("2024-02-01"), Kind: Interest},
		{Date: datetime.MustParseDate("2024-03-01"), Kind: Payment, Amount: 1, Source: "first"},
		{Date: datetime.MustParseDate("2024-02-15"), Kind: Payment, Amount: 2},
		{Date: datetime.MustParseDate("2024-03-01"), Kind: Payment, Amount: 3, Source: "second"},
	}

	got := Schedule(in)

	expected := []struct {
		date   string
		kind   Kind
		source string
	}{
		{"2024-02-01", Interest, ""},
		{"2024-02-15", Payment, ""},
		{"2024-03-01", Interest, ""},
		{"2024-03-01", Payment, "first"},
		{"2024-03-01", Payment, "second"},
	}

	if len(got) != len(expected) {
		t.Fatalf("Schedule() returned %d events, expected %d", len(got), len(expected))
	}
	for i, want := range expected {
		if got[i].Date.Format(datetime.DateLayout) != want.date || got[i].Kind != want.kind || got[i].Source != want.source {
			t.Errorf("event %d = {%s %s %q}, expected {%s %s %q}", i,
				got[i].Date.Format(datetime.DateLayout), got[i].Kind, got[i].Source,
				want.date, want.kind, want.source)
		}
	}
}

func TestScheduleDoesNotModifyInput(t *testing.T) {
	in := []Event{
		{Date: datetime.MustParseDate("2024-03-01"), Kind: Interest},
		{Date: datetime.MustParseDate("2024-02-01"), Kind: Interest},
	}
	_ = Schedule(in)
	if in[0].Date.Format(datetime.DateLayout) != "2024-03-01" {
		t.Errorf("Schedule() reordered its input")
	}
}

func TestScheduleEmpty(t *testing.T) {
	if got := Schedule(nil); len(got) != 0 {
		t.Errorf("expected empty schedule, got %d events", len(got))
	}
}
