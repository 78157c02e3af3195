package core

import (
	"strings"
	"testing"
	"time"
)

func TestEventLogAppendOnly(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	log := NewEventLogWithClock(func() time.Time { return at })
	log.Log("first")
	log.Logf("second %d", 2)

	snap := log.Events()
	snap[0].Description = "changed"
	if got := log.Events()[0].Description; got != "first" {
		t.Fatalf("snapshot aliased the log: %q", got)
	}

	var seen []string
	for e := range log.All() {
		seen = append(seen, e.Description)
	}
	if strings.Join(seen, ",") != "first,second 2" {
		t.Fatalf("unexpected order %v", seen)
	}
	if got := log.Events()[1].String(); got != "Tue Jan  2 03:04:05 UTC 2024\nsecond 2" {
		t.Fatalf("unexpected String %q", got)
	}
}

func TestNilEventLogDiscards(t *testing.T) {
	var log *EventLog
	log.Log("x")
	if log.Len() != 0 || log.Events() != nil {
		t.Fatalf("nil log must discard")
	}
	b, _ := NewBudget(amt("10"), nil)
	if err := b.AddItem(amt("1"), Food); err != nil {
		t.Fatalf("budget without log: %v", err)
	}
}

func TestMonthOverview(t *testing.T) {
	tr, _ := newTestTracker(t)
	mustAdd(t, tr, "10", "a", "v", NewDate(2024, 3, 1), Food)
	mustAdd(t, tr, "5.5", "b", "v", NewDate(2024, 3, 9), Food)
	mustAdd(t, tr, "100", "c", "v", NewDate(2024, 3, 31), Housing)
	mustAdd(t, tr, "7", "d", "v", NewDate(2024, 4, 1), Food)

	ov := tr.MonthOverview(2024, time.March)
	if !ov.Total.Equal(amt("115.5")) || len(ov.ByCategory) != 2 {
		t.Fatalf("unexpected overview %+v", ov)
	}
	if ov.ByCategory[0].Category != Housing || ov.ByCategory[1].Category != Food || !ov.ByCategory[1].Amount.Equal(amt("15.5")) {
		t.Fatalf("unexpected breakdown %+v", ov.ByCategory)
	}
}
