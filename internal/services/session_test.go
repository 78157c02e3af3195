package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"easybudget/internal/core"
	"easybudget/internal/storage"
	"easybudget/internal/storage/memory"
	sheetsmem "easybudget/internal/sheets/memory"
)

var fixedNow = time.Date(2024, time.May, 20, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type recordingPublisher struct {
	mu        sync.Mutex
	sessionID string
	events    []core.Event
	err       error
}

func (p *recordingPublisher) PublishAuditEvents(_ context.Context, sessionID string, events []core.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionID = sessionID
	p.events = append(p.events, events...)
	return p.err
}

type failingStore struct {
	loadErr, saveErr error
}

func (f failingStore) Load(context.Context) (core.EasyBudgetRecord, error) {
	return core.EasyBudgetRecord{}, f.loadErr
}

func (f failingStore) Save(context.Context, core.EasyBudgetRecord) error { return f.saveErr }

func openTest(t *testing.T, store storage.RecordStore, opts Options) *Session {
	t.Helper()
	if opts.Clock == nil {
		opts.Clock = clock
	}
	s, err := Open(context.Background(), store, core.MustAmount("1000"), opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestOpenFreshUsesDefaultLimit(t *testing.T) {
	s := openTest(t, memory.New(), Options{})
	if !s.Fresh() || !s.Budget().TotalLimit().Equal(core.MustAmount("1000")) || s.Tracker().Len() != 0 {
		t.Fatalf("unexpected fresh session: fresh=%v limit=%s", s.Fresh(), s.Budget().TotalLimit())
	}
	if len(s.Events()) != 0 {
		t.Fatalf("opening must not log events")
	}
	if s.ID() == "" {
		t.Fatalf("session id not assigned")
	}
}

func TestOpenErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	if _, err := Open(context.Background(), failingStore{loadErr: boom}, core.MustAmount("1"), Options{}); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	if _, err := Open(context.Background(), memory.New(), core.MustAmount("0"), Options{}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	store := memory.NewWithRecord(core.EasyBudgetRecord{})
	if _, err := Open(context.Background(), store, core.MustAmount("1"), Options{}); !errors.Is(err, core.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestCloseSavesAndPublishes(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &recordingPublisher{}

	s := openTest(t, store, Options{Publisher: pub, ID: "session-1"})
	if err := s.Budget().AddItem(core.MustAmount("100"), core.Other); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := s.Tracker().AddExpense(core.MustAmount("5"), "coffee", "cafe", core.NewDate(2024, 5, 2), core.Other); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	events, err := s.Close(ctx)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(events) != 2 || !events[0].Time.Equal(fixedNow) {
		t.Fatalf("unexpected events %v", events)
	}
	if !strings.HasPrefix(events[0].Description, "Budget item with category 'Others'") {
		t.Fatalf("unexpected first event %q", events[0].Description)
	}
	if pub.sessionID != "session-1" || len(pub.events) != 2 {
		t.Fatalf("publisher got session=%q events=%d", pub.sessionID, len(pub.events))
	}
	if store.Saves() != 1 {
		t.Fatalf("expected one save, got %d", store.Saves())
	}

	if _, err := s.Close(ctx); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("second Close should fail, got %v", err)
	}
	if err := s.Save(ctx); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("Save after Close should fail, got %v", err)
	}

	reopened := openTest(t, store, Options{})
	if reopened.Fresh() || reopened.Budget().Len() != 1 || reopened.Tracker().Len() != 1 {
		t.Fatalf("state not persisted")
	}
	if len(reopened.Events()) != 0 {
		t.Fatalf("rehydration must not log events")
	}
}

func TestClosePublishFailureIsNotFatal(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := openTest(t, store, Options{Publisher: pub})
	_ = s.Budget().SetTotalLimit(core.MustAmount("50"))

	if _, err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if store.Saves() != 1 {
		t.Fatalf("document not saved")
	}
}

func TestCloseWithoutEventsSkipsSaveAndPublish(t *testing.T) {
	tests := []struct {
		name  string
		store *memory.Store
	}{
		{"fresh", memory.New()},
		{"loaded", memory.NewWithRecord(core.NewRecord(core.DesignBudget(core.MustAmount("500"), nil), core.NewSpendingTracker(nil)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			s := openTest(t, tt.store, Options{Publisher: pub})
			_ = s.Budget().Items()
			_ = s.Tracker().Expenses()
			if _, err := s.Close(context.Background()); err != nil {
				t.Fatalf("Close: %v", err)
			}
			if pub.sessionID != "" {
				t.Fatalf("publisher called without events")
			}
			if tt.store.Saves() != 0 {
				t.Fatalf("read-only session saved %d times", tt.store.Saves())
			}
		})
	}
}

func TestCloseSaveFailure(t *testing.T) {
	boom := errors.New("read-only")
	s := openTest(t, failingStore{loadErr: storage.ErrNoRecord, saveErr: boom}, Options{})
	_ = s.Budget().SetTotalLimit(core.MustAmount("50"))

	events, err := s.Close(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events should still be returned, got %v", events)
	}
}

func TestReport(t *testing.T) {
	s := openTest(t, memory.New(), Options{})
	b, tr := s.Budget(), s.Tracker()
	_ = b.AddItem(core.MustAmount("100"), core.Transportation)
	_ = b.AddItem(core.MustAmount("300"), core.Food)
	_ = b.AddItem(core.MustAmount("50"), core.Health)

	_, _ = tr.AddExpense(core.MustAmount("60"), "x", "y", core.NewDate(2024, 5, 1), core.Transportation)
	_, _ = tr.AddExpense(core.MustAmount("310"), "x", "y", core.NewDate(2024, 5, 3), core.Food)
	_, _ = tr.AddExpense(core.MustAmount("999"), "x", "y", core.NewDate(2024, 4, 3), core.Health)

	rep := s.Report()
	if len(rep) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rep))
	}
	if rep[0].Category != core.Transportation || rep[0].Comparison != core.Under || rep[0].Err != nil {
		t.Fatalf("row 0: %+v", rep[0])
	}
	if rep[1].Comparison != core.Over || !rep[1].Actual.Equal(core.MustAmount("310")) {
		t.Fatalf("row 1: %+v", rep[1])
	}
	if !errors.Is(rep[2].Err, core.ErrNoExpenseInCategory) {
		t.Fatalf("row 2 should carry ErrNoExpenseInCategory: %+v", rep[2])
	}

	if _, _, err := s.Compare(core.Education); !errors.Is(err, core.ErrCategoryNotAllocated) {
		t.Fatalf("expected ErrCategoryNotAllocated, got %v", err)
	}
}

func TestMonthOverviewDefaultsToNow(t *testing.T) {
	s := openTest(t, memory.New(), Options{})
	_, _ = s.Tracker().AddExpense(core.MustAmount("10"), "x", "y", core.NewDate(2024, 5, 1), core.Food)
	_, _ = s.Tracker().AddExpense(core.MustAmount("10"), "x", "y", core.NewDate(2023, 5, 1), core.Food)

	if ov := s.MonthOverview(0, 0); ov.Year != 2024 || ov.Month != time.May || !ov.Total.Equal(core.MustAmount("10")) {
		t.Fatalf("unexpected overview %+v", ov)
	}
	if ov := s.MonthOverview(2023, time.May); !ov.Total.Equal(core.MustAmount("10")) {
		t.Fatalf("unexpected overview %+v", ov)
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	if _, err := openTest(t, memory.New(), Options{}).Export(ctx); !errors.Is(err, ErrExportDisabled) {
		t.Fatalf("expected ErrExportDisabled, got %v", err)
	}

	exp := sheetsmem.New()
	s := openTest(t, memory.New(), Options{Exporter: exp})
	_ = s.Budget().AddItem(core.MustAmount("100"), core.Food)
	_, _ = s.Tracker().AddExpense(core.MustAmount("40"), "groceries", "market", core.NewDate(2024, 5, 4), core.Food)

	res, err := s.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.ExpenseRows != 1 || res.BudgetRows != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	_, budget := exp.Sheets()
	if got := budget[1]; got[2] != "40.00" || got[3] != "60.00" {
		t.Fatalf("spent column not filled: %v", got)
	}
	if len(s.Events()) != 2 {
		t.Fatalf("export must not log events")
	}
}

func TestReportAtOtherMonth(t *testing.T) {
	s := openTest(t, memory.New(), Options{})
	_ = s.Budget().AddItem(core.MustAmount("100"), core.Food)
	_, _ = s.Tracker().AddExpense(core.MustAmount("100"), "x", "y", core.NewDate(2024, 2, 10), core.Food)

	if rep := s.Report(); !errors.Is(rep[0].Err, core.ErrNoExpenseInCategory) {
		t.Fatalf("May should have no spend: %+v", rep[0])
	}
	rep := s.ReportAt(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	if rep[0].Err != nil || rep[0].Comparison != core.On {
		t.Fatalf("February should be on budget: %+v", rep[0])
	}
}
