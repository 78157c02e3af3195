package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"easybudget/internal/core"
	"easybudget/internal/log"
	"easybudget/internal/sheets"
	"easybudget/internal/storage"
)

var (
	ErrSessionClosed  = errors.New("session is closed")
	ErrExportDisabled = errors.New("no spreadsheet configured")
)

// EventPublisher forwards the events of a session to the audit pipeline.
type EventPublisher interface {
	PublishAuditEvents(ctx context.Context, sessionID string, events []core.Event) error
}

// Options carries the optional collaborators of a session.
type Options struct {
	Publisher EventPublisher
	Exporter  sheets.Exporter
	// Clock stamps events and picks "this month"; defaults to time.Now.
	Clock func() time.Time
	// ID identifies the session in audit messages; defaults to a random UUID.
	ID string
}

// Session is one unit of work on the persisted document: it is loaded on
// Open, mutated through Budget and Tracker, and written back on Close.
type Session struct {
	id        string
	store     storage.RecordStore
	publisher EventPublisher
	exporter  sheets.Exporter
	now       func() time.Time

	events  *core.EventLog
	budget  *core.Budget
	tracker *core.SpendingTracker
	fresh   bool

	mu     sync.Mutex
	closed bool
}

// Open loads the document from store. When nothing has been persisted yet
// the session starts with an empty budget of defaultLimit and an empty
// ledger.
func Open(ctx context.Context, store storage.RecordStore, defaultLimit decimal.Decimal, opts Options) (*Session, error) {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	s := &Session{
		id:        id,
		store:     store,
		publisher: opts.Publisher,
		exporter:  opts.Exporter,
		now:       now,
		events:    core.NewEventLogWithClock(now),
	}

	rec, err := store.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNoRecord):
		b, err := core.NewBudget(defaultLimit, s.events)
		if err != nil {
			return nil, fmt.Errorf("default budget: %w", err)
		}
		s.budget, s.tracker, s.fresh = b, core.NewSpendingTracker(s.events), true
	case err != nil:
		return nil, fmt.Errorf("load record: %w", err)
	default:
		b, t, err := rec.Hydrate(s.events)
		if err != nil {
			return nil, fmt.Errorf("hydrate record: %w", err)
		}
		s.budget, s.tracker = b, t
	}

	slog.DebugContext(ctx, "Session opened",
		log.FieldComponent, log.ComponentSession,
		log.FieldSessionID, s.id,
		"fresh", s.fresh,
		"items", s.budget.Len(),
		"expenses", s.tracker.Len())
	return s, nil
}

func (s *Session) ID() string                     { return s.id }
func (s *Session) Budget() *core.Budget           { return s.budget }
func (s *Session) Tracker() *core.SpendingTracker { return s.tracker }

// Fresh reports whether the session started without a persisted document.
func (s *Session) Fresh() bool { return s.fresh }

// Events returns the events logged so far.
func (s *Session) Events() []core.Event { return s.events.Events() }

// Save writes the current state without closing the session.
func (s *Session) Save(ctx context.Context) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) error {
	if err := s.store.Save(ctx, core.NewRecord(s.budget, s.tracker)); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// Close saves the document and, concurrently, publishes the session's events.
// It returns the drained events so the caller can show them. A session that
// logged no events changed nothing and is not saved. A publish failure is
// logged and does not fail Close; the document is the source of truth.
func (s *Session) Close(ctx context.Context) ([]core.Event, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.closed = true
	s.mu.Unlock()

	events := s.events.Events()

	if len(events) == 0 {
		slog.DebugContext(ctx, "Session closed without changes",
			log.FieldComponent, log.ComponentSession,
			log.FieldSessionID, s.id)
		return events, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.save(gctx) })
	if s.publisher != nil {
		g.Go(func() error {
			if err := s.publisher.PublishAuditEvents(gctx, s.id, events); err != nil {
				slog.WarnContext(ctx, "Failed to publish audit events",
					log.FieldComponent, log.ComponentSession,
					log.FieldOperation, log.OpPublish,
					log.FieldSessionID, s.id,
					log.FieldEvents, len(events),
					log.FieldError, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return events, err
	}

	slog.DebugContext(ctx, "Session closed",
		log.FieldComponent, log.ComponentSession,
		log.FieldSessionID, s.id,
		log.FieldEvents, len(events))
	return events, nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// CategoryReport is the budget-vs-actual outcome for one allocation.
type CategoryReport struct {
	Category   core.Category
	Limit      decimal.Decimal
	Actual     decimal.Decimal
	Comparison core.Comparison
	// Err is set when the category could not be compared, typically
	// core.ErrNoExpenseInCategory.
	Err error
}

// Report compares this month's spend with every allocation, in budget
// order. A category that cannot be compared carries its error instead of
// aborting the report.
func (s *Session) Report() []CategoryReport {
	return s.ReportAt(s.now())
}

// ReportAt is Report for the calendar month containing at.
func (s *Session) ReportAt(at time.Time) []CategoryReport {
	items := s.budget.Items()
	out := make([]CategoryReport, 0, len(items))
	for _, item := range items {
		r := CategoryReport{Category: item.Category(), Limit: item.Limit()}
		r.Comparison, r.Actual, r.Err = s.budget.CompareToActualAt(s.tracker, item.Category(), at)
		out = append(out, r)
	}
	return out
}

// Compare evaluates one category against this month's spend.
func (s *Session) Compare(category core.Category) (core.Comparison, decimal.Decimal, error) {
	return s.budget.CompareToActualAt(s.tracker, category, s.now())
}

// MonthOverview totals the ledger for year/month. A zero year or month means
// the current one.
func (s *Session) MonthOverview(year int, month time.Month) core.MonthOverview {
	at := s.now()
	if year == 0 {
		year = at.Year()
	}
	if month == 0 {
		month = at.Month()
	}
	return s.tracker.MonthOverview(year, month)
}

// Export writes the budget and ledger through the configured exporter.
func (s *Session) Export(ctx context.Context) (sheets.Result, error) {
	if s.exporter == nil {
		return sheets.Result{}, ErrExportDisabled
	}
	snap := sheets.Snapshot{
		TotalLimit: s.budget.TotalLimit(),
		Items:      s.budget.Items(),
		Expenses:   s.tracker.Expenses(),
		Overview:   s.MonthOverview(0, 0),
	}
	res, err := s.exporter.Export(ctx, snap)
	if err != nil {
		return sheets.Result{}, fmt.Errorf("export: %w", err)
	}
	return res, nil
}
