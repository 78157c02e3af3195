// Package memory keeps the EasyBudget document in process memory. It backs
// tests and throwaway sessions.
package memory

import (
	"context"
	"sync"

	"easybudget/internal/core"
	"easybudget/internal/storage"
)

type Store struct {
	mu    sync.Mutex
	rec   *core.EasyBudgetRecord
	saves int
}

var _ storage.RecordStore = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// NewWithRecord returns a store that already holds rec.
func NewWithRecord(rec core.EasyBudgetRecord) *Store {
	c := clone(rec)
	return &Store{rec: &c}
}

func (s *Store) Load(_ context.Context) (core.EasyBudgetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return core.EasyBudgetRecord{}, storage.ErrNoRecord
	}
	return clone(*s.rec), nil
}

func (s *Store) Save(ctx context.Context, rec core.EasyBudgetRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := clone(rec)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &c
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func clone(rec core.EasyBudgetRecord) core.EasyBudgetRecord {
	var out core.EasyBudgetRecord
	if rec.Budget != nil {
		b := core.BudgetRecord{
			Limit: rec.Budget.Limit,
			Items: append([]core.BudgetItemRecord(nil), rec.Budget.Items...),
		}
		out.Budget = &b
	}
	if rec.SpendingTracker != nil {
		t := core.SpendingTrackerRecord{
			Expenses: append([]core.ExpenseRecord(nil), rec.SpendingTracker.Expenses...),
		}
		out.SpendingTracker = &t
	}
	return out
}
