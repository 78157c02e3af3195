// Package memory is an Exporter that keeps the rendered rows in memory.
package memory

import (
	"context"
	"sync"

	"easybudget/internal/sheets"
)

type Store struct {
	mu       sync.Mutex
	expenses [][]any
	budget   [][]any
	exports  int
}

var _ sheets.Exporter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Export(ctx context.Context, snap sheets.Snapshot) (sheets.Result, error) {
	if err := ctx.Err(); err != nil {
		return sheets.Result{}, err
	}
	expenses := sheets.ExpenseRows(snap.Expenses)
	budget := sheets.BudgetRows(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = expenses
	s.budget = budget
	s.exports++
	return sheets.Result{ExpenseRows: len(expenses) - 1, BudgetRows: len(budget) - 1}, nil
}

// Sheets returns the rows of the last export.
func (s *Store) Sheets() (expenses, budget [][]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses, s.budget
}

// Exports reports how many exports succeeded.
func (s *Store) Exports() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exports
}
