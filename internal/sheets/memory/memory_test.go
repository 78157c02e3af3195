package memory

import (
	"context"
	"testing"

	"easybudget/internal/core"
	"easybudget/internal/sheets"
)

func TestExportKeepsLastRows(t *testing.T) {
	s := New()
	item, err := core.NewBudgetItem(core.MustAmount("100"), core.Food)
	if err != nil {
		t.Fatalf("NewBudgetItem: %v", err)
	}
	snap := sheets.Snapshot{
		TotalLimit: core.MustAmount("500"),
		Items:      []core.BudgetItem{item},
		Expenses: []core.Expense{
			core.NewExpense(core.MustAmount("4.5"), "bread", "bakery", core.NewDate(2024, 5, 2), core.Food),
		},
	}

	res, err := s.Export(context.Background(), snap)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.ExpenseRows != 1 || res.BudgetRows != 2 {
		t.Errorf("result = %+v, want 1 expense row and 2 budget rows", res)
	}

	expenses, budget := s.Sheets()
	if len(expenses) != 2 || expenses[1][2] != "bread" {
		t.Errorf("expense rows = %v", expenses)
	}
	if len(budget) != 3 || budget[2][0] != "Total" {
		t.Errorf("budget rows = %v", budget)
	}
	if s.Exports() != 1 {
		t.Errorf("exports = %d, want 1", s.Exports())
	}
}

func TestExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New()
	if _, err := s.Export(ctx, sheets.Snapshot{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if s.Exports() != 0 {
		t.Errorf("exports = %d, want 0", s.Exports())
	}
}
