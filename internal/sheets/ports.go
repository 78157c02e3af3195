// Package sheets turns an EasyBudget session into spreadsheet rows and
// defines the port that writes them out.
package sheets

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"easybudget/internal/core"
)

// Exporter writes a snapshot somewhere a person can read it.
type Exporter interface {
	Export(ctx context.Context, snap Snapshot) (Result, error)
}

// Snapshot is what an export sees of a session.
type Snapshot struct {
	TotalLimit decimal.Decimal
	Items      []core.BudgetItem
	Expenses   []core.Expense
	// Overview supplies the "spent" column of the budget sheet.
	Overview core.MonthOverview
}

// Result reports how many rows were written per sheet, headers excluded.
type Result struct {
	ExpenseRows int
	BudgetRows  int
}

var (
	ExpenseHeader = []any{"ID", "Date", "Description", "Vendor", "Category", "Price"}
	BudgetHeader  = []any{"Category", "Limit", "Spent", "Remaining"}
)

// ExpenseRows renders the ledger, header first, in ledger order.
func ExpenseRows(expenses []core.Expense) [][]any {
	rows := make([][]any, 0, len(expenses)+1)
	rows = append(rows, ExpenseHeader)
	for _, e := range expenses {
		rows = append(rows, []any{
			e.ID().String(),
			e.Date.String(),
			cellText(e.Description),
			cellText(e.Vendor),
			e.Category.String(),
			e.Price.StringFixed(2),
		})
	}
	return rows
}

// BudgetRows renders one row per allocation with the month's spend against
// it, followed by a total row.
func BudgetRows(snap Snapshot) [][]any {
	spent := make(map[core.Category]decimal.Decimal, len(snap.Overview.ByCategory))
	for _, ca := range snap.Overview.ByCategory {
		spent[ca.Category] = ca.Amount
	}

	rows := make([][]any, 0, len(snap.Items)+2)
	rows = append(rows, BudgetHeader)
	for _, item := range snap.Items {
		s := spent[item.Category()]
		rows = append(rows, []any{
			item.Category().String(),
			item.Limit().StringFixed(2),
			s.StringFixed(2),
			item.Limit().Sub(s).StringFixed(2),
		})
	}
	rows = append(rows, []any{
		"Total",
		snap.TotalLimit.StringFixed(2),
		snap.Overview.Total.StringFixed(2),
		snap.TotalLimit.Sub(snap.Overview.Total).StringFixed(2),
	})
	return rows
}

// cellText stops user text from being evaluated as a formula when written
// with USER_ENTERED.
func cellText(s string) string {
	if s != "" && strings.ContainsRune("=+-@", rune(s[0])) {
		return "'" + s
	}
	return s
}
