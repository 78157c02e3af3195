package core

import "github.com/shopspring/decimal"

// BudgetItem is one category's allocation within a budget.
type BudgetItem struct {
	limit    decimal.Decimal
	category Category
}

// NewBudgetItem returns an item, failing with ErrInvalidAmount when limit <= 0.
func NewBudgetItem(limit decimal.Decimal, category Category) (BudgetItem, error) {
	if err := validateAmount(limit); err != nil {
		return BudgetItem{}, err
	}
	return BudgetItem{limit: limit, category: category}, nil
}

func (b BudgetItem) Limit() decimal.Decimal { return b.limit }
func (b BudgetItem) Category() Category     { return b.category }

// SetLimit replaces the limit without validation; Budget checks its
// invariants before calling it.
func (b *BudgetItem) SetLimit(limit decimal.Decimal) {
	b.limit = limit
}
