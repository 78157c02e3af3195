package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Comparison is the outcome of measuring actual spend against an allocation.
type Comparison int

const (
	Under Comparison = -1
	On    Comparison = 0
	Over  Comparison = 1
)

func (c Comparison) String() string {
	switch c {
	case Under:
		return "under"
	case On:
		return "on"
	case Over:
		return "over"
	}
	return "unknown"
}

// CompareToActual measures this month's spend in category against its
// allocation, using the wall clock for "this month".
func (b *Budget) CompareToActual(tracker *SpendingTracker, category Category) (Comparison, error) {
	c, _, err := b.CompareToActualAt(tracker, category, time.Now())
	return c, err
}

// CompareToActualAt is CompareToActual evaluated at now. It also returns the
// summed spend.
//
// It fails with ErrCategoryNotAllocated when the budget has no item for
// category and with ErrNoExpenseInCategory when the ledger has no expense in
// category during the calendar month of now.
func (b *Budget) CompareToActualAt(tracker *SpendingTracker, category Category, now time.Time) (Comparison, decimal.Decimal, error) {
	item, ok := b.Item(category)
	if !ok {
		return 0, decimal.Zero, categoryErr(category, ErrCategoryNotAllocated)
	}

	expenses := tracker.Filter(
		NewMonthFilter(now.Month(), now.Year()),
		NewCategoryFilter(category),
	)
	if len(expenses) == 0 {
		return 0, decimal.Zero, categoryErr(category, ErrNoExpenseInCategory)
	}

	actual := SumPrices(expenses)
	return Comparison(actual.Cmp(item.limit)), actual, nil
}
