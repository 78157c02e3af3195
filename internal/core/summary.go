package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      time.Month
	Total      decimal.Decimal
	ByCategory []CategoryAmount // declaration order, spent categories only
}

// MonthOverview totals the ledger for one calendar month.
func (t *SpendingTracker) MonthOverview(year int, month time.Month) MonthOverview {
	expenses := t.Filter(NewMonthFilter(month, year))
	ov := MonthOverview{Year: year, Month: month, Total: SumPrices(expenses)}

	sums := make(map[Category]decimal.Decimal)
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Price)
	}
	for _, c := range Categories() {
		if amount, ok := sums[c]; ok {
			ov.ByCategory = append(ov.ByCategory, CategoryAmount{Category: c, Amount: amount})
		}
	}
	return ov
}
