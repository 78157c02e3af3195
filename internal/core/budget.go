package core

import (
	"iter"
	"sync"

	"github.com/shopspring/decimal"
)

// Budget is a capped spending plan split into per-category allocations.
//
// The sum of all item limits never exceeds the total limit and each category
// has at most one item. Every successful mutation appends to the event log
// the budget was created with.
type Budget struct {
	mu         sync.Mutex
	totalLimit decimal.Decimal
	items      []*BudgetItem
	log        *EventLog
}

// NewBudget creates an empty budget. It fails with ErrInvalidAmount when
// totalLimit <= 0.
func NewBudget(totalLimit decimal.Decimal, log *EventLog) (*Budget, error) {
	if err := validateAmount(totalLimit); err != nil {
		return nil, err
	}
	return &Budget{totalLimit: totalLimit, log: log}, nil
}

// DesignBudget is NewBudget for shells that re-prompt on bad input: it
// returns nil instead of an error.
func DesignBudget(totalLimit decimal.Decimal, log *EventLog) *Budget {
	b, err := NewBudget(totalLimit, log)
	if err != nil {
		return nil
	}
	return b
}

// TotalLimit returns the cap of the budget.
func (b *Budget) TotalLimit() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalLimit
}

// SetTotalLimit replaces the cap. It fails with ErrInvalidAmount when
// newLimit <= 0 and with ErrBudgetTooSmall when newLimit is below the sum of
// the current allocations.
func (b *Budget) SetTotalLimit(newLimit decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := validateAmount(newLimit); err != nil {
		return err
	}
	if newLimit.LessThan(b.sumOfLimits()) {
		return ErrBudgetTooSmall
	}
	b.totalLimit = newLimit
	b.log.Logf("Total limit of budget set to %s", FormatAmount(newLimit))
	return nil
}

// AddItem allocates limit to category.
//
// Checks run in a fixed order: ErrInvalidAmount, then ErrNoRoomForCategory
// when limit exceeds the remaining room, then ErrCategoryAlreadyAllocated.
func (b *Budget) AddItem(limit decimal.Decimal, category Category) error {
	return b.AddBudgetItem(BudgetItem{limit: limit, category: category})
}

// AddBudgetItem adds a copy of item with the same checks as AddItem.
func (b *Budget) AddBudgetItem(item BudgetItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.addItem(item); err != nil {
		return err
	}
	b.log.Logf("Budget item with category '%s' and limit %s added to budget",
		item.category, FormatAmount(item.limit))
	return nil
}

func (b *Budget) addItem(item BudgetItem) error {
	if err := validateAmount(item.limit); err != nil {
		return err
	}
	if item.limit.GreaterThan(b.totalLimit.Sub(b.sumOfLimits())) {
		return ErrNoRoomForCategory
	}
	if b.find(item.category) != nil {
		return categoryErr(item.category, ErrCategoryAlreadyAllocated)
	}
	if !item.category.Valid() {
		return ErrMissingCategory
	}
	b.items = append(b.items, &BudgetItem{limit: item.limit, category: item.category})
	return nil
}

// RemoveItem deletes the allocation for category, failing with
// ErrCategoryNotAllocated when there is none.
func (b *Budget) RemoveItem(category Category) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, item := range b.items {
		if item.category != category {
			continue
		}
		b.items = append(b.items[:i:i], b.items[i+1:]...)
		b.log.Logf("Item with category '%s' and limit %s deleted from budget",
			category, FormatAmount(item.limit))
		return nil
	}
	return categoryErr(category, ErrCategoryNotAllocated)
}

// EditLimit changes the allocation of category in place.
//
// The room check excludes the edited item, so an edit only consumes the
// difference. Checks run as ErrInvalidAmount, ErrNoRoomForCategory, then
// ErrCategoryNotAllocated.
func (b *Budget) EditLimit(category Category, newLimit decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := validateAmount(newLimit); err != nil {
		return err
	}
	if newLimit.GreaterThan(b.totalLimit.Sub(b.sumOfLimitsExcluding(category))) {
		return ErrNoRoomForCategory
	}
	item := b.find(category)
	if item == nil {
		return categoryErr(category, ErrCategoryNotAllocated)
	}
	item.SetLimit(newLimit)
	b.log.Logf("Edited limit of budget item with category '%s' to %s",
		category, FormatAmount(newLimit))
	return nil
}

// SumOfLimits returns the total allocated across all items.
func (b *Budget) SumOfLimits() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sumOfLimits()
}

// SumOfLimitsExcluding returns the total allocated to every category but
// category.
func (b *Budget) SumOfLimitsExcluding(category Category) decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sumOfLimitsExcluding(category)
}

// Item returns the allocation for category.
func (b *Budget) Item(category Category) (BudgetItem, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if item := b.find(category); item != nil {
		return *item, true
	}
	return BudgetItem{}, false
}

// Items returns a snapshot of the allocations in insertion order.
func (b *Budget) Items() []BudgetItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]BudgetItem, len(b.items))
	for i, item := range b.items {
		out[i] = *item
	}
	return out
}

// All yields a snapshot of the allocations; each call starts a fresh
// traversal of the current state.
func (b *Budget) All() iter.Seq[BudgetItem] {
	return func(yield func(BudgetItem) bool) {
		for _, item := range b.Items() {
			if !yield(item) {
				return
			}
		}
	}
}

// Len returns the number of allocations.
func (b *Budget) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *Budget) find(category Category) *BudgetItem {
	for _, item := range b.items {
		if item.category == category {
			return item
		}
	}
	return nil
}

func (b *Budget) sumOfLimits() decimal.Decimal {
	return b.sumOfLimitsExcluding(NoCategory)
}

func (b *Budget) sumOfLimitsExcluding(category Category) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range b.items {
		if item.category != category {
			sum = sum.Add(item.limit)
		}
	}
	return sum
}
