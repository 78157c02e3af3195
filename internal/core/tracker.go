package core

import (
	"iter"
	"sync"

	"github.com/shopspring/decimal"
)

// SpendingTracker is the expense ledger. Insertion order is preserved and
// identifiers are not deduplicated; lookups by id act on the first match.
type SpendingTracker struct {
	mu       sync.Mutex
	expenses []*Expense
	log      *EventLog
}

// NewSpendingTracker returns an empty ledger logging to log.
func NewSpendingTracker(log *EventLog) *SpendingTracker {
	return &SpendingTracker{log: log}
}

// AddExpense validates and appends a new expense, returning its identifier.
func (t *SpendingTracker) AddExpense(price decimal.Decimal, description, vendor string, date Date, category Category) (ExpenseID, error) {
	e := NewExpense(price, description, vendor, date, category)
	if err := t.Add(e); err != nil {
		return "", err
	}
	return e.id, nil
}

// Add validates and appends e. An expense without an identifier is given a
// fresh one.
func (t *SpendingTracker) Add(e Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.id == "" {
		e.id = NewExpenseID()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.expenses = append(t.expenses, &e)
	t.log.Logf("Expense '%s' from %s purchased for %s on %s with category '%s' added to spending tracker",
		e.Description, e.Vendor, FormatAmount(e.Price), e.Date.display(), e.Category)
	return nil
}

// DeleteExpense removes the first expense with id.
func (t *SpendingTracker) DeleteExpense(id ExpenseID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		return ErrExpenseNotFound
	}
	e := t.expenses[i]
	t.expenses = append(t.expenses[:i:i], t.expenses[i+1:]...)
	t.log.Logf("Expense '%s' from %s purchased for %s on %s with category '%s' deleted from spending tracker",
		e.Description, e.Vendor, FormatAmount(e.Price), e.Date.display(), e.Category)
	return nil
}

// EditPriceOf sets the price of the expense with id. Setting the current
// value is a no-op.
func (t *SpendingTracker) EditPriceOf(id ExpenseID, price decimal.Decimal) error {
	if err := validateAmount(price); err != nil {
		return err
	}
	return t.edit(id, func(e *Expense) bool {
		if e.Price.Equal(price) {
			return false
		}
		e.Price = price
		t.log.Logf("Price of expense '%s' from %s purchased on %s with category '%s' in spending tracker set to %s",
			e.Description, e.Vendor, e.Date.display(), e.Category, FormatAmount(price))
		return true
	})
}

// EditDescriptionOf sets the description of the expense with id.
func (t *SpendingTracker) EditDescriptionOf(id ExpenseID, description string) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	return t.edit(id, func(e *Expense) bool {
		if e.Description == description {
			return false
		}
		e.Description = description
		t.log.Logf("Description of expense purchased for %s from %s on %s with category '%s' in spending tracker set to '%s'",
			FormatAmount(e.Price), e.Vendor, e.Date.display(), e.Category, description)
		return true
	})
}

// EditVendorOf sets the vendor of the expense with id.
func (t *SpendingTracker) EditVendorOf(id ExpenseID, vendor string) error {
	if err := validateVendor(vendor); err != nil {
		return err
	}
	return t.edit(id, func(e *Expense) bool {
		if e.Vendor == vendor {
			return false
		}
		e.Vendor = vendor
		t.log.Logf("Vendor of expense '%s' purchased for %s on %s with category '%s' in spending tracker set to %s",
			e.Description, FormatAmount(e.Price), e.Date.display(), e.Category, vendor)
		return true
	})
}

// EditDateOf sets the purchase date of the expense with id.
func (t *SpendingTracker) EditDateOf(id ExpenseID, date Date) error {
	if err := validateDate(date); err != nil {
		return err
	}
	return t.edit(id, func(e *Expense) bool {
		if e.Date.Equal(date) {
			return false
		}
		e.Date = date
		t.log.Logf("Purchase date of expense '%s' purchased for %s from %s with category '%s' in spending tracker set to %s",
			e.Description, FormatAmount(e.Price), e.Vendor, e.Category, date.display())
		return true
	})
}

// EditCategoryOf sets the category of the expense with id.
func (t *SpendingTracker) EditCategoryOf(id ExpenseID, category Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	return t.edit(id, func(e *Expense) bool {
		if e.Category == category {
			return false
		}
		e.Category = category
		t.log.Logf("Category of expense '%s' purchased for %s from %s on %s in spending tracker set to '%s'",
			e.Description, FormatAmount(e.Price), e.Vendor, e.Date.display(), category)
		return true
	})
}

// edit applies fn to the first expense with id under the lock.
func (t *SpendingTracker) edit(id ExpenseID, fn func(e *Expense) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		return ErrExpenseNotFound
	}
	fn(t.expenses[i])
	return nil
}

// Filter returns, in ledger order, the expenses accepted by every filter.
// With no filters it returns the whole ledger.
func (t *SpendingTracker) Filter(filters ...ExpenseFilter) []Expense {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Expense, 0, len(t.expenses))
	for _, e := range t.expenses {
		if acceptAll(filters, *e) {
			out = append(out, *e)
		}
	}
	return out
}

func acceptAll(filters []ExpenseFilter, e Expense) bool {
	for _, f := range filters {
		if !f.Accept(e) {
			return false
		}
	}
	return true
}

// Expense returns the first expense with id.
func (t *SpendingTracker) Expense(id ExpenseID) (Expense, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.index(id); i >= 0 {
		return *t.expenses[i], true
	}
	return Expense{}, false
}

// Expenses returns a snapshot of the ledger.
func (t *SpendingTracker) Expenses() []Expense {
	return t.Filter()
}

// All yields a snapshot of the ledger.
func (t *SpendingTracker) All() iter.Seq[Expense] {
	return func(yield func(Expense) bool) {
		for _, e := range t.Expenses() {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of expenses.
func (t *SpendingTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.expenses)
}

func (t *SpendingTracker) index(id ExpenseID) int {
	for i, e := range t.expenses {
		if e.id == id {
			return i
		}
	}
	return -1
}

// SumPrices adds up the prices of expenses.
func SumPrices(expenses []Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Price)
	}
	return sum
}
