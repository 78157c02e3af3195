package core

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// EasyBudgetRecord is the persisted document: one budget and one ledger.
type EasyBudgetRecord struct {
	Budget          *BudgetRecord          `json:"budget"`
	SpendingTracker *SpendingTrackerRecord `json:"spendingTracker"`
}

type BudgetRecord struct {
	Limit json.Number        `json:"limit"`
	Items []BudgetItemRecord `json:"items"`
}

type BudgetItemRecord struct {
	Limit    json.Number `json:"limit"`
	Category string      `json:"category"`
}

type SpendingTrackerRecord struct {
	Expenses []ExpenseRecord `json:"expenses"`
}

type ExpenseRecord struct {
	ID          string      `json:"id"`
	Price       json.Number `json:"price"`
	Description string      `json:"description"`
	Vendor      string      `json:"vendor"`
	Date        string      `json:"date"`
	Category    string      `json:"category"`
}

// NewRecord snapshots both aggregates into one document.
func NewRecord(b *Budget, t *SpendingTracker) EasyBudgetRecord {
	br := b.ToRecord()
	tr := t.ToRecord()
	return EasyBudgetRecord{Budget: &br, SpendingTracker: &tr}
}

// Hydrate rebuilds both aggregates from rec. A missing spendingTracker
// member yields an empty ledger; a missing or invalid budget is malformed.
func (rec EasyBudgetRecord) Hydrate(log *EventLog) (*Budget, *SpendingTracker, error) {
	if rec.Budget == nil {
		return nil, nil, fmt.Errorf("%w: missing budget", ErrMalformedRecord)
	}
	b, err := BudgetFromRecord(*rec.Budget, log)
	if err != nil {
		return nil, nil, err
	}
	var tr SpendingTrackerRecord
	if rec.SpendingTracker != nil {
		tr = *rec.SpendingTracker
	}
	return b, SpendingTrackerFromRecord(tr, log), nil
}

// ToRecord snapshots the total limit and items in order.
func (b *Budget) ToRecord() BudgetRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec := BudgetRecord{
		Limit: amountNumber(b.totalLimit),
		Items: make([]BudgetItemRecord, 0, len(b.items)),
	}
	for _, item := range b.items {
		rec.Items = append(rec.Items, BudgetItemRecord{
			Limit:    amountNumber(item.limit),
			Category: item.category.String(),
		})
	}
	return rec
}

// BudgetFromRecord rebuilds a budget. Items with an unknown category, an
// invalid limit, no room left, or a category already seen are skipped.
// Rehydration does not append to log.
func BudgetFromRecord(rec BudgetRecord, log *EventLog) (*Budget, error) {
	total, err := numberAmount(rec.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: budget limit: %v", ErrMalformedRecord, err)
	}
	b, err := NewBudget(total, log)
	if err != nil {
		return nil, err
	}
	for _, ir := range rec.Items {
		category, ok := LookupCategory(ir.Category)
		if !ok {
			continue
		}
		limit, err := numberAmount(ir.Limit)
		if err != nil {
			continue
		}
		// rejected items are dropped
		_ = b.addItem(BudgetItem{limit: limit, category: category})
	}
	return b, nil
}

// ToRecord snapshots the ledger in order.
func (t *SpendingTracker) ToRecord() SpendingTrackerRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := SpendingTrackerRecord{Expenses: make([]ExpenseRecord, 0, len(t.expenses))}
	for _, e := range t.expenses {
		rec.Expenses = append(rec.Expenses, ExpenseRecord{
			ID:          e.id.String(),
			Price:       amountNumber(e.Price),
			Description: e.Description,
			Vendor:      e.Vendor,
			Date:        e.Date.String(),
			Category:    e.Category.String(),
		})
	}
	return rec
}

// SpendingTrackerFromRecord rebuilds a ledger, skipping every expense that
// would fail validation on add. Identifiers are kept verbatim.
func SpendingTrackerFromRecord(rec SpendingTrackerRecord, log *EventLog) *SpendingTracker {
	t := NewSpendingTracker(log)
	for _, er := range rec.Expenses {
		e, err := er.expense()
		if err != nil {
			continue
		}
		if err := e.Validate(); err != nil {
			continue
		}
		t.expenses = append(t.expenses, &e)
	}
	return t
}

func (er ExpenseRecord) expense() (Expense, error) {
	price, err := numberAmount(er.Price)
	if err != nil {
		return Expense{}, err
	}
	date, err := ParseDate(er.Date)
	if err != nil {
		return Expense{}, err
	}
	category, ok := LookupCategory(er.Category)
	if !ok {
		return Expense{}, ErrMissingCategory
	}
	id := ExpenseID(er.ID)
	if id == "" {
		id = NewExpenseID()
	}
	return NewExpenseWithID(id, price, er.Description, er.Vendor, date, category), nil
}

func amountNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func numberAmount(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, ErrMissingValue
	}
	return decimal.NewFromString(n.String())
}
