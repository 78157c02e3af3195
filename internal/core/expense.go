package core

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseID is the opaque, immutable identifier of an expense.
type ExpenseID string

// NewExpenseID returns a random identifier.
func NewExpenseID() ExpenseID {
	return ExpenseID(uuid.NewString())
}

func (id ExpenseID) String() string { return string(id) }

// Expense is a single dated, categorized purchase. Fields are freely
// mutable; SpendingTracker validates before committing a change.
type Expense struct {
	id          ExpenseID
	Price       decimal.Decimal
	Description string
	Vendor      string
	Date        Date
	Category    Category
}

// NewExpense creates an expense with a fresh random identifier.
func NewExpense(price decimal.Decimal, description, vendor string, date Date, category Category) Expense {
	return NewExpenseWithID(NewExpenseID(), price, description, vendor, date, category)
}

// NewExpenseWithID creates an expense with a caller-supplied identifier,
// used when rehydrating from storage.
func NewExpenseWithID(id ExpenseID, price decimal.Decimal, description, vendor string, date Date, category Category) Expense {
	return Expense{
		id:          id,
		Price:       price,
		Description: description,
		Vendor:      vendor,
		Date:        date,
		Category:    category,
	}
}

// ID returns the identifier.
func (e Expense) ID() ExpenseID { return e.id }

// Validate checks the fields in a fixed order: price, description, vendor,
// date, category.
func (e Expense) Validate() error {
	if err := validateAmount(e.Price); err != nil {
		return err
	}
	if err := validateDescription(e.Description); err != nil {
		return err
	}
	if err := validateVendor(e.Vendor); err != nil {
		return err
	}
	if err := validateDate(e.Date); err != nil {
		return err
	}
	return validateCategory(e.Category)
}

func validateDescription(s string) error {
	if s == "" {
		return ErrEmptyDescription
	}
	return nil
}

func validateVendor(s string) error {
	if s == "" {
		return ErrEmptyVendor
	}
	return nil
}

func validateDate(d Date) error {
	if d.IsEmpty() {
		return ErrMissingDate
	}
	return nil
}

func validateCategory(c Category) error {
	if !c.Valid() {
		return ErrMissingCategory
	}
	return nil
}
