package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount            = errors.New("invalid: amount is less than or equal to 0")
	ErrEmptyText                = errors.New("text is empty")
	ErrMissingValue             = errors.New("value is missing")
	ErrBudgetTooSmall           = errors.New("total limit is smaller than the sum of item limits")
	ErrNoRoomForCategory        = errors.New("the limit of this category will not fit the budget")
	ErrCategoryAlreadyAllocated = errors.New("category already allocated")
	ErrCategoryNotAllocated     = errors.New("category not allocated")
	ErrExpenseNotFound          = errors.New("the expense does not exist")
	ErrNoExpenseInCategory      = errors.New("no expense in category")
	ErrMalformedRecord          = errors.New("malformed record")

	ErrEmptyDescription = &fieldError{msg: "description is empty", kind: ErrEmptyText}
	ErrEmptyVendor      = &fieldError{msg: "vendor is empty", kind: ErrEmptyText}
	ErrMissingDate      = &fieldError{msg: "date is missing", kind: ErrMissingValue}
	ErrMissingCategory  = &fieldError{msg: "category is missing", kind: ErrMissingValue}
)

// fieldError specializes a generic kind for one field.
type fieldError struct {
	msg  string
	kind error
}

func (e *fieldError) Error() string { return e.msg }
func (e *fieldError) Unwrap() error { return e.kind }

// CategoryError reports a failure tied to a specific category.
type CategoryError struct {
	Category Category
	Err      error
}

func (e *CategoryError) Error() string {
	switch e.Err {
	case ErrCategoryAlreadyAllocated:
		return fmt.Sprintf("the category %q already exists in the budget", e.Category)
	case ErrCategoryNotAllocated:
		return fmt.Sprintf("the category %q does not exist in the budget", e.Category)
	case ErrNoExpenseInCategory:
		return fmt.Sprintf("no expense of category %q in tracker", e.Category)
	}
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *CategoryError) Unwrap() error { return e.Err }

func categoryErr(c Category, err error) error {
	return &CategoryError{Category: c, Err: err}
}
