package core

import (
	"strings"
	"time"
)

// ExpenseFilter is a predicate over a single expense. Filters passed
// together to SpendingTracker.Filter combine with logical AND.
type ExpenseFilter interface {
	Accept(e Expense) bool
}

// FilterFunc adapts a plain function to ExpenseFilter.
type FilterFunc func(e Expense) bool

func (f FilterFunc) Accept(e Expense) bool { return f(e) }

// DateFilter accepts expenses dated within [start, end], both inclusive.
// An unset bound is treated as unbounded on that side.
type DateFilter struct {
	start Date
	end   Date
}

// NewDateFilter returns a filter over an explicit range.
func NewDateFilter(start, end Date) *DateFilter {
	return &DateFilter{start: start, end: end}
}

// NewMonthFilter returns a filter covering the whole of month in year.
func NewMonthFilter(month time.Month, year int) *DateFilter {
	start, end := MonthBounds(year, month)
	return &DateFilter{start: start, end: end}
}

// NewMonthFilterThisYear returns a filter covering month in the current year.
func NewMonthFilterThisYear(month time.Month) *DateFilter {
	return NewMonthFilter(month, time.Now().Year())
}

func (f *DateFilter) Start() Date { return f.start }
func (f *DateFilter) End() Date   { return f.end }

func (f *DateFilter) SetStart(d Date) { f.start = d }
func (f *DateFilter) SetEnd(d Date)   { f.end = d }

func (f *DateFilter) Accept(e Expense) bool {
	if !f.start.IsEmpty() && e.Date.Compare(f.start) < 0 {
		return false
	}
	if !f.end.IsEmpty() && e.Date.Compare(f.end) > 0 {
		return false
	}
	return true
}

// String describes the range, or returns "" while either bound is unset.
func (f *DateFilter) String() string {
	if f.start.IsEmpty() || f.end.IsEmpty() {
		return ""
	}
	const layout = "January 02 2006"
	return "Filter by date: " + f.start.Format(layout) + " to " + f.end.Format(layout)
}

// CategoryFilter accepts expenses whose category is in its set. The set can
// be narrowed or widened in place. The zero value is an empty set.
type CategoryFilter struct {
	categories map[Category]struct{}
}

// NewCategoryFilter returns a filter over the given categories.
func NewCategoryFilter(categories ...Category) *CategoryFilter {
	f := &CategoryFilter{categories: make(map[Category]struct{}, len(categories))}
	for _, c := range categories {
		f.Add(c)
	}
	return f
}

func (f *CategoryFilter) Add(c Category) {
	if f.categories == nil {
		f.categories = make(map[Category]struct{})
	}
	f.categories[c] = struct{}{}
}

func (f *CategoryFilter) Remove(c Category) { delete(f.categories, c) }

// Contains reports whether c is in the set.
func (f *CategoryFilter) Contains(c Category) bool {
	_, ok := f.categories[c]
	return ok
}

// Categories returns the set in declaration order.
func (f *CategoryFilter) Categories() []Category {
	var out []Category
	for _, c := range Categories() {
		if f.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

func (f *CategoryFilter) Accept(e Expense) bool {
	return f.Contains(e.Category)
}

func (f *CategoryFilter) String() string {
	names := make([]string, 0, len(f.categories))
	for _, c := range f.Categories() {
		names = append(names, c.String())
	}
	return "Filter by categories: " + strings.Join(names, ", ")
}
