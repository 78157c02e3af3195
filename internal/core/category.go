package core

import (
	"fmt"
	"strings"
)

// Category is the closed set of spending categories shared by budget items
// and expenses. The zero value is NoCategory and never appears in a valid
// budget item or expense.
type Category int

const (
	NoCategory Category = iota
	Housing
	Transportation
	Food
	Health
	Insurance
	Debt
	EntertainmentRecreation
	Education
	SavingsInvestments
	PersonalCare
	Other
)

var categoryNames = [...]string{
	Housing:                 "Housing",
	Transportation:          "Transportation",
	Food:                    "Food & Groceries",
	Health:                  "Health & Medical Expenses",
	Insurance:               "Insurance",
	Debt:                    "Debt Payments",
	EntertainmentRecreation: "Entertainment & Recreation",
	Education:               "Education",
	SavingsInvestments:      "Savings & Investments",
	PersonalCare:            "Personal Care",
	Other:                   "Others",
}

// lower-cased display name -> category
var categoriesByName = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for _, c := range Categories() {
		m[strings.ToLower(categoryNames[c])] = c
	}
	return m
}()

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, int(Other))
	for c := Housing; c <= Other; c++ {
		out = append(out, c)
	}
	return out
}

// LookupCategory finds the category whose display name matches name,
// ignoring case. The second result is false when nothing matches.
func LookupCategory(name string) (Category, bool) {
	c, ok := categoriesByName[strings.ToLower(name)]
	return c, ok
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= Housing && c <= Other
}

// String returns the display name.
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}
