// Package scenario applies best/base/worst stress factors to projected revenue and expense.
package scenario

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Name identifies a forecast scenario
type Name string

const (
	Base  Name = "base"
	Best  Name = "best"
	Worst Name = "worst"
)

// Factors are multiplicative stress factors
type Factors struct {
	Revenue decimal.Decimal
	Expense decimal.Decimal
}

var factors = map[Name]Factors{
	Base:  {Revenue: decimal.RequireFromString("1.0"), Expense: decimal.RequireFromString("1.0")},
	Best:  {Revenue: decimal.RequireFromString("1.15"), Expense: decimal.RequireFromString("0.90")},
	Worst: {Revenue: decimal.RequireFromString("0.85"), Expense: decimal.RequireFromString("1.10")},
}

// Names lists the known scenarios
func Names() []Name {
	return []Name{Base, Best, Worst}
}

// Resolve maps a scenario identifier to a known scenario and its factors.
// Unknown identifiers fall back to Base.
func Resolve(id string) (Name, Factors) {
	name := Name(strings.ToLower(strings.TrimSpace(id)))
	f, ok := factors[name]
	if !ok {
		return Base, factors[Base]
	}
	return name, f
}

// Adjust applies the factors to a revenue and an expense projection. Both are
// magnitudes; the sign convention is left to the caller.
func (f Factors) Adjust(revenue, expense decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	return revenue.Mul(f.Revenue), expense.Mul(f.Expense)
}
