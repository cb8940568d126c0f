package allocation

import (
	"github.com/iwvelando/shelter-proposal/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Category is a named slice of a group's total.
type Category struct {
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	Remainder bool            `json:"remainder,omitempty"`
}

// Group is an ordered set of categories that sums to Total.
type Group struct {
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
	Floor      decimal.Decimal `json:"floor"`
	Categories []Category      `json:"categories"`
}

// Sum adds up every category value.
func (g Group) Sum() decimal.Decimal {
	values := make([]decimal.Decimal, 0, len(g.Categories))
	for _, c := range g.Categories {
		values = append(values, c.Value)
	}
	return mathutil.Sum(values...)
}

// Balanced reports whether the categories sum to the total exactly.
func (g Group) Balanced() bool {
	return g.Sum().Equal(g.Total)
}

// Value returns the value of the named category.
func (g Group) Value(name string) (decimal.Decimal, bool) {
	for _, c := range g.Categories {
		if c.Name == name {
			return c.Value, true
		}
	}
	return decimal.Zero, false
}

// RemainderCategory returns the category flagged as the remainder.
func (g Group) RemainderCategory() (Category, bool) {
	for _, c := range g.Categories {
		if c.Remainder {
			return c, true
		}
	}
	return Category{}, false
}

// Shares returns each category's percentage of the total, in category order.
func (g Group) Shares() []decimal.Decimal {
	shares := make([]decimal.Decimal, 0, len(g.Categories))
	for _, c := range g.Categories {
		shares = append(shares, mathutil.CalculatePercentage(c.Value, g.Total))
	}
	return shares
}
