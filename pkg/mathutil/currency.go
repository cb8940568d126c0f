// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"github.com/iwvelando/shelter-proposal/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	percentMultiplier = decimal.NewFromFloat(constants.PercentageMultiplier)
	monthsPerYear     = decimal.NewFromInt(constants.MonthsPerYear)
)

// FromFloat converts a configured or user-entered number into an exact decimal.
// The shortest decimal representation of the float is used, so 0.1 stays 0.1.
func FromFloat(val float64) decimal.Decimal {
	return decimal.NewFromFloat(val)
}

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.DecimalPlaces)
}

// Div divides a by b keeping DivisionPrecision places. The caller must guard b != 0.
func Div(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, constants.DivisionPrecision)
}

// Clamp bounds val to [lo, hi]. If hi < lo, lo wins.
func Clamp(val, lo, hi decimal.Decimal) decimal.Decimal {
	if val.GreaterThan(hi) {
		val = hi
	}
	if val.LessThan(lo) {
		val = lo
	}
	return val
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return Div(value.Mul(percentMultiplier), total)
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage decimal.Decimal) decimal.Decimal {
	return Div(value.Mul(percentage), percentMultiplier)
}

// Annualize converts a monthly amount into a yearly amount.
func Annualize(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(monthsPerYear)
}

// OnStep reports whether val sits on the grid min, min+step, min+2*step, ...
// A non-positive step accepts every value.
func OnStep(val, min, step decimal.Decimal) bool {
	if !step.IsPositive() {
		return true
	}
	return val.Sub(min).Mod(step).IsZero()
}
