package validation

import (
	"fmt"

	"github.com/iwvelando/shelter-proposal/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Bounds describes the declared range of a numeric input. A nil Max means unbounded.
type Bounds struct {
	Min  decimal.Decimal
	Max  *decimal.Decimal
	Step decimal.Decimal
}

// Clamp moves value into [Min, Max]. Step is not enforced.
func (b Bounds) Clamp(value decimal.Decimal) decimal.Decimal {
	if b.Max != nil && value.GreaterThan(*b.Max) {
		value = *b.Max
	}
	if value.LessThan(b.Min) {
		value = b.Min
	}
	return value
}

// InvalidRangeError reports an input value outside its declared min/max/step.
type InvalidRangeError struct {
	Field  string
	Value  decimal.Decimal
	Bounds Bounds
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s: value %s %s", e.Field, e.Value, e.Reason)
}

// ValidateRange checks value against bounds and returns an *InvalidRangeError on failure.
func ValidateRange(field string, value decimal.Decimal, bounds Bounds) error {
	if value.LessThan(bounds.Min) {
		return &InvalidRangeError{Field: field, Value: value, Bounds: bounds,
			Reason: fmt.Sprintf("is below minimum %s", bounds.Min)}
	}
	if bounds.Max != nil && value.GreaterThan(*bounds.Max) {
		return &InvalidRangeError{Field: field, Value: value, Bounds: bounds,
			Reason: fmt.Sprintf("is above maximum %s", *bounds.Max)}
	}
	if !mathutil.OnStep(value, bounds.Min, bounds.Step) {
		return &InvalidRangeError{Field: field, Value: value, Bounds: bounds,
			Reason: fmt.Sprintf("is not a multiple of step %s from %s", bounds.Step, bounds.Min)}
	}
	return nil
}
