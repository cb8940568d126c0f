// Package allocation splits a fixed total across ordered categories, with one
// designated remainder category absorbing whatever the others leave over.
package allocation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/shelter-proposal/pkg/constants"
	"github.com/iwvelando/shelter-proposal/pkg/mathutil"
	"github.com/iwvelando/shelter-proposal/pkg/validation"
	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveTotal   = errors.New("allocation total must be positive")
	ErrNegativeFloor      = errors.New("remainder floor must not be negative")
	ErrFloorExceedsTotal  = errors.New("remainder floor exceeds total")
	ErrEmptyName          = errors.New("category name must not be empty")
	ErrDuplicateCategory  = errors.New("duplicate category name")
	ErrMissingRemainder   = errors.New("remainder category name must be set")
	ErrUnknownAllocPolicy = errors.New("unknown allocation policy")
)

// Policy decides what happens when requests leave less than the floor for the remainder.
type Policy string

const (
	// Lenient grants every request as-is; the remainder may go negative and is reported as a warning.
	Lenient Policy = constants.PolicyLenient
	// Clamp caps each request at total - floor - allocated so far.
	Clamp Policy = constants.PolicyClamp
)

// ParsePolicy maps a configured policy name to a Policy. Empty means Lenient.
func ParsePolicy(name string) (Policy, error) {
	switch strings.TrimSpace(name) {
	case "", constants.PolicyLenient:
		return Lenient, nil
	case constants.PolicyClamp:
		return Clamp, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownAllocPolicy, name)
}

// Spec describes a category group before any values are requested.
type Spec struct {
	Name      string
	Total     decimal.Decimal
	Floor     decimal.Decimal
	Remainder string
	Policy    Policy
}

// Request is a freely chosen value for one non-remainder category.
type Request struct {
	Name  string
	Value decimal.Decimal
}

// Result is a balanced group plus any non-fatal conditions met while allocating.
type Result struct {
	Group    Group
	Warnings []string
}

// Allocate grants requests in order and assigns total - allocated to the remainder.
// The returned group always sums to spec.Total exactly.
func Allocate(spec Spec, requests []Request) (Result, error) {
	if err := spec.validate(requests); err != nil {
		return Result{}, err
	}

	policy := spec.Policy
	if policy == "" {
		policy = Lenient
	}

	result := Result{
		Group: Group{
			Name:       spec.Name,
			Total:      spec.Total,
			Floor:      spec.Floor,
			Categories: make([]Category, 0, len(requests)+1),
		},
	}

	allocated := decimal.Zero
	for _, req := range requests {
		value := req.Value
		if policy == Clamp {
			ceiling := spec.Total.Sub(spec.Floor).Sub(allocated)
			value = mathutil.Clamp(req.Value, decimal.Zero, ceiling)
			if !value.Equal(req.Value) {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"%s: %s clamped from %s to %s to keep %s for %s",
					spec.Name, req.Name, req.Value, value, spec.Floor, spec.Remainder))
			}
		}
		result.Group.Categories = append(result.Group.Categories, Category{Name: req.Name, Value: value})
		allocated = allocated.Add(value)
	}

	remainder := spec.Total.Sub(allocated)
	result.Group.Categories = append(result.Group.Categories, Category{
		Name:      spec.Remainder,
		Value:     remainder,
		Remainder: true,
	})

	switch {
	case remainder.IsNegative():
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%s: %s is negative (%s); allocations exceed the total of %s",
			spec.Name, spec.Remainder, remainder, spec.Total))
	case remainder.LessThan(spec.Floor):
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%s: %s is %s, below its reserved floor of %s",
			spec.Name, spec.Remainder, remainder, spec.Floor))
	}

	return result, nil
}

func (s Spec) validate(requests []Request) error {
	if !s.Total.IsPositive() {
		return fmt.Errorf("%s: %w (got %s)", s.Name, ErrNonPositiveTotal, s.Total)
	}
	if s.Floor.IsNegative() {
		return fmt.Errorf("%s: %w (got %s)", s.Name, ErrNegativeFloor, s.Floor)
	}
	if s.Floor.GreaterThan(s.Total) {
		return fmt.Errorf("%s: %w (%s > %s)", s.Name, ErrFloorExceedsTotal, s.Floor, s.Total)
	}
	if strings.TrimSpace(s.Remainder) == "" {
		return fmt.Errorf("%s: %w", s.Name, ErrMissingRemainder)
	}

	seen := map[string]struct{}{s.Remainder: {}}
	bounds := validation.Bounds{Min: decimal.Zero, Max: &s.Total}
	for _, req := range requests {
		if strings.TrimSpace(req.Name) == "" {
			return fmt.Errorf("%s: %w", s.Name, ErrEmptyName)
		}
		if _, dup := seen[req.Name]; dup {
			return fmt.Errorf("%s: %w: %s", s.Name, ErrDuplicateCategory, req.Name)
		}
		seen[req.Name] = struct{}{}
		if err := validation.ValidateRange(s.Name+"."+req.Name, req.Value, bounds); err != nil {
			return err
		}
	}
	return nil
}
