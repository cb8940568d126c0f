// Package finance provides the derived financial metrics of the proposal:
// cost per unit, projected impact of additional funding, revenue and fund allocation.
package finance

import (
	"errors"
	"fmt"

	"github.com/iwvelando/shelter-proposal/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// ErrDivisionByZero is returned when a population size or cost per unit is zero.
var ErrDivisionByZero = errors.New("division by zero")

// CostPerUnit is the ratio Total / Population. Both terms are kept so that
// projections divide by the exact ratio instead of a rounded quotient.
type CostPerUnit struct {
	Total      decimal.Decimal `json:"total"`
	Population decimal.Decimal `json:"population"`
}

// ComputeCostPerUnit divides a total budget over a fixed population.
func ComputeCostPerUnit(total, population decimal.Decimal) (CostPerUnit, error) {
	if population.IsZero() {
		return CostPerUnit{}, fmt.Errorf("cost per unit of %s: population is zero: %w", total, ErrDivisionByZero)
	}
	return CostPerUnit{Total: total, Population: population}, nil
}

// Value returns the cost of one unit.
func (c CostPerUnit) Value() decimal.Decimal {
	if c.Population.IsZero() {
		return decimal.Zero
	}
	return mathutil.Div(c.Total, c.Population)
}

// IsZero reports whether a unit costs nothing, which makes unit projections undefined.
func (c CostPerUnit) IsZero() bool {
	return c.Total.IsZero() || c.Population.IsZero()
}

// UnitsSaved is the number of units an amount pays for. The result is not truncated.
func UnitsSaved(amount decimal.Decimal, cpu CostPerUnit) (decimal.Decimal, error) {
	if cpu.IsZero() {
		return decimal.Zero, fmt.Errorf("units saved by %s: cost per unit is zero: %w", amount, ErrDivisionByZero)
	}
	return mathutil.Div(amount.Mul(cpu.Population), cpu.Total), nil
}

// Scenario pairs a baseline total with an adjusted total over a fixed population.
type Scenario struct {
	Baseline   decimal.Decimal
	Adjusted   decimal.Decimal
	Population decimal.Decimal
}

// CostPerUnit derives the unit cost from the baseline.
func (s Scenario) CostPerUnit() (CostPerUnit, error) {
	return ComputeCostPerUnit(s.Baseline, s.Population)
}

// Impact is the outcome of adding funds to a baseline budget.
type Impact struct {
	Baseline      decimal.Decimal `json:"baseline"`
	Additional    decimal.Decimal `json:"additional"`
	NewTotal      decimal.Decimal `json:"newTotal"`
	BaselineUnits decimal.Decimal `json:"baselineUnits"`
	UnitsSaved    decimal.Decimal `json:"unitsSaved"`
}

// ComputeProjectedImpact adds an amount to the baseline and projects how many units the new total covers.
func ComputeProjectedImpact(baseline, additional decimal.Decimal, cpu CostPerUnit) (Impact, error) {
	newTotal := baseline.Add(additional)
	baselineUnits, err := UnitsSaved(baseline, cpu)
	if err != nil {
		return Impact{}, err
	}
	units, err := UnitsSaved(newTotal, cpu)
	if err != nil {
		return Impact{}, err
	}
	return Impact{
		Baseline:      baseline,
		Additional:    additional,
		NewTotal:      newTotal,
		BaselineUnits: baselineUnits,
		UnitsSaved:    units,
	}, nil
}

// Project computes the impact of the scenario's adjusted total.
func (s Scenario) Project() (Impact, error) {
	cpu, err := s.CostPerUnit()
	if err != nil {
		return Impact{}, err
	}
	return ComputeProjectedImpact(s.Baseline, s.Adjusted.Sub(s.Baseline), cpu)
}
