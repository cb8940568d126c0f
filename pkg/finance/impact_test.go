package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// unitCost is a cost per unit of value over a population of one.
func unitCost(value decimal.Decimal) CostPerUnit {
	return CostPerUnit{Total: value, Population: dec(1)}
}

func TestComputeCostPerUnit(t *testing.T) {
	cpu, err := ComputeCostPerUnit(dec(250000), dec(15000))
	require.NoError(t, err)

	expected := decimal.RequireFromString("16.6666666666666667")
	assert.True(t, cpu.Value().Equal(expected), "cost per unit = %s", cpu.Value())
	assert.True(t, cpu.Value().Round(2).Equal(decimal.RequireFromString("16.67")))
}

func TestComputeCostPerUnitZeroPopulation(t *testing.T) {
	_, err := ComputeCostPerUnit(dec(250000), decimal.Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestUnitsSavedZeroCost(t *testing.T) {
	cpu, err := ComputeCostPerUnit(decimal.Zero, dec(15000))
	require.NoError(t, err)
	assert.True(t, cpu.IsZero())

	_, err = UnitsSaved(dec(1000), cpu)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = UnitsSaved(dec(1000), unitCost(decimal.Zero))
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestComputeProjectedImpact(t *testing.T) {
	cpu, err := ComputeCostPerUnit(dec(250000), dec(15000))
	require.NoError(t, err)

	tests := []struct {
		name       string
		additional int64
		newTotal   int64
		units      int64
	}{
		{"No donation recovers the population", 0, 250000, 15000},
		{"Fifty thousand donation", 50000, 300000, 18000},
		{"Maximum slider donation", 100000, 350000, 21000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impact, err := ComputeProjectedImpact(dec(250000), dec(tt.additional), cpu)
			require.NoError(t, err)
			assert.True(t, impact.NewTotal.Equal(dec(tt.newTotal)), "new total = %s", impact.NewTotal)
			assert.True(t, impact.UnitsSaved.Equal(dec(tt.units)), "units saved = %s", impact.UnitsSaved)
			assert.True(t, impact.BaselineUnits.Equal(dec(15000)), "baseline units = %s", impact.BaselineUnits)
		})
	}
}

func TestUnitsSavedKeepsFraction(t *testing.T) {
	cpu, err := ComputeCostPerUnit(dec(250000), dec(15000))
	require.NoError(t, err)

	units, err := UnitsSaved(dec(1000), cpu)
	require.NoError(t, err)
	assert.True(t, units.Equal(dec(60)), "units = %s", units)

	units, err = UnitsSaved(dec(10), cpu)
	require.NoError(t, err)
	assert.True(t, units.Equal(decimal.RequireFromString("0.6")), "units = %s", units)
}

func TestImpactFromRawCostPerUnit(t *testing.T) {
	impact, err := ComputeProjectedImpact(dec(250000), dec(50000), unitCost(dec(20)))
	require.NoError(t, err)
	assert.True(t, impact.UnitsSaved.Equal(dec(15000)))
}

func TestScenarioProject(t *testing.T) {
	s := Scenario{Baseline: dec(250000), Adjusted: dec(300000), Population: dec(15000)}
	impact, err := s.Project()
	require.NoError(t, err)
	assert.True(t, impact.Additional.Equal(dec(50000)))
	assert.True(t, impact.UnitsSaved.Equal(dec(18000)))

	_, err = Scenario{Baseline: dec(1)}.Project()
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestProjectedImpactIsDeterministic(t *testing.T) {
	cpu, err := ComputeCostPerUnit(dec(250000), dec(15000))
	require.NoError(t, err)

	first, err := ComputeProjectedImpact(dec(250000), dec(37000), cpu)
	require.NoError(t, err)
	second, err := ComputeProjectedImpact(dec(250000), dec(37000), cpu)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
