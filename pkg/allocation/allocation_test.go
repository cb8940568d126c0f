package allocation

import (
	"errors"
	"testing"

	"github.com/iwvelando/shelter-proposal/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func requests(pairs ...interface{}) []Request {
	var out []Request
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Request{Name: pairs[i].(string), Value: dec(int64(pairs[i+1].(int)))})
	}
	return out
}

func percentSpec(policy Policy) Spec {
	return Spec{Name: "percent", Total: dec(100), Floor: dec(1), Remainder: "D", Policy: policy}
}

func TestAllocateAssignsRemainder(t *testing.T) {
	res, err := Allocate(percentSpec(Lenient), requests("A", 40, "B", 30, "C", 20))
	require.NoError(t, err)

	want := map[string]int64{"A": 40, "B": 30, "C": 20, "D": 10}
	require.Len(t, res.Group.Categories, 4)
	for _, c := range res.Group.Categories {
		assert.Truef(t, c.Value.Equal(dec(want[c.Name])), "%s = %s, want %d", c.Name, c.Value, want[c.Name])
	}

	rem, ok := res.Group.RemainderCategory()
	require.True(t, ok)
	assert.Equal(t, "D", rem.Name)
	assert.True(t, res.Group.Balanced())
	assert.Empty(t, res.Warnings)
}

func TestAllocatePreservesOrder(t *testing.T) {
	res, err := Allocate(percentSpec(Lenient), requests("C", 20, "A", 40, "B", 30))
	require.NoError(t, err)

	var names []string
	for _, c := range res.Group.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"C", "A", "B", "D"}, names)
}

func TestAllocateLenientAllowsNegativeRemainder(t *testing.T) {
	res, err := Allocate(percentSpec(Lenient), requests("A", 60, "B", 50))
	require.NoError(t, err)

	d, ok := res.Group.Value("D")
	require.True(t, ok)
	assert.True(t, d.Equal(dec(-10)), "remainder = %s", d)
	assert.True(t, res.Group.Balanced(), "group must still sum to total")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "negative")
}

func TestAllocateLenientWarnsBelowFloor(t *testing.T) {
	res, err := Allocate(percentSpec(Lenient), requests("A", 60, "B", 39, "C", 1))
	require.NoError(t, err)

	d, _ := res.Group.Value("D")
	assert.True(t, d.IsZero())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "below its reserved floor")
}

func TestAllocateClampKeepsFloor(t *testing.T) {
	res, err := Allocate(percentSpec(Clamp), requests("A", 60, "B", 50, "C", 5))
	require.NoError(t, err)

	a, _ := res.Group.Value("A")
	b, _ := res.Group.Value("B")
	c, _ := res.Group.Value("C")
	d, _ := res.Group.Value("D")
	assert.True(t, a.Equal(dec(60)))
	assert.True(t, b.Equal(dec(39)), "B clamped to 100-1-60, got %s", b)
	assert.True(t, c.IsZero(), "C has no room left, got %s", c)
	assert.True(t, d.Equal(dec(1)), "remainder keeps its floor, got %s", d)
	assert.True(t, res.Group.Balanced())
	assert.Len(t, res.Warnings, 2)
}

func TestAllocateClampLeavesValidRequestsAlone(t *testing.T) {
	lenient, err := Allocate(percentSpec(Lenient), requests("A", 40, "B", 30, "C", 20))
	require.NoError(t, err)
	clamped, err := Allocate(percentSpec(Clamp), requests("A", 40, "B", 30, "C", 20))
	require.NoError(t, err)

	assert.Equal(t, lenient.Group, clamped.Group)
	assert.Empty(t, clamped.Warnings)
}

func TestAllocateBudgetDefaults(t *testing.T) {
	spec := Spec{Name: "budget", Total: dec(250000), Floor: dec(5000), Remainder: "Contingency"}
	res, err := Allocate(spec, requests(
		"Construction", 60000, "Equipment", 25000, "Staffing", 80000, "Operations", 22500, "Programs", 17500))
	require.NoError(t, err)

	contingency, _ := res.Group.Value("Contingency")
	assert.True(t, contingency.Equal(dec(45000)), "contingency = %s", contingency)
	assert.True(t, res.Group.Sum().Equal(dec(250000)))
}

func TestAllocateExactWithFractions(t *testing.T) {
	spec := Spec{Name: "fractions", Total: dec(1), Remainder: "rest"}
	reqs := []Request{
		{Name: "a", Value: decimal.RequireFromString("0.1")},
		{Name: "b", Value: decimal.RequireFromString("0.2")},
	}
	res, err := Allocate(spec, reqs)
	require.NoError(t, err)

	rest, _ := res.Group.Value("rest")
	assert.True(t, rest.Equal(decimal.RequireFromString("0.7")))
	assert.True(t, res.Group.Sum().Equal(dec(1)))
}

func TestAllocateNoRequests(t *testing.T) {
	res, err := Allocate(percentSpec(Lenient), nil)
	require.NoError(t, err)
	require.Len(t, res.Group.Categories, 1)
	assert.True(t, res.Group.Categories[0].Value.Equal(dec(100)))
}

func TestAllocateErrors(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		reqs    []Request
		wantErr error
	}{
		{"Zero total", Spec{Name: "g", Total: dec(0), Remainder: "r"}, nil, ErrNonPositiveTotal},
		{"Negative floor", Spec{Name: "g", Total: dec(10), Floor: dec(-1), Remainder: "r"}, nil, ErrNegativeFloor},
		{"Floor above total", Spec{Name: "g", Total: dec(10), Floor: dec(11), Remainder: "r"}, nil, ErrFloorExceedsTotal},
		{"Missing remainder", Spec{Name: "g", Total: dec(10)}, nil, ErrMissingRemainder},
		{"Empty name", percentSpec(Lenient), requests("", 5), ErrEmptyName},
		{"Duplicate name", percentSpec(Lenient), requests("A", 5, "A", 6), ErrDuplicateCategory},
		{"Collides with remainder", percentSpec(Lenient), requests("D", 5), ErrDuplicateCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(tt.spec, tt.reqs)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAllocateRejectsOutOfRangeRequest(t *testing.T) {
	_, err := Allocate(percentSpec(Lenient), requests("A", 101))
	var rangeErr *validation.InvalidRangeError
	require.True(t, errors.As(err, &rangeErr), "expected InvalidRangeError, got %v", err)
	assert.Equal(t, "percent.A", rangeErr.Field)

	_, err = Allocate(percentSpec(Lenient), requests("A", -1))
	assert.True(t, errors.As(err, &rangeErr))
}

func TestAllocateIsDeterministic(t *testing.T) {
	reqs := requests("A", 60, "B", 50)
	first, err := Allocate(percentSpec(Clamp), reqs)
	require.NoError(t, err)
	second, err := Allocate(percentSpec(Clamp), reqs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, reqs[1].Value.Equal(dec(50)), "requests must not be mutated")
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Lenient, p)

	p, err = ParsePolicy("clamp")
	require.NoError(t, err)
	assert.Equal(t, Clamp, p)

	_, err = ParsePolicy("strict")
	assert.ErrorIs(t, err, ErrUnknownAllocPolicy)
}

func TestGroupShares(t *testing.T) {
	res, err := Allocate(Spec{Name: "budget", Total: dec(200), Remainder: "rest"}, requests("a", 50))
	require.NoError(t, err)

	shares := res.Group.Shares()
	require.Len(t, shares, 2)
	assert.True(t, shares[0].Equal(dec(25)))
	assert.True(t, shares[1].Equal(dec(75)))
}
