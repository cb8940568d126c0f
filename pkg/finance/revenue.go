package finance

import (
	"fmt"

	"github.com/iwvelando/shelter-proposal/pkg/allocation"
	"github.com/iwvelando/shelter-proposal/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// RevenueStream pairs a unit price with an expected monthly unit count.
// A Flat stream carries its monthly amount in Units and ignores Price.
type RevenueStream struct {
	Name  string
	Price decimal.Decimal
	Units decimal.Decimal
	Flat  bool
}

// Monthly returns the stream's monthly revenue.
func (s RevenueStream) Monthly() decimal.Decimal {
	if s.Flat {
		return s.Units
	}
	return s.Price.Mul(s.Units)
}

// StreamRevenue is the monthly revenue of one stream.
type StreamRevenue struct {
	Name    string          `json:"name"`
	Monthly decimal.Decimal `json:"monthly"`
}

// Fund is the share of annual revenue given to one allocation category.
type Fund struct {
	Name    string          `json:"name"`
	Percent decimal.Decimal `json:"percent"`
	Amount  decimal.Decimal `json:"amount"`
}

// RevenueAndAllocation groups the revenue side of the proposal.
type RevenueAndAllocation struct {
	Monthly        []StreamRevenue `json:"monthly"`
	MonthlyTotal   decimal.Decimal `json:"monthlyTotal"`
	Annual         decimal.Decimal `json:"annual"`
	AllocatedFunds []Fund          `json:"allocatedFunds"`
}

// MonthlyRevenue computes per-stream monthly revenue in stream order.
func MonthlyRevenue(streams []RevenueStream) ([]StreamRevenue, error) {
	seen := make(map[string]struct{}, len(streams))
	out := make([]StreamRevenue, 0, len(streams))
	for _, s := range streams {
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("duplicate revenue stream %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		out = append(out, StreamRevenue{Name: s.Name, Monthly: s.Monthly()})
	}
	return out, nil
}

// AnnualRevenue scales a monthly total to a year.
func AnnualRevenue(monthlyTotal decimal.Decimal) decimal.Decimal {
	return mathutil.Annualize(monthlyTotal)
}

// AllocatedFunds gives every percentage category its share of the annual total.
func AllocatedFunds(percentages allocation.Group, annual decimal.Decimal) []Fund {
	funds := make([]Fund, 0, len(percentages.Categories))
	for _, c := range percentages.Categories {
		funds = append(funds, Fund{
			Name:    c.Name,
			Percent: c.Value,
			Amount:  mathutil.ApplyPercentage(annual, c.Value),
		})
	}
	return funds
}

// ComputeRevenueAndAllocation derives monthly and annual revenue and splits the
// annual total across the percentage allocation.
func ComputeRevenueAndAllocation(streams []RevenueStream, percentages allocation.Group) (RevenueAndAllocation, error) {
	monthly, err := MonthlyRevenue(streams)
	if err != nil {
		return RevenueAndAllocation{}, err
	}

	total := decimal.Zero
	for _, m := range monthly {
		total = total.Add(m.Monthly)
	}
	annual := AnnualRevenue(total)

	return RevenueAndAllocation{
		Monthly:        monthly,
		MonthlyTotal:   total,
		Annual:         annual,
		AllocatedFunds: AllocatedFunds(percentages, annual),
	}, nil
}
