package recompute

import (
	"fmt"

	"github.com/iwvelando/shelter-proposal/pkg/allocation"
	"github.com/iwvelando/shelter-proposal/pkg/finance"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Derived is every value computed from one snapshot.
type Derived struct {
	Inputs         Snapshot                     `json:"inputs"`
	Budget         allocation.Group             `json:"budget"`
	CostPerUnit    finance.CostPerUnit          `json:"costPerUnit"`
	DonationImpact finance.Impact               `json:"donationImpact"`
	SliderImpact   finance.Impact               `json:"sliderImpact"`
	Revenue        finance.RevenueAndAllocation `json:"revenue"`
	Allocation     allocation.Group             `json:"allocation"`
	Warnings       []string                     `json:"warnings,omitempty"`
}

// Run recomputes the whole graph from the snapshot. Missing snapshot values
// take their defaults. The snapshot is never modified.
func Run(logger *zap.Logger, model Model, snapshot Snapshot) (Derived, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := model.Resolve(snapshot)
	if err != nil {
		return Derived{}, fmt.Errorf("resolving snapshot: %w", err)
	}

	derived := Derived{Inputs: s}

	budget, err := allocation.Allocate(model.Budget, requests(model.BudgetFields, s.Budget))
	if err != nil {
		return Derived{}, fmt.Errorf("allocating budget: %w", err)
	}
	derived.Budget = budget.Group
	derived.Warnings = append(derived.Warnings, budget.Warnings...)

	scenario := finance.Scenario{
		Baseline:   budget.Group.Total,
		Adjusted:   budget.Group.Total.Add(s.Donation),
		Population: model.Population,
	}
	derived.CostPerUnit, err = scenario.CostPerUnit()
	if err != nil {
		return Derived{}, err
	}
	derived.DonationImpact, err = scenario.Project()
	if err != nil {
		return Derived{}, fmt.Errorf("projecting donation impact: %w", err)
	}
	derived.SliderImpact, err = finance.ComputeProjectedImpact(scenario.Baseline, model.SliderDonation(s), derived.CostPerUnit)
	if err != nil {
		return Derived{}, fmt.Errorf("projecting slider impact: %w", err)
	}

	percentages, err := allocation.Allocate(model.Allocation, requests(model.AllocationFields, s.Allocation))
	if err != nil {
		return Derived{}, fmt.Errorf("allocating revenue percentages: %w", err)
	}
	derived.Allocation = percentages.Group
	derived.Warnings = append(derived.Warnings, percentages.Warnings...)

	derived.Revenue, err = finance.ComputeRevenueAndAllocation(streams(model.Streams, s), percentages.Group)
	if err != nil {
		return Derived{}, fmt.Errorf("computing revenue: %w", err)
	}

	for _, w := range derived.Warnings {
		logger.Warn(w, zap.String("op", "recompute.Run"))
	}
	logger.Debug("recomputed proposal",
		zap.String("op", "recompute.Run"),
		zap.String("costPerUnit", derived.CostPerUnit.Value().String()),
		zap.String("annualRevenue", derived.Revenue.Annual.String()),
	)

	return derived, nil
}

func requests(fields []Field, values map[string]decimal.Decimal) []allocation.Request {
	out := make([]allocation.Request, 0, len(fields))
	for _, f := range fields {
		out = append(out, allocation.Request{Name: f.Name, Value: values[f.Name]})
	}
	return out
}

func streams(defs []Stream, s Snapshot) []finance.RevenueStream {
	out := make([]finance.RevenueStream, 0, len(defs))
	for _, d := range defs {
		out = append(out, finance.RevenueStream{
			Name:  d.Name,
			Price: s.Prices[d.Name],
			Units: s.Units[d.Name],
			Flat:  d.Flat,
		})
	}
	return out
}
