// Package present turns derived proposal values into display-ready tables,
// charts and summary lines. Units saved are truncated to whole units here and
// nowhere else.
package present

import (
	"sort"
	"time"

	"github.com/iwvelando/shelter-proposal/internal/recompute"
	"github.com/iwvelando/shelter-proposal/pkg/allocation"
	"github.com/iwvelando/shelter-proposal/pkg/constants"
	"github.com/iwvelando/shelter-proposal/pkg/datetime"
	"github.com/iwvelando/shelter-proposal/pkg/finance"
	"github.com/iwvelando/shelter-proposal/pkg/format"
	"github.com/shopspring/decimal"
)

// Scenario labels of the impact charts.
const (
	LabelCurrent  = "Current Budget"
	LabelDonation = "After Donation"
)

// Table is a titled grid of display strings.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Share is one slice of a donut chart.
type Share struct {
	Label   string          `json:"label"`
	Percent decimal.Decimal `json:"percent"`
	Display string          `json:"display"`
}

// Donut is a proportional chart. Negative slices are kept so the shell can flag them.
type Donut struct {
	Title  string  `json:"title"`
	Shares []Share `json:"shares"`
}

// Bar is one bar of a bar chart. Value is already truncated to whole units.
type Bar struct {
	Label   string `json:"label"`
	Value   int64  `json:"value"`
	Display string `json:"display"`
}

// BarChart is a titled set of bars.
type BarChart struct {
	Title string `json:"title"`
	Bars  []Bar  `json:"bars"`
}

// Metric is a labelled single value.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Phase is one timeline bar. Offset is the number of days between the start
// of the first phase and the start of this one.
type Phase struct {
	Task   string `json:"task"`
	Start  string `json:"start"`
	Finish string `json:"finish"`
	Days   int    `json:"days"`
	Offset int    `json:"offset"`
}

// Report is the whole display model of one recompute cycle.
type Report struct {
	Budget         Table    `json:"budget"`
	BudgetShares   Donut    `json:"budgetShares"`
	CostPerUnit    Metric   `json:"costPerUnit"`
	DonationUnits  Metric   `json:"donationUnits"`
	DonationImpact BarChart `json:"donationImpact"`
	BudgetSummary  []Metric `json:"budgetSummary"`
	SliderUnits    Metric   `json:"sliderUnits"`
	SliderImpact   BarChart `json:"sliderImpact"`
	Revenue        Table    `json:"revenue"`
	RevenueTotals  []Metric `json:"revenueTotals"`
	Allocation     Table    `json:"allocation"`
	Funds          Table    `json:"funds"`
	FundShares     Donut    `json:"fundShares"`
	RevenueSummary []Metric `json:"revenueSummary"`
	Timeline       []Phase  `json:"timeline"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Build lays out a report for the derived values of one snapshot.
func Build(model recompute.Model, derived recompute.Derived) Report {
	budgetCurrency := symbol(model.BudgetCurrency, format.USD)
	revenueCurrency := symbol(model.RevenueCurrency, format.EUR)

	r := Report{
		Budget:       groupTable(derived.Budget, "Category", "Amount ("+budgetCurrency+")", func(v decimal.Decimal) string { return format.Currency(budgetCurrency, v) }),
		BudgetShares: donut(derived.Budget.Name, derived.Budget),
		CostPerUnit: Metric{
			Label: "Cost to Save One Stray Dog",
			Value: format.Currency(budgetCurrency, derived.CostPerUnit.Value()),
		},
		DonationUnits: Metric{
			Label: "Number of Stray Dogs Saved with Additional Donation",
			Value: units(derived.DonationImpact.UnitsSaved),
		},
		DonationImpact: impactChart("Impact of Additional Donations on Dogs Saved", derived.DonationImpact),
		SliderUnits: Metric{
			Label: "Number of Stray Dogs Saved with Selected Donation",
			Value: units(derived.SliderImpact.UnitsSaved),
		},
		SliderImpact: impactChart("Impact of Selected Donation on Dogs Saved", derived.SliderImpact),
		Revenue:      revenueTable(model, derived, revenueCurrency),
		RevenueTotals: []Metric{
			{Label: "Total Monthly Revenue", Value: format.Currency(revenueCurrency, derived.Revenue.MonthlyTotal)},
			{Label: "Total Annual Revenue", Value: format.Currency(revenueCurrency, derived.Revenue.Annual)},
		},
		Allocation: groupTable(derived.Allocation, "Category", "Percentage (%)", format.Percent),
		Funds:      fundsTable(derived.Revenue.AllocatedFunds, revenueCurrency),
		FundShares: donut("Annual Revenue Allocation", derived.Allocation),
		Timeline:   Timeline(model.Timeline),
		Warnings:   derived.Warnings,
	}

	r.BudgetSummary = []Metric{
		{Label: "Current Total Budget", Value: format.Currency(budgetCurrency, derived.DonationImpact.Baseline)},
		{Label: "Cost to Save One Stray Dog", Value: r.CostPerUnit.Value},
		{Label: "Additional Donation", Value: format.Currency(budgetCurrency, derived.DonationImpact.Additional)},
		{Label: "New Total Budget", Value: format.Currency(budgetCurrency, derived.DonationImpact.NewTotal)},
		{Label: "Total Number of Dogs Saved", Value: r.DonationUnits.Value},
	}

	r.RevenueSummary = append(r.RevenueSummary, r.RevenueTotals...)
	for _, fund := range derived.Revenue.AllocatedFunds {
		r.RevenueSummary = append(r.RevenueSummary, Metric{
			Label: fund.Name + " Allocation",
			Value: format.Currency(revenueCurrency, fund.Amount) + " (" + format.Percent(fund.Percent) + ")",
		})
	}

	return r
}

func symbol(configured, fallback string) string {
	if configured == "" {
		return fallback
	}
	return configured
}

func units(v decimal.Decimal) string {
	return format.Count(v) + " dogs"
}

func groupTable(g allocation.Group, label, valueHeader string, render func(decimal.Decimal) string) Table {
	t := Table{Title: g.Name, Columns: []string{label, valueHeader}}
	for _, c := range g.Categories {
		t.Rows = append(t.Rows, []string{c.Name, render(c.Value)})
	}
	return t
}

func donut(title string, g allocation.Group) Donut {
	shares := g.Shares()
	d := Donut{Title: title, Shares: make([]Share, 0, len(shares))}
	for i, c := range g.Categories {
		d.Shares = append(d.Shares, Share{
			Label:   c.Name,
			Percent: shares[i],
			Display: format.Percent(shares[i]),
		})
	}
	return d
}

func impactChart(title string, impact finance.Impact) BarChart {
	return BarChart{
		Title: title,
		Bars: []Bar{
			{Label: LabelCurrent, Value: impact.BaselineUnits.Truncate(0).IntPart(), Display: format.Count(impact.BaselineUnits)},
			{Label: LabelDonation, Value: impact.UnitsSaved.Truncate(0).IntPart(), Display: format.Count(impact.UnitsSaved)},
		},
	}
}

func revenueTable(model recompute.Model, derived recompute.Derived, currency string) Table {
	t := Table{
		Title:   "Projected Monthly Revenue",
		Columns: []string{"Revenue Stream", "Price (" + currency + ")", "Monthly Units", "Monthly Revenue (" + currency + ")"},
	}
	monthly := make(map[string]decimal.Decimal, len(derived.Revenue.Monthly))
	for _, m := range derived.Revenue.Monthly {
		monthly[m.Name] = m.Monthly
	}
	for _, s := range model.Streams {
		price, units := "-", "-"
		if !s.Flat {
			price = format.Currency(currency, derived.Inputs.Prices[s.Name])
			units = format.Count(derived.Inputs.Units[s.Name])
		}
		t.Rows = append(t.Rows, []string{s.Name, price, units, format.Currency(currency, monthly[s.Name])})
	}
	return t
}

func fundsTable(funds []finance.Fund, currency string) Table {
	t := Table{
		Title:   "Allocated Funds",
		Columns: []string{"Allocation Category", "Annual Allocation (" + currency + ")"},
	}
	for _, f := range funds {
		t.Rows = append(t.Rows, []string{f.Name, format.Currency(currency, f.Amount)})
	}
	return t
}

// Timeline lays out timeline bars relative to the earliest start.
func Timeline(phases []recompute.Phase) []Phase {
	if len(phases) == 0 {
		return nil
	}

	starts := make([]time.Time, 0, len(phases))
	for _, p := range phases {
		starts = append(starts, p.Start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	origin := starts[0]

	out := make([]Phase, 0, len(phases))
	for _, p := range phases {
		out = append(out, Phase{
			Task:   p.Task,
			Start:  p.Start.Format(constants.DateLayout),
			Finish: p.Finish.Format(constants.DateLayout),
			Days:   datetime.InclusiveDays(p.Start, p.Finish),
			Offset: datetime.InclusiveDays(origin, p.Start) - 1,
		})
	}
	return out
}
