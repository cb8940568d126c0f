package present

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/shelter-proposal/internal/recompute"
	"github.com/iwvelando/shelter-proposal/pkg/testutil"
	"github.com/shopspring/decimal"
)

func buildReport(t *testing.T, mutate func(recompute.Model, recompute.Snapshot) recompute.Snapshot) Report {
	t.Helper()
	model := testutil.DefaultModel(t)
	var adjust func(recompute.Snapshot) recompute.Snapshot
	if mutate != nil {
		adjust = func(s recompute.Snapshot) recompute.Snapshot { return mutate(model, s) }
	}
	return Build(model, testutil.Run(t, model, adjust))
}

func TestBuildBudget(t *testing.T) {
	r := buildReport(t, nil)

	want := Table{
		Title:   "Budget Allocation",
		Columns: []string{"Category", "Amount ($)"},
		Rows: [][]string{
			{"Construction", "$60,000.00"},
			{"Equipment", "$25,000.00"},
			{"Staffing", "$80,000.00"},
			{"Operations", "$22,500.00"},
			{"Programs", "$17,500.00"},
			{"Contingency", "$45,000.00"},
		},
	}
	if diff := cmp.Diff(want, r.Budget); diff != "" {
		t.Errorf("budget table mismatch (-want +got):\n%s", diff)
	}

	wantShares := []string{"24%", "10%", "32%", "9%", "7%", "18%"}
	var gotShares []string
	for _, s := range r.BudgetShares.Shares {
		gotShares = append(gotShares, s.Display)
	}
	if diff := cmp.Diff(wantShares, gotShares); diff != "" {
		t.Errorf("budget shares mismatch (-want +got):\n%s", diff)
	}

	if r.CostPerUnit.Value != "$16.67" {
		t.Errorf("cost per unit = %q, expected $16.67", r.CostPerUnit.Value)
	}
}

func TestBuildImpact(t *testing.T) {
	tests := []struct {
		name       string
		donation   int64
		wantUnits  string
		wantBars   []Bar
		wantNewTot string
	}{
		{
			name:      "no donation",
			donation:  0,
			wantUnits: "15,000 dogs",
			wantBars: []Bar{
				{Label: LabelCurrent, Value: 15000, Display: "15,000"},
				{Label: LabelDonation, Value: 15000, Display: "15,000"},
			},
			wantNewTot: "$250,000.00",
		},
		{
			name:      "fractional units truncate",
			donation:  1010,
			wantUnits: "15,060 dogs",
			wantBars: []Bar{
				{Label: LabelCurrent, Value: 15000, Display: "15,000"},
				{Label: LabelDonation, Value: 15060, Display: "15,060"},
			},
			wantNewTot: "$251,010.00",
		},
		{
			name:      "large donation",
			donation:  50000,
			wantUnits: "18,000 dogs",
			wantBars: []Bar{
				{Label: LabelCurrent, Value: 15000, Display: "15,000"},
				{Label: LabelDonation, Value: 18000, Display: "18,000"},
			},
			wantNewTot: "$300,000.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildReport(t, func(m recompute.Model, s recompute.Snapshot) recompute.Snapshot {
				return s.With(m.Donation, decimal.NewFromInt(tt.donation))
			})

			if r.DonationUnits.Value != tt.wantUnits {
				t.Errorf("donation units = %q, expected %q", r.DonationUnits.Value, tt.wantUnits)
			}
			if diff := cmp.Diff(tt.wantBars, r.DonationImpact.Bars); diff != "" {
				t.Errorf("impact bars mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantBars, r.SliderImpact.Bars); diff != "" {
				t.Errorf("slider bars should follow the donation (-want +got):\n%s", diff)
			}
			if got := r.BudgetSummary[3].Value; got != tt.wantNewTot {
				t.Errorf("new total = %q, expected %q", got, tt.wantNewTot)
			}
		})
	}
}

func TestBuildRevenue(t *testing.T) {
	r := buildReport(t, nil)

	if diff := cmp.Diff([]string{"Adoption Fees", "€20.00", "50", "€1,000.00"}, r.Revenue.Rows[0]); diff != "" {
		t.Errorf("first revenue row mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Other", "-", "-", "€0.00"}, r.Revenue.Rows[5]); diff != "" {
		t.Errorf("flat revenue row mismatch (-want +got):\n%s", diff)
	}

	wantTotals := []Metric{
		{Label: "Total Monthly Revenue", Value: "€4,900.00"},
		{Label: "Total Annual Revenue", Value: "€58,800.00"},
	}
	if diff := cmp.Diff(wantTotals, r.RevenueTotals); diff != "" {
		t.Errorf("revenue totals mismatch (-want +got):\n%s", diff)
	}

	wantFunds := [][]string{
		{"Dog Care", "€29,400.00"},
		{"Facility Maintenance", "€8,820.00"},
		{"Staff Salaries", "€11,760.00"},
		{"Operational Costs", "€5,880.00"},
		{"Emergency Fund", "€1,764.00"},
		{"Other", "€1,176.00"},
	}
	if diff := cmp.Diff(wantFunds, r.Funds.Rows); diff != "" {
		t.Errorf("funds mismatch (-want +got):\n%s", diff)
	}

	if got := r.RevenueSummary[2]; got.Label != "Dog Care Allocation" || got.Value != "€29,400.00 (50%)" {
		t.Errorf("summary line = %+v", got)
	}
	if got := r.Allocation.Rows[5]; got[0] != "Other" || got[1] != "2%" {
		t.Errorf("allocation remainder row = %v", got)
	}
}

func TestBuildTimeline(t *testing.T) {
	r := buildReport(t, nil)

	want := []Phase{
		{Task: "Planning & Site Acquisition", Start: "2025-02-01", Finish: "2025-04-30", Days: 89, Offset: 0},
		{Task: "Construction & Setup", Start: "2025-05-01", Finish: "2025-08-31", Days: 123, Offset: 89},
		{Task: "Staffing & Training", Start: "2025-10-01", Finish: "2025-10-31", Days: 31, Offset: 242},
		{Task: "Launch Operations", Start: "2026-01-01", Finish: "2026-01-31", Days: 31, Offset: 334},
		{Task: "Monitoring & Evaluation", Start: "2026-02-01", Finish: "2026-12-31", Days: 334, Offset: 365},
	}
	if diff := cmp.Diff(want, r.Timeline); diff != "" {
		t.Errorf("timeline mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildNegativeRemainder(t *testing.T) {
	r := buildReport(t, func(m recompute.Model, s recompute.Snapshot) recompute.Snapshot {
		return s.With(m.BudgetFields[2], decimal.NewFromInt(150000))
	})

	last := r.Budget.Rows[len(r.Budget.Rows)-1]
	if diff := cmp.Diff([]string{"Contingency", "-$25,000.00"}, last); diff != "" {
		t.Errorf("remainder row mismatch (-want +got):\n%s", diff)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", r.Warnings)
	}
	share := r.BudgetShares.Shares[len(r.BudgetShares.Shares)-1]
	if !share.Percent.IsNegative() {
		t.Errorf("expected a negative remainder share, got %s", share.Percent)
	}
}

func TestBuildDeterministic(t *testing.T) {
	first := buildReport(t, nil)
	second := buildReport(t, nil)

	opt := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(first, second, opt); diff != "" {
		t.Errorf("reports differ (-first +second):\n%s", diff)
	}
}
