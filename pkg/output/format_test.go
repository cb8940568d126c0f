package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/shelter-proposal/internal/present"
	"github.com/iwvelando/shelter-proposal/internal/recompute"
	"github.com/iwvelando/shelter-proposal/pkg/testutil"
	"github.com/shopspring/decimal"
)

func testReport(t *testing.T, donation int64) present.Report {
	t.Helper()
	model := testutil.DefaultModel(t)
	derived := testutil.Run(t, model, func(s recompute.Snapshot) recompute.Snapshot {
		return s.With(model.Donation, decimal.NewFromInt(donation))
	})
	return present.Build(model, derived)
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, testReport(t, 50000)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Dog Shelter Proposal",
		"Budget Allocation",
		"Contingency",
		"$45,000.00",
		"Cost to Save One Stray Dog",
		"$16.67",
		"18,000 dogs",
		"Current Budget",
		"After Donation",
		"€4,900.00",
		"€58,800.00",
		"Dog Care Allocation",
		"Planning & Site Acquisition",
		"(89 days)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q", want)
		}
	}
	if strings.Contains(output, "Warnings") {
		t.Error("PrettyFormat should not print a warnings section for the defaults")
	}
}

func TestPrettyFormatWarnings(t *testing.T) {
	report := testReport(t, 0)
	report.Warnings = []string{"Budget Allocation: Contingency is negative (-100); allocations exceed the total of 250000"}

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, report); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Contingency is negative") {
		t.Error("PrettyFormat output missing warning")
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, testReport(t, 0)); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) < 2 {
		t.Fatalf("expected records, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "section,item,field,value" {
		t.Errorf("unexpected header %v", records[0])
	}

	find := func(section, item, field string) string {
		for _, r := range records {
			if r[0] == section && r[1] == item && r[2] == field {
				return r[3]
			}
		}
		return ""
	}
	if got := find("Budget Allocation", "Contingency", "Amount ($)"); got != "$45,000.00" {
		t.Errorf("contingency = %q, expected $45,000.00", got)
	}
	if got := find("Impact of Additional Donations on Dogs Saved", "After Donation", "units"); got != "15000" {
		t.Errorf("units after donation = %q, expected 15000", got)
	}
	if got := find("Projected Monthly Revenue", "Training Programs", "Monthly Revenue (€)"); got != "€1,000.00" {
		t.Errorf("training revenue = %q, expected €1,000.00", got)
	}
	if got := find("Timeline", "Staffing & Training", "days"); got != "31" {
		t.Errorf("staffing days = %q, expected 31", got)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, testReport(t, 0)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded struct {
		CostPerUnit present.Metric  `json:"costPerUnit"`
		Timeline    []present.Phase `json:"timeline"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if decoded.CostPerUnit.Value != "$16.67" {
		t.Errorf("cost per unit = %q, expected $16.67", decoded.CostPerUnit.Value)
	}
	if len(decoded.Timeline) != 5 {
		t.Errorf("timeline phases = %d, expected 5", len(decoded.Timeline))
	}
}

func TestWrite(t *testing.T) {
	report := testReport(t, 0)
	tests := []struct {
		format  string
		wantErr bool
	}{
		{format: "", wantErr: false},
		{format: "pretty", wantErr: false},
		{format: "csv", wantErr: false},
		{format: "json", wantErr: false},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, tt.format, report)
			if (err != nil) != tt.wantErr {
				t.Errorf("Write(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if !tt.wantErr && buf.Len() == 0 {
				t.Errorf("Write(%q) produced no output", tt.format)
			}
		})
	}
}

func TestRenderTableAlignsWideRunes(t *testing.T) {
	out := RenderTable("", []string{"Stream", "Revenue"}, [][]string{{"Adoption Fees", "€1,000.00"}, {"Other", "€0.00"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out)
	}
	for _, line := range lines[1:] {
		if len([]rune(line)) != len([]rune(lines[0])) {
			t.Errorf("misaligned line %q", line)
		}
	}
}
