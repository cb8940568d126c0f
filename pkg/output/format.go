// Package output provides utilities for formatting and displaying proposal reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/shelter-proposal/internal/present"
	"github.com/iwvelando/shelter-proposal/pkg/constants"
)

const (
	barWidth      = 40
	timelineWidth = 48
)

// Write renders the report in the named format.
func Write(w io.Writer, outputFormat string, report present.Report) error {
	switch outputFormat {
	case "", constants.OutputFormatPretty:
		return PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	}
	return fmt.Errorf("unknown output format %q", outputFormat)
}

// PrettyFormat outputs a human-readable report with tables and bar charts.
func PrettyFormat(w io.Writer, r present.Report) error {
	var b strings.Builder

	b.WriteString(RenderTitle("Dog Shelter Proposal"))
	b.WriteString("\n\n")

	b.WriteString(RenderTable(r.Budget.Title, r.Budget.Columns, r.Budget.Rows))
	writeDonut(&b, r.BudgetShares)

	writeSection(&b, "Cost Analysis")
	writeMetrics(&b, []present.Metric{r.CostPerUnit, r.DonationUnits})
	writeBars(&b, r.DonationImpact)

	writeSection(&b, "Summary")
	writeMetrics(&b, r.BudgetSummary)

	writeSection(&b, "Interactive Donation Slider")
	writeMetrics(&b, []present.Metric{r.SliderUnits})
	writeBars(&b, r.SliderImpact)
	b.WriteString("\n")

	b.WriteString(RenderTable(r.Revenue.Title, r.Revenue.Columns, r.Revenue.Rows))
	writeMetrics(&b, r.RevenueTotals)
	b.WriteString("\n")

	b.WriteString(RenderTable(r.Allocation.Title, r.Allocation.Columns, r.Allocation.Rows))
	b.WriteString(RenderTable(r.Funds.Title, r.Funds.Columns, r.Funds.Rows))
	writeDonut(&b, r.FundShares)

	writeSection(&b, "Summary of Revenue and Allocation")
	writeMetrics(&b, r.RevenueSummary)

	if len(r.Timeline) > 0 {
		writeSection(&b, "Implementation Timeline")
		writeTimeline(&b, r.Timeline)
	}

	if len(r.Warnings) > 0 {
		writeSection(&b, "Warnings")
		for _, warning := range r.Warnings {
			b.WriteString("  ")
			b.WriteString(warnStyle.Render("! " + warning))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, title string) {
	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
}

func writeMetrics(b *strings.Builder, metrics []present.Metric) {
	width := 0
	for _, m := range metrics {
		width = max(width, len(m.Label))
	}
	for _, m := range metrics {
		fmt.Fprintf(b, "  %s  %s\n", mutedStyle.Render(pad(m.Label+":", width+1, false)), moneyStyle.Render(m.Value))
	}
}

func writeDonut(b *strings.Builder, d present.Donut) {
	width := 0
	for _, s := range d.Shares {
		width = max(width, len(s.Label))
	}
	for _, s := range d.Shares {
		b.WriteString(RenderHorizontalBar(s.Label, width, s.Percent.InexactFloat64(), 100, barWidth, s.Display))
		b.WriteString("\n")
	}
}

func writeBars(b *strings.Builder, chart present.BarChart) {
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(chart.Title))
	b.WriteString("\n")

	width := 0
	var peak int64
	for _, bar := range chart.Bars {
		width = max(width, len(bar.Label))
		peak = max(peak, bar.Value)
	}
	for _, bar := range chart.Bars {
		b.WriteString(RenderHorizontalBar(bar.Label, width, float64(bar.Value), float64(peak), barWidth, bar.Display))
		b.WriteString("\n")
	}
}

func writeTimeline(b *strings.Builder, phases []present.Phase) {
	width, span := 0, 0
	for _, p := range phases {
		width = max(width, len(p.Task))
		span = max(span, p.Offset+p.Days)
	}
	scale := func(days int) int {
		if span == 0 {
			return 0
		}
		return days * timelineWidth / span
	}
	for _, p := range phases {
		display := fmt.Sprintf("%s..%s (%d days)", p.Start, p.Finish, p.Days)
		b.WriteString(RenderSpan(p.Task, width, scale(p.Offset), scale(p.Days), display))
		b.WriteString("\n")
	}
}

// CsvFormat outputs the report in long comma-separated value format with
// the columns section, item, field and value.
func CsvFormat(w io.Writer, r present.Report) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"section", "item", "field", "value"}}

	table := func(t present.Table) {
		for _, row := range t.Rows {
			for i := 1; i < len(row) && i < len(t.Columns); i++ {
				records = append(records, []string{t.Title, row[0], t.Columns[i], row[i]})
			}
		}
	}
	metrics := func(section string, ms []present.Metric) {
		for _, m := range ms {
			records = append(records, []string{section, m.Label, "value", m.Value})
		}
	}
	bars := func(c present.BarChart) {
		for _, bar := range c.Bars {
			records = append(records, []string{c.Title, bar.Label, "units", strconv.FormatInt(bar.Value, 10)})
		}
	}

	table(r.Budget)
	metrics("Cost Analysis", []present.Metric{r.CostPerUnit, r.DonationUnits, r.SliderUnits})
	bars(r.DonationImpact)
	bars(r.SliderImpact)
	metrics("Summary", r.BudgetSummary)
	table(r.Revenue)
	table(r.Allocation)
	table(r.Funds)
	metrics("Summary of Revenue and Allocation", r.RevenueSummary)
	for _, p := range r.Timeline {
		records = append(records,
			[]string{"Timeline", p.Task, "start", p.Start},
			[]string{"Timeline", p.Task, "finish", p.Finish},
			[]string{"Timeline", p.Task, "days", strconv.Itoa(p.Days)},
		)
	}
	for _, warning := range r.Warnings {
		records = append(records, []string{"Warnings", "", "warning", warning})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// JSONFormat outputs the report as indented JSON.
func JSONFormat(w io.Writer, r present.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
