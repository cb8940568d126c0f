// Package tui provides the interactive Bubble Tea shell for the proposal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/shelter-proposal/internal/present"
	"github.com/iwvelando/shelter-proposal/internal/recompute"
	"github.com/iwvelando/shelter-proposal/pkg/format"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	barWidth   = 24
	labelWidth = 30
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFCF0"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3AA99F"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D0A215"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6F6E69"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#879A39"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#DA702C"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D14D41"))
	panelStyle    = lipgloss.NewStyle().Padding(0, 2)
	sectionTitles = map[recompute.Section]string{
		recompute.SectionBudget:         "Budget",
		recompute.SectionDonation:       "Donation",
		recompute.SectionDonationSlider: "Donation",
		recompute.SectionPrice:          "Revenue",
		recompute.SectionUnits:          "Revenue",
		recompute.SectionAllocation:     "Revenue Allocation",
	}
)

// App is the root Bubble Tea model. Every value change builds a new snapshot
// and reruns the whole recompute graph.
type App struct {
	logger *zap.Logger
	model  recompute.Model
	fields []recompute.Field

	snapshot recompute.Snapshot
	derived  recompute.Derived
	report   present.Report
	err      error

	cursor int
	width  int
	height int

	keys keyMap
	help help.Model
	bar  progress.Model
}

// New builds the shell at the model's default snapshot.
func New(logger *zap.Logger, model recompute.Model) App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := App{
		logger:   logger,
		model:    model,
		fields:   model.Fields(),
		snapshot: model.DefaultSnapshot(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		bar: progress.New(
			progress.WithSolidFill("#4385BE"),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		),
	}
	a.recompute()
	return a
}

// Snapshot returns the current input values.
func (a App) Snapshot() recompute.Snapshot {
	return a.snapshot
}

// Derived returns the values computed from the current snapshot.
func (a App) Derived() recompute.Derived {
	return a.derived
}

// Err returns the error of the last recompute, if any.
func (a App) Err() error {
	return a.err
}

// recompute reruns the graph. On failure the previous results are dropped
// so nothing stale is shown next to the error.
func (a *App) recompute() {
	derived, err := a.run()
	if err != nil {
		a.err = err
		a.derived = recompute.Derived{}
		a.report = present.Report{}
		return
	}
	a.err = nil
	a.derived = derived
	a.report = present.Build(a.model, derived)
}

func (a *App) run() (recompute.Derived, error) {
	if err := a.model.Validate(a.snapshot); err != nil {
		return recompute.Derived{}, err
	}
	return recompute.Run(a.logger, a.model, a.snapshot)
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
		case key.Matches(msg, a.keys.Up):
			if a.cursor > 0 {
				a.cursor--
			}
		case key.Matches(msg, a.keys.Down):
			if a.cursor < len(a.fields)-1 {
				a.cursor++
			}
		case key.Matches(msg, a.keys.Dec):
			a.nudge(-1)
		case key.Matches(msg, a.keys.Inc):
			a.nudge(1)
		case key.Matches(msg, a.keys.DecFast):
			a.nudge(-10)
		case key.Matches(msg, a.keys.IncFast):
			a.nudge(10)
		case key.Matches(msg, a.keys.Reset):
			if f, ok := a.current(); ok {
				a.set(f, f.Default)
			}
		case key.Matches(msg, a.keys.ResetAll):
			a.snapshot = a.model.DefaultSnapshot()
			a.recompute()
		}
	}
	return a, nil
}

func (a App) current() (recompute.Field, bool) {
	if a.cursor < 0 || a.cursor >= len(a.fields) {
		return recompute.Field{}, false
	}
	return a.fields[a.cursor], true
}

// nudge moves the selected value by steps, staying within its bounds.
func (a *App) nudge(steps int64) {
	f, ok := a.current()
	if !ok {
		return
	}
	step := f.Bounds.Step
	if !step.IsPositive() {
		step = decimal.NewFromInt(1)
	}
	v, _ := a.model.Value(a.snapshot, f)
	next := f.Bounds.Clamp(v.Add(step.Mul(decimal.NewFromInt(steps))))
	if !next.Equal(v) {
		a.set(f, next)
	}
}

func (a *App) set(f recompute.Field, v decimal.Decimal) {
	a.snapshot = a.snapshot.With(f, v)
	a.logger.Debug("input changed",
		zap.String("op", "tui.set"),
		zap.String("field", f.Key()),
		zap.String("value", v.String()),
	)
	a.recompute()
}

// View implements tea.Model.
func (a App) View() string {
	left := a.viewInputs()
	right := a.viewResults()

	body := lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left), panelStyle.Render(right))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Dog Shelter Proposal"))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a App) viewInputs() string {
	var b strings.Builder
	section := ""
	for i, f := range a.fields {
		if title := sectionTitles[f.Section]; title != section {
			section = title
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(headerStyle.Render(section))
			b.WriteString("\n")
		}

		v, _ := a.model.Value(a.snapshot, f)
		label := fmt.Sprintf("%-*s", labelWidth, truncate(f.Label, labelWidth))
		if i == a.cursor {
			label = cursorStyle.Render("> " + label)
		} else {
			label = "  " + mutedStyle.Render(label)
		}

		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(a.bar.ViewAs(fraction(f, v)))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(a.display(f, v)))
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) viewResults() string {
	var b strings.Builder

	if a.err != nil {
		b.WriteString(errorStyle.Render(a.err.Error()))
		b.WriteString("\n\n")
	}

	r := a.report
	write := func(title string, metrics []present.Metric) {
		b.WriteString(headerStyle.Render(title))
		b.WriteString("\n")
		for _, m := range metrics {
			fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render(m.Label+":"), valueStyle.Render(m.Value))
		}
		b.WriteString("\n")
	}

	var budget []present.Metric
	for _, row := range r.Budget.Rows {
		budget = append(budget, present.Metric{Label: row[0], Value: row[1]})
	}
	write("Budget Allocation", budget)
	write("Cost Analysis", []present.Metric{r.CostPerUnit, r.DonationUnits, r.SliderUnits})
	write("Revenue", r.RevenueSummary)

	for _, w := range r.Warnings {
		b.WriteString(warnStyle.Render("! " + w))
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) display(f recompute.Field, v decimal.Decimal) string {
	switch f.Section {
	case recompute.SectionBudget, recompute.SectionDonation, recompute.SectionDonationSlider:
		return format.Currency(symbolOr(a.model.BudgetCurrency, format.USD), v)
	case recompute.SectionPrice:
		return format.Currency(symbolOr(a.model.RevenueCurrency, format.EUR), v)
	case recompute.SectionAllocation:
		return format.Percent(v)
	}
	for _, s := range a.model.Streams {
		if s.Name == f.Name && s.Flat {
			return format.Currency(symbolOr(a.model.RevenueCurrency, format.EUR), v)
		}
	}
	return format.Count(v)
}

func fraction(f recompute.Field, v decimal.Decimal) float64 {
	if f.Bounds.Max == nil {
		return 0
	}
	span := f.Bounds.Max.Sub(f.Bounds.Min)
	if !span.IsPositive() {
		return 0
	}
	pct := v.Sub(f.Bounds.Min).Div(span).InexactFloat64()
	return min(max(pct, 0), 1)
}

func symbolOr(symbol, fallback string) string {
	if symbol == "" {
		return fallback
	}
	return symbol
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
