// Package adapters provides adapter implementations between different package interfaces.
package adapters

import (
	"fmt"

	"github.com/iwvelando/shelter-proposal/internal/config"
	"github.com/iwvelando/shelter-proposal/internal/recompute"
	"github.com/iwvelando/shelter-proposal/pkg/allocation"
	"github.com/iwvelando/shelter-proposal/pkg/datetime"
	"github.com/iwvelando/shelter-proposal/pkg/mathutil"
)

// ModelFromConfig converts a validated configuration into the recompute model.
func ModelFromConfig(conf *config.Configuration) (recompute.Model, error) {
	if conf == nil {
		return recompute.Model{}, fmt.Errorf("configuration is nil")
	}

	policy, err := allocation.ParsePolicy(conf.AllocationPolicy)
	if err != nil {
		return recompute.Model{}, err
	}

	model := recompute.Model{
		Budget:           GroupToSpec(conf.Budget.GroupConfig, policy),
		BudgetFields:     CategoryFields(recompute.SectionBudget, conf.Budget.Categories),
		Population:       conf.Budget.PopulationDecimal(),
		Donation:         WidgetField(recompute.SectionDonation, "", "Additional donation", conf.Donation.Input),
		DonationSlider:   WidgetField(recompute.SectionDonationSlider, "", "Donation slider", conf.Donation.Slider),
		SliderFollows:    conf.Donation.Slider.Default == nil,
		Streams:          StreamsFromConfig(conf.Revenue.Streams),
		Allocation:       GroupToSpec(conf.Allocation, policy),
		AllocationFields: CategoryFields(recompute.SectionAllocation, conf.Allocation.Categories),
		BudgetCurrency:   conf.Budget.Currency,
		RevenueCurrency:  conf.Revenue.Currency,
	}
	if model.SliderFollows {
		model.DonationSlider.Default = model.Donation.Default
	}

	for i, task := range conf.Timeline {
		start, finish, err := datetime.ParseRange(task.Start, task.Finish)
		if err != nil {
			return recompute.Model{}, fmt.Errorf("timeline[%d] %s: %w", i, task.Task, err)
		}
		model.Timeline = append(model.Timeline, recompute.Phase{Task: task.Task, Start: start, Finish: finish})
	}

	return model, nil
}

// GroupToSpec converts a group configuration into an allocation spec.
func GroupToSpec(group config.GroupConfig, policy allocation.Policy) allocation.Spec {
	return allocation.Spec{
		Name:      group.Name,
		Total:     mathutil.FromFloat(group.Total),
		Floor:     mathutil.FromFloat(group.Floor),
		Remainder: group.Remainder,
		Policy:    policy,
	}
}

// CategoryFields converts the freely adjustable categories of a group into fields.
func CategoryFields(section recompute.Section, categories []config.CategoryConfig) []recompute.Field {
	if categories == nil {
		return nil
	}

	fields := make([]recompute.Field, 0, len(categories))
	for _, c := range categories {
		fields = append(fields, WidgetField(section, c.Name, c.Name, c.Widget))
	}
	return fields
}

// StreamsFromConfig converts revenue stream configurations. Flat streams
// never carry a price field.
func StreamsFromConfig(streams []config.StreamConfig) []recompute.Stream {
	if streams == nil {
		return nil
	}

	out := make([]recompute.Stream, 0, len(streams))
	for _, s := range streams {
		stream := recompute.Stream{Name: s.Name, Flat: s.Flat}
		if s.Flat {
			stream.Units = WidgetField(recompute.SectionUnits, s.Name, s.Name+" (monthly)", s.Units)
		} else {
			stream.Units = WidgetField(recompute.SectionUnits, s.Name, s.Name+" units", s.Units)
			if s.Price != nil {
				price := WidgetField(recompute.SectionPrice, s.Name, s.Name+" price", *s.Price)
				stream.Price = &price
			}
		}
		out = append(out, stream)
	}
	return out
}

// WidgetField converts a widget declaration into a field.
func WidgetField(section recompute.Section, name, label string, w config.Widget) recompute.Field {
	return recompute.Field{
		Section: section,
		Name:    name,
		Label:   label,
		Bounds:  w.Bounds(),
		Default: mathutil.FromFloat(w.DefaultValue()),
	}
}
