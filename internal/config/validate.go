package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/shelter-proposal/pkg/allocation"
	"github.com/iwvelando/shelter-proposal/pkg/datetime"
	"github.com/iwvelando/shelter-proposal/pkg/mathutil"
	"github.com/iwvelando/shelter-proposal/pkg/validation"
	"github.com/shopspring/decimal"
)

// Bounds converts the widget declaration to validation bounds.
func (w Widget) Bounds() validation.Bounds {
	b := validation.Bounds{
		Min:  mathutil.FromFloat(w.Min),
		Step: mathutil.FromFloat(w.Step),
	}
	if w.Max != nil {
		max := mathutil.FromFloat(*w.Max)
		b.Max = &max
	}
	return b
}

func (w Widget) check(field string) error {
	if w.Step < 0 {
		return fmt.Errorf("%s: step must not be negative", field)
	}
	if w.Max != nil && *w.Max < w.Min {
		return fmt.Errorf("%s: max %v is below min %v", field, *w.Max, w.Min)
	}
	return nil
}

// Validate reports structural problems that make the configuration unusable.
func (c *Configuration) Validate() error {
	var errs []error

	if err := validation.ValidateAllocationPolicy(c.AllocationPolicy); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, c.Budget.GroupConfig.check("budget")...)
	if c.Budget.Population <= 0 {
		errs = append(errs, fmt.Errorf("budget: population must be positive"))
	}
	errs = append(errs, c.Allocation.check("allocation")...)

	if err := c.Donation.Input.check("donation.input"); err != nil {
		errs = append(errs, err)
	}
	if err := c.Donation.Slider.check("donation.slider"); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]struct{})
	for i, s := range c.Revenue.Streams {
		field := fmt.Sprintf("revenue.streams[%d]", i)
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Errorf("%s: name must not be empty", field))
			continue
		}
		if _, dup := seen[s.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate stream %q", field, s.Name))
		}
		seen[s.Name] = struct{}{}
		if !s.Flat && s.Price == nil {
			errs = append(errs, fmt.Errorf("revenue %s: price widget is required unless the stream is flat", s.Name))
		}
		if s.Price != nil {
			if err := s.Price.check("revenue " + s.Name + " price"); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.Units.check("revenue " + s.Name + " units"); err != nil {
			errs = append(errs, err)
		}
	}

	for i, task := range c.Timeline {
		if strings.TrimSpace(task.Task) == "" {
			errs = append(errs, fmt.Errorf("timeline[%d]: task name must not be empty", i))
		}
		if _, _, err := datetime.ParseRange(task.Start, task.Finish); err != nil {
			errs = append(errs, fmt.Errorf("timeline %q: %w", task.Task, err))
		}
	}

	return errors.Join(errs...)
}

func (g GroupConfig) check(field string) []error {
	var errs []error
	if g.Total <= 0 {
		errs = append(errs, fmt.Errorf("%s: total must be positive", field))
	}
	if g.Floor < 0 || g.Floor > g.Total {
		errs = append(errs, fmt.Errorf("%s: floor %v must be within [0, %v]", field, g.Floor, g.Total))
	}
	if strings.TrimSpace(g.Remainder) == "" {
		errs = append(errs, fmt.Errorf("%s: remainder category must be named", field))
	}
	seen := map[string]struct{}{g.Remainder: {}}
	for i, cat := range g.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.categories[%d]: name must not be empty", field, i))
			continue
		}
		if _, dup := seen[cat.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate category %q", field, cat.Name))
		}
		seen[cat.Name] = struct{}{}
		if err := cat.Widget.check(field + "." + cat.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// ValidateConfiguration performs general validation of the defaults and returns warnings.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	warnDefault := func(field string, w Widget, value float64) {
		if err := validation.ValidateRange(field, mathutil.FromFloat(value), w.Bounds()); err != nil {
			warnings = append(warnings, "default "+err.Error())
		}
	}

	for _, g := range []struct {
		field string
		group GroupConfig
	}{{"budget", c.Budget.GroupConfig}, {"allocation", c.Allocation}} {
		requests := make([]allocation.Request, 0, len(g.group.Categories))
		for _, cat := range g.group.Categories {
			warnDefault(g.field+"."+cat.Name, cat.Widget, cat.Widget.DefaultValue())
			requests = append(requests, allocation.Request{
				Name:  cat.Name,
				Value: mathutil.FromFloat(cat.Widget.DefaultValue()),
			})
		}
		res, err := allocation.Allocate(allocation.Spec{
			Name:      g.field,
			Total:     mathutil.FromFloat(g.group.Total),
			Floor:     mathutil.FromFloat(g.group.Floor),
			Remainder: g.group.Remainder,
		}, requests)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("default %s allocation: %v", g.field, err))
			continue
		}
		warnings = append(warnings, res.Warnings...)
	}

	warnDefault("donation", c.Donation.Input, c.Donation.Input.DefaultValue())
	sliderDefault := c.Donation.Input.DefaultValue()
	if c.Donation.Slider.Default != nil {
		sliderDefault = *c.Donation.Slider.Default
	}
	warnDefault("donationSlider", c.Donation.Slider, sliderDefault)

	for _, s := range c.Revenue.Streams {
		if s.Price != nil {
			if s.Flat {
				warnings = append(warnings, fmt.Sprintf("revenue %s: price is ignored for a flat stream", s.Name))
			} else {
				warnDefault("revenue."+s.Name+".price", *s.Price, s.Price.DefaultValue())
			}
		}
		warnDefault("revenue."+s.Name+".units", s.Units, s.Units.DefaultValue())
	}

	for i, task := range c.Timeline {
		start, finish, err := datetime.ParseRange(task.Start, task.Finish)
		if err != nil {
			continue
		}
		if finish.Before(start) {
			warnings = append(warnings, fmt.Sprintf("timeline %q finishes (%s) before it starts (%s)", task.Task, task.Finish, task.Start))
		}
		if i > 0 {
			if before, err := datetime.DateBeforeDate(task.Start, c.Timeline[i-1].Start); err == nil && before {
				warnings = append(warnings, fmt.Sprintf("timeline %q starts before the preceding phase %q", task.Task, c.Timeline[i-1].Task))
			}
		}
	}

	return warnings
}

// PopulationDecimal returns the budget population as an exact decimal.
func (b BudgetConfig) PopulationDecimal() decimal.Decimal {
	return mathutil.FromFloat(b.Population)
}
