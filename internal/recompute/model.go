// Package recompute holds the reactive recompute graph of the proposal: an
// immutable input snapshot goes in, every derived value comes out.
package recompute

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/shelter-proposal/pkg/allocation"
	"github.com/iwvelando/shelter-proposal/pkg/validation"
	"github.com/shopspring/decimal"
)

// Section identifies which part of a Snapshot a field lives in.
type Section string

const (
	SectionBudget         Section = "budget"
	SectionDonation       Section = "donation"
	SectionDonationSlider Section = "donationSlider"
	SectionPrice          Section = "price"
	SectionUnits          Section = "units"
	SectionAllocation     Section = "allocation"
)

// Field is one adjustable input with its declared range and default.
type Field struct {
	Section Section           `json:"section"`
	Name    string            `json:"name"`
	Label   string            `json:"label"`
	Bounds  validation.Bounds `json:"-"`
	Default decimal.Decimal   `json:"default"`
}

// Key is the field's path, e.g. "budget.Construction" or "price.Adoption Fees".
func (f Field) Key() string {
	if f.Name == "" {
		return string(f.Section)
	}
	return string(f.Section) + "." + f.Name
}

// Stream is a revenue stream definition. Flat streams have no price field.
type Stream struct {
	Name  string
	Flat  bool
	Price *Field
	Units Field
}

// Phase is one timeline task.
type Phase struct {
	Task   string
	Start  time.Time
	Finish time.Time
}

// Model holds everything fixed for a proposal: totals, floors, widget ranges and defaults.
type Model struct {
	Budget           allocation.Spec
	BudgetFields     []Field
	Population       decimal.Decimal
	Donation         Field
	DonationSlider   Field
	SliderFollows    bool
	Streams          []Stream
	Allocation       allocation.Spec
	AllocationFields []Field
	BudgetCurrency   string
	RevenueCurrency  string
	Timeline         []Phase
}

// Fields lists every adjustable input in display order.
func (m Model) Fields() []Field {
	fields := make([]Field, 0, len(m.BudgetFields)+len(m.AllocationFields)+2*len(m.Streams)+2)
	fields = append(fields, m.BudgetFields...)
	fields = append(fields, m.Donation, m.DonationSlider)
	for _, s := range m.Streams {
		if s.Price != nil {
			fields = append(fields, *s.Price)
		}
		fields = append(fields, s.Units)
	}
	fields = append(fields, m.AllocationFields...)
	return fields
}

// DefaultSnapshot returns the snapshot the shell starts from.
func (m Model) DefaultSnapshot() Snapshot {
	s := Snapshot{
		Budget:     make(map[string]decimal.Decimal, len(m.BudgetFields)),
		Prices:     make(map[string]decimal.Decimal, len(m.Streams)),
		Units:      make(map[string]decimal.Decimal, len(m.Streams)),
		Allocation: make(map[string]decimal.Decimal, len(m.AllocationFields)),
		Donation:   m.Donation.Default,
	}
	for _, f := range m.BudgetFields {
		s.Budget[f.Name] = f.Default
	}
	if !m.SliderFollows {
		v := m.DonationSlider.Default
		s.DonationSlider = &v
	}
	for _, st := range m.Streams {
		if st.Price != nil {
			s.Prices[st.Name] = st.Price.Default
		}
		s.Units[st.Name] = st.Units.Default
	}
	for _, f := range m.AllocationFields {
		s.Allocation[f.Name] = f.Default
	}
	return s
}

// Resolve fills values missing from s with defaults and rejects unknown names.
// The returned snapshot shares no maps with s.
func (m Model) Resolve(s Snapshot) (Snapshot, error) {
	var errs []error
	out := s.Clone()
	defaults := m.DefaultSnapshot()

	fill := func(section Section, dst map[string]decimal.Decimal, src map[string]decimal.Decimal) {
		for name := range dst {
			if _, ok := src[name]; !ok {
				errs = append(errs, fmt.Errorf("unknown %s field %q", section, name))
			}
		}
		for name, v := range src {
			if _, ok := dst[name]; !ok {
				dst[name] = v
			}
		}
	}
	fill(SectionBudget, out.Budget, defaults.Budget)
	fill(SectionPrice, out.Prices, defaults.Prices)
	fill(SectionUnits, out.Units, defaults.Units)
	fill(SectionAllocation, out.Allocation, defaults.Allocation)

	if len(errs) > 0 {
		return Snapshot{}, errors.Join(errs...)
	}
	return out, nil
}

// Value returns the value of f in s. A donation slider that follows the
// donation input reports the donation clamped into the slider's own range.
func (m Model) Value(s Snapshot, f Field) (decimal.Decimal, bool) {
	v, ok := s.Get(f)
	if ok && f.Section == SectionDonationSlider && s.DonationSlider == nil {
		v = f.Bounds.Clamp(v)
	}
	return v, ok
}

// SliderDonation is the donation the slider scenario projects.
func (m Model) SliderDonation(s Snapshot) decimal.Decimal {
	v, _ := m.Value(s, m.DonationSlider)
	return v
}

// Validate checks every snapshot value against its declared range. All
// failures are reported together; each is an *validation.InvalidRangeError.
// A following donation slider is derived from the donation input and is not checked.
func (m Model) Validate(s Snapshot) error {
	var errs []error
	for _, f := range m.Fields() {
		if f.Section == SectionDonationSlider && s.DonationSlider == nil {
			continue
		}
		v, ok := s.Get(f)
		if !ok {
			continue
		}
		if err := validation.ValidateRange(f.Key(), v, f.Bounds); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
