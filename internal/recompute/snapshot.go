package recompute

import (
	"github.com/shopspring/decimal"
)

// Snapshot is the current value of every input. Budget and Allocation hold the
// requested values of the non-remainder categories. A nil DonationSlider follows Donation.
type Snapshot struct {
	Budget         map[string]decimal.Decimal `json:"budget,omitempty" yaml:"budget,omitempty"`
	Donation       decimal.Decimal            `json:"donation" yaml:"donation"`
	DonationSlider *decimal.Decimal           `json:"donationSlider,omitempty" yaml:"donationSlider,omitempty"`
	Prices         map[string]decimal.Decimal `json:"prices,omitempty" yaml:"prices,omitempty"`
	Units          map[string]decimal.Decimal `json:"units,omitempty" yaml:"units,omitempty"`
	Allocation     map[string]decimal.Decimal `json:"allocation,omitempty" yaml:"allocation,omitempty"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Budget:     cloneValues(s.Budget),
		Donation:   s.Donation,
		Prices:     cloneValues(s.Prices),
		Units:      cloneValues(s.Units),
		Allocation: cloneValues(s.Allocation),
	}
	if s.DonationSlider != nil {
		v := *s.DonationSlider
		out.DonationSlider = &v
	}
	return out
}

// SliderDonation returns the slider value, which follows Donation when unset.
func (s Snapshot) SliderDonation() decimal.Decimal {
	if s.DonationSlider != nil {
		return *s.DonationSlider
	}
	return s.Donation
}

// Get returns the value of f.
func (s Snapshot) Get(f Field) (decimal.Decimal, bool) {
	switch f.Section {
	case SectionDonation:
		return s.Donation, true
	case SectionDonationSlider:
		return s.SliderDonation(), true
	}
	values := s.section(f.Section)
	v, ok := values[f.Name]
	return v, ok
}

// With returns a copy of s with f set to v. s is left untouched.
func (s Snapshot) With(f Field, v decimal.Decimal) Snapshot {
	out := s.Clone()
	switch f.Section {
	case SectionDonation:
		out.Donation = v
	case SectionDonationSlider:
		out.DonationSlider = &v
	default:
		values := out.section(f.Section)
		if values != nil {
			values[f.Name] = v
		}
	}
	return out
}

func (s Snapshot) section(sec Section) map[string]decimal.Decimal {
	switch sec {
	case SectionBudget:
		return s.Budget
	case SectionPrice:
		return s.Prices
	case SectionUnits:
		return s.Units
	case SectionAllocation:
		return s.Allocation
	}
	return nil
}

func cloneValues(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
