package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateRange(t *testing.T) {
	max := decimal.NewFromInt(100000)
	bounds := Bounds{Min: decimal.Zero, Max: &max, Step: decimal.NewFromInt(1000)}

	tests := []struct {
		name       string
		value      int64
		bounds     Bounds
		wantErr    bool
		wantReason string
	}{
		{"Minimum", 0, bounds, false, ""},
		{"Maximum", 100000, bounds, false, ""},
		{"On step", 50000, bounds, false, ""},
		{"Below minimum", -1000, bounds, true, "below minimum"},
		{"Above maximum", 101000, bounds, true, "above maximum"},
		{"Off step", 1500, bounds, true, "not a multiple of step"},
		{"Unbounded maximum", 5000000, Bounds{Min: decimal.Zero, Step: decimal.NewFromInt(1000)}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange("donation", decimal.NewFromInt(tt.value), tt.bounds)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("ValidateRange() unexpected error = %v", err)
				}
				return
			}

			var rangeErr *InvalidRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("ValidateRange() error = %v, expected *InvalidRangeError", err)
			}
			if rangeErr.Field != "donation" {
				t.Errorf("Field = %q, expected donation", rangeErr.Field)
			}
			if !strings.Contains(err.Error(), tt.wantReason) {
				t.Errorf("Error() = %q, expected it to contain %q", err.Error(), tt.wantReason)
			}
		})
	}
}

func TestBoundsClamp(t *testing.T) {
	max := decimal.NewFromInt(100000)
	bounds := Bounds{Min: decimal.Zero, Max: &max, Step: decimal.NewFromInt(1000)}

	tests := []struct {
		name   string
		value  int64
		bounds Bounds
		want   int64
	}{
		{"Within range", 50000, bounds, 50000},
		{"Above maximum", 150000, bounds, 100000},
		{"Below minimum", -500, bounds, 0},
		{"Unbounded maximum", 150000, Bounds{Min: decimal.Zero}, 150000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.bounds.Clamp(decimal.NewFromInt(tt.value))
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("Clamp(%d) = %s, expected %d", tt.value, got, tt.want)
			}
		})
	}
}
