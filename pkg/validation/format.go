// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/shelter-proposal/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateAllocationPolicy checks if the allocation policy is one of the supported policies.
// An empty policy is accepted and means the default.
func ValidateAllocationPolicy(policy string) error {
	switch policy {
	case "", constants.PolicyLenient, constants.PolicyClamp:
		return nil
	}
	return fmt.Errorf("expected allocation policy of %s or %s, got %s",
		constants.PolicyLenient, constants.PolicyClamp, policy)
}
