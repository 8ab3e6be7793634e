// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateMode checks if the transfer mode is one of the supported modes.
func ValidateMode(mode string) error {
	switch mode {
	case constants.ModeConservative, constants.ModeEnhanced, constants.ModeSpecial:
		return nil
	}
	return fmt.Errorf("expected mode of %s, %s or %s, got %s",
		constants.ModeConservative, constants.ModeEnhanced, constants.ModeSpecial, mode)
}

// ValidateGroupPolicy checks if the group policy name is supported.
func ValidateGroupPolicy(policy string) error {
	switch policy {
	case constants.GroupPolicyOpen, constants.GroupPolicySameOM, constants.GroupPolicyHDRestricted:
		return nil
	}
	return fmt.Errorf("expected group policy of %s, %s or %s, got %s",
		constants.GroupPolicyOpen, constants.GroupPolicySameOM, constants.GroupPolicyHDRestricted, policy)
}
