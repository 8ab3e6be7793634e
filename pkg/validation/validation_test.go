package validation

import "testing"

func TestValidateOutputFormat(t *testing.T) {
	for _, valid := range []string{"pretty", "csv"} {
		if err := ValidateOutputFormat(valid); err != nil {
			t.Errorf("ValidateOutputFormat(%q) error = %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "json", "xlsx"} {
		if err := ValidateOutputFormat(invalid); err == nil {
			t.Errorf("ValidateOutputFormat(%q) expected error, got nil", invalid)
		}
	}
}

func TestValidateMode(t *testing.T) {
	for _, valid := range []string{"conservative", "enhanced", "special"} {
		if err := ValidateMode(valid); err != nil {
			t.Errorf("ValidateMode(%q) error = %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "Conservative", "aggressive"} {
		if err := ValidateMode(invalid); err == nil {
			t.Errorf("ValidateMode(%q) expected error, got nil", invalid)
		}
	}
}

func TestValidateGroupPolicy(t *testing.T) {
	for _, valid := range []string{"open", "same-om", "hd-restricted"} {
		if err := ValidateGroupPolicy(valid); err != nil {
			t.Errorf("ValidateGroupPolicy(%q) error = %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "closed"} {
		if err := ValidateGroupPolicy(invalid); err == nil {
			t.Errorf("ValidateGroupPolicy(%q) expected error, got nil", invalid)
		}
	}
}
