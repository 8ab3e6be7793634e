package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/constants"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
	return path
}

func TestLoadConfigurationMissingDefaultFile(t *testing.T) {
	cfg, err := LoadConfiguration(constants.DefaultConfigFile)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Engine.Mode != constants.ModeConservative {
		t.Errorf("Engine.Mode = %s, expected %s", cfg.Engine.Mode, constants.ModeConservative)
	}
	if cfg.Engine.GroupPolicy != constants.GroupPolicyOpen {
		t.Errorf("Engine.GroupPolicy = %s, expected %s", cfg.Engine.GroupPolicy, constants.GroupPolicyOpen)
	}
	if cfg.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Output.Format = %s, expected %s", cfg.Output.Format, constants.OutputFormatPretty)
	}
}

func TestLoadConfigurationMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfiguration() expected error for missing explicit file, got nil")
	}
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfig(t, `---
engine:
  mode: enhanced
  groupPolicy: same-om
logging:
  level: debug
  format: console
output:
  format: csv
export:
  path: out.xlsx
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Engine.Mode != constants.ModeEnhanced {
		t.Errorf("Engine.Mode = %s, expected %s", cfg.Engine.Mode, constants.ModeEnhanced)
	}
	if cfg.Engine.GroupPolicy != constants.GroupPolicySameOM {
		t.Errorf("Engine.GroupPolicy = %s, expected %s", cfg.Engine.GroupPolicy, constants.GroupPolicySameOM)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, expected debug/console", cfg.Logging)
	}
	if cfg.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %s, expected %s", cfg.Output.Format, constants.OutputFormatCSV)
	}
	if cfg.Export.Path != "out.xlsx" {
		t.Errorf("Export.Path = %s, expected out.xlsx", cfg.Export.Path)
	}
}

func TestLoadConfigurationPartialFileGetsDefaults(t *testing.T) {
	path := writeConfig(t, `---
logging:
  level: warn
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Engine.Mode != constants.ModeConservative {
		t.Errorf("Engine.Mode = %s, expected default %s", cfg.Engine.Mode, constants.ModeConservative)
	}
	if cfg.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Output.Format = %s, expected default %s", cfg.Output.Format, constants.OutputFormatPretty)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %s, expected warn", cfg.Logging.Level)
	}
}

func TestValidateConfiguration(t *testing.T) {
	cfg := Default()
	if errs := cfg.ValidateConfiguration(); len(errs) != 0 {
		t.Errorf("ValidateConfiguration() on defaults = %v, expected none", errs)
	}

	cfg.Engine.Mode = "aggressive"
	cfg.Output.Format = "xml"
	if errs := cfg.ValidateConfiguration(); len(errs) != 2 {
		t.Errorf("ValidateConfiguration() = %v, expected 2 errors", errs)
	}
}
