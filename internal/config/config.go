// Package config defines the data structures related to configuration and
// includes functions for loading and defaulting the config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/constants"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/validation"
)

// Configuration holds all configuration for the transfer suggestion CLI.
type Configuration struct {
	Engine  EngineConfig  `yaml:"engine,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Export  ExportConfig  `yaml:"export,omitempty"`
}

// EngineConfig selects the run behavior of the allocation engine.
type EngineConfig struct {
	Mode        string `yaml:"mode,omitempty"`        // conservative, enhanced, special
	GroupPolicy string `yaml:"groupPolicy,omitempty"` // open, same-om, hd-restricted
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// ExportConfig holds workbook export options.
type ExportConfig struct {
	Path string `yaml:"path,omitempty"` // optional .xlsx output path
}

// Default returns the configuration used when no file is present.
func Default() *Configuration {
	return &Configuration{
		Engine: EngineConfig{
			Mode:        constants.ModeConservative,
			GroupPolicy: constants.GroupPolicyOpen,
		},
		Output: OutputConfig{Format: constants.OutputFormatPretty},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing default config file is not an error;
// defaults apply instead.
func LoadConfiguration(configPath string) (*Configuration, error) {
	if configPath == "" {
		return Default(), nil
	}
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) && configPath == constants.DefaultConfigFile {
		return Default(), nil
	}

	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	configuration := Default()
	if err := viper.Unmarshal(configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.applyDefaults()

	return configuration, nil
}

func (c *Configuration) applyDefaults() {
	if c.Engine.Mode == "" {
		c.Engine.Mode = constants.ModeConservative
	}
	if c.Engine.GroupPolicy == "" {
		c.Engine.GroupPolicy = constants.GroupPolicyOpen
	}
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
}

// ValidateConfiguration checks the enumerated settings and returns all
// problems at once.
func (c *Configuration) ValidateConfiguration() []error {
	var errs []error
	if err := validation.ValidateMode(c.Engine.Mode); err != nil {
		errs = append(errs, err)
	}
	if err := validation.ValidateGroupPolicy(c.Engine.GroupPolicy); err != nil {
		errs = append(errs, err)
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		errs = append(errs, err)
	}
	return errs
}
