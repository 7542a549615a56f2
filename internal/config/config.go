package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultFile is the configuration file read when none is given
const DefaultFile = "blackjack.hcl"

// UI modes
const (
	ModeConsole = "console"
	ModeTUI     = "tui"
)

// Config represents the complete game configuration
type Config struct {
	Session SessionSettings `hcl:"session,block"`
	UI      UISettings      `hcl:"ui,block"`
}

// SessionSettings contains settings for the game itself
type SessionSettings struct {
	Bankroll int    `hcl:"bankroll,optional"`
	Seed     int64  `hcl:"seed,optional"`
	History  string `hcl:"history,optional"` // TOML record written at game over; empty disables
}

// UISettings contains user interface settings
type UISettings struct {
	Mode     string `hcl:"mode,optional"`
	Color    *bool  `hcl:"color,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// fileConfig mirrors Config with optional blocks
type fileConfig struct {
	Session *SessionSettings `hcl:"session,block"`
	UI      *UISettings      `hcl:"ui,block"`
}

// Default returns the default configuration
func Default() *Config {
	color := true
	return &Config{
		Session: SessionSettings{
			Bankroll: 500,
			Seed:     0,
		},
		UI: UISettings{
			Mode:     ModeConsole,
			Color:    &color,
			LogLevel: "info",
			LogFile:  "blackjack.log",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var decoded fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &decoded)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	var config Config
	if decoded.Session != nil {
		config.Session = *decoded.Session
	}
	if decoded.UI != nil {
		config.UI = *decoded.UI
	}

	// Apply defaults for missing values
	defaults := Default()

	if config.Session.Bankroll == 0 {
		config.Session.Bankroll = defaults.Session.Bankroll
	}
	if config.UI.Mode == "" {
		config.UI.Mode = defaults.UI.Mode
	}
	if config.UI.Color == nil {
		config.UI.Color = defaults.UI.Color
	}
	if config.UI.LogLevel == "" {
		config.UI.LogLevel = defaults.UI.LogLevel
	}
	if config.UI.LogFile == "" {
		config.UI.LogFile = defaults.UI.LogFile
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Session.Bankroll < 0 {
		return fmt.Errorf("bankroll cannot be negative")
	}

	validModes := map[string]bool{
		ModeConsole: true,
		ModeTUI:     true,
	}
	if !validModes[c.UI.Mode] {
		return fmt.Errorf("invalid ui mode: %s", c.UI.Mode)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	return nil
}

// ColorEnabled reports whether styled output is wanted
func (c *Config) ColorEnabled() bool {
	return c.UI.Color == nil || *c.UI.Color
}
