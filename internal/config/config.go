// Package config provides application configuration for starter.
// Configuration is loaded from defaults, an optional YAML, TOML or JSON5
// file, and STARTER_* environment variables, in that order. Directories
// follow the XDG Base Directory specification.
//
// This configuration is separate from the log-level file (see package
// logconf): a missing config file is fine, a missing log-level file is not.
package config

import (
	"path/filepath"

	"github.com/tungetti/starter/internal/constants"
)

// Config represents the application configuration.
type Config struct {
	// Logging
	LogConf         string `yaml:"log_conf" toml:"log_conf" json:"log_conf"`
	LogFile         string `yaml:"log_file" toml:"log_file" json:"log_file"`
	LogMaxBytes     int64  `yaml:"log_max_bytes" toml:"log_max_bytes" json:"log_max_bytes" validate:"gte=0"`
	LogBackups      int    `yaml:"log_backups" toml:"log_backups" json:"log_backups" validate:"gte=0,lte=100"`
	ConsoleFormat   string `yaml:"console_format" toml:"console_format" json:"console_format" validate:"oneof=text json logfmt"`
	FilePattern     string `yaml:"file_pattern" toml:"file_pattern" json:"file_pattern" validate:"required,file_pattern"`
	NoColor         bool   `yaml:"no_color" toml:"no_color" json:"no_color"`
	RotateOnStartup bool   `yaml:"rotate_on_startup" toml:"rotate_on_startup" json:"rotate_on_startup"`

	// Directories
	ConfigDir string `yaml:"config_dir" toml:"config_dir" json:"config_dir" validate:"required"`
	LogDir    string `yaml:"log_dir" toml:"log_dir" json:"log_dir" validate:"required"`
}

// ConfigPath returns the path to the default config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.ConfigDir, constants.ConfigFileName)
}

// LogConfPath returns the log-level file path: LogConf if set, otherwise
// log.conf in the config directory.
func (c *Config) LogConfPath() string {
	if c.LogConf != "" {
		return c.LogConf
	}
	return filepath.Join(c.ConfigDir, constants.LogConfFileName)
}

// LogFilePath returns the active log file path: LogFile if set, otherwise
// app.log in the log directory.
func (c *Config) LogFilePath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.LogDir, constants.LogFileName)
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
