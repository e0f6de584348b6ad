package config

import (
	"os"
	"path/filepath"

	"github.com/tungetti/starter/internal/constants"
	"github.com/tungetti/starter/internal/logging"
)

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogConf:         "",
		LogFile:         "",
		LogMaxBytes:     constants.DefaultLogMaxBytes,
		LogBackups:      constants.DefaultLogBackups,
		ConsoleFormat:   string(logging.FormatText),
		FilePattern:     constants.DefaultFilePattern,
		NoColor:         false,
		RotateOnStartup: true,
		ConfigDir:       defaultConfigDir(),
		LogDir:          defaultLogDir(),
	}
}

// defaultConfigDir returns the XDG config directory for starter.
// Falls back to ~/.config/starter if XDG_CONFIG_HOME is not set.
func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", constants.AppName)
	}
	return filepath.Join(home, ".config", constants.AppName)
}

// defaultLogDir returns the log directory below the XDG state directory.
// Falls back to ~/.local/state/starter/log if XDG_STATE_HOME is not set.
func defaultLogDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName, constants.LogDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "state", constants.AppName, constants.LogDirName)
	}
	return filepath.Join(home, ".local", "state", constants.AppName, constants.LogDirName)
}

// GetConfigDir returns the configuration directory, respecting XDG.
func GetConfigDir() string {
	return defaultConfigDir()
}

// GetLogDir returns the log directory, respecting XDG.
func GetLogDir() string {
	return defaultLogDir()
}
