package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"

	"github.com/tungetti/starter/internal/constants"
	"github.com/tungetti/starter/internal/errors"
)

// FileFormat is the encoding of a config file.
type FileFormat string

const (
	FormatYAML FileFormat = "yaml"
	FormatTOML FileFormat = "toml"
	FormatJSON FileFormat = "json"
)

// FormatOf picks the file format from the extension of path. Unknown
// extensions are read as YAML.
func FormatOf(path string) FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json", ".json5":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Loader handles configuration loading from multiple sources.
// It loads configuration in order: defaults -> file -> environment variables,
// with later sources overriding earlier ones.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
// If configPath is empty, only defaults and environment variables are used.
func NewLoader(configPath string) *Loader {
	return NewLoaderWithPrefix(configPath, constants.EnvPrefix)
}

// NewLoaderWithPrefix creates a new loader with a custom environment variable prefix.
func NewLoaderWithPrefix(configPath, envPrefix string) *Loader {
	return &Loader{
		configPath: configPath,
		envPrefix:  envPrefix,
	}
}

// Load loads configuration from file and environment.
// Returns an error if the file exists but cannot be parsed.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, err
		}
	}

	l.loadFromEnv(cfg)

	return cfg, nil
}

// LoadAndValidate loads configuration and validates it.
func (l *Loader) LoadAndValidate() (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	if err := NewValidator().ValidateOrError(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// A missing config file means defaults.
			return nil
		}
		return errors.Wrap(errors.Configuration, "failed to read config file", err).
			WithOp("config.loadFromFile")
	}

	if err := decode(FormatOf(l.configPath), data, cfg); err != nil {
		return errors.Wrapf(errors.Configuration, err, "failed to parse config file %s", l.configPath).
			WithOp("config.loadFromFile")
	}

	return nil
}

func decode(format FileFormat, data []byte, cfg *Config) error {
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, cfg); err != nil {
			var derr *toml.DecodeError
			if stderrors.As(err, &derr) {
				row, col := derr.Position()
				return errors.Newf(errors.Configuration, "%s (line %d, column %d)", derr.Error(), row, col)
			}
			return err
		}
		return nil
	case FormatJSON:
		return json5.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// loadFromEnv loads config from environment variables.
// Environment variables take precedence over file config. Unparseable
// numbers are ignored.
func (l *Loader) loadFromEnv(cfg *Config) {
	if v := os.Getenv(l.envPrefix + "LOG_CONF"); v != "" {
		cfg.LogConf = v
	}
	if v := os.Getenv(l.envPrefix + "LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(l.envPrefix + "LOG_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.LogMaxBytes = n
		}
	}
	if v := os.Getenv(l.envPrefix + "LOG_BACKUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LogBackups = n
		}
	}
	if v := os.Getenv(l.envPrefix + "CONSOLE_FORMAT"); v != "" {
		cfg.ConsoleFormat = strings.ToLower(v)
	}
	if v := os.Getenv(l.envPrefix + "FILE_PATTERN"); v != "" {
		cfg.FilePattern = v
	}
	if v := os.Getenv(l.envPrefix + "NO_COLOR"); v != "" {
		cfg.NoColor = parseBool(v)
	} else if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}
	if v := os.Getenv(l.envPrefix + "ROTATE_ON_STARTUP"); v != "" {
		cfg.RotateOnStartup = parseBool(v)
	}

	if v := os.Getenv(l.envPrefix + "CONFIG_DIR"); v != "" {
		cfg.ConfigDir = v
	}
	if v := os.Getenv(l.envPrefix + "LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
}

// parseBool parses a string as a boolean value.
// Accepts: true, 1, yes, on (case-insensitive) as true.
// All other values are treated as false.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// SaveConfig writes the configuration to path, encoded by its extension.
// An empty path means the default config file. The directory is created if
// it doesn't exist.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = cfg.ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.Configuration, "failed to create config directory", err).
			WithOp("config.SaveConfig")
	}

	data, err := encode(FormatOf(path), cfg)
	if err != nil {
		return errors.Wrap(errors.Configuration, "failed to marshal config", err).
			WithOp("config.SaveConfig")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.Configuration, "failed to write config file", err).
			WithOp("config.SaveConfig")
	}

	return nil
}

func encode(format FileFormat, cfg *Config) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(cfg)
	case FormatJSON:
		// JSON5 is a superset of JSON; plain JSON reads back through json5.
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return yaml.Marshal(cfg)
	}
}

// LoadDefaultConfig loads configuration from the default location.
func LoadDefaultConfig() (*Config, error) {
	return NewLoader(DefaultConfig().ConfigPath()).Load()
}
