package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultRoundMinutes is the round length used when none is configured.
const DefaultRoundMinutes = 2

// Config holds the application configuration
type Config struct {
	Logs   LogsConfig   `yaml:"logs" toml:"logs"`
	Game   GameConfig   `yaml:"game" toml:"game"`
	Admins AdminsConfig `yaml:"admins" toml:"admins"`
	UI     UIConfig     `yaml:"ui" toml:"ui"`
	Debug  bool         `yaml:"debug" toml:"debug"`
}

// LogsConfig holds chat log discovery settings
type LogsConfig struct {
	Path           string        `yaml:"path" toml:"path"` // empty means auto-detect
	FileMarker     string        `yaml:"file_marker" toml:"file_marker"`
	FileExt        string        `yaml:"file_ext" toml:"file_ext"`
	RescanInterval time.Duration `yaml:"rescan_interval" toml:"rescan_interval"`
}

// GameConfig holds round settings
type GameConfig struct {
	RoundMinutes int `yaml:"round_minutes" toml:"round_minutes"`
}

// AdminsConfig points at the admin allow-list
type AdminsConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// UIConfig holds terminal UI settings
type UIConfig struct {
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// RoundDuration returns the configured round length.
func (c *Config) RoundDuration() time.Duration {
	return time.Duration(c.Game.RoundMinutes) * time.Minute
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file. Paths ending in .toml are read
// as TOML and paths ending in .txt as the legacy KEY=VALUE format. A missing
// file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	case strings.EqualFold(filepath.Ext(path), ".txt"):
		loadLegacy(cfg, string(data))
	case strings.EqualFold(filepath.Ext(path), ".toml"):
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Logs.FileMarker == "" {
		c.Logs.FileMarker = "Chat"
	}
	if c.Logs.FileExt == "" {
		c.Logs.FileExt = ".txt"
	}
	if c.Logs.RescanInterval <= 0 {
		c.Logs.RescanInterval = time.Second
	}
	if c.Game.RoundMinutes <= 0 {
		c.Game.RoundMinutes = DefaultRoundMinutes
	}
	if c.Admins.Path == "" {
		c.Admins.Path = "admins.txt"
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = "giveaway.log"
	}
}

// loadLegacy reads the KEY=VALUE format of config.txt. Unknown keys are ignored.
func loadLegacy(cfg *Config, text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "EVE_LOGS_PATH":
			cfg.Logs.Path = value
		case "GAME_TIMER_MINUTES":
			cfg.Game.RoundMinutes = parseMinutes(value)
		case "DEBUG_MODE":
			cfg.Debug = strings.EqualFold(value, "true")
		}
	}
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("GIVEAWAY_LOGS_PATH"); ok {
		cfg.Logs.Path = v
	}
	if v, ok := os.LookupEnv("GIVEAWAY_ROUND_MINUTES"); ok {
		cfg.Game.RoundMinutes = parseMinutes(v)
	}
	if v, ok := os.LookupEnv("GIVEAWAY_ADMINS_PATH"); ok && v != "" {
		cfg.Admins.Path = v
	}
	if v, ok := os.LookupEnv("GIVEAWAY_DEBUG"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
}

func parseMinutes(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return DefaultRoundMinutes
	}
	return n
}
