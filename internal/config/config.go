package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/code-landscape/internal/insight"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels: LANDSCAPE_SERVER__PORT sets server.port.
const EnvPrefix = "LANDSCAPE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (LANDSCAPE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validResolutions = map[Resolution]bool{
	ResolutionSmall:  true,
	ResolutionMedium: true,
	ResolutionLarge:  true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.FrameRate < 0 || c.Server.FrameRate > 120 {
		return fmt.Errorf("server.frame_rate must be between 0 and 120")
	}
	if c.Server.SearchDebounceMS < 0 {
		return fmt.Errorf("server.search_debounce_ms must be non-negative")
	}

	if c.Viewer.Resolution != "" && !validResolutions[c.Viewer.Resolution] {
		return fmt.Errorf("invalid viewer.resolution %q: must be one of small, medium, large", c.Viewer.Resolution)
	}
	if c.Viewer.Width < 0 || c.Viewer.Height < 0 {
		return fmt.Errorf("viewer width and height must be non-negative")
	}
	if c.Viewer.HistoryCapacity < 0 {
		return fmt.Errorf("viewer.history_capacity must be non-negative")
	}

	if c.Insight.DependencyDepth < 0 || c.Insight.ImpactDepth < 0 || c.Insight.PathDepth < 0 {
		return fmt.Errorf("insight depths must be non-negative")
	}

	if c.Analyzer.TimeoutSeconds < 0 {
		return fmt.Errorf("analyzer.timeout_seconds must be non-negative")
	}
	if c.Render.MaxTicks < 0 {
		return fmt.Errorf("render.max_ticks must be non-negative")
	}

	return nil
}

// CanvasSize returns the configured canvas size, resolving the preset
// unless both width and height are set explicitly.
func (c *Config) CanvasSize() Size {
	if c.Viewer.Width > 0 && c.Viewer.Height > 0 {
		return Size{Width: c.Viewer.Width, Height: c.Viewer.Height}
	}
	return GetPreset(c.Viewer.Resolution)
}

// Depths returns the traversal bounds. Zero values fall back to the
// engine defaults.
func (c *Config) Depths() insight.Depths {
	return insight.Depths{
		Dependencies: c.Insight.DependencyDepth,
		Impact:       c.Insight.ImpactDepth,
		Path:         c.Insight.PathDepth,
	}
}

// FrameInterval is the tick period of the session loop.
func (c *Config) FrameInterval() time.Duration {
	if c.Server.FrameRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.Server.FrameRate)
}

func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.Server.SearchDebounceMS) * time.Millisecond
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

func (c *Config) AnalyzerTimeout() time.Duration {
	return time.Duration(c.Analyzer.TimeoutSeconds) * time.Second
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
