// Package config holds the runtime settings of the checker and loads them
// from defaults, an optional file and the environment, in that order.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/auracheck-mcp/internal/contrast"
	"github.com/ironsheep/auracheck-mcp/internal/imaging"
)

// Environment variables that override file and default settings.
const (
	EnvLogLevel     = "AURACHECK_LOG_LEVEL"
	EnvLevel        = "AURACHECK_LEVEL"
	EnvLargeText    = "AURACHECK_LARGE_TEXT"
	EnvFormats      = "AURACHECK_FORMATS"
	EnvPreviewWidth = "AURACHECK_PREVIEW_WIDTH"
	EnvMaxColors    = "AURACHECK_MAX_COLORS"
	EnvMaxRenderDim = "AURACHECK_MAX_RENDER_DIM"
)

// Config is the full set of runtime settings.
type Config struct {
	// LogLevel is an hclog level name: trace, debug, info, warn, error, off.
	LogLevel string `toml:"log_level" yaml:"log_level" json:"log_level"`

	// Level is the WCAG level selected at startup, "AA" or "AAA".
	Level string `toml:"level" yaml:"level" json:"level"`

	// LargeText applies the relaxed large-text thresholds to every pair.
	LargeText bool `toml:"large_text" yaml:"large_text" json:"large_text"`

	// Formats lists the image formats accepted on load.
	Formats []string `toml:"formats" yaml:"formats" json:"formats"`

	// PreviewWidth is the display width used when a preview request gives none.
	PreviewWidth int `toml:"preview_width" yaml:"preview_width" json:"preview_width"`

	// MaxColors caps the picked color list; 0 means no cap.
	MaxColors int `toml:"max_colors" yaml:"max_colors" json:"max_colors"`

	// MaxRenderDim bounds the width and height of rendered previews and loupes.
	MaxRenderDim int `toml:"max_render_dim" yaml:"max_render_dim" json:"max_render_dim"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:     "info",
		Level:        string(contrast.LevelAA),
		LargeText:    false,
		Formats:      append([]string(nil), imaging.DefaultFormats...),
		PreviewWidth: 800,
		MaxColors:    64,
		MaxRenderDim: imaging.DefaultMaxRenderDim,
	}
}

// Load returns the defaults overlaid with the file at path (if non-empty)
// and then the environment. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.LogLevel = env.Str(EnvLogLevel, c.LogLevel)
	c.Level = env.Str(EnvLevel, c.Level)
	if env.Has(EnvLargeText) {
		large, err := strconv.ParseBool(env.Str(EnvLargeText))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLargeText, err)
		}
		c.LargeText = large
	}
	if formats := env.Str(EnvFormats); formats != "" {
		c.Formats = splitList(formats)
	}
	if err := envInt(EnvPreviewWidth, &c.PreviewWidth); err != nil {
		return err
	}
	if err := envInt(EnvMaxColors, &c.MaxColors); err != nil {
		return err
	}
	if err := envInt(EnvMaxRenderDim, &c.MaxRenderDim); err != nil {
		return err
	}
	return nil
}

// envInt overwrites *dst when name is set. env.Int would fall back to the
// default on garbage, so the value is parsed here to report it instead.
func envInt(name string, dst *int) error {
	if !env.Has(name) {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(env.Str(name)))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	if _, err := contrast.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	if len(c.Formats) == 0 {
		return fmt.Errorf("formats: at least one format is required")
	}
	for _, f := range c.Formats {
		if !isSupportedFormat(f) {
			return fmt.Errorf("formats: unsupported format %q (supported: %s)",
				f, strings.Join(imaging.SupportedFormats, ", "))
		}
	}
	if c.PreviewWidth <= 0 {
		return fmt.Errorf("preview_width: must be positive, got %d", c.PreviewWidth)
	}
	if c.MaxColors < 0 {
		return fmt.Errorf("max_colors: must not be negative, got %d", c.MaxColors)
	}
	if c.MaxRenderDim <= 0 {
		return fmt.Errorf("max_render_dim: must be positive, got %d", c.MaxRenderDim)
	}
	if c.PreviewWidth > c.MaxRenderDim {
		return fmt.Errorf("preview_width: %d exceeds max_render_dim %d", c.PreviewWidth, c.MaxRenderDim)
	}
	return nil
}

func isSupportedFormat(f string) bool {
	f = strings.ToLower(strings.TrimSpace(f))
	if f == "jpg" {
		f = "jpeg"
	}
	for _, s := range imaging.SupportedFormats {
		if s == f {
			return true
		}
	}
	return false
}

// WCAGLevel returns the parsed Level. It assumes Validate has passed.
func (c Config) WCAGLevel() contrast.Level {
	level, err := contrast.ParseLevel(c.Level)
	if err != nil {
		return contrast.LevelAA
	}
	return level
}
