package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/auracheck-mcp/internal/contrast"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvLogLevel, EnvLevel, EnvLargeText, EnvFormats, EnvPreviewWidth, EnvMaxColors, EnvMaxRenderDim} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() invalid: %v", err)
	}
	if cfg.WCAGLevel() != contrast.LevelAA {
		t.Errorf("default level = %s, want AA", cfg.WCAGLevel())
	}
	if cfg.LargeText {
		t.Error("large text should default to false")
	}
	if strings.Join(cfg.Formats, ",") != "png,jpeg" {
		t.Errorf("default formats = %v", cfg.Formats)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PreviewWidth != 800 {
		t.Errorf("PreviewWidth = %d, want 800", cfg.PreviewWidth)
	}
}

func TestLoadFiles(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
	}{
		{"auracheck.toml", "level = \"AAA\"\nlarge_text = true\nformats = [\"png\", \"webp\"]\npreview_width = 640\n"},
		{"auracheck.yaml", "level: AAA\nlarge_text: true\nformats: [png, webp]\npreview_width: 640\n"},
		{"auracheck.json", `{"level":"AAA","large_text":true,"formats":["png","webp"],"preview_width":640}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.name, tt.content))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.WCAGLevel() != contrast.LevelAAA {
				t.Errorf("level = %s, want AAA", cfg.Level)
			}
			if !cfg.LargeText {
				t.Error("large_text not applied")
			}
			if strings.Join(cfg.Formats, ",") != "png,webp" {
				t.Errorf("formats = %v", cfg.Formats)
			}
			if cfg.PreviewWidth != 640 {
				t.Errorf("preview_width = %d, want 640", cfg.PreviewWidth)
			}
			if cfg.LogLevel != "info" {
				t.Errorf("log_level = %q, want default info", cfg.LogLevel)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "cfg.ini", "level=AA")); err == nil {
		t.Error("expected error for unknown extension")
	}
	if _, err := Load(writeFile(t, "cfg.toml", "level = ")); err == nil {
		t.Error("expected error for malformed toml")
	}
	if _, err := Load(writeFile(t, "cfg.yaml", "level: AAAA\n")); err == nil {
		t.Error("expected validation error for bad level")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "cfg.toml", "level = \"AAA\"\nlarge_text = true\n")

	t.Setenv(EnvLevel, "aa")
	t.Setenv(EnvLargeText, "false")
	t.Setenv(EnvFormats, "png, gif")
	t.Setenv(EnvPreviewWidth, "1024")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvMaxColors, "10")
	t.Setenv(EnvMaxRenderDim, "2048")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WCAGLevel() != contrast.LevelAA {
		t.Errorf("level = %s, want AA from env", cfg.Level)
	}
	if cfg.LargeText {
		t.Error("env should switch large text off")
	}
	if strings.Join(cfg.Formats, ",") != "png,gif" {
		t.Errorf("formats = %v", cfg.Formats)
	}
	if cfg.PreviewWidth != 1024 {
		t.Errorf("preview_width = %d", cfg.PreviewWidth)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
	if cfg.MaxColors != 10 {
		t.Errorf("max_colors = %d", cfg.MaxColors)
	}
	if cfg.MaxRenderDim != 2048 {
		t.Errorf("max_render_dim = %d", cfg.MaxRenderDim)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"wcag level", func(c *Config) { c.Level = "A" }},
		{"no formats", func(c *Config) { c.Formats = nil }},
		{"bad format", func(c *Config) { c.Formats = []string{"png", "bmp"} }},
		{"preview width", func(c *Config) { c.PreviewWidth = 0 }},
		{"max colors", func(c *Config) { c.MaxColors = -1 }},
		{"max render dim", func(c *Config) { c.MaxRenderDim = 0 }},
		{"preview wider than max", func(c *Config) { c.PreviewWidth = c.MaxRenderDim + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	cfg := Default()
	cfg.Formats = []string{"JPG"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("jpg alias rejected: %v", err)
	}
}

func TestBadLargeTextEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLargeText, "sometimes")
	if _, err := Load(""); err == nil {
		t.Error("expected error for unparsable large text flag")
	}
}

func TestBadIntEnv(t *testing.T) {
	for _, name := range []string{EnvPreviewWidth, EnvMaxColors, EnvMaxRenderDim} {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(name, "wide")
			_, err := Load("")
			if err == nil {
				t.Fatalf("expected error for unparsable %s", name)
			}
			if !strings.Contains(err.Error(), name) {
				t.Errorf("error %q should name %s", err, name)
			}
		})
	}
}
