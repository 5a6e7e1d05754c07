package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test renderer defaults
	if cfg.Renderer.Lighting != "full" {
		t.Errorf("expected lighting 'full', got %s", cfg.Renderer.Lighting)
	}
	if cfg.Renderer.ShadowMapSize != 2048 {
		t.Errorf("expected shadow map size 2048, got %d", cfg.Renderer.ShadowMapSize)
	}
	if !cfg.Renderer.ShadowAntiAliasing {
		t.Error("expected shadow anti-aliasing to be true by default")
	}
	if !cfg.Renderer.SmoothShading {
		t.Error("expected smooth shading to be true by default")
	}
	if cfg.Renderer.DefaultPointSize != 1 {
		t.Errorf("expected default point size 1, got %f", cfg.Renderer.DefaultPointSize)
	}
	if cfg.Renderer.DefaultLineWidth != 1 {
		t.Errorf("expected default line width 1, got %f", cfg.Renderer.DefaultLineWidth)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

renderer:
  lighting: "minimum"
  shadow_map_size: 1024
  shadow_anti_aliasing: false
  smooth_shading: false
  default_point_size: 3
  default_line_width: 2
  background_color: [0, 0, 0]

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Renderer.Lighting != "minimum" {
		t.Errorf("expected lighting 'minimum', got %s", cfg.Renderer.Lighting)
	}
	if cfg.Renderer.ShadowMapSize != 1024 {
		t.Errorf("expected shadow map size 1024, got %d", cfg.Renderer.ShadowMapSize)
	}
	if cfg.Renderer.ShadowAntiAliasing {
		t.Error("expected shadow anti-aliasing to be false")
	}
	if cfg.Renderer.SmoothShading {
		t.Error("expected smooth shading to be false")
	}
	if cfg.Renderer.DefaultPointSize != 3 {
		t.Errorf("expected default point size 3, got %f", cfg.Renderer.DefaultPointSize)
	}
	if cfg.Renderer.BackgroundColor != [3]float32{0, 0, 0} {
		t.Errorf("expected black background, got %v", cfg.Renderer.BackgroundColor)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sub", "config.yaml")

	cfg := Default()
	cfg.Window.Width = 640
	cfg.Renderer.Lighting = "none"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Window.Width != 640 {
		t.Errorf("expected width 640 after round trip, got %d", loaded.Window.Width)
	}
	if loaded.Renderer.Lighting != "none" {
		t.Errorf("expected lighting 'none' after round trip, got %s", loaded.Renderer.Lighting)
	}
}
