// Package config handles viewer and renderer configuration loading
// and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// RendererConfig holds rendering settings.
type RendererConfig struct {
	// Lighting selects the shading mode: full, minimum, none or solid.
	Lighting string `yaml:"lighting"`

	ShadowMapSize      int  `yaml:"shadow_map_size"`
	ShadowAntiAliasing bool `yaml:"shadow_anti_aliasing"`

	SmoothShading bool `yaml:"smooth_shading"`

	DefaultPointSize float32 `yaml:"default_point_size"`
	DefaultLineWidth float32 `yaml:"default_line_width"`

	BackgroundColor [3]float32 `yaml:"background_color"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Renderer: RendererConfig{
			Lighting:           "full",
			ShadowMapSize:      2048,
			ShadowAntiAliasing: true,
			SmoothShading:      true,
			DefaultPointSize:   1,
			DefaultLineWidth:   1,
			BackgroundColor:    [3]float32{0.1, 0.1, 0.3},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
