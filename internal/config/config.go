package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/olivier-w/specviz/internal/spectrum"
	"github.com/spf13/viper"
)

// Backend names the display front end.
type Backend string

const (
	BackendTerminal Backend = "terminal"
	BackendWindow   Backend = "window"
	BackendHeadless Backend = "headless"
)

// EnvPrefix prefixes environment overrides, e.g. SPECVIZ_SMOOTHING_ALPHA.
const EnvPrefix = "SPECVIZ"

// Config holds all runtime options.
type Config struct {
	Analysis    AnalysisConfig  `mapstructure:"analysis"`
	Smoothing   SmoothingConfig `mapstructure:"smoothing"`
	Display     DisplayConfig   `mapstructure:"display"`
	Log         LogConfig       `mapstructure:"log"`
	PresetsFile string          `mapstructure:"presets_file"`
}

// AnalysisConfig controls frame computation.
type AnalysisConfig struct {
	ChunkSize int `mapstructure:"chunk_size"`
	Workers   int `mapstructure:"workers"` // 0 = GOMAXPROCS
}

// HopSize is fixed at a quarter chunk.
func (a AnalysisConfig) HopSize() int {
	return spectrum.HopSize(a.ChunkSize)
}

// SmoothingConfig controls the temporal smoother.
type SmoothingConfig struct {
	Alpha float64 `mapstructure:"alpha"`
}

// DisplayConfig controls the render loop and scene geometry.
type DisplayConfig struct {
	Backend        Backend `mapstructure:"backend"`
	FPS            int     `mapstructure:"fps"`
	Width          int     `mapstructure:"width"`
	Height         int     `mapstructure:"height"`
	BarHeight      int     `mapstructure:"bar_height"`
	BarWidth       int     `mapstructure:"bar_width"`
	BarStride      int     `mapstructure:"bar_stride"`
	Baseline       int     `mapstructure:"baseline"`
	ProgressY      int     `mapstructure:"progress_y"`
	ProgressHeight int     `mapstructure:"progress_height"`
	Background     string  `mapstructure:"background"`
	BarColor       string  `mapstructure:"bar_color"`
	ProgressColor  string  `mapstructure:"progress_color"`
	TextColor      string  `mapstructure:"text_color"`
}

// LogConfig controls logging. An empty File disables logging.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("analysis.chunk_size", spectrum.DefaultChunkSize)
	v.SetDefault("analysis.workers", 0)
	v.SetDefault("smoothing.alpha", spectrum.DefaultAlpha)

	v.SetDefault("display.backend", string(BackendTerminal))
	v.SetDefault("display.fps", 60)
	v.SetDefault("display.width", 800)
	v.SetDefault("display.height", 450)
	v.SetDefault("display.bar_height", 300)
	v.SetDefault("display.bar_width", 6)
	v.SetDefault("display.bar_stride", 8)
	v.SetDefault("display.baseline", 400)
	v.SetDefault("display.progress_y", 430)
	v.SetDefault("display.progress_height", 10)
	v.SetDefault("display.background", "#000000")
	v.SetDefault("display.bar_color", "#ffffff")
	v.SetDefault("display.progress_color", "#ff0000")
	v.SetDefault("display.text_color", "#ffffff")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("presets_file", "")
}

// NewViper returns a viper instance with defaults and environment
// overrides. configFile, when set, must exist; otherwise the usual
// locations are searched and a missing file is not an error.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName("specviz")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/specviz")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if !spectrum.IsPowerOfTwo(c.Analysis.ChunkSize) || c.Analysis.ChunkSize < 8 {
		return fmt.Errorf("analysis.chunk_size must be a power of two >= 8, got %d", c.Analysis.ChunkSize)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must be >= 0, got %d", c.Analysis.Workers)
	}
	if !(c.Smoothing.Alpha > 0 && c.Smoothing.Alpha <= 1) {
		return fmt.Errorf("smoothing.alpha must be in (0,1], got %v", c.Smoothing.Alpha)
	}

	d := c.Display
	switch d.Backend {
	case BackendTerminal, BackendWindow, BackendHeadless:
	default:
		return fmt.Errorf("display.backend must be terminal, window or headless, got %q", d.Backend)
	}
	if d.FPS <= 0 || d.FPS > 240 {
		return fmt.Errorf("display.fps must be in 1..240, got %d", d.FPS)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", d.Width, d.Height)
	}
	for name, s := range map[string]string{
		"display.background":     d.Background,
		"display.bar_color":      d.BarColor,
		"display.progress_color": d.ProgressColor,
		"display.text_color":     d.TextColor,
	} {
		if _, err := ParseColor(s); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
