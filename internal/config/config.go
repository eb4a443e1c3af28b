package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fractalvis/internal/audio"
	"github.com/san-kum/fractalvis/internal/fractal"
)

const (
	DefaultIterations  = 100
	DefaultPower       = 8.0
	DefaultColorMode   = fractal.PaletteMagma
	DefaultMorphSpeed  = 0.1
	DefaultRatio       = 2
	DefaultWidth       = 1280
	DefaultHeight      = 720
	DefaultSensitivity = 1.0

	MinIterations = 10
	EnvPrefix     = "FRACTALVIS_"
)

var (
	ErrInvalid        = errors.New("config: invalid value")
	ErrUnknownPreset  = errors.New("config: unknown preset")
	ErrUnknownMusic   = errors.New("config: unknown music preset")
	ErrUnknownAnimate = errors.New("config: unknown animation")
)

// Animations lists the accepted values of Config.Animation.
var Animations = []string{
	"none",
	"mandelbrot_dive",
	"julia_morph",
	"universe_tour",
	"geometric_patterns",
	"color_symphony",
	"infinity_zoom",
}

type Config struct {
	Mode       string  `yaml:"mode" env:"MODE"`
	Iterations int     `yaml:"iterations" env:"ITERATIONS"`
	Power      float64 `yaml:"power" env:"POWER"`
	ColorMode  int     `yaml:"color_mode" env:"COLOR_MODE"`
	JuliaX     float64 `yaml:"julia_x" env:"JULIA_X"`
	JuliaY     float64 `yaml:"julia_y" env:"JULIA_Y"`
	Animation  string  `yaml:"animation" env:"ANIMATION"`
	MorphSpeed float64 `yaml:"morph_speed" env:"MORPH_SPEED"`

	Interactive           bool    `yaml:"interactive" env:"INTERACTIVE"`
	AttractionSensitivity float64 `yaml:"attraction_sensitivity" env:"ATTRACTION_SENSITIVITY"`
	PinchSensitivity      float64 `yaml:"pinch_sensitivity" env:"PINCH_SENSITIVITY"`
	DetectionRatio        int     `yaml:"detection_ratio" env:"DETECTION_RATIO"`

	Music            bool    `yaml:"music" env:"MUSIC"`
	MusicPreset      string  `yaml:"music_preset" env:"MUSIC_PRESET"`
	AudioSource      string  `yaml:"audio_source" env:"AUDIO_SOURCE"`
	AudioSensitivity float64 `yaml:"audio_sensitivity" env:"AUDIO_SENSITIVITY"`

	Width  int `yaml:"width" env:"WIDTH"`
	Height int `yaml:"height" env:"HEIGHT"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:                  fractal.Julia.String(),
		Iterations:            DefaultIterations,
		Power:                 DefaultPower,
		ColorMode:             DefaultColorMode,
		JuliaX:                fractal.DefaultJuliaC.X(),
		JuliaY:                fractal.DefaultJuliaC.Y(),
		Animation:             "none",
		MorphSpeed:            DefaultMorphSpeed,
		AttractionSensitivity: DefaultSensitivity,
		PinchSensitivity:      DefaultSensitivity,
		DetectionRatio:        DefaultRatio,
		MusicPreset:           "moderate",
		AudioSource:           audio.System.String(),
		AudioSensitivity:      DefaultSensitivity,
		Width:                 DefaultWidth,
		Height:                DefaultHeight,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Merge(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays the fields set in the yaml file at path onto c.
func (c *Config) Merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays FRACTALVIS_* environment variables onto cfg.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := fractal.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: mode: %w", ErrInvalid, err)
	}
	if c.Iterations < MinIterations || c.Iterations > fractal.MaxIterCeiling {
		return fmt.Errorf("%w: iterations %d outside [%d, %d]", ErrInvalid, c.Iterations, MinIterations, fractal.MaxIterCeiling)
	}
	if !finite(c.Power) || c.Power < 1 {
		return fmt.Errorf("%w: power %v", ErrInvalid, c.Power)
	}
	if c.ColorMode < 0 || c.ColorMode >= fractal.NumPalettes {
		return fmt.Errorf("%w: color_mode %d", ErrInvalid, c.ColorMode)
	}
	if !finite(c.JuliaX) || !finite(c.JuliaY) {
		return fmt.Errorf("%w: julia constant", ErrInvalid)
	}
	if !slices.Contains(Animations, c.Animation) {
		return fmt.Errorf("%w: %q", ErrUnknownAnimate, c.Animation)
	}
	if _, ok := musicLevel(c.MusicPreset); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMusic, c.MusicPreset)
	}
	if _, err := audio.ParseSourceKind(c.AudioSource); err != nil {
		return fmt.Errorf("%w: audio_source: %w", ErrInvalid, err)
	}
	for name, v := range map[string]float64{
		"morph_speed":            c.MorphSpeed,
		"audio_sensitivity":      c.AudioSensitivity,
		"attraction_sensitivity": c.AttractionSensitivity,
		"pinch_sensitivity":      c.PinchSensitivity,
	} {
		if !finite(v) || v < 0 {
			return fmt.Errorf("%w: %s %v", ErrInvalid, name, v)
		}
	}
	if c.DetectionRatio < 1 {
		return fmt.Errorf("%w: detection_ratio %d", ErrInvalid, c.DetectionRatio)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	return nil
}

// FractalMode resolves Mode, falling back to Julia.
func (c *Config) FractalMode() fractal.Mode {
	m, err := fractal.ParseMode(c.Mode)
	if err != nil {
		return fractal.Julia
	}
	return m
}

func (c *Config) Source() audio.SourceKind {
	k, _ := audio.ParseSourceKind(c.AudioSource)
	return k
}

// EffectiveAudioSensitivity applies the music preset. Custom keeps the
// configured AudioSensitivity.
func (c *Config) EffectiveAudioSensitivity() float64 {
	if v, ok := musicLevel(c.MusicPreset); ok && c.MusicPreset != MusicCustom {
		return v
	}
	return c.AudioSensitivity
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
