package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fractalvis/internal/audio"
	"github.com/san-kum/fractalvis/internal/fractal"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FractalMode() != fractal.Julia {
		t.Errorf("expected julia, got %s", cfg.FractalMode())
	}
	if cfg.Iterations != 100 {
		t.Errorf("expected 100 iterations, got %d", cfg.Iterations)
	}
	if cfg.Source() != audio.System {
		t.Errorf("expected system audio, got %s", cfg.Source())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fractalvis.yaml")
	cfg := DefaultConfig()
	cfg.Mode = "mandelbulb"
	cfg.Power = 6
	cfg.Interactive = true
	cfg.MusicPreset = MusicIntense

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("mode: tricorn\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Mode != "tricorn" || got.Iterations != DefaultIterations || got.Width != DefaultWidth {
		t.Errorf("unexpected merge: %+v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FRACTALVIS_MODE", "burning_ship")
	t.Setenv("FRACTALVIS_ITERATIONS", "250")
	t.Setenv("FRACTALVIS_INTERACTIVE", "true")
	t.Setenv("FRACTALVIS_PINCH_SENSITIVITY", "1.5")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.FractalMode() != fractal.BurningShip {
		t.Errorf("expected burning_ship, got %s", cfg.Mode)
	}
	if cfg.Iterations != 250 || !cfg.Interactive || cfg.PinchSensitivity != 1.5 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Power != DefaultPower {
		t.Errorf("unset variable changed power to %v", cfg.Power)
	}
}

func TestApplyEnvBadValue(t *testing.T) {
	t.Setenv("FRACTALVIS_ITERATIONS", "lots")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"bad mode", func(c *Config) { c.Mode = "koch" }, ErrInvalid},
		{"few iterations", func(c *Config) { c.Iterations = 5 }, ErrInvalid},
		{"iteration ceiling", func(c *Config) { c.Iterations = 1001 }, ErrInvalid},
		{"palette", func(c *Config) { c.ColorMode = 5 }, ErrInvalid},
		{"animation", func(c *Config) { c.Animation = "spin" }, ErrUnknownAnimate},
		{"music", func(c *Config) { c.MusicPreset = "loud" }, ErrUnknownMusic},
		{"audio source", func(c *Config) { c.AudioSource = "line-in" }, ErrInvalid},
		{"negative sensitivity", func(c *Config) { c.AttractionSensitivity = -1 }, ErrInvalid},
		{"ratio", func(c *Config) { c.DetectionRatio = 0 }, ErrInvalid},
		{"size", func(c *Config) { c.Width = 0 }, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMusicPresets(t *testing.T) {
	tests := []struct {
		preset string
		want   float64
	}{
		{MusicGentle, 0.5},
		{MusicModerate, 1.0},
		{MusicIntense, 2.2},
		{MusicCustom, 1.7},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.AudioSensitivity = 1.7
		cfg.MusicPreset = tt.preset
		if got := cfg.EffectiveAudioSensitivity(); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.preset, tt.want, got)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("julia", "rabbit")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.JuliaX != -0.123 {
		t.Errorf("expected julia x -0.123, got %f", cfg.JuliaX)
	}
	if GetPreset("julia", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "rabbit") != nil {
		t.Error("expected nil for nonexistent group")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets("julia")
	if len(names) != 3 || names[0] != "dendrite" {
		t.Errorf("unexpected julia presets %v", names)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent group")
	}
}

func TestEveryPresetResolvesValid(t *testing.T) {
	for _, group := range Groups() {
		for _, name := range ListPresets(group) {
			cfg, err := Resolve(group, name)
			if err != nil {
				t.Fatalf("%s/%s: %v", group, name, err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", group, name, err)
			}
		}
	}
	if _, err := Resolve("julia", "nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestMergeOverlaysPreset(t *testing.T) {
	cfg, err := Resolve("tour", "infinity")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("color_mode: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Merge(path); err != nil {
		t.Fatal(err)
	}
	if cfg.ColorMode != 1 {
		t.Errorf("expected file color_mode 1, got %d", cfg.ColorMode)
	}
	if cfg.Animation != "infinity_zoom" || cfg.Iterations != 300 {
		t.Errorf("preset fields lost: %s %d", cfg.Animation, cfg.Iterations)
	}
}
