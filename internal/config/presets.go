package config

import (
	"fmt"
	"sort"
)

const (
	MusicGentle   = "gentle"
	MusicModerate = "moderate"
	MusicIntense  = "intense"
	MusicCustom   = "custom"
)

// MusicLevels maps music presets to audio sensitivity.
var MusicLevels = map[string]float64{
	MusicGentle:   0.5,
	MusicModerate: 1.0,
	MusicIntense:  2.2,
}

func musicLevel(name string) (float64, bool) {
	if name == MusicCustom {
		return 0, true
	}
	v, ok := MusicLevels[name]
	return v, ok
}

// Presets are named starting scenes, grouped by fractal mode.
var Presets = map[string]map[string]*Config{
	"mandelbrot": {
		"classic": {
			Mode: "mandelbrot", Iterations: 200, ColorMode: 0,
		},
		"seahorse_dive": {
			Mode: "mandelbrot", Iterations: 400, ColorMode: 1, Animation: "mandelbrot_dive",
		},
	},
	"julia": {
		"dendrite": {
			Mode: "julia", Iterations: 150, ColorMode: 2, JuliaX: 0, JuliaY: 1,
		},
		"rabbit": {
			Mode: "julia", Iterations: 150, ColorMode: 1, JuliaX: -0.123, JuliaY: 0.745,
		},
		"morph": {
			Mode: "julia", Iterations: 120, ColorMode: 4, Animation: "julia_morph", MorphSpeed: 0.2,
		},
	},
	"mandelbulb": {
		"organic": {
			Mode: "mandelbulb", Power: 8, ColorMode: 1, MorphSpeed: 0.1,
		},
		"spiky": {
			Mode: "mandelbulb", Power: 12, ColorMode: 4, MorphSpeed: 0.3,
		},
	},
	"menger_sponge": {
		"stone": {
			Mode: "menger_sponge", ColorMode: 0,
		},
	},
	"sierpinski": {
		"crystal": {
			Mode: "sierpinski", ColorMode: 2,
		},
	},
	"tour": {
		"universe": {
			Mode: "mandelbulb", ColorMode: 1, Animation: "universe_tour",
		},
		"symphony": {
			Mode: "julia", ColorMode: 0, Animation: "color_symphony", Music: true, MusicPreset: MusicIntense,
		},
		"infinity": {
			Mode: "burning_ship", Iterations: 300, ColorMode: 3, Animation: "infinity_zoom",
		},
	},
}

func GetPreset(group, preset string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns the preset names of group in sorted order.
func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Groups() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve layers a "group/name" preset over the defaults. Zero fields in
// the preset keep the default value.
func Resolve(group, preset string) (*Config, error) {
	p := GetPreset(group, preset)
	if p == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownPreset, group, preset)
	}
	cfg := DefaultConfig()
	cfg.Mode = p.Mode
	cfg.ColorMode = p.ColorMode
	cfg.Music = p.Music
	if p.Iterations != 0 {
		cfg.Iterations = p.Iterations
	}
	if p.Power != 0 {
		cfg.Power = p.Power
	}
	if p.JuliaX != 0 || p.JuliaY != 0 {
		cfg.JuliaX, cfg.JuliaY = p.JuliaX, p.JuliaY
	}
	if p.Animation != "" {
		cfg.Animation = p.Animation
	}
	if p.MorphSpeed != 0 {
		cfg.MorphSpeed = p.MorphSpeed
	}
	if p.MusicPreset != "" {
		cfg.MusicPreset = p.MusicPreset
	}
	return cfg, nil
}
