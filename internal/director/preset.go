package director

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/san-kum/fractalvis/internal/camera"
	"github.com/san-kum/fractalvis/internal/fractal"
)

var ErrUnknownPreset = errors.New("director: unknown preset")

// Preset is a scripted animation that takes over the view.
type Preset int

const (
	None Preset = iota
	MandelbrotDive
	JuliaMorph
	UniverseTour
	GeometricPatterns
	ColorSymphony
	InfinityZoom
)

var presetNames = [...]string{
	"none",
	"mandelbrot_dive",
	"julia_morph",
	"universe_tour",
	"geometric_patterns",
	"color_symphony",
	"infinity_zoom",
}

func (p Preset) String() string {
	if p < 0 || int(p) >= len(presetNames) {
		return fmt.Sprintf("Preset(%d)", int(p))
	}
	return presetNames[p]
}

func ParsePreset(s string) (Preset, error) {
	if s == "" {
		return None, nil
	}
	for i, name := range presetNames {
		if name == s {
			return Preset(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}

func Presets() []Preset {
	out := make([]Preset, len(presetNames))
	for i := range out {
		out[i] = Preset(i)
	}
	return out
}

const (
	// DiveRate is the per-second zoom growth of the Mandelbrot dive.
	DiveRate = 1.8
	// DiveCeiling restarts the dive before shader precision runs out.
	DiveCeiling = camera.MaxZoom / 10

	morphRadius   = 0.7885
	tourDwell     = 5.0
	patternDwell  = 6.0
	orbitSweep    = 0.6
	orbitPeriod   = 3.0
	paletteSweep  = 8.0
	infinityCycle = 20.0
)

// DivePoint is the seahorse-valley target of the Mandelbrot dive.
var DivePoint = mgl64.Vec2{-0.74364388703, 0.13182590421}

var patternModes = [...]fractal.Mode{fractal.Mandelbulb, fractal.MengerSponge, fractal.Sierpinski}

// Keyframe is what a preset wants at one instant. Fields without their Set
// flag leave the director's own value alone.
type Keyframe struct {
	Mode float64

	Zoom    float64
	SetZoom bool

	Pan    mgl64.Vec2
	SetPan bool

	JuliaC   mgl64.Vec2
	SetJulia bool

	Palette    float64
	SetPalette bool
}

// animation plays one preset. The tweened presets loop forever.
type animation struct {
	preset Preset
	phase  float64
	orbit  *gween.Sequence
	colors *gween.Sequence
	depth  *gween.Sequence
}

func looping(t *gween.Tween) *gween.Sequence {
	seq := gween.NewSequence(t)
	seq.SetYoyo(true)
	seq.SetLoop(-1)
	return seq
}

func newAnimation(p Preset) *animation {
	a := &animation{preset: p}
	switch p {
	case GeometricPatterns:
		a.orbit = looping(gween.New(-orbitSweep, orbitSweep, orbitPeriod, ease.InOutSine))
	case ColorSymphony:
		a.colors = looping(gween.New(0, fractal.NumPalettes-0.001, paletteSweep, ease.InOutSine))
	case InfinityZoom:
		a.depth = looping(gween.New(0, float32(math.Log(DiveCeiling)), infinityCycle/2, ease.InOutQuad))
	}
	return a
}

// Phase is the time spent in the current preset, reset when the dive loops.
func (a *animation) Phase() float64 { return a.phase }

// step advances the preset by dt. base is the configured mode, kept by the
// presets that only animate color or depth.
func (a *animation) step(dt float64, base fractal.Mode) Keyframe {
	a.phase += dt
	k := Keyframe{Mode: float64(base)}
	step := float32(dt)

	switch a.preset {
	case MandelbrotDive:
		zoom := math.Pow(DiveRate, a.phase)
		if zoom >= DiveCeiling {
			a.phase = 0
			zoom = 1
		}
		k.Mode = float64(fractal.Mandelbrot)
		k.Zoom, k.SetZoom = zoom, true
		k.Pan, k.SetPan = DivePoint, true
	case JuliaMorph:
		k.Mode = float64(fractal.Julia)
		k.JuliaC = mgl64.Vec2{
			math.Cos(a.phase*0.5) * morphRadius,
			math.Sin(a.phase*0.3) * morphRadius,
		}
		k.SetJulia = true
	case UniverseTour:
		k.Mode = float64(int(math.Floor(a.phase/tourDwell)) % fractal.NumModes)
	case GeometricPatterns:
		i := int(math.Floor(a.phase/patternDwell)) % len(patternModes)
		k.Mode = float64(patternModes[i])
		x, _, _ := a.orbit.Update(step)
		k.Pan, k.SetPan = mgl64.Vec2{float64(x), 0}, true
	case ColorSymphony:
		v, _, _ := a.colors.Update(step)
		k.Palette, k.SetPalette = float64(v), true
	case InfinityZoom:
		v, _, _ := a.depth.Update(step)
		k.Zoom, k.SetZoom = math.Exp(float64(v)), true
	}
	return k
}
