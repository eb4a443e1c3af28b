package director

import (
	"log"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/fractalvis/internal/audio"
	"github.com/san-kum/fractalvis/internal/camera"
	"github.com/san-kum/fractalvis/internal/config"
	"github.com/san-kum/fractalvis/internal/fractal"
	"github.com/san-kum/fractalvis/internal/gesture"
	"github.com/san-kum/fractalvis/internal/render"
)

const (
	// AudioSmoothing is the weight of a new audio sample in the running levels.
	AudioSmoothing = 0.15

	BassZoom         = 1.5
	MidsRotation     = 0.05
	TrebleIterations = 40.0
	VolumeEvolution  = 2.0
	BeatJitter       = 0.3

	// EvolutionRate scales MorphSpeed into fractal time per second.
	EvolutionRate = 1.5

	presetPanBlend = 0.1
)

// Inputs are the samples pulled by the frontend for one frame.
type Inputs struct {
	Gesture gesture.Snapshot
	Audio   audio.Analysis
	// Listening is set when Audio came from a running capture session.
	Listening bool
}

// Frame reports what happened during a tick.
type Frame struct {
	Dt          float64
	Pulses      []gesture.Pulse
	ModeToggled bool
}

type Option func(*Director)

// WithRand replaces the source of beat jitter.
func WithRand(r *rand.Rand) Option {
	return func(d *Director) { d.rng = r }
}

// Director is advanced on the render tick and is not safe for concurrent use.
type Director struct {
	Camera  *camera.State
	Machine *gesture.Machine

	// Surface drives the full-screen pass, Points the interactive cloud.
	Surface render.Uniforms
	Points  render.Uniforms

	cfg     config.Config
	applied bool

	target    float64
	preset    Preset
	anim      *animation
	palette   int
	rotation  float64
	evolution float64
	power     float64
	levels    audio.Analysis

	rng *rand.Rand
}

// New builds a director and applies cfg, which must already be valid.
func New(cfg *config.Config, opts ...Option) *Director {
	d := &Director{
		Camera:  camera.New(),
		Machine: gesture.NewMachine(),
		Surface: render.DefaultUniforms(cfg.Width, cfg.Height),
		Points:  render.DefaultUniforms(cfg.Width, cfg.Height),
		rng:     rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Apply(cfg)
	d.Surface.Mode = d.target
	d.Points.SyncFrom(&d.Surface)
	return d
}

// Apply takes in a new configuration, touching only what changed since
// the last call. It reports whether the viewport was resized.
func (d *Director) Apply(cfg *config.Config) bool {
	prev := d.cfg
	first := !d.applied
	d.cfg = *cfg
	d.applied = true

	resized := first || cfg.Width != prev.Width || cfg.Height != prev.Height
	if resized {
		res := mgl64.Vec2{float64(cfg.Width), float64(cfg.Height)}
		d.Surface.Resolution = res
		d.Points.Resolution = res
	}

	if first || cfg.Animation != prev.Animation {
		p, err := ParsePreset(cfg.Animation)
		if err != nil {
			log.Printf("director: %v", err)
		}
		d.setPreset(p)
	}
	if first || cfg.ColorMode != prev.ColorMode {
		d.palette = cfg.ColorMode
		d.rotation = 0
	}
	if first || cfg.Power != prev.Power {
		d.power = cfg.Power
	}
	if first || cfg.JuliaX != prev.JuliaX || cfg.JuliaY != prev.JuliaY {
		d.Surface.JuliaC = mgl64.Vec2{cfg.JuliaX, cfg.JuliaY}
	}
	if first || cfg.Iterations != prev.Iterations {
		d.Surface.MaxIter = float64(cfg.Iterations)
	}
	if first || cfg.Interactive != prev.Interactive {
		d.Machine.Reset()
		d.Points.Attraction, d.Points.Repulsion = 0, 0
	}
	if !cfg.Music && prev.Music {
		d.levels = audio.Analysis{}
	}
	if first || d.anim == nil {
		d.target = float64(cfg.FractalMode())
	}
	return resized
}

func (d *Director) setPreset(p Preset) {
	if d.preset != None {
		d.Surface.JuliaC = mgl64.Vec2{d.cfg.JuliaX, d.cfg.JuliaY}
	}
	d.preset = p
	if p == None {
		d.anim = nil
		return
	}
	d.anim = newAnimation(p)
}

func (d *Director) Config() config.Config { return d.cfg }
func (d *Director) Preset() Preset        { return d.preset }
func (d *Director) Interactive() bool     { return d.cfg.Interactive }

// Active is the uniform set the frontend should draw this frame.
func (d *Director) Active() *render.Uniforms {
	if d.cfg.Interactive {
		return &d.Points
	}
	return &d.Surface
}

// Levels returns the smoothed volume, bass, mids and treble.
func (d *Director) Levels() [4]float64 { return d.levels.Levels() }

// TargetMode is the mode index the blend is heading to.
func (d *Director) TargetMode() float64 { return d.target }

// CyclePalette steps to the next palette. The config follows so a later
// Apply does not undo the step.
func (d *Director) CyclePalette() {
	d.palette = (d.palette + 1) % fractal.NumPalettes
	d.cfg.ColorMode = d.palette
}

// Palette is the base palette index before rotation.
func (d *Director) Palette() int { return d.palette }

func (d *Director) sensitivity() gesture.Sensitivity {
	return gesture.Sensitivity{
		Pinch:      d.cfg.PinchSensitivity,
		Attraction: d.cfg.AttractionSensitivity,
	}
}

func (d *Director) smooth(a audio.Analysis) {
	l := &d.levels
	l.Volume += (a.Volume - l.Volume) * AudioSmoothing
	l.Bass += (a.Bass - l.Bass) * AudioSmoothing
	l.Mids += (a.Mids - l.Mids) * AudioSmoothing
	l.Treble += (a.Treble - l.Treble) * AudioSmoothing
	l.IsBeat = a.IsBeat
	l.Waveform, l.Spectrum = a.Waveform, a.Spectrum
}

// Tick advances one display frame. dt is clamped to camera.MaxDt.
func (d *Director) Tick(dt float64, in Inputs) Frame {
	dt = camera.ClampDt(dt)
	fr := Frame{Dt: dt}
	u := &d.Surface
	sens := d.sensitivity()

	if in.Listening {
		d.smooth(in.Audio)
	}

	if d.cfg.Interactive {
		eff := d.Machine.Step(in.Gesture, dt, sens)
		d.applyEffect(eff)
		fr.Pulses = eff.Pulses
		fr.ModeToggled = eff.ModeToggled
	}

	palette := float64(d.palette)
	iter := float64(d.cfg.Iterations)
	power := d.power

	if d.anim != nil {
		k := d.anim.step(dt, d.cfg.FractalMode())
		d.target = k.Mode
		if k.SetZoom && !d.Camera.SetZoom(k.Zoom) {
			log.Printf("director: %s zoom %g rejected", d.preset, k.Zoom)
		}
		if k.SetPan {
			d.Camera.Pan = k.Pan
			d.Camera.Velocity = mgl64.Vec2{}
		}
		if k.SetJulia {
			u.JuliaC = k.JuliaC
		}
		if k.SetPalette {
			palette = k.Palette
		}
		u.Zoom = d.Camera.Zoom
		u.Pan = lerp(u.Pan, d.Camera.Pan, presetPanBlend)
	} else {
		d.target = float64(d.cfg.FractalMode())
		zoom := d.Camera.Zoom
		if in.Listening {
			s := d.cfg.EffectiveAudioSensitivity()
			l := d.levels
			zoom *= 1 + l.Bass*s*BassZoom
			d.rotation += l.Mids * s * MidsRotation
			iter += math.Floor(l.Treble * s * TrebleIterations)
			d.evolution += l.Volume * dt * VolumeEvolution * s
			if in.Audio.IsBeat {
				power += (d.rng.Float64() - 0.5) * s * BeatJitter
			}
		}
		d.Camera.Coast()
		u.Zoom = camera.Damp(u.Zoom, zoom, camera.ViewLambda, dt)
		u.Pan = camera.DampVec2(u.Pan, d.Camera.Pan, camera.ViewLambda, dt)
	}

	d.evolution += dt * EvolutionRate * d.cfg.MorphSpeed
	u.Time = d.evolution
	u.Mode = camera.Damp(u.Mode, d.target, camera.ModeLambda, dt)
	u.ColorMode = math.Mod(palette+d.rotation, fractal.NumPalettes)
	u.MaxIter = math.Min(iter, fractal.MaxIterCeiling)
	u.Power = power
	u.Chaos = 0
	if in.Listening {
		u.Chaos = d.levels.Treble * d.cfg.EffectiveAudioSensitivity()
	}

	d.Points.SyncFrom(u)
	if d.cfg.Interactive && d.anim == nil {
		d.steerPoints(in.Gesture, sens, dt)
	}
	return fr
}

// applyEffect routes a gesture effect to the camera and uniforms.
func (d *Director) applyEffect(eff gesture.Effect) {
	if eff.ResetView {
		d.Camera.ResetView()
	}
	d.Camera.Nudge(eff.PanDelta)
	if eff.ZoomFactor != 1 {
		d.Camera.ScaleZoom(eff.ZoomFactor)
	}
	if eff.CyclePalette {
		d.CyclePalette()
	}
	if eff.Repel > 0 {
		d.Points.Repulsion = eff.Repel
	}
	d.evolution += eff.TimeDelta
}

// steerPoints eases the cloud forces toward the current hand pose. With
// no hands in view both forces relax to zero.
func (d *Director) steerPoints(s gesture.Snapshot, sens gesture.Sensitivity, dt float64) {
	if s.HandsCount > 0 {
		d.Points.Hand = mgl64.Vec3{s.IndexTip[0], s.IndexTip[1], 0}
	}
	attract, repel := gesture.Force(s, sens)
	d.Points.Attraction = camera.Damp(d.Points.Attraction, attract, camera.ForceLambda, dt)
	d.Points.Repulsion = camera.Damp(d.Points.Repulsion, repel, camera.ForceLambda, dt)
}

func lerp(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}
