package gesture

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Interaction selects how held gestures steer the view.
type Interaction int

const (
	Orbit Interaction = iota
	Fly
)

func (i Interaction) String() string {
	if i == Fly {
		return "fly"
	}
	return "orbit"
}

const (
	ClapCooldown = 1.0
	SnapCooldown = 0.5
	SmashImpulse = 5.0

	orbitPanGain   = 2.5
	orbitPinchGain = 1.5
	punchZoomRate  = 3.0
	flyZoomRate    = 0.8
	flySteerRate   = 0.8
)

// Force strengths applied to the point cloud for each held gesture.
const (
	SmashRepel   = 10.0
	FistAttract  = 3.0
	PinchAttract = 1.0
	IdleRepel    = 0.5
)

// Sensitivity scales gesture output linearly. Pinch scales pan and zoom
// deltas, Attraction scales point-cloud forces.
type Sensitivity struct {
	Pinch      float64
	Attraction float64
}

// Pulse is a haptic-style cue emitted on a gesture's rising edge.
type Pulse struct {
	Gesture string
	Pattern []time.Duration
}

var pulsePatterns = map[string][]time.Duration{
	"fist":    {30 * time.Millisecond},
	"pinch":   {15 * time.Millisecond},
	"punch":   {60 * time.Millisecond},
	"victory": {20 * time.Millisecond, 40 * time.Millisecond, 20 * time.Millisecond},
	"smash":   {100 * time.Millisecond, 50 * time.Millisecond, 100 * time.Millisecond},
	"clap":    {50 * time.Millisecond, 30 * time.Millisecond, 50 * time.Millisecond},
	"snap":    {25 * time.Millisecond},
}

// Effect is what one machine step asks the caller to do to the view.
// ZoomFactor is multiplicative and 1 when untouched.
type Effect struct {
	PanDelta     mgl64.Vec2
	ZoomFactor   float64
	ResetView    bool
	ModeToggled  bool
	CyclePalette bool
	Repel        float64
	TimeDelta    float64
	Pulses       []Pulse
}

// Physics is the per-frame memory of the machine.
type Physics struct {
	ClapCooldown float64
	SnapCooldown float64
	LastHandPos  mgl64.Vec3

	wasFist, wasPunch, wasVictory, wasSmash, wasPinch, wasClap, wasSnap bool

	tracking bool
}

// Machine runs on the render tick and is not safe for concurrent use.
type Machine struct {
	Mode    Interaction
	Physics Physics
}

func NewMachine() *Machine {
	return &Machine{Mode: Orbit}
}

// Reset clears edge memory and cooldowns without changing the mode.
func (m *Machine) Reset() {
	m.Physics = Physics{}
}

// Step consumes the latest snapshot. Edge-triggered actions fire once per
// false→true transition; held gestures act every call while held.
func (m *Machine) Step(s Snapshot, dt float64, sens Sensitivity) Effect {
	eff := Effect{ZoomFactor: 1}
	ph := &m.Physics

	if s.HandsCount == 0 {
		ph.wasFist, ph.wasPunch, ph.wasVictory, ph.wasSmash = false, false, false, false
		ph.wasPinch, ph.wasClap, ph.wasSnap = false, false, false
		ph.tracking = false
		ph.tickCooldowns(dt)
		return eff
	}

	emit := func(name string) {
		eff.Pulses = append(eff.Pulses, Pulse{Gesture: name, Pattern: pulsePatterns[name]})
	}

	if edge(s.Clap, &ph.wasClap) && ph.ClapCooldown <= 0 {
		if m.Mode == Orbit {
			m.Mode = Fly
		} else {
			m.Mode = Orbit
		}
		eff.ModeToggled = true
		ph.ClapCooldown = ClapCooldown
		emit("clap")
	}
	if edge(s.Snap, &ph.wasSnap) && ph.SnapCooldown <= 0 {
		eff.CyclePalette = true
		ph.SnapCooldown = SnapCooldown
		emit("snap")
	}
	if edge(s.Smash, &ph.wasSmash) {
		eff.ResetView = true
		eff.Repel = SmashImpulse
		emit("smash")
	}
	if edge(s.Fist, &ph.wasFist) {
		emit("fist")
	}
	if edge(s.Pinch, &ph.wasPinch) {
		emit("pinch")
	}
	if edge(s.Punch, &ph.wasPunch) {
		emit("punch")
	}
	if edge(s.Victory, &ph.wasVictory) {
		emit("victory")
	}

	gain := sens.Pinch
	tip := s.IndexTip
	if !ph.tracking {
		// A hand entering the frame has no previous position to move from.
		ph.LastHandPos = tip
		ph.tracking = true
	}
	d := tip.Sub(ph.LastHandPos)

	if s.Punch {
		eff.ZoomFactor *= 1 + dt*punchZoomRate*gain
	}
	if s.Victory {
		eff.TimeDelta -= dt
	}

	switch m.Mode {
	case Orbit:
		if s.Fist {
			eff.PanDelta = mgl64.Vec2{d[0] * orbitPanGain * gain, -d[1] * orbitPanGain * gain}
		} else if s.Pinch {
			eff.ZoomFactor *= 1 + d[1]*orbitPinchGain*gain
		}
	case Fly:
		if s.Fist {
			eff.ZoomFactor *= 1 + dt*flyZoomRate*gain
		} else if s.PalmOpen {
			eff.PanDelta = mgl64.Vec2{tip[0], tip[1]}.Mul(flySteerRate * dt * gain)
		}
	}

	ph.LastHandPos = tip
	ph.tickCooldowns(dt)
	return eff
}

// Force is the point-cloud force target for a snapshot, before damping.
func Force(s Snapshot, sens Sensitivity) (attract, repel float64) {
	switch {
	case s.HandsCount == 0:
		return 0, 0
	case s.Smash:
		return 0, SmashRepel * sens.Attraction
	case s.Fist:
		return FistAttract * sens.Attraction, 0
	case s.Pinch:
		return PinchAttract * sens.Attraction, 0
	default:
		return 0, IdleRepel * sens.Attraction
	}
}

// edge records now and reports a false→true transition.
func edge(now bool, was *bool) bool {
	rising := now && !*was
	*was = now
	return rising
}

func (ph *Physics) tickCooldowns(dt float64) {
	if ph.ClapCooldown > 0 {
		ph.ClapCooldown -= dt
	}
	if ph.SnapCooldown > 0 {
		ph.SnapCooldown -= dt
	}
}
