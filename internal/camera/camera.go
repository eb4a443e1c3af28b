// Package camera holds the navigation state shared by pointer input, the
// gesture machine and the director.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	MinZoom = 1e-4
	MaxZoom = 1e5

	// MaxDt bounds a single tick so a stalled frame cannot jump the view.
	MaxDt = 0.05

	WheelStep   = 0.15
	ButtonScale = 1.5
	DragSpeed   = 0.003
	Friction    = 0.92
	StopSpeedSq = 1e-7

	ViewLambda  = 6.0
	ModeLambda  = 5.0
	ForceLambda = 8.0
)

// State is the user-controlled view. Zoom always lies strictly inside
// (MinZoom, MaxZoom).
type State struct {
	Zoom     float64
	Pan      mgl64.Vec2
	Rotation mgl64.Vec2
	Velocity mgl64.Vec2
	Dragging bool

	lastX, lastY float64
}

func New() *State {
	return &State{Zoom: 1}
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// SetZoom accepts z only if it is finite and inside the open zoom interval.
func (s *State) SetZoom(z float64) bool {
	if !finite(z) || z <= MinZoom || z >= MaxZoom {
		return false
	}
	s.Zoom = z
	return true
}

// ScaleZoom multiplies zoom by factor, rejecting results outside the limits.
func (s *State) ScaleZoom(factor float64) bool {
	if !finite(factor) || factor <= 0 {
		return false
	}
	return s.SetZoom(s.Zoom * factor)
}

func (s *State) ZoomIn() bool  { return s.ScaleZoom(ButtonScale) }
func (s *State) ZoomOut() bool { return s.ScaleZoom(1 / ButtonScale) }

// ResetView restores the home view and stops any coasting.
func (s *State) ResetView() {
	s.Zoom = 1
	s.Pan = mgl64.Vec2{}
	s.Velocity = mgl64.Vec2{}
}

// Nudge translates pan directly, ignoring non-finite deltas.
func (s *State) Nudge(d mgl64.Vec2) {
	if !finite(d[0]) || !finite(d[1]) {
		return
	}
	s.Pan = s.Pan.Add(d)
}

// Wheel zooms in for negative deltaY (scrolling up) and out for positive.
func (s *State) Wheel(deltaY float64) bool {
	if !finite(deltaY) || deltaY == 0 {
		return false
	}
	step := -math.Copysign(WheelStep, deltaY)
	return s.ScaleZoom(1 + step)
}

func (s *State) PointerDown(x, y float64) {
	s.Dragging = true
	s.lastX, s.lastY = x, y
	s.Velocity = mgl64.Vec2{}
}

// PointerMove pans by the pixel delta since the last event. Screen y grows
// downward, so it is added while x is subtracted.
func (s *State) PointerMove(x, y float64) {
	if !s.Dragging || !finite(x) || !finite(y) {
		return
	}
	dx, dy := x-s.lastX, y-s.lastY
	s.lastX, s.lastY = x, y
	speed := DragSpeed / s.Zoom
	delta := mgl64.Vec2{-dx * speed, dy * speed}
	s.Pan = s.Pan.Add(delta)
	s.Velocity = delta
}

func (s *State) PointerUp() {
	s.Dragging = false
}

// Coast applies one tick of inertia after a drag is released.
func (s *State) Coast() {
	if s.Dragging {
		return
	}
	s.Pan = s.Pan.Add(s.Velocity)
	s.Velocity = s.Velocity.Mul(Friction)
	if s.Velocity.Dot(s.Velocity) < StopSpeedSq {
		s.Velocity = mgl64.Vec2{}
	}
}

// ClampDt limits a frame delta to [0, MaxDt].
func ClampDt(dt float64) float64 {
	if !finite(dt) || dt < 0 {
		return 0
	}
	return math.Min(dt, MaxDt)
}

// Damp moves cur toward target by the frame-rate independent factor
// 1-e^(-λ·dt).
func Damp(cur, target, lambda, dt float64) float64 {
	if !finite(target) {
		return cur
	}
	return cur + (target-cur)*(1-math.Exp(-lambda*dt))
}

func DampVec2(cur, target mgl64.Vec2, lambda, dt float64) mgl64.Vec2 {
	return mgl64.Vec2{Damp(cur[0], target[0], lambda, dt), Damp(cur[1], target[1], lambda, dt)}
}

func DampVec3(cur, target mgl64.Vec3, lambda, dt float64) mgl64.Vec3 {
	return mgl64.Vec3{
		Damp(cur[0], target[0], lambda, dt),
		Damp(cur[1], target[1], lambda, dt),
		Damp(cur[2], target[2], lambda, dt),
	}
}
