package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/fractalvis/internal/fractal"
)

// Uniforms is the full parameter block for one pass. Hand, Attraction and
// Repulsion are read by the point cloud only.
type Uniforms struct {
	Time       float64
	Resolution mgl64.Vec2
	Mode       float64
	JuliaC     mgl64.Vec2
	Power      float64
	MaxIter    float64
	ColorMode  float64
	Chaos      float64
	Zoom       float64
	Pan        mgl64.Vec2

	Hand       mgl64.Vec3
	Attraction float64
	Repulsion  float64
}

func DefaultUniforms(width, height int) Uniforms {
	p := fractal.DefaultParams()
	return Uniforms{
		Resolution: mgl64.Vec2{float64(width), float64(height)},
		Mode:       p.Mode,
		JuliaC:     p.JuliaC,
		Power:      p.Power,
		MaxIter:    p.MaxIter,
		ColorMode:  p.ColorMode,
		Zoom:       p.Zoom,
	}
}

// Params projects the uniforms onto evaluator parameters.
func (u *Uniforms) Params() fractal.Params {
	return fractal.Params{
		Mode:      u.Mode,
		Power:     u.Power,
		MaxIter:   u.MaxIter,
		JuliaC:    u.JuliaC,
		Chaos:     u.Chaos,
		Time:      u.Time,
		ColorMode: u.ColorMode,
		Zoom:      u.Zoom,
		Pan:       u.Pan,
	}
}

func (u *Uniforms) Field() fractal.Field {
	return fractal.Field{Hand: u.Hand, Attract: u.Attraction, Repel: u.Repulsion}
}

// Size returns the resolution as whole pixels.
func (u *Uniforms) Size() (int, int) {
	return int(u.Resolution[0]), int(u.Resolution[1])
}

func (u *Uniforms) Aspect() float64 {
	if u.Resolution[1] <= 0 {
		return 1
	}
	return u.Resolution[0] / u.Resolution[1]
}

// SyncFrom copies every field shared by both passes from src, leaving the
// point-cloud forces alone.
func (u *Uniforms) SyncFrom(src *Uniforms) {
	hand, attract, repel := u.Hand, u.Attraction, u.Repulsion
	*u = *src
	u.Hand, u.Attraction, u.Repulsion = hand, attract, repel
}
