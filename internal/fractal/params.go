package fractal

import "github.com/go-gl/mathgl/mgl64"

const (
	// MaxIterCeiling is the hard cap on escape-time iterations.
	MaxIterCeiling = 1000

	// MinViewZoom guards the 2D view divisor.
	MinViewZoom = 1e-4
)

var DefaultJuliaC = mgl64.Vec2{-0.7, 0.27015}

// Params is everything the evaluator reads. Mode is a float so that the
// director can damp between modes.
type Params struct {
	Mode      float64
	Power     float64
	MaxIter   float64
	JuliaC    mgl64.Vec2
	Chaos     float64
	Time      float64
	ColorMode float64
	Zoom      float64
	Pan       mgl64.Vec2
}

func DefaultParams() Params {
	return Params{
		Mode:      float64(Julia),
		Power:     8,
		MaxIter:   100,
		JuliaC:    DefaultJuliaC,
		ColorMode: PaletteMagma,
		Zoom:      1,
	}
}

// iterCap converts the float uniform to a loop bound in [1, MaxIterCeiling].
func (p Params) iterCap() int {
	if !finite(p.MaxIter) || p.MaxIter < 1 {
		return 1
	}
	if p.MaxIter > MaxIterCeiling {
		return MaxIterCeiling
	}
	return int(p.MaxIter)
}

// ViewUV maps screen uv to the complex plane.
func (p Params) ViewUV(uv mgl64.Vec2) mgl64.Vec2 {
	z := p.Zoom
	if !finite(z) || z < MinViewZoom {
		z = MinViewZoom
	}
	return uv.Mul(1 / z).Add(p.Pan)
}
