package fractal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bailout is the squared radius past which a 2D orbit counts as escaped.
const Bailout = 100.0

// Escape is the outcome of iterating one point of a 2D set.
type Escape struct {
	Iter    int
	R2      float64
	Escaped bool
	MaxIter int
}

// Background reports whether the point renders as the set interior. Points
// that only escape on the final iteration are treated as interior too.
func (e Escape) Background() bool {
	return !e.Escaped || e.Iter >= e.MaxIter-1
}

// Smooth is the normalized iteration count, continuous across bands.
func (e Escape) Smooth() float64 {
	logZn := math.Log(e.R2) / 2
	nu := math.Log(logZn/math.Ln2) / math.Ln2
	return float64(e.Iter) + 1 - nu
}

// Iterate runs z ← z² + c for a point already in fractal coordinates.
// Julia starts at z=point with the (jittered) Julia constant; the other
// planar sets start at zero with c=point. 3D modes fall back to Burning
// Ship rules, which never happens for settled modes.
func Iterate(point mgl64.Vec2, mode Mode, p Params) Escape {
	var z, c mgl64.Vec2
	if mode == Julia {
		z = point
		c = p.JuliaC.Add(mgl64.Vec2{p.Chaos * 0.1, p.Chaos * 0.1})
	} else {
		c = point
	}
	conj := mode == Tricorn
	fold := mode != Julia && mode != Mandelbrot && mode != Tricorn

	res := Escape{MaxIter: p.iterCap()}
	for i := 0; i < res.MaxIter; i++ {
		if conj {
			z[1] = -z[1]
		}
		if fold {
			z = mgl64.Vec2{math.Abs(z[0]), math.Abs(z[1])}
		}
		z = mgl64.Vec2{z[0]*z[0] - z[1]*z[1], 2*z[0]*z[1]}.Add(c)
		res.R2 = z.Dot(z)
		res.Iter = i
		if res.R2 > Bailout || math.IsNaN(res.R2) {
			res.Escaped = true
			break
		}
	}
	return res
}

// Shade2D colors one point of a planar set given screen-space uv.
func Shade2D(uv mgl64.Vec2, mode Mode, p Params) mgl64.Vec3 {
	e := Iterate(p.ViewUV(uv), mode, p)
	if e.Background() {
		return mgl64.Vec3{}
	}
	t := e.Smooth()
	if PaletteIndex(p.ColorMode) == PaletteReference {
		return Palette(t/20, p.ColorMode)
	}
	t = math.Sqrt(math.Max(t/float64(e.MaxIter), 0))
	return Palette(t*3+p.Time*0.1, p.ColorMode)
}
