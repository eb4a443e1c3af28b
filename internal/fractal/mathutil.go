package fractal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func mix(a, b, t float64) float64 { return a + (b-a)*t }

// smoothstep follows GLSL, including reversed edges.
func smoothstep(e0, e1, x float64) float64 {
	if e0 == e1 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func fract(x float64) float64 { return x - math.Floor(x) }

// glslMod matches GLSL mod: the result takes the sign of y.
func glslMod(x, y float64) float64 { return x - y*math.Floor(x/y) }

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func mixVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func absVec3(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])}
}

func maxVec3(v mgl64.Vec3, s float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(v[0], s), math.Max(v[1], s), math.Max(v[2], s)}
}

func powVec3(v mgl64.Vec3, e float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Pow(math.Max(v[0], 0), e), math.Pow(math.Max(v[1], 0), e), math.Pow(math.Max(v[2], 0), e)}
}

// normalize returns fallback for zero or non-finite vectors.
func normalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || !finite(l) {
		return fallback
	}
	return v.Mul(1 / l)
}

func reflect(i, n mgl64.Vec3) mgl64.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

// rotY and rotX are column-major, laid out like the GLSL mat3 constructors.
func rotY(a float64) mgl64.Mat3 {
	s, c := math.Sincos(a)
	return mgl64.Mat3{c, 0, s, 0, 1, 0, -s, 0, c}
}

func rotX(a float64) mgl64.Mat3 {
	s, c := math.Sincos(a)
	return mgl64.Mat3{1, 0, 0, 0, c, -s, 0, s, c}
}

// orientation is the view rotation driven by pan in 3D modes.
func orientation(pan mgl64.Vec2) mgl64.Mat3 {
	return rotY(pan[0] * 2).Mul3(rotX(pan[1] * 2))
}

// SanitizeColor clamps each channel to [0,1], mapping NaN to 0.
func SanitizeColor(c mgl64.Vec3) mgl64.Vec3 {
	for i := range c {
		if !finite(c[i]) {
			if math.IsInf(c[i], 1) {
				c[i] = 1
			} else {
				c[i] = 0
			}
			continue
		}
		c[i] = clamp(c[i], 0, 1)
	}
	return c
}
