package fractal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	bulbIterations      = 8
	bulbBailout         = 2.0
	mengerIterations    = 5
	sierpinskiIteration = 8
)

var (
	mengerRot     = rotY(0.5)
	sierpinskiRot = mgl64.Mat3{0.707, 0, -0.707, 0, 1, 0, 0.707, 0, 0.707}
)

// bulbStep applies one triplex power step. phase is added to both angles.
func bulbStep(z mgl64.Vec3, r, power, phase float64) mgl64.Vec3 {
	theta, phi := 0.0, 0.0
	if r > 0 {
		theta = math.Acos(clamp(z[2]/r, -1, 1))
		phi = math.Atan2(z[1], z[0])
	}
	zr := math.Pow(r, power)
	theta = theta*power + phase
	phi = phi*power + phase
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	return mgl64.Vec3{st * cp, st * sp, ct}.Mul(zr)
}

// DEMandelbulb estimates the distance to the power-n Mandelbulb.
func DEMandelbulb(p mgl64.Vec3, power, time float64) float64 {
	z := p
	dr := 1.0
	r := 0.0
	for i := 0; i < bulbIterations; i++ {
		r = z.Len()
		if r > bulbBailout {
			break
		}
		dr = math.Pow(r, power-1)*power*dr + 1
		z = bulbStep(z, r, power, time*0.1).Add(p)
	}
	if r == 0 {
		return 0
	}
	d := 0.5 * math.Log(r) * r / dr
	if !finite(d) {
		return math.Inf(1)
	}
	return d
}

func sdBox(p, b mgl64.Vec3) float64 {
	q := absVec3(p).Sub(b)
	return maxVec3(q, 0).Len() + math.Min(math.Max(q[0], math.Max(q[1], q[2])), 0)
}

func mengerDE(p mgl64.Vec3, iters int) float64 {
	p = mengerRot.Mul3x1(p)
	d := sdBox(p, mgl64.Vec3{1, 1, 1})
	s := 1.0
	for i := 0; i < iters; i++ {
		var r mgl64.Vec3
		for k := 0; k < 3; k++ {
			a := glslMod(p[k]*s+1, 2) - 1
			r[k] = math.Abs(1 - 3*math.Abs(a))
		}
		s *= 3
		da := math.Max(r[0], r[1])
		db := math.Max(r[1], r[2])
		dc := math.Max(r[2], r[0])
		c := (math.Min(da, math.Min(db, dc)) - 1) / s
		d = math.Max(d, c)
	}
	return d
}

// DEMenger estimates the distance to a Menger sponge of half-size 1.
func DEMenger(p mgl64.Vec3) float64 { return mengerDE(p, mengerIterations) }

func sierpinskiDE(z mgl64.Vec3, iters int) float64 {
	z = sierpinskiRot.Mul3x1(z)
	for i := 0; i < iters; i++ {
		if z[0]+z[1] < 0 {
			z[0], z[1] = -z[1], -z[0]
		}
		if z[0]+z[2] < 0 {
			z[0], z[2] = -z[2], -z[0]
		}
		if z[1]+z[2] < 0 {
			z[1], z[2] = -z[2], -z[1]
		}
		z = z.Mul(2).Sub(mgl64.Vec3{1, 1, 1})
	}
	return z.Len() * math.Pow(2, -float64(iters))
}

// DESierpinski estimates the distance to a folded Sierpinski tetrahedron.
func DESierpinski(p mgl64.Vec3) float64 { return sierpinskiDE(p, sierpinskiIteration) }

// Distance dispatches to the estimator for mode. Planar modes get a unit
// sphere so a ray is still well defined.
func Distance(p mgl64.Vec3, mode Mode, params Params) float64 {
	switch mode {
	case Mandelbulb:
		return DEMandelbulb(p, params.Power, params.Time)
	case MengerSponge:
		return DEMenger(p)
	case Sierpinski:
		return DESierpinski(p)
	default:
		return p.Len() - 1
	}
}
