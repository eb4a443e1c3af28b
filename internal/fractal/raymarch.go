package fractal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	MaxSteps    = 100
	HitEpsilon  = 0.001
	MaxDistance = 10.0
	normalEps   = 0.001
)

var (
	up         = mgl64.Vec3{0, 1, 0}
	lightPos   = mgl64.Vec3{2, 4, -3}
	bulbLight  = mgl64.Vec3{0.8, 0.7, -0.6}.Normalize()
	bulbSky    = mgl64.Vec3{0.2, 0.3, 0.4}
	bulbSun    = mgl64.Vec3{0.8, 0.7, 0.5}
	bulbRim    = mgl64.Vec3{1, 0.5, 0.2}
	mengerBody = mgl64.Vec3{0.95, 0.95, 0.95}
	mengerFog  = mgl64.Vec3{0.1, 0.1, 0.1}
	tetraBlue  = mgl64.Vec3{0.1, 0.4, 0.9}
	tetraRed   = mgl64.Vec3{0.9, 0.2, 0.2}
)

// Ray is an origin and a unit direction.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// Hit is the result of sphere tracing one ray.
type Hit struct {
	Hit   bool
	Pos   mgl64.Vec3
	T     float64
	Steps int
}

// CameraRay builds the view ray for screen uv. The camera sits on -z at a
// distance that shrinks with zoom and orbits the origin with pan.
func CameraRay(uv mgl64.Vec2, mode Mode, zoom float64, pan mgl64.Vec2) Ray {
	if !finite(zoom) {
		zoom = 1
	}
	zoom = clamp(zoom, 0.001, 1000)
	base := 1.5
	if mode == MengerSponge || mode == Sierpinski {
		base = 1.2
	}
	m := orientation(pan)
	ro := mgl64.Vec3{0, 0, -base / zoom}
	rd := normalize(mgl64.Vec3{uv[0], uv[1], 1}, mgl64.Vec3{0, 0, 1})
	return Ray{Origin: m.Mul3x1(ro), Dir: m.Mul3x1(rd)}
}

// March sphere-traces r against the estimator for mode.
func March(r Ray, mode Mode, p Params) Hit {
	t := 0.0
	for i := 0; i < MaxSteps; i++ {
		pos := r.Origin.Add(r.Dir.Mul(t))
		d := Distance(pos, mode, p)
		if !finite(d) {
			return Hit{T: t, Steps: i}
		}
		if d < HitEpsilon {
			return Hit{Hit: true, Pos: pos, T: t, Steps: i}
		}
		t += d
		if t > MaxDistance {
			return Hit{T: t, Steps: i + 1}
		}
	}
	return Hit{T: t, Steps: MaxSteps}
}

// Normal is the central-difference gradient of the estimator.
func Normal(pos mgl64.Vec3, mode Mode, p Params) mgl64.Vec3 {
	dx := mgl64.Vec3{normalEps, 0, 0}
	dy := mgl64.Vec3{0, normalEps, 0}
	dz := mgl64.Vec3{0, 0, normalEps}
	g := mgl64.Vec3{
		Distance(pos.Add(dx), mode, p) - Distance(pos.Sub(dx), mode, p),
		Distance(pos.Add(dy), mode, p) - Distance(pos.Sub(dy), mode, p),
		Distance(pos.Add(dz), mode, p) - Distance(pos.Sub(dz), mode, p),
	}
	return normalize(g, up)
}

func fog(col, to mgl64.Vec3, density, t float64) mgl64.Vec3 {
	return mixVec3(col, to, 1-math.Exp(-density*t*t))
}

// Shade3D raymarches one pixel and lights the hit for the given mode.
func Shade3D(uv mgl64.Vec2, mode Mode, p Params) mgl64.Vec3 {
	ray := CameraRay(uv, mode, p.Zoom, p.Pan)
	h := March(ray, mode, p)
	if !h.Hit {
		return mgl64.Vec3{}
	}
	n := Normal(h.Pos, mode, p)
	steps := float64(h.Steps)

	switch mode {
	case MengerSponge:
		l := normalize(lightPos.Sub(h.Pos), up)
		dif := clamp(n.Dot(l), 0, 1)
		ao := 1 - steps/100
		col := mengerBody.Mul((dif*0.8 + 0.5) * ao)
		return fog(col, mengerFog, 0.02, h.T)
	case Sierpinski:
		l := normalize(lightPos.Sub(h.Pos), up)
		dif := clamp(n.Dot(l), 0, 1)
		mat := tetraRed
		if h.Pos[0]+h.Pos[1]*0.5 > 0 {
			mat = tetraBlue
		}
		col := mat.Mul(dif + 0.3)
		spec := math.Pow(clamp(reflect(l.Mul(-1), n).Dot(ray.Dir), 0, 1), 16)
		col = col.Add(mgl64.Vec3{1, 1, 1}.Mul(spec * 0.4))
		col = col.Mul(1 - steps/80)
		return fog(col, mgl64.Vec3{}, 0.02, h.T)
	default:
		dif := clamp(n.Dot(bulbLight), 0, 1)
		amb := 0.5 + 0.5*n[1]
		col := bulbSky.Mul(amb).Add(bulbSun.Mul(dif))
		rim := math.Pow(clamp(1+n.Dot(ray.Dir), 0, 1), 4)
		col = col.Add(bulbRim.Mul(rim))
		return fog(col, mgl64.Vec3{}, 0.05, h.T)
	}
}
