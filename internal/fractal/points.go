package fractal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	fieldRadius     = 2.5
	surfaceWidth    = 0.08
	cloudIterations = 15
	cloudBailout    = 4.0
)

// CameraDistance is how far in front of the origin the point-cloud camera
// sits along +z.
const CameraDistance = 2.0

// Field is the hand force acting on the point cloud.
type Field struct {
	Hand    mgl64.Vec3
	Attract float64
	Repel   float64
}

// Point is one evaluated particle. Pos is in view space: x spans
// [-aspect, aspect], y spans [-1, 1].
type Point struct {
	Pos     mgl64.Vec3
	Color   mgl64.Vec3
	Alpha   float64
	Size    float64
	Visible bool
}

func (f Field) apply(pos mgl64.Vec3) mgl64.Vec3 {
	d := pos.Sub(f.Hand).Len()
	if d >= fieldRadius {
		return pos
	}
	force := smoothstep(fieldRadius, 0, d)
	pos = pos.Add(f.Hand.Sub(pos).Mul(force * f.Attract * 0.15))
	away := normalize(pos.Sub(f.Hand), mgl64.Vec3{})
	return pos.Add(away.Mul(force * f.Repel * 0.3))
}

// EvalPoint moves a seed in [-1,1]³ onto the fractal for the current mode.
func EvalPoint(seed mgl64.Vec3, p Params, f Field, aspect float64) Point {
	if !finite(aspect) || aspect <= 0 {
		aspect = 1
	}
	pos := seed
	pos[0] *= aspect
	pos = f.apply(pos)

	pt := Point{Alpha: 1, Size: 1, Visible: true}
	tCol := 0.5
	mode := Nearest(p.Mode)

	if mode.Is3D() {
		switch mode {
		case Mandelbulb:
			z := pos
			for i := 0; i < bulbIterations; i++ {
				r := z.Len()
				if r > bulbBailout {
					break
				}
				z = bulbStep(z, r, p.Power, p.Time*0.2).Add(pos)
			}
			pos = z.Mul(0.5)
			tCol = pos.Len()
		case MengerSponge, Sierpinski:
			var d float64
			if mode == MengerSponge {
				d = mengerDE(pos, 4)
				tCol = pos[0] + pos[1] + pos[2]
			} else {
				d = sierpinskiDE(pos, 8)
				tCol = 0.2
				if pos[0]+pos[1]*0.5 > 0 {
					tCol = 0.8
				}
			}
			pt.Alpha = 1 - smoothstep(0, surfaceWidth, d)
			if d > surfaceWidth || !finite(d) {
				pt.Visible = false
			}
		}
		pos = orientation(p.Pan).Mul3x1(pos)
		pos = pos.Mul(clamp(p.Zoom, 0.1, 100))
	} else {
		coords := p.ViewUV(mgl64.Vec2{pos[0], pos[1]})
		z, c := coords, p.JuliaC
		if mode != Julia {
			z, c = mgl64.Vec2{}, coords
		}
		n := 0
		for i := 0; i < cloudIterations; i++ {
			if mode == Tricorn {
				z[1] = -z[1]
			}
			if mode == BurningShip {
				z = mgl64.Vec2{math.Abs(z[0]), math.Abs(z[1])}
			}
			z = mgl64.Vec2{z[0]*z[0] - z[1]*z[1], 2*z[0]*z[1]}.Add(c)
			if z.Len() > cloudBailout {
				break
			}
			n++
		}
		tCol = float64(n) / cloudIterations
		if n < 1 {
			pt.Alpha = 0
		}
		pos[2] = 0
	}

	for i := range pos {
		if !finite(pos[i]) {
			pt.Visible = false
			pos[i] = 0
		}
	}
	pt.Pos = pos
	if pt.Visible {
		dist := CameraDistance - pos[2]
		if dist <= 0 {
			pt.Size = 6
		} else {
			pt.Size = clamp(35/dist, 1, 6)
		}
	} else {
		pt.Size = 0
	}
	pt.Color = SanitizeColor(Palette(tCol+p.Time*0.1, p.ColorMode))
	pt.Alpha = clamp(pt.Alpha, 0, 1)
	return pt
}
