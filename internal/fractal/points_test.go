package fractal

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestEvalPointPlanarFlattens(t *testing.T) {
	p := DefaultParams()
	p.Mode = float64(Mandelbrot)
	pt := EvalPoint(mgl64.Vec3{0.1, 0.2, 0.7}, p, Field{}, 1.5)
	if pt.Pos[2] != 0 {
		t.Errorf("z = %v, want 0", pt.Pos[2])
	}
	if math.Abs(pt.Pos[0]-0.15) > 1e-12 {
		t.Errorf("x not stretched by aspect: %v", pt.Pos[0])
	}
}

func TestEvalPointEscapedImmediatelyIsTransparent(t *testing.T) {
	p := DefaultParams()
	p.Mode = float64(Mandelbrot)
	p.Zoom = 0.1
	pt := EvalPoint(mgl64.Vec3{1, 1, 0}, p, Field{Hand: mgl64.Vec3{100, 100, 0}}, 1)
	if pt.Alpha != 0 {
		t.Errorf("alpha = %v, want 0", pt.Alpha)
	}
}

func TestEvalPointMengerCullsFarSeeds(t *testing.T) {
	p := DefaultParams()
	p.Mode = float64(MengerSponge)
	pt := EvalPoint(mgl64.Vec3{1, 1, 1}.Mul(0.99), p, Field{}, 1)
	far := EvalPoint(mgl64.Vec3{1, 1, 1}.Mul(0.99), p, Field{Hand: mgl64.Vec3{10, 0, 0}}, 1)
	if pt != far {
		t.Error("distant hand changed the point")
	}
	away := EvalPoint(mgl64.Vec3{1, -1, 1}, p, Field{}, 3)
	if away.Visible {
		t.Errorf("seed outside the sponge visible: %+v", away)
	}
}

func TestFieldAttractsAndRepels(t *testing.T) {
	seed := mgl64.Vec3{0.5, 0, 0}
	hand := mgl64.Vec3{}
	pulled := Field{Hand: hand, Attract: 3}.apply(seed)
	if pulled.Len() >= seed.Len() {
		t.Errorf("attract moved point away: %v", pulled)
	}
	pushed := Field{Hand: hand, Repel: 10}.apply(seed)
	if pushed.Len() <= seed.Len() {
		t.Errorf("repel moved point closer: %v", pushed)
	}
	outside := Field{Hand: mgl64.Vec3{5, 0, 0}, Repel: 10}.apply(mgl64.Vec3{-1, 0, 0})
	if outside != (mgl64.Vec3{-1, 0, 0}) {
		t.Errorf("force leaked past radius: %v", outside)
	}
}

func TestEvalPointFinite(t *testing.T) {
	p := DefaultParams()
	for _, m := range Modes() {
		p.Mode = float64(m)
		for _, seed := range []mgl64.Vec3{{}, {1, 1, 1}, {-1, 0.3, -0.2}} {
			pt := EvalPoint(seed, p, Field{Hand: seed, Repel: 5}, 16.0/9)
			for i := 0; i < 3; i++ {
				if math.IsNaN(pt.Pos[i]) || math.IsInf(pt.Pos[i], 0) {
					t.Errorf("%s seed=%v: pos %v", m, seed, pt.Pos)
				}
			}
			if pt.Size < 0 || pt.Size > 6 {
				t.Errorf("%s: size %v", m, pt.Size)
			}
		}
	}
}
