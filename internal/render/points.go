package render

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/fractalvis/internal/fractal"
)

const (
	DefaultPointCount = 60000
	DefaultPointSeed  = 42
	pointChunk        = 2048
)

// PointCloud is a fixed set of seeds in [-1,1]³ re-evaluated every frame.
type PointCloud struct {
	seeds []mgl64.Vec3
	out   []fractal.Point
}

// NewPointCloud draws n seeds from a deterministic source.
func NewPointCloud(n int, seed int64) *PointCloud {
	if n < 0 {
		n = 0
	}
	rng := rand.New(rand.NewSource(seed))
	seeds := make([]mgl64.Vec3, n)
	for i := range seeds {
		seeds[i] = mgl64.Vec3{
			rng.Float64()*2 - 1,
			rng.Float64()*2 - 1,
			rng.Float64()*2 - 1,
		}
	}
	return &PointCloud{seeds: seeds, out: make([]fractal.Point, n)}
}

func (pc *PointCloud) Len() int { return len(pc.seeds) }

// Eval moves every seed onto the fractal for u. The returned slice is
// reused by the next call.
func (pc *PointCloud) Eval(u *Uniforms) []fractal.Point {
	p := u.Params()
	f := u.Field()
	aspect := u.Aspect()
	ParallelFor(len(pc.seeds), pointChunk, func(start, end int) {
		for i := start; i < end; i++ {
			pc.out[i] = fractal.EvalPoint(pc.seeds[i], p, f, aspect)
		}
	})
	return pc.out
}
