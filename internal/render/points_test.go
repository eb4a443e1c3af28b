package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fractalvis/internal/fractal"
)

func TestPointCloudDeterministic(t *testing.T) {
	a := NewPointCloud(500, 7)
	b := NewPointCloud(500, 7)
	require.Equal(t, 500, a.Len())
	assert.Equal(t, a.seeds, b.seeds)
	for _, s := range a.seeds {
		for _, v := range s {
			assert.GreaterOrEqual(t, v, -1.0)
			assert.Less(t, v, 1.0)
		}
	}
	assert.NotEqual(t, a.seeds, NewPointCloud(500, 8).seeds)
}

func TestPointCloudEvalMatchesEvaluator(t *testing.T) {
	pc := NewPointCloud(3000, DefaultPointSeed)
	u := DefaultUniforms(160, 90)
	u.Mode = float64(fractal.Mandelbulb)
	u.Hand = mgl64.Vec3{0.3, 0.1, 0}
	u.Attraction = 1

	pts := pc.Eval(&u)
	require.Len(t, pts, 3000)
	for _, i := range []int{0, 1234, 2999} {
		want := fractal.EvalPoint(pc.seeds[i], u.Params(), u.Field(), u.Aspect())
		assert.Equal(t, want, pts[i])
	}
}

func TestUniformsSyncKeepsForces(t *testing.T) {
	src := DefaultUniforms(100, 50)
	src.Zoom = 3
	src.Pan = mgl64.Vec2{0.2, -0.1}
	src.Mode = 4.5
	src.Attraction = 9

	dst := DefaultUniforms(10, 10)
	dst.Hand = mgl64.Vec3{1, 2, 3}
	dst.Attraction = 2
	dst.Repulsion = 0.5
	dst.SyncFrom(&src)

	assert.Equal(t, src.Resolution, dst.Resolution)
	assert.Equal(t, src.Zoom, dst.Zoom)
	assert.Equal(t, src.Pan, dst.Pan)
	assert.Equal(t, src.Mode, dst.Mode)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, dst.Hand)
	assert.Equal(t, 2.0, dst.Attraction)
	assert.Equal(t, 0.5, dst.Repulsion)
}

func TestUniformsAspect(t *testing.T) {
	u := DefaultUniforms(300, 150)
	assert.Equal(t, 2.0, u.Aspect())
	w, h := u.Size()
	assert.Equal(t, 300, w)
	assert.Equal(t, 150, h)
	u.Resolution = mgl64.Vec2{10, 0}
	assert.Equal(t, 1.0, u.Aspect())
}
