package render

import (
	"context"
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fractalvis/internal/fractal"
)

func mandelbrotUniforms(w, h int) Uniforms {
	u := DefaultUniforms(w, h)
	u.Mode = float64(fractal.Mandelbrot)
	return u
}

func TestResizeRejectsBadSize(t *testing.T) {
	c := NewCPUBackend()
	assert.ErrorIs(t, c.Resize(0, 10), ErrBadSize)
	assert.ErrorIs(t, c.Resize(10, -1), ErrBadSize)
	assert.Nil(t, c.Capture())
}

func TestResizeSameSizeKeepsTarget(t *testing.T) {
	c := NewCPUBackend()
	require.NoError(t, c.Resize(8, 8))
	first := c.img
	require.NoError(t, c.Resize(8, 8))
	assert.Same(t, first, c.img)
	require.NoError(t, c.Resize(16, 8))
	assert.NotSame(t, first, c.img)
	assert.Equal(t, image.Rect(0, 0, 16, 8), c.img.Bounds())
}

func TestDrawSurfaceMandelbrot(t *testing.T) {
	c := NewCPUBackend()
	require.NoError(t, c.Resize(16, 16))
	u := mandelbrotUniforms(16, 16)
	require.NoError(t, c.DrawSurface(context.Background(), &u))

	img := c.Capture().(*image.RGBA)
	center := img.RGBAAt(8, 8)
	assert.Equal(t, uint8(0), center.R, "main cardioid is background")
	assert.Equal(t, uint8(0), center.G)
	assert.Equal(t, uint8(255), center.A)

	corner := img.RGBAAt(0, 0)
	assert.Greater(t, corner.R, uint8(0), "corner escapes within a few iterations")
}

func TestDrawSurfaceMatchesEvaluator(t *testing.T) {
	c := NewCPUBackend()
	require.NoError(t, c.Resize(12, 9))
	u := DefaultUniforms(12, 9)
	require.NoError(t, c.DrawSurface(context.Background(), &u))

	img := c.Capture().(*image.RGBA)
	p := u.Params()
	for _, pt := range []image.Point{{0, 0}, {5, 4}, {11, 8}, {3, 7}} {
		want := fractal.Pixel(fractal.ScreenUV(pt.X, pt.Y, 12, 9), p)
		assert.Equal(t, toRGBA(want[0], want[1], want[2]), img.RGBAAt(pt.X, pt.Y), "pixel %v", pt)
	}
}

func TestDrawSurfaceCancelled(t *testing.T) {
	c := NewCPUBackend()
	require.NoError(t, c.Resize(32, 32))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	u := mandelbrotUniforms(32, 32)
	assert.ErrorIs(t, c.DrawSurface(ctx, &u), context.Canceled)
}

func TestDrawWithoutTarget(t *testing.T) {
	c := NewCPUBackend()
	u := DefaultUniforms(4, 4)
	assert.Error(t, c.DrawSurface(context.Background(), &u))
	assert.Error(t, c.DrawPoints(context.Background(), &u, nil))
}

func TestCaptureNilUntilDrawn(t *testing.T) {
	c := NewCPUBackend()
	require.NoError(t, c.Resize(4, 4))
	assert.Nil(t, c.Capture(), "a fresh target has nothing to capture")

	u := DefaultUniforms(4, 4)
	require.NoError(t, c.DrawSurface(context.Background(), &u))
	require.NotNil(t, c.Capture())

	require.NoError(t, c.Resize(8, 4))
	assert.Nil(t, c.Capture(), "resizing discards the frame")
	require.NoError(t, c.Clear())
	assert.NotNil(t, c.Capture())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, c.Resize(6, 6))
	assert.Error(t, c.DrawSurface(ctx, &u))
	assert.Nil(t, c.Capture(), "a cancelled draw leaves the target unrendered")
}

func TestCaptureIsCopy(t *testing.T) {
	c := NewCPUBackend()
	require.NoError(t, c.Resize(4, 4))
	require.NoError(t, c.Clear())
	snap := c.Capture().(*image.RGBA)
	snap.Pix[0] = 200
	assert.Equal(t, uint8(0), c.img.Pix[0])
}

func TestDrawPointsIsAdditive(t *testing.T) {
	c := NewCPUBackend()
	require.NoError(t, c.Resize(20, 20))
	u := DefaultUniforms(20, 20)

	pt := fractal.Point{Color: mgl64.Vec3{1, 1, 1}, Alpha: 1, Size: 2, Visible: true}
	require.NoError(t, c.DrawPoints(context.Background(), &u, []fractal.Point{pt}))
	once := c.img.RGBAAt(10, 10).R
	assert.Greater(t, once, uint8(0))

	require.NoError(t, c.DrawPoints(context.Background(), &u, []fractal.Point{pt, pt}))
	assert.Greater(t, c.img.RGBAAt(10, 10).R, once)
	assert.Equal(t, uint8(0), c.img.RGBAAt(0, 0).R, "far pixels untouched")

	hidden := pt
	hidden.Visible = false
	before := c.img.RGBAAt(10, 10)
	require.NoError(t, c.DrawPoints(context.Background(), &u, []fractal.Point{hidden}))
	assert.Equal(t, before, c.img.RGBAAt(10, 10))
}

func TestClear(t *testing.T) {
	c := NewCPUBackend()
	assert.ErrorIs(t, c.Clear(), ErrBadSize)
	require.NoError(t, c.Resize(6, 6))
	u := mandelbrotUniforms(6, 6)
	require.NoError(t, c.DrawSurface(context.Background(), &u))
	require.NoError(t, c.Clear())
	for _, px := range []image.Point{{0, 0}, {3, 3}, {5, 5}} {
		assert.Equal(t, color.RGBA{A: 255}, c.img.RGBAAt(px.X, px.Y))
	}
}

func TestProject(t *testing.T) {
	pt := fractal.Point{Visible: true, Size: 1}
	x, y, ok := Project(pt, 200, 100, 2)
	require.True(t, ok)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)

	pt.Pos = mgl64.Vec3{2, 1, 0}
	x, y, ok = Project(pt, 200, 100, 2)
	require.True(t, ok)
	assert.InDelta(t, 200, x, 1e-9, "x=aspect maps to the right edge")
	assert.InDelta(t, 0, y, 1e-9, "y up maps to the top row")

	pt.Pos = mgl64.Vec3{0, 0, fractal.CameraDistance}
	_, _, ok = Project(pt, 200, 100, 2)
	assert.False(t, ok, "behind the camera")
}

func TestColorByte(t *testing.T) {
	assert.Equal(t, uint8(0), ColorByte(-1))
	assert.Equal(t, uint8(0), ColorByte(0))
	assert.Equal(t, uint8(128), ColorByte(0.5))
	assert.Equal(t, uint8(255), ColorByte(3))
}

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		hits := make([]int32, n)
		ParallelFor(n, 8, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}

func TestSelect(t *testing.T) {
	b, err := Select("cpu", 8, 4)
	require.NoError(t, err)
	assert.Equal(t, "cpu", b.Name())
	require.NoError(t, b.Clear())
	assert.Equal(t, image.Rect(0, 0, 8, 4), b.Capture().Bounds())

	_, err = Select("vulkan", 8, 4)
	assert.ErrorIs(t, err, ErrUnknownBackend)
	_, err = Select("cpu", 0, 4)
	assert.ErrorIs(t, err, ErrBadSize)
}
