package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"go.opentelemetry.io/otel/attribute"

	"github.com/san-kum/fractalvis/internal/fractal"
	"github.com/san-kum/fractalvis/internal/telemetry"
)

const (
	rowChunk = 4
	// PointGain is the per-particle glow strength.
	PointGain = 0.15
)

var _ Backend = (*CPUBackend)(nil)

// CPUBackend evaluates the fractal per pixel into an RGBA image.
type CPUBackend struct {
	img *image.RGBA
	// drawn is false until the current target has been rendered into.
	drawn bool
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        { c.img, c.drawn = nil, false }

func (c *CPUBackend) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, width, height)
	}
	if c.img != nil {
		if b := c.img.Bounds(); b.Dx() == width && b.Dy() == height {
			return nil
		}
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	c.drawn = false
	return nil
}

func (c *CPUBackend) DrawSurface(ctx context.Context, u *Uniforms) error {
	if c.img == nil {
		return fmt.Errorf("%w: no target", ErrBadSize)
	}
	_, span := telemetry.Tracer().Start(ctx, "render.surface")
	defer span.End()

	b := c.img.Bounds()
	w, h := b.Dx(), b.Dy()
	span.SetAttributes(
		attribute.String("render.backend", c.Name()),
		attribute.Int("render.width", w),
		attribute.Int("render.height", h),
		attribute.Float64("fractal.mode", u.Mode),
	)

	p := u.Params()
	ParallelFor(h, rowChunk, func(start, end int) {
		for y := start; y < end; y++ {
			if ctx.Err() != nil {
				return
			}
			for x := 0; x < w; x++ {
				col := fractal.Pixel(fractal.ScreenUV(x, y, w, h), p)
				c.img.SetRGBA(x, y, toRGBA(col[0], col[1], col[2]))
			}
		}
	})
	if err := ctx.Err(); err != nil {
		return err
	}
	c.drawn = true
	return nil
}

func (c *CPUBackend) DrawPoints(ctx context.Context, u *Uniforms, pts []fractal.Point) error {
	if c.img == nil {
		return fmt.Errorf("%w: no target", ErrBadSize)
	}
	_, span := telemetry.Tracer().Start(ctx, "render.points")
	defer span.End()
	span.SetAttributes(attribute.Int("render.points", len(pts)))

	b := c.img.Bounds()
	w, h := b.Dx(), b.Dy()
	aspect := float64(w) / float64(h)
	for _, pt := range pts {
		sx, sy, ok := Project(pt, w, h, aspect)
		if !ok || pt.Alpha <= 0 {
			continue
		}
		c.splat(sx, sy, pt)
	}
	return nil
}

func (c *CPUBackend) Clear() error {
	if c.img == nil {
		return fmt.Errorf("%w: no target", ErrBadSize)
	}
	for i := 0; i < len(c.img.Pix); i += 4 {
		c.img.Pix[i], c.img.Pix[i+1], c.img.Pix[i+2], c.img.Pix[i+3] = 0, 0, 0, 255
	}
	c.drawn = true
	return nil
}

// splat adds a square glow of side pt.Size centered on (sx, sy).
func (c *CPUBackend) splat(sx, sy float64, pt fractal.Point) {
	half := pt.Size / 2
	x0, x1 := int(math.Floor(sx-half)), int(math.Ceil(sx+half))
	y0, y1 := int(math.Floor(sy-half)), int(math.Ceil(sy+half))
	a := pt.Alpha * PointGain
	add := [3]float64{pt.Color[0] * a, pt.Color[1] * a, pt.Color[2] * a}
	bounds := c.img.Bounds()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if !(image.Point{x, y}).In(bounds) {
				continue
			}
			o := c.img.PixOffset(x, y)
			for i := 0; i < 3; i++ {
				v := float64(c.img.Pix[o+i]) + add[i]*255
				c.img.Pix[o+i] = uint8(math.Min(v, 255))
			}
		}
	}
}

// Capture returns a copy of the current target, or nil until something
// has been drawn into it.
func (c *CPUBackend) Capture() image.Image {
	if c.img == nil || !c.drawn {
		return nil
	}
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

// Project maps a view-space point to pixel coordinates with a pinhole
// camera at fractal.CameraDistance.
func Project(pt fractal.Point, width, height int, aspect float64) (x, y float64, ok bool) {
	if !pt.Visible || pt.Size <= 0 {
		return 0, 0, false
	}
	depth := fractal.CameraDistance - pt.Pos[2]
	if depth <= 0.01 {
		return 0, 0, false
	}
	f := fractal.CameraDistance / depth
	nx := pt.Pos[0] * f / aspect
	ny := pt.Pos[1] * f
	x = (nx + 1) / 2 * float64(width)
	y = (1 - ny) / 2 * float64(height)
	return x, y, true
}

func toRGBA(r, g, b float64) color.RGBA {
	return color.RGBA{R: ColorByte(r), G: ColorByte(g), B: ColorByte(b), A: 255}
}

// ColorByte maps [0,1] to a byte, rounding and clamping.
func ColorByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
