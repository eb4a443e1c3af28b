package gpu

import (
	"context"
	_ "embed"
	"fmt"
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.opentelemetry.io/otel/attribute"
	xdraw "golang.org/x/image/draw"

	"github.com/san-kum/fractalvis/internal/fractal"
	"github.com/san-kum/fractalvis/internal/render"
	"github.com/san-kum/fractalvis/internal/telemetry"
)

//go:embed shaders/surface.fs
var surfaceFS string

var _ render.Backend = (*ShaderBackend)(nil)

// ShaderBackend runs the evaluator as a fragment shader in a raylib render
// texture. It needs an open window and must be driven from the thread that
// created it.
type ShaderBackend struct {
	shader rl.Shader
	target rl.RenderTexture2D
	locs   map[string]int32
	loaded bool
	drawn  bool
	width  int
	height int
}

func NewShaderBackend() *ShaderBackend {
	return &ShaderBackend{locs: make(map[string]int32)}
}

func (s *ShaderBackend) Name() string    { return "shader" }
func (s *ShaderBackend) Available() bool { return rl.IsWindowReady() }

func (s *ShaderBackend) load() error {
	if s.loaded {
		return nil
	}
	s.shader = rl.LoadShaderFromMemory("", surfaceFS)
	if !rl.IsShaderValid(s.shader) {
		return fmt.Errorf("%w: surface shader failed to compile", render.ErrUnavailable)
	}
	for _, name := range []string{
		"uResolution", "uTime", "uMode", "uPower", "uJuliaC", "uMaxIter",
		"uColorMode", "uChaos", "uZoom", "uPan",
	} {
		s.locs[name] = rl.GetShaderLocation(s.shader, name)
	}
	s.loaded = true
	return nil
}

func (s *ShaderBackend) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", render.ErrBadSize, width, height)
	}
	if err := s.load(); err != nil {
		return err
	}
	if width == s.width && height == s.height && rl.IsRenderTextureValid(s.target) {
		return nil
	}
	if rl.IsRenderTextureValid(s.target) {
		rl.UnloadRenderTexture(s.target)
	}
	s.target = rl.LoadRenderTexture(int32(width), int32(height))
	s.width, s.height = width, height
	s.drawn = false
	return nil
}

func (s *ShaderBackend) setFloat(name string, v float64) {
	rl.SetShaderValue(s.shader, s.locs[name], []float32{float32(v)}, rl.ShaderUniformFloat)
}

func (s *ShaderBackend) setVec2(name string, x, y float64) {
	rl.SetShaderValue(s.shader, s.locs[name], []float32{float32(x), float32(y)}, rl.ShaderUniformVec2)
}

func (s *ShaderBackend) DrawSurface(ctx context.Context, u *render.Uniforms) error {
	if !s.loaded {
		return fmt.Errorf("%w: no target", render.ErrBadSize)
	}
	_, span := telemetry.Tracer().Start(ctx, "render.surface")
	defer span.End()
	span.SetAttributes(
		attribute.String("render.backend", s.Name()),
		attribute.Int("render.width", s.width),
		attribute.Int("render.height", s.height),
	)

	s.setVec2("uResolution", float64(s.width), float64(s.height))
	s.setFloat("uTime", u.Time)
	s.setFloat("uMode", u.Mode)
	s.setFloat("uPower", u.Power)
	s.setVec2("uJuliaC", u.JuliaC[0], u.JuliaC[1])
	s.setFloat("uMaxIter", u.MaxIter)
	s.setFloat("uColorMode", float64(fractal.PaletteIndex(u.ColorMode)))
	s.setFloat("uChaos", u.Chaos)
	s.setFloat("uZoom", u.Zoom)
	s.setVec2("uPan", u.Pan[0], u.Pan[1])

	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Black)
	rl.BeginShaderMode(s.shader)
	rl.DrawRectangle(0, 0, int32(s.width), int32(s.height), rl.White)
	rl.EndShaderMode()
	rl.EndTextureMode()
	s.drawn = true
	return nil
}

func (s *ShaderBackend) Clear() error {
	if !s.loaded {
		return fmt.Errorf("%w: no target", render.ErrBadSize)
	}
	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Black)
	rl.EndTextureMode()
	s.drawn = true
	return nil
}

// DrawPoints evaluates positions on the CPU and splats them as additive
// quads into the target.
func (s *ShaderBackend) DrawPoints(ctx context.Context, u *render.Uniforms, pts []fractal.Point) error {
	if !s.loaded {
		return fmt.Errorf("%w: no target", render.ErrBadSize)
	}
	_, span := telemetry.Tracer().Start(ctx, "render.points")
	defer span.End()
	span.SetAttributes(attribute.Int("render.points", len(pts)))

	aspect := float64(s.width) / float64(s.height)
	rl.BeginTextureMode(s.target)
	rl.BeginBlendMode(rl.BlendAdditive)
	for _, pt := range pts {
		x, y, ok := render.Project(pt, s.width, s.height, aspect)
		if !ok || pt.Alpha <= 0 {
			continue
		}
		// Texture space is bottom-up.
		y = float64(s.height) - y
		size := float32(pt.Size)
		col := rl.NewColor(render.ColorByte(pt.Color[0]), render.ColorByte(pt.Color[1]), render.ColorByte(pt.Color[2]), render.ColorByte(pt.Alpha*render.PointGain))
		rl.DrawRectangleV(rl.NewVector2(float32(x)-size/2, float32(y)-size/2), rl.NewVector2(size, size), col)
	}
	rl.EndBlendMode()
	rl.EndTextureMode()
	return nil
}

// Texture exposes the target for drawing to the screen. Its rows are
// bottom-up.
func (s *ShaderBackend) Texture() rl.Texture2D {
	return s.target.Texture
}

func (s *ShaderBackend) Capture() image.Image {
	if !s.loaded || !s.drawn || !rl.IsRenderTextureValid(s.target) {
		return nil
	}
	img := rl.LoadImageFromTexture(s.target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)
	src := img.ToImage()
	out := image.NewRGBA(src.Bounds())
	xdraw.Draw(out, out.Bounds(), src, src.Bounds().Min, xdraw.Src)
	return out
}

func (s *ShaderBackend) Cleanup() {
	if rl.IsRenderTextureValid(s.target) {
		rl.UnloadRenderTexture(s.target)
	}
	if s.loaded {
		rl.UnloadShader(s.shader)
	}
	s.loaded, s.drawn = false, false
	s.width, s.height = 0, 0
}
