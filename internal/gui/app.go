package gui

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/fractalvis/internal/audio"
	"github.com/san-kum/fractalvis/internal/config"
	"github.com/san-kum/fractalvis/internal/director"
	"github.com/san-kum/fractalvis/internal/fractal"
	"github.com/san-kum/fractalvis/internal/gesture"
	"github.com/san-kum/fractalvis/internal/render"
	"github.com/san-kum/fractalvis/internal/render/gpu"
)

// Theme colors.
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColRec     = rl.NewColor(220, 40, 40, 255)
)

const (
	fontPath    = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	recordFPS   = 15
	recordWidth = 480
	noticeTime  = 2.5
	pulseTime   = 0.6
)

// Options wires the window to its inputs. Detector and Audio may be nil,
// which leaves the matching mode unavailable.
type Options struct {
	Config     *config.Config
	Detector   *gesture.Detector
	Audio      *audio.Session
	CaptureDir string
}

type App struct {
	Session *director.Session
	Backend *gpu.ShaderBackend
	Font    rl.Font
	ShowHUD bool

	ctx        context.Context
	captureDir string
	quit       bool

	rec      *render.GIFRecorder
	recClock float64

	notice      string
	noticeTimer float64
	pulse       string
	pulseTimer  float64
}

func initWindow(width, height int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(width), int32(height), "fractalvis")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont uses Liberation Mono when installed and the raylib font otherwise.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the session on a shader backend. The window must be open.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	backend := gpu.NewShaderBackend()
	sessOpts := []director.SessionOption{}
	if opts.Detector != nil {
		sessOpts = append(sessOpts, director.WithDetector(opts.Detector))
	}
	if opts.Audio != nil {
		sessOpts = append(sessOpts, director.WithAudio(opts.Audio))
	}
	sess, err := director.NewSession(ctx, opts.Config, backend, sessOpts...)
	if err != nil {
		backend.Cleanup()
		return nil, err
	}

	dir := opts.CaptureDir
	if dir == "" {
		dir = "."
	}
	return &App{
		Session:    sess,
		Backend:    backend,
		Font:       loadFont(),
		ShowHUD:    true,
		ctx:        ctx,
		captureDir: dir,
	}, nil
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, opts Options) error {
	initWindow(opts.Config.Width, opts.Config.Height)
	defer rl.CloseWindow()

	app, err := NewApp(ctx, opts)
	if err != nil {
		return err
	}
	defer app.Close()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() && a.ctx.Err() == nil {
		a.Update()
		a.Draw()
	}
}

// Close flushes an unfinished recording and releases the session.
func (a *App) Close() {
	if a.rec != nil {
		a.stopRecording()
	}
	a.Session.Close()
}

func (a *App) Update() {
	dt := float64(rl.GetFrameTime())

	if w, h := rl.GetScreenWidth(), rl.GetScreenHeight(); w > 0 && h > 0 {
		if err := a.Session.Resize(a.ctx, w, h); err != nil {
			a.notify(fmt.Sprintf("resize failed: %v", err))
		}
	}

	a.handlePointer()
	a.handleKeys()

	fr, err := a.Session.Frame(a.ctx, dt)
	if err != nil {
		log.Printf("gui: frame: %v", err)
	}
	if len(fr.Pulses) > 0 {
		a.pulse = fr.Pulses[len(fr.Pulses)-1].Gesture
		a.pulseTimer = pulseTime
	}
	if fr.ModeToggled {
		a.notify(fmt.Sprintf("%s mode", a.Session.Director().Machine.Mode))
	}

	a.noticeTimer -= dt
	a.pulseTimer -= dt
	a.record(dt)
}

func (a *App) handlePointer() {
	if m := rl.GetMouseWheelMove(); m != 0 {
		// Raylib reports scrolling up as positive.
		a.Session.Wheel(-float64(m))
	}
	pos := rl.GetMousePosition()
	x, y := float64(pos.X), float64(pos.Y)
	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		a.Session.PointerDown(x, y)
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		a.Session.PointerUp()
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		a.Session.PointerMove(x, y)
	}
}

var modeKeys = []int32{
	rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive, rl.KeySix, rl.KeySeven,
}

func (a *App) handleKeys() {
	s := a.Session
	cfg := s.Config()

	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		s.ZoomIn()
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		s.ZoomOut()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		s.ResetView()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	if rl.IsKeyPressed(rl.KeyC) {
		if err := s.CyclePalette(a.ctx); err != nil {
			a.notify(err.Error())
		}
	}
	if rl.IsKeyPressed(rl.KeyI) {
		if !s.SetInteractive(a.ctx, !cfg.Interactive) {
			a.notify("camera unavailable")
		}
	}
	if rl.IsKeyPressed(rl.KeyM) {
		if !s.SetMusic(a.ctx, !cfg.Music) {
			a.notify("audio unavailable")
		}
	}
	if rl.IsKeyPressed(rl.KeyP) {
		next := director.Presets()[(int(s.Director().Preset())+1)%len(director.Presets())]
		if err := s.SetPreset(a.ctx, next); err == nil {
			a.notify("preset " + next.String())
		}
	}
	for i, key := range modeKeys {
		if rl.IsKeyPressed(key) {
			if err := s.SetMode(a.ctx, fractal.Modes()[i]); err != nil {
				a.notify(err.Error())
			}
		}
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.saveCapture()
	}
	if rl.IsKeyPressed(rl.KeyG) {
		if a.rec == nil {
			a.rec = render.NewGIFRecorder(recordFPS, recordWidth)
			a.recClock = 0
			a.notify("recording")
		} else {
			a.stopRecording()
		}
	}
}

func (a *App) notify(msg string) {
	a.notice = msg
	a.noticeTimer = noticeTime
}

func (a *App) capturePath(ext string) string {
	name := fmt.Sprintf("fractalvis-%s.%s", time.Now().Format("20060102-150405"), ext)
	return filepath.Join(a.captureDir, name)
}

func (a *App) saveCapture() {
	img := a.Session.CaptureImage()
	if img == nil {
		a.notify("nothing to capture")
		return
	}
	path := a.capturePath("png")
	f, err := os.Create(path)
	if err != nil {
		a.notify(err.Error())
		return
	}
	defer f.Close()
	if err := render.EncodePNG(f, img, 0); err != nil {
		a.notify(err.Error())
		return
	}
	a.notify("saved " + path)
}

func (a *App) record(dt float64) {
	if a.rec == nil {
		return
	}
	a.recClock += dt
	if a.recClock < 1.0/recordFPS {
		return
	}
	a.recClock = 0
	if img := a.Session.CaptureImage(); img != nil {
		a.rec.Add(img)
	}
}

func (a *App) stopRecording() {
	rec := a.rec
	a.rec = nil
	if rec.Len() == 0 {
		a.notify("recording empty")
		return
	}
	path := a.capturePath("gif")
	f, err := os.Create(path)
	if err != nil {
		a.notify(err.Error())
		return
	}
	defer f.Close()
	if err := rec.Encode(f); err != nil {
		a.notify(err.Error())
		return
	}
	a.notify(fmt.Sprintf("saved %s (%d frames)", path, rec.Len()))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	tex := a.Backend.Texture()
	// Render textures are stored bottom-up.
	src := rl.NewRectangle(0, 0, float32(tex.Width), -float32(tex.Height))
	rl.DrawTextureRec(tex, src, rl.NewVector2(0, 0), rl.White)

	if a.ShowHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
