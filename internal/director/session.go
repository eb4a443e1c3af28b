package director

import (
	"context"
	"image"
	"log"

	"go.opentelemetry.io/otel/attribute"

	"github.com/san-kum/fractalvis/internal/audio"
	"github.com/san-kum/fractalvis/internal/config"
	"github.com/san-kum/fractalvis/internal/fractal"
	"github.com/san-kum/fractalvis/internal/gesture"
	"github.com/san-kum/fractalvis/internal/render"
	"github.com/san-kum/fractalvis/internal/telemetry"
)

type SessionOption func(*Session)

// WithDetector enables interactive mode. Without one, turning it on fails.
func WithDetector(d *gesture.Detector) SessionOption {
	return func(s *Session) { s.detector = d }
}

// WithAudio enables music mode. Without a session, turning it on fails.
func WithAudio(a *audio.Session) SessionOption {
	return func(s *Session) { s.audio = a }
}

func WithPointCloud(pc *render.PointCloud) SessionOption {
	return func(s *Session) { s.cloud = pc }
}

func WithDirectorOptions(opts ...Option) SessionOption {
	return func(s *Session) { s.dirOpts = append(s.dirOpts, opts...) }
}

// Session is a render surface: a director, the backend it draws into and
// the capture devices feeding it. All methods must be called from the
// render thread.
type Session struct {
	dir      *Director
	backend  render.Backend
	cloud    *render.PointCloud
	detector *gesture.Detector
	audio    *audio.Session
	dirOpts  []Option

	cfg    config.Config
	last   Frame
	closed bool
}

// NewSession validates cfg, sizes the backend and acquires whatever
// devices cfg asks for. A device that fails to start is left off.
func NewSession(ctx context.Context, cfg *config.Config, backend render.Backend, opts ...SessionOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	if s.cloud == nil {
		s.cloud = render.NewPointCloud(render.DefaultPointCount, render.DefaultPointSeed)
	}
	if err := backend.Resize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	idle := *cfg
	idle.Interactive, idle.Music = false, false
	s.cfg = idle
	s.dir = New(&idle, s.dirOpts...)
	if err := s.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Director() *Director     { return s.dir }
func (s *Session) Backend() render.Backend { return s.backend }

// Config is the configuration in effect, which may differ from the last
// one passed to Update when a device failed to start.
func (s *Session) Config() config.Config { return s.cfg }

// LastFrame is the result of the most recent Frame call.
func (s *Session) LastFrame() Frame { return s.last }

// Update switches devices on or off as cfg requires and hands it to the
// director. Device failures are logged and leave the device off.
func (s *Session) Update(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	next := *cfg

	if next.Width != s.cfg.Width || next.Height != s.cfg.Height {
		if err := s.backend.Resize(next.Width, next.Height); err != nil {
			return err
		}
	}

	if next.Interactive != s.cfg.Interactive {
		if next.Interactive {
			next.Interactive = s.startDetector(ctx)
		} else {
			s.detector.Stop()
		}
	}

	switchSource := next.Music && s.cfg.Music && next.AudioSource != s.cfg.AudioSource
	if next.Music != s.cfg.Music || switchSource {
		if next.Music {
			next.Music = s.startAudio(next.Source())
		} else {
			s.audio.Stop()
		}
	}

	s.dir.Apply(&next)
	s.cfg = next
	return nil
}

func (s *Session) startDetector(ctx context.Context) bool {
	if s.detector == nil {
		log.Printf("director: interactive mode needs a gesture source")
		return false
	}
	return s.detector.Start(ctx)
}

func (s *Session) startAudio(kind audio.SourceKind) bool {
	if s.audio == nil {
		log.Printf("director: music mode needs an audio source")
		return false
	}
	return s.audio.Start(kind)
}

// SetInteractive toggles gesture control and reports whether the
// requested state is now in effect.
func (s *Session) SetInteractive(ctx context.Context, on bool) bool {
	cfg := s.cfg
	cfg.Interactive = on
	if err := s.Update(ctx, &cfg); err != nil {
		log.Printf("director: %v", err)
	}
	return s.cfg.Interactive == on
}

// SetMusic toggles audio reactivity and reports whether the requested
// state is now in effect.
func (s *Session) SetMusic(ctx context.Context, on bool) bool {
	cfg := s.cfg
	cfg.Music = on
	if err := s.Update(ctx, &cfg); err != nil {
		log.Printf("director: %v", err)
	}
	return s.cfg.Music == on
}

func (s *Session) SetPreset(ctx context.Context, p Preset) error {
	cfg := s.cfg
	cfg.Animation = p.String()
	return s.Update(ctx, &cfg)
}

// SetMode selects a fractal and stops any running preset.
func (s *Session) SetMode(ctx context.Context, m fractal.Mode) error {
	cfg := s.cfg
	cfg.Mode = m.String()
	cfg.Animation = None.String()
	return s.Update(ctx, &cfg)
}

// CyclePalette steps from the palette on screen, which gestures may have
// moved past the configured one.
func (s *Session) CyclePalette(ctx context.Context) error {
	cfg := s.cfg
	cfg.ColorMode = (s.dir.Palette() + 1) % fractal.NumPalettes
	return s.Update(ctx, &cfg)
}

// Resize is called with the viewport size once per frame. Only real
// changes reach the backend.
func (s *Session) Resize(ctx context.Context, width, height int) error {
	if width == s.cfg.Width && height == s.cfg.Height {
		return nil
	}
	cfg := s.cfg
	cfg.Width, cfg.Height = width, height
	return s.Update(ctx, &cfg)
}

func (s *Session) ZoomIn() bool  { return s.dir.Camera.ZoomIn() }
func (s *Session) ZoomOut() bool { return s.dir.Camera.ZoomOut() }
func (s *Session) ResetView()    { s.dir.Camera.ResetView() }

func (s *Session) Wheel(deltaY float64) bool { return s.dir.Camera.Wheel(deltaY) }

func (s *Session) PointerDown(x, y float64) { s.dir.Camera.PointerDown(x, y) }
func (s *Session) PointerMove(x, y float64) { s.dir.Camera.PointerMove(x, y) }
func (s *Session) PointerUp()               { s.dir.Camera.PointerUp() }

// CaptureImage returns a copy of the last rendered frame, or nil before
// the first one.
func (s *Session) CaptureImage() image.Image {
	return s.backend.Capture()
}

// Gesture is the snapshot the next frame will consume.
func (s *Session) Gesture() gesture.Snapshot {
	if s.detector == nil || !s.cfg.Interactive {
		return gesture.EmptySnapshot()
	}
	return s.detector.Store().Latest()
}

// Frame pulls inputs, advances the director by dt and draws the active
// pass into the backend.
func (s *Session) Frame(ctx context.Context, dt float64) (Frame, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "render.frame")
	defer span.End()

	in := Inputs{Gesture: s.Gesture()}
	if s.audio != nil && s.cfg.Music && s.audio.Active() {
		in.Audio = s.audio.Analysis()
		in.Listening = true
	}
	fr := s.dir.Tick(dt, in)
	s.last = fr
	s.cfg.ColorMode = s.dir.Palette()

	u := s.dir.Active()
	span.SetAttributes(
		attribute.Bool("director.interactive", s.cfg.Interactive),
		attribute.Bool("director.listening", in.Listening),
		attribute.String("director.preset", s.dir.Preset().String()),
		attribute.Float64("fractal.mode", u.Mode),
	)

	var err error
	if s.cfg.Interactive {
		pts := s.cloud.Eval(u)
		if err = s.backend.Clear(); err == nil {
			err = s.backend.DrawPoints(ctx, u, pts)
		}
	} else {
		err = s.backend.DrawSurface(ctx, u)
	}
	if err != nil {
		span.RecordError(err)
	}
	return fr, err
}

// Close releases devices and the backend. Safe to call repeatedly.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.detector != nil {
		s.detector.Stop()
	}
	if s.audio != nil {
		s.audio.Stop()
	}
	s.backend.Cleanup()
}
