package tui

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fractalvis/internal/director"
	"github.com/san-kum/fractalvis/internal/fractal"
	"github.com/san-kum/fractalvis/internal/render"
)

const (
	frameInterval = time.Second / 30
	statsWidth    = 38
	historyLen    = 48
	meterWidth    = 16

	// Terminal cells are treated as 8x16 pixels for drag panning.
	cellWidth  = 8
	cellHeight = 16
	panStep    = 0.1

	brailleThreshold = 0.25

	recordFPS   = 10
	recordWidth = 320

	minCols = 8
	minRows = 4
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options tunes the terminal frontend.
type Options struct {
	Braille    bool
	// LogFile receives log output while the program owns the terminal.
	LogFile    string
	Theme      string
	CaptureDir string
}

// Model drives a session from Bubble Tea messages. The session must use a
// headless backend.
type Model struct {
	ctx  context.Context
	sess *director.Session

	width, height int
	braille       bool
	running       bool
	showHelp      bool
	theme         Theme
	captureDir    string

	frame   string
	last    time.Time
	fps     float64
	history [3][]float64
	rec     *render.GIFRecorder
	notice  string
}

func NewModel(ctx context.Context, sess *director.Session, opts Options) Model {
	dir := opts.CaptureDir
	if dir == "" {
		dir = "."
	}
	return Model{
		ctx:        ctx,
		sess:       sess,
		braille:    opts.Braille,
		running:    true,
		theme:      GetTheme(opts.Theme),
		captureDir: dir,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and renders a frame on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		now := time.Time(msg)
		dt := 0.0
		if !m.last.IsZero() {
			dt = now.Sub(m.last).Seconds()
		}
		m.last = now
		if m.running {
			m.step(dt)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.sess
	cfg := s.Config()
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.stopRecording()
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "+", "=":
		s.ZoomIn()
	case "-", "_":
		s.ZoomOut()
	case "r":
		s.ResetView()
	case "up", "down", "left", "right":
		m.pan(key)
	case "c":
		if err := s.CyclePalette(m.ctx); err != nil {
			m.notice = err.Error()
		}
	case "p":
		next := director.Presets()[(int(s.Director().Preset())+1)%len(director.Presets())]
		if err := s.SetPreset(m.ctx, next); err == nil {
			m.notice = "preset " + next.String()
		}
	case "m":
		if !s.SetMusic(m.ctx, !cfg.Music) {
			m.notice = "audio unavailable"
		}
	case "i":
		if !s.SetInteractive(m.ctx, !cfg.Interactive) {
			m.notice = "camera unavailable"
		}
	case "b":
		m.braille = !m.braille
		m.resize()
	case "t":
		m.theme = nextTheme(m.theme)
	case "s":
		m.saveCapture()
	case "g":
		if m.rec == nil {
			m.rec = render.NewGIFRecorder(recordFPS, recordWidth)
			m.notice = "recording"
		} else {
			m.stopRecording()
		}
	case "?":
		m.showHelp = !m.showHelp
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < fractal.NumModes {
			if err := s.SetMode(m.ctx, fractal.Modes()[key[0]-'1']); err != nil {
				m.notice = err.Error()
			}
		}
	}
	return m, nil
}

func (m *Model) pan(key string) {
	cam := m.sess.Director().Camera
	step := panStep / cam.Zoom
	d := map[string]mgl64.Vec2{
		"up":    {0, step},
		"down":  {0, -step},
		"left":  {-step, 0},
		"right": {step, 0},
	}[key]
	cam.Nudge(d)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y := float64(msg.X*cellWidth), float64(msg.Y*cellHeight)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.sess.Wheel(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.sess.Wheel(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.sess.PointerDown(x, y)
	case msg.Action == tea.MouseActionMotion:
		m.sess.PointerMove(x, y)
	case msg.Action == tea.MouseActionRelease:
		m.sess.PointerUp()
	}
}

// canvasCells is the text area left for the fractal.
func (m *Model) canvasCells() (cols, rows int) {
	cols = m.width - statsWidth - canvasStyle.GetHorizontalFrameSize() - 1
	rows = m.height - canvasStyle.GetVerticalFrameSize()
	return max(cols, minCols), max(rows, minRows)
}

// pixelSize maps the canvas to render pixels for the current cell mode.
func (m *Model) pixelSize() (int, int) {
	cols, rows := m.canvasCells()
	if m.braille {
		return cols * 2, rows * 4
	}
	return cols, rows * 2
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	w, h := m.pixelSize()
	if err := m.sess.Resize(m.ctx, w, h); err != nil {
		m.notice = err.Error()
	}
}

func (m *Model) step(dt float64) {
	if _, err := m.sess.Frame(m.ctx, dt); err != nil {
		log.Printf("tui: frame: %v", err)
		return
	}
	if dt > 0 {
		m.fps = 0.9*m.fps + 0.1/dt
	}
	img := m.sess.CaptureImage()
	if img == nil {
		return
	}
	m.frame = m.draw(img)
	if m.rec != nil {
		m.rec.Add(img)
	}
	if m.sess.Config().Music {
		lv := m.sess.Director().Levels()
		for i := range m.history {
			m.history[i] = appendCapped(m.history[i], lv[i+1], historyLen)
		}
	}
}

func (m *Model) draw(img image.Image) string {
	if m.braille {
		return Braille(img, brailleThreshold).String()
	}
	return HalfBlock(img)
}

func appendCapped(xs []float64, v float64, n int) []float64 {
	xs = append(xs, v)
	if len(xs) > n {
		xs = xs[len(xs)-n:]
	}
	return xs
}

func (m *Model) capturePath(ext string) string {
	name := fmt.Sprintf("fractalvis-%s.%s", time.Now().Format("20060102-150405"), ext)
	return filepath.Join(m.captureDir, name)
}

func (m *Model) saveCapture() {
	img := m.sess.CaptureImage()
	if img == nil {
		m.notice = "nothing to capture"
		return
	}
	path := m.capturePath("png")
	if err := writeFile(path, func(f *os.File) error { return render.EncodePNG(f, img, 0) }); err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = "saved " + path
}

func (m *Model) stopRecording() {
	rec := m.rec
	if rec == nil {
		return
	}
	m.rec = nil
	if rec.Len() == 0 {
		m.notice = "recording empty"
		return
	}
	path := m.capturePath("gif")
	if err := writeFile(path, func(f *os.File) error { return rec.Encode(f) }); err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = fmt.Sprintf("saved %s (%d frames)", path, rec.Len())
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var bandNames = [4]string{"Volume", "Bass", "Mids", "Treble"}

func (m Model) View() string {
	st := m.theme.styles()
	d := m.sess.Director()
	cfg := m.sess.Config()
	u := d.Active()

	canvasView := canvasStyle.Render(m.frame)

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(fractal.Nearest(u.Mode).String())) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.rec != nil {
		status += "  " + st.rec.Render(fmt.Sprintf("REC %d", m.rec.Len()))
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Preset", d.Preset().String())
	row("Zoom", fmt.Sprintf("%.3g", u.Zoom))
	row("Iter", fmt.Sprintf("%d", int(u.MaxIter)))
	row("Palette", fractal.PaletteNames[fractal.PaletteIndex(u.ColorMode)])
	w, h := u.Size()
	row("Size", fmt.Sprintf("%dx%d", w, h))
	row("FPS", fmt.Sprintf("%.0f", m.fps))

	if cfg.Interactive {
		g := m.sess.Gesture()
		row("Hands", fmt.Sprintf("%s %s", d.Machine.Mode, g.Label))
	}

	if cfg.Music {
		s.WriteString("\n")
		for i, l := range d.Levels() {
			s.WriteString(st.label.Render(bandNames[i]) + m.theme.meter(l, meterWidth) + "\n")
		}
		if len(m.history[0]) > 1 {
			chart := asciigraph.PlotMany(m.history[:],
				asciigraph.Height(5),
				asciigraph.Width(statsWidth-12),
				asciigraph.LowerBound(0),
				asciigraph.UpperBound(1),
				asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
				asciigraph.Caption("bass mids treble"))
			s.WriteString(st.graph.Render(chart) + "\n")
		}
	} else {
		row("Music", "off")
	}

	if m.notice != "" {
		s.WriteString("\n" + st.notice.Render(m.notice) + "\n")
	}
	s.WriteString(st.help.Render("─────────────────────\n1-7:Mode P:Preset C:Palette\nM:Music I:Hands B:Braille\nS:Shot G:GIF ?:Help Q:Quit"))
	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  1-7      - Select fractal           ║
║  +/-      - Zoom in/out              ║
║  Arrows   - Pan                      ║
║  R        - Reset view               ║
║  P        - Next preset              ║
║  C        - Next palette             ║
║  M        - Toggle music             ║
║  I        - Toggle hand gestures     ║
║  B        - Braille/half-block       ║
║  Space    - Pause/Resume             ║
║  T        - Cycle themes             ║
║  S        - Save PNG                 ║
║  G        - Toggle GIF recording     ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
