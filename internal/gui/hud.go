package gui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/fractalvis/internal/director"
	"github.com/san-kum/fractalvis/internal/fractal"
)

const barWidth = 20

var bandNames = [4]string{"VOL", "BASS", "MIDS", "TREB"}

// bar renders level in [0,1] as a run of pipes.
func bar(level float64) string {
	n := int(level * barWidth)
	n = max(0, min(n, barWidth))
	return strings.Repeat("|", n)
}

func (a *App) DrawHUD() {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	d := a.Session.Director()
	cfg := a.Session.Config()
	u := d.Active()

	a.drawText("fractalvis", 30, 30, 24, ColSelect)
	status := fmt.Sprintf(":: %s", fractal.Nearest(u.Mode))
	if p := d.Preset(); p != director.None {
		status += fmt.Sprintf("  ~ %s", p)
	}
	a.drawText(status, 180, 34, 16, ColText)
	a.drawText(fmt.Sprintf("zoom %.3g  iter %d  %s", u.Zoom, int(u.MaxIter), fractal.PaletteNames[fractal.PaletteIndex(u.ColorMode)]), 30, 60, 14, ColTextDim)

	if a.rec != nil {
		a.drawText(fmt.Sprintf("REC %d", a.rec.Len()), w-110, 30, 16, ColRec)
	}

	if cfg.Interactive {
		g := a.Session.Gesture()
		col := ColAccent
		if a.pulseTimer > 0 {
			col = ColSelect
		}
		a.drawText(fmt.Sprintf("%s  %s", d.Machine.Mode, g.Label), 30, h-140, 16, col)
		if a.pulseTimer > 0 {
			a.drawText(strings.ToUpper(a.pulse), 30, h-120, 14, ColSelect)
		}
	}

	if cfg.Music {
		for i, l := range d.Levels() {
			a.drawText(fmt.Sprintf("%-4s [%-20s]", bandNames[i], bar(l)), 30, h-100+i*16, 14, ColAccent)
		}
	} else {
		a.drawText("MIC [OFF]", 30, h-52, 14, rl.Red)
	}

	if a.noticeTimer > 0 {
		a.drawText(a.notice, w/2-160, 30, 16, ColAccent)
	}

	a.drawText("[1-7] MODE  [P] PRESET  [C] PALETTE  [I] HANDS  [M] MUSIC  [S] SHOT  [G] GIF  [R] RESET  [Q] QUIT", 200, h-32, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, h-32, 14, ColTextDim)
}
