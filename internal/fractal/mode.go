package fractal

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for names that match no mode.
var ErrUnknownMode = errors.New("fractal: unknown mode")

type Mode int

const (
	Mandelbulb Mode = iota
	Julia
	Mandelbrot
	Tricorn
	BurningShip
	MengerSponge
	Sierpinski
)

// NumModes is the number of distinct fractal modes.
const NumModes = 7

var modeNames = [NumModes]string{
	"mandelbulb",
	"julia",
	"mandelbrot",
	"tricorn",
	"burning_ship",
	"menger_sponge",
	"sierpinski",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= NumModes {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Is3D reports whether the mode is raymarched rather than iterated in the plane.
func (m Mode) Is3D() bool {
	return m == Mandelbulb || m == MengerSponge || m == Sierpinski
}

// Modes returns every mode in index order.
func Modes() []Mode {
	out := make([]Mode, NumModes)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// ParseMode accepts the snake_case name, a few common aliases, or the index.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "bulb", "mandelbulb_3d":
		return Mandelbulb, nil
	case "julia_2d":
		return Julia, nil
	case "burningship", "ship":
		return BurningShip, nil
	case "menger":
		return MengerSponge, nil
	case "sierpinski_tetrahedron":
		return Sierpinski, nil
	}
	for i, name := range modeNames {
		if key == name || key == fmt.Sprint(i) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Blend splits a damped mode index into the two neighbouring modes and the
// crossfade weight of the upper one. The weight is 0 or 1 when the index is
// within 0.1 of an integer, so settled modes render exactly.
func Blend(index float64) (lo, hi Mode, w float64) {
	if math.IsNaN(index) {
		return Mandelbulb, Mandelbulb, 0
	}
	index = clamp(index, 0, NumModes-1)
	base := math.Floor(index)
	lo = Mode(base)
	hi = lo
	if int(hi) < NumModes-1 {
		hi++
	}
	w = smoothstep(0.1, 0.9, index-base)
	return lo, hi, w
}

// Nearest resolves a damped index to the closest mode.
func Nearest(index float64) Mode {
	lo, hi, w := Blend(index)
	if w >= 0.5 {
		return hi
	}
	return lo
}
