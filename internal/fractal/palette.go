package fractal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NumPalettes is the number of color modes. Indices wrap modulo this.
const NumPalettes = 5

const (
	PaletteReference = iota
	PaletteMagma
	PaletteAqua
	PaletteMatrix
	PaletteCyberpunk
)

var PaletteNames = [NumPalettes]string{"reference", "magma", "aqua", "matrix", "cyberpunk"}

var (
	refLow  = mgl64.Vec3{0.05, 0, 0.15}
	refMid  = mgl64.Vec3{0.4, 0, 0.8}
	refHigh = mgl64.Vec3{0.9, 0.7, 1.0}
)

// PaletteIndex wraps a (possibly fractional or negative) color mode to 0..4.
func PaletteIndex(mode float64) int {
	if !finite(mode) {
		return 0
	}
	m := glslMod(mode, NumPalettes)
	switch {
	case m < 0.5:
		return PaletteReference
	case m < 1.5:
		return PaletteMagma
	case m < 2.5:
		return PaletteAqua
	case m < 3.5:
		return PaletteMatrix
	default:
		return PaletteCyberpunk
	}
}

// Palette maps a normalized iteration value t to a color. Results are not
// clamped; callers pass them through SanitizeColor before output.
func Palette(t, mode float64) mgl64.Vec3 {
	switch PaletteIndex(mode) {
	case PaletteReference:
		v := fract(t)
		var col mgl64.Vec3
		if v < 0.5 {
			col = mixVec3(refLow, refMid, v*2)
		} else {
			col = mixVec3(refMid, refHigh, (v-0.5)*2)
		}
		return powVec3(col, 1.1)
	case PaletteMagma:
		col := mgl64.Vec3{1, 0.4, 0.1}.Mul(t).Add(mgl64.Vec3{0.2, 0, 0.2}.Mul(math.Sin(t * 10)))
		return powVec3(col, 1.2)
	case PaletteAqua:
		return mgl64.Vec3{0.1, 0.7, 1}.Mul(t)
	case PaletteMatrix:
		return mgl64.Vec3{0.1, 1, 0.2}.Mul(t * t)
	default:
		return mgl64.Vec3{1, 0.1, 0.8}.Mul(t).Add(mgl64.Vec3{0.1, 0, 1}.Mul(1 - t))
	}
}
