package fractal

import "github.com/go-gl/mathgl/mgl64"

// Shade colors one screen-space uv for a single settled mode.
func Shade(uv mgl64.Vec2, mode Mode, p Params) mgl64.Vec3 {
	if mode.Is3D() {
		return Shade3D(uv, mode, p)
	}
	return Shade2D(uv, mode, p)
}

// Pixel is the surface evaluator. uv is centered with y up and x already
// scaled by the aspect ratio. A mode index between two modes crossfades
// their colors.
func Pixel(uv mgl64.Vec2, p Params) mgl64.Vec3 {
	lo, hi, w := Blend(p.Mode)
	var col mgl64.Vec3
	switch {
	case w <= 0:
		col = Shade(uv, lo, p)
	case w >= 1:
		col = Shade(uv, hi, p)
	default:
		col = mixVec3(Shade(uv, lo, p), Shade(uv, hi, p), w)
	}
	return SanitizeColor(col)
}

// ScreenUV converts a pixel center to centered uv for a width×height target.
func ScreenUV(x, y, width, height int) mgl64.Vec2 {
	u := (float64(x)+0.5)/float64(width)*2 - 1
	v := 1 - (float64(y)+0.5)/float64(height)*2
	if height > 0 {
		u *= float64(width) / float64(height)
	}
	return mgl64.Vec2{u, v}
}
