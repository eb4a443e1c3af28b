package render

import (
	"errors"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"sync"

	xdraw "golang.org/x/image/draw"
)

var ErrNoFrame = errors.New("render: nothing captured")

// Downscale fits img inside maxWidth×maxHeight keeping its aspect ratio.
// A zero bound is unconstrained. Images that already fit are returned
// unchanged.
func Downscale(img image.Image, maxWidth, maxHeight int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	scale := 1.0
	if maxWidth > 0 && w > maxWidth {
		scale = float64(maxWidth) / float64(w)
	}
	if maxHeight > 0 && float64(h)*scale > float64(maxHeight) {
		scale = float64(maxHeight) / float64(h)
	}
	if scale >= 1 {
		return img
	}
	dw := max(1, int(float64(w)*scale+0.5))
	dh := max(1, int(float64(h)*scale+0.5))
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// EncodePNG writes img as PNG, downscaled to fit maxWidth when it is
// positive.
func EncodePNG(w io.Writer, img image.Image, maxWidth int) error {
	if img == nil {
		return ErrNoFrame
	}
	return png.Encode(w, Downscale(img, maxWidth, 0))
}

// GIFRecorder accumulates frames into a looping animated GIF.
type GIFRecorder struct {
	mu       sync.Mutex
	delay    int
	maxWidth int
	anim     gif.GIF
}

// NewGIFRecorder records at fps frames per second, scaling frames down to
// maxWidth when positive.
func NewGIFRecorder(fps, maxWidth int) *GIFRecorder {
	if fps <= 0 {
		fps = 15
	}
	return &GIFRecorder{delay: max(1, 100/fps), maxWidth: maxWidth}
}

func (r *GIFRecorder) Add(img image.Image) {
	if img == nil {
		return
	}
	img = Downscale(img, r.maxWidth, 0)
	b := img.Bounds()
	frame := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	xdraw.FloydSteinberg.Draw(frame, frame.Bounds(), img, b.Min)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.anim.Image = append(r.anim.Image, frame)
	r.anim.Delay = append(r.anim.Delay, r.delay)
}

func (r *GIFRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.anim.Image)
}

func (r *GIFRecorder) Encode(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.anim.Image) == 0 {
		return ErrNoFrame
	}
	return gif.EncodeAll(w, &r.anim)
}
