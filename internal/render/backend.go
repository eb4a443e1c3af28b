package render

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/san-kum/fractalvis/internal/fractal"
)

var (
	ErrUnknownBackend = errors.New("render: unknown backend")
	ErrUnavailable    = errors.New("render: backend unavailable")
	ErrBadSize        = errors.New("render: invalid size")
)

// Backend draws frames into an offscreen target that can be captured.
type Backend interface {
	Name() string
	Available() bool
	// Resize reallocates the target. Same-size calls are no-ops.
	Resize(width, height int) error
	DrawSurface(ctx context.Context, u *Uniforms) error
	// Clear fills the target with opaque black.
	Clear() error
	// DrawPoints blends the cloud additively over whatever is in the target.
	DrawPoints(ctx context.Context, u *Uniforms, pts []fractal.Point) error
	Capture() image.Image
	Cleanup()
}

// Select returns a headless backend by name. Window-bound backends live in
// package gpu.
func Select(name string, width, height int) (Backend, error) {
	var b Backend
	switch name {
	case "cpu", "":
		b = NewCPUBackend()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	if err := b.Resize(width, height); err != nil {
		b.Cleanup()
		return nil, err
	}
	return b, nil
}
