// Package tui renders fractals in the terminal using Bubble Tea.
//
// Frames come from a [director.Session] on the CPU backend and are drawn
// either as truecolor half blocks (two pixels per cell) or as monochrome
// braille dots (eight per cell).
//
// # Key Bindings
//
//	1-7      - Select fractal mode
//	+/-      - Zoom in/out
//	Arrows   - Pan
//	R        - Reset view
//	P        - Next animation preset
//	C        - Next palette
//	M        - Toggle music mode
//	I        - Toggle gesture mode
//	B        - Toggle braille rendering
//	Space    - Pause/Resume
//	T        - Cycle themes
//	S        - Save PNG
//	G        - Toggle GIF recording
//	?        - Show help overlay
//
// The mouse wheel zooms and dragging pans when the terminal reports mouse
// events.
package tui
