// Package fractal evaluates escape-time sets and distance-estimated surfaces.
//
// Everything here is a pure function of a point (or ray) and a [Params]
// value, so the same math backs the CPU renderer, the point cloud, and the
// tests. The GLSL shader used by the GPU backend mirrors these functions.
//
// Modes are addressed by a float index so the director can damp between
// them:
//
//   - [Mandelbulb] (0), [MengerSponge] (5), [Sierpinski] (6): raymarched
//   - [Julia] (1), [Mandelbrot] (2), [Tricorn] (3), [BurningShip] (4): escape time
//
// # Example
//
//	p := fractal.DefaultParams()
//	p.Mode = float64(fractal.Mandelbrot)
//	col := fractal.Pixel(mgl64.Vec2{0.1, 0.2}, p)
//
// All evaluation is bounded: escape loops stop at [MaxIterCeiling], rays at
// [MaxSteps]. Non-finite distances are treated as misses and non-finite
// colors clamp to black.
package fractal
