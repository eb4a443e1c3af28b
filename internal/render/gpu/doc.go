// Package gpu implements render.Backend on raylib. The surface pass is a
// GLSL port of package fractal; points are evaluated on the CPU and blended
// additively.
package gpu
