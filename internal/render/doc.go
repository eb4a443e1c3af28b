// Package render draws fractal frames through interchangeable backends.
//
// A frame is described entirely by a [Uniforms] value. Two sets exist at
// runtime, one for the full-surface pass and one for the point cloud, and
// the director keeps their shared fields in sync.
//
//   - [CPUBackend]: evaluates every pixel with package fractal, rows split
//     across workers. Used headless, by the terminal UI and by tests.
//   - gpu.ShaderBackend: uploads the same uniforms to a GLSL port of the
//     evaluator inside a raylib render texture.
//
// Captures come back as [image.Image] and can be encoded with [EncodePNG]
// or collected into an animated GIF with [GIFRecorder].
package render
