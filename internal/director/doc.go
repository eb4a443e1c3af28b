// Package director turns configuration, animation presets, gestures and
// audio into the two uniform sets the render backends consume.
//
// A [Director] is advanced once per display frame with [Director.Tick]. It
// owns the camera and the gesture machine, and is the only writer of the
// uniforms. [Session] wraps a director together with a backend, the point
// cloud and the capture devices, and exposes the commands a frontend binds
// to keys and pointer events.
package director
