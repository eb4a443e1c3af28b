// Package gesture classifies hand landmarks into gestures and turns them
// into view changes.
//
// Detection and consumption run on different clocks. A [Detector] polls a
// [Source] on its own goroutine and publishes [Snapshot] values to a
// [Store]; the render tick reads the latest snapshot and feeds it to a
// [Machine], which owns all edge and cooldown state.
package gesture
