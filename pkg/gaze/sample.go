// Package gaze infers a stable on/off-screen attention state from a
// noisy stream of gaze predictions, and runs the 9-point calibration
// flow that feeds the external predictor.
package gaze

// Sample is one timestamped gaze estimate from the external predictor.
// Valid false means the predictor produced no usable estimate this
// tick; invalid samples must never advance the on-screen clock.
type Sample struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	TimestampMs int64   `json:"timestamp_ms"`
	Valid       bool    `json:"valid"`
}

// Point is a gaze position in display pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
