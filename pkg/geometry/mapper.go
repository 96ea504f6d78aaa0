// Package geometry implements the per-frame point-cloud pipeline:
// mapping detector output into display space, maintaining reusable
// vertex buffers, and reconstructing an approximate wireframe from a
// K-nearest-neighbor graph.
package geometry

import "github.com/visageio/go-facewire/pkg/landmark"

// MapToDisplay maps landmarks from source-frame space into display
// pixel space using a "cover" fit: the source frame is scaled to fully
// cover the display rectangle, preserving aspect ratio and cropping
// any overflow. Z passes through unscaled.
//
// Returns a new slice; the input is never mutated. A nil or empty
// input is returned unchanged. Unknown source dimensions (vw or vh
// <= 0) fall back to the display dimensions, yielding scale 1 and
// zero offsets.
func MapToDisplay(points []landmark.Point, cw, ch, vw, vh float64) []landmark.Point {
	if len(points) == 0 {
		return points
	}

	if vw <= 0 || vh <= 0 {
		vw, vh = cw, ch
	}

	scale := cw / vw
	if s := ch / vh; s > scale {
		scale = s
	}
	offsetX := (cw - vw*scale) / 2
	offsetY := (ch - vh*scale) / 2

	out := make([]landmark.Point, len(points))
	for i, p := range points {
		out[i] = landmark.Point{
			X: p.X*scale + offsetX,
			Y: p.Y*scale + offsetY,
			Z: p.Z,
		}
	}
	return out
}
