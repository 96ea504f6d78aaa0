// Package render orchestrates the per-frame visualization pipeline:
// detect, map, update buffers, draw, account FPS.
package render

import (
	"time"

	"github.com/visageio/go-facewire/pkg/geometry"
)

// Config holds all tunable parameters for the render loop.
type Config struct {
	// Wireframe
	Neighbors    int // K nearest neighbors linked per point
	RebuildEvery int // Recompute edges every Nth frame

	// Depth
	DepthScale float64 // Visual depth exaggeration factor

	// FPS accounting
	FPSWindow time.Duration // Rolling report window
}

// DefaultConfig returns the recommended configuration.
func DefaultConfig() Config {
	return Config{
		Neighbors:    geometry.DefaultNeighbors,
		RebuildEvery: geometry.DefaultRebuildEvery,
		DepthScale:   geometry.DefaultDepthScale,
		FPSWindow:    500 * time.Millisecond,
	}
}

// DenseConfig links more neighbors per point for a denser wireframe.
// Noticeably more CPU per rebuild at higher landmark counts.
func DenseConfig() Config {
	cfg := DefaultConfig()
	cfg.Neighbors = 3
	return cfg
}
