package render

import (
	"math"
	"time"
)

// FPSCounter produces a rolling-window frame-rate estimate rather than
// an instantaneous per-frame value.
type FPSCounter struct {
	window     time.Duration
	frames     int
	lastReport time.Time
	fps        int
}

// NewFPSCounter creates a counter reporting every window at the earliest.
func NewFPSCounter(window time.Duration) *FPSCounter {
	if window <= 0 {
		window = 500 * time.Millisecond
	}
	return &FPSCounter{window: window}
}

// Frame records one rendered frame at the given time and returns the
// current estimate plus whether it was refreshed on this call.
func (c *FPSCounter) Frame(now time.Time) (int, bool) {
	if c.lastReport.IsZero() {
		// First frame anchors the window and is not counted
		c.lastReport = now
		return c.fps, false
	}

	c.frames++

	elapsed := now.Sub(c.lastReport)
	if elapsed < c.window {
		return c.fps, false
	}

	c.fps = int(math.Round(float64(c.frames) * 1000 / float64(elapsed.Milliseconds())))
	c.frames = 0
	c.lastReport = now
	return c.fps, true
}

// FPS returns the last reported estimate.
func (c *FPSCounter) FPS() int { return c.fps }
