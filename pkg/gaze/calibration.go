package gaze

import (
	"fmt"
	"sync"

	"github.com/visageio/go-facewire/internal/log"
)

// DefaultQuota is how many clicks each calibration point needs.
const DefaultQuota = 5

// CalibrationPoint is one click target in the 3x3 grid.
type CalibrationPoint struct {
	X      float64 `json:"x"` // Normalized 0-1
	Y      float64 `json:"y"` // Normalized 0-1
	Clicks int     `json:"clicks"`
}

// GridPositions returns the fixed 9-point grid at normalized
// {0.1, 0.5, 0.9} in both axes, row-major.
func GridPositions() []Point {
	coords := []float64{0.1, 0.5, 0.9}
	points := make([]Point, 0, 9)
	for _, y := range coords {
		for _, x := range coords {
			points = append(points, Point{X: x, Y: y})
		}
	}
	return points
}

// Calibrator tracks the click-to-calibrate flow that trains the
// external predictor. Idle -> Calibrating -> Idle(complete); the
// transition back is automatic once every point reaches quota, and
// Stop supports early exit.
type Calibrator struct {
	mu        sync.Mutex
	predictor Predictor
	points    []CalibrationPoint
	quota     int
	active    bool
	complete  bool
}

// NewCalibrator creates a calibrator over the standard grid.
// A non-positive quota falls back to DefaultQuota.
func NewCalibrator(predictor Predictor, quota int) *Calibrator {
	if quota <= 0 {
		quota = DefaultQuota
	}

	positions := GridPositions()
	points := make([]CalibrationPoint, len(positions))
	for i, p := range positions {
		points[i] = CalibrationPoint{X: p.X, Y: p.Y}
	}

	return &Calibrator{
		predictor: predictor,
		points:    points,
		quota:     quota,
	}
}

// Start clears the predictor's trained data, resets all click counts
// and enables sample collection.
func (c *Calibrator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.predictor.ClearData()
	for i := range c.points {
		c.points[i].Clicks = 0
	}
	c.predictor.AddMouseEventListeners()
	c.active = true
	c.complete = false

	log.Info("calibration started", "points", len(c.points), "quota", c.quota)
}

// Click registers a user click on the given point. Clicking a point
// already at quota is a no-op. Once every point reaches quota the
// calibrator finishes automatically. Returns whether calibration
// completed on this click.
func (c *Calibrator) Click(index int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return false, fmt.Errorf("gaze: calibration not active")
	}
	if index < 0 || index >= len(c.points) {
		return false, fmt.Errorf("gaze: calibration point %d out of range", index)
	}

	if c.points[index].Clicks < c.quota {
		c.points[index].Clicks++
	}

	for _, p := range c.points {
		if p.Clicks < c.quota {
			return false, nil
		}
	}

	c.finishLocked(true)
	return true, nil
}

// Stop exits calibration early. Click counts are kept so progress can
// still be inspected.
func (c *Calibrator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	c.finishLocked(false)
}

func (c *Calibrator) finishLocked(complete bool) {
	c.predictor.RemoveMouseEventListeners()
	c.active = false
	c.complete = complete

	log.Info("calibration finished", "complete", complete)
}

// Active reports whether a calibration session is in progress.
func (c *Calibrator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Complete reports whether the last session reached quota everywhere.
func (c *Calibrator) Complete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.complete
}

// Progress returns a copy of the per-point click counts.
func (c *Calibrator) Progress() []CalibrationPoint {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CalibrationPoint, len(c.points))
	copy(out, c.points)
	return out
}

// Quota returns the per-point click quota.
func (c *Calibrator) Quota() int { return c.quota }
