package gaze

import (
	"sync"
	"time"
)

// Defaults for the attention monitor.
const (
	// DefaultMargin expands the viewport on all sides before the
	// inside test, in pixels.
	DefaultMargin = 40.0

	// DefaultOffscreenDelay is how long the gaze must stay outside
	// the expanded viewport before the state flips off-screen. The
	// delay debounces single brief excursions so noisy predictions
	// do not flicker the state.
	DefaultOffscreenDelay = 250 * time.Millisecond
)

// Config holds monitor tunables.
type Config struct {
	Margin         float64       // Viewport expansion in pixels
	OffscreenDelay time.Duration // Hysteresis window
}

// DefaultMonitorConfig returns the recommended configuration.
func DefaultMonitorConfig() Config {
	return Config{
		Margin:         DefaultMargin,
		OffscreenDelay: DefaultOffscreenDelay,
	}
}

// Snapshot is the monitor state exposed read-only to the UI layer.
type Snapshot struct {
	OffScreen bool   `json:"off_screen"`
	LastPoint *Point `json:"last_point"` // nil when unknown
}

// Monitor derives a debounced on/off-screen boolean from incoming
// samples. Observe is deterministic given identical sample sequences
// and supplied clock values, and tolerates a non-monotonic clock: the
// off-screen test is always a pure delta against the last on-screen
// time, never a sequence assumption.
type Monitor struct {
	mu  sync.RWMutex
	cfg Config

	viewportW float64
	viewportH float64

	lastOnScreenAt time.Time
	lastPoint      *Point
	offScreen      bool
}

// NewMonitor creates a monitor for the given viewport dimensions.
func NewMonitor(cfg Config, viewportW, viewportH float64) *Monitor {
	if cfg.Margin <= 0 {
		cfg.Margin = DefaultMargin
	}
	if cfg.OffscreenDelay <= 0 {
		cfg.OffscreenDelay = DefaultOffscreenDelay
	}
	return &Monitor{
		cfg:       cfg,
		viewportW: viewportW,
		viewportH: viewportH,
		offScreen: true, // no gaze seen yet
	}
}

// SetViewport updates the viewport dimensions on display resize.
func (m *Monitor) SetViewport(w, h float64) {
	m.mu.Lock()
	m.viewportW = w
	m.viewportH = h
	m.mu.Unlock()
}

// Observe processes one sample against the supplied clock value.
//
// Invalid samples clear the externally-visible last known position but
// leave everything else untouched; in particular the on-screen timer
// is not reset. Valid samples inside the margin-expanded viewport
// advance the timer; either way the off-screen state is recomputed
// from the elapsed time against the delay threshold.
func (m *Monitor) Observe(s Sample, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !s.Valid {
		m.lastPoint = nil
		return
	}

	m.lastPoint = &Point{X: s.X, Y: s.Y}

	if m.inside(s.X, s.Y) {
		m.lastOnScreenAt = now
	}

	if m.lastOnScreenAt.IsZero() {
		m.offScreen = true
		return
	}
	m.offScreen = now.Sub(m.lastOnScreenAt) > m.cfg.OffscreenDelay
}

func (m *Monitor) inside(x, y float64) bool {
	return x >= -m.cfg.Margin && x <= m.viewportW+m.cfg.Margin &&
		y >= -m.cfg.Margin && y <= m.viewportH+m.cfg.Margin
}

// OffScreen reports the debounced state as of the last Observe.
func (m *Monitor) OffScreen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.offScreen
}

// StateAt returns the externally-visible state evaluated at the given
// time. Off-screen is a pure function of the elapsed time since the
// last on-screen sample, so the flip is observable between samples.
func (m *Monitor) StateAt(now time.Time) Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{OffScreen: true}
	if !m.lastOnScreenAt.IsZero() {
		snap.OffScreen = now.Sub(m.lastOnScreenAt) > m.cfg.OffscreenDelay
	}
	if m.lastPoint != nil {
		p := *m.lastPoint
		snap.LastPoint = &p
	}
	return snap
}
