package render

import (
	"context"
	"sync"
	"time"

	"github.com/visageio/go-facewire/internal/log"
	"github.com/visageio/go-facewire/pkg/camera"
	"github.com/visageio/go-facewire/pkg/geometry"
	"github.com/visageio/go-facewire/pkg/landmark"
)

// State is the lifecycle phase of the render loop.
type State int

const (
	// Initializing means Run has not been called yet.
	Initializing State = iota
	// Running means the loop is driving frames.
	Running
	// Stopped means the loop exited and released its buffers.
	Stopped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Renderer is the drawing backend. Low-level graphics calls stay
// behind this boundary.
type Renderer interface {
	// DisplaySize returns the current display surface dimensions in
	// pixels. May change between frames on resize.
	DisplaySize() (width, height float64)

	// Draw presents the current point cloud and wireframe.
	Draw(cloud *geometry.Buffer, lines []float32) error

	// Release frees renderer-owned resources.
	Release()
}

// Observables is the read-only loop state exposed to the UI layer.
type Observables struct {
	State     string `json:"state"`
	FaceCount int    `json:"face_count"`
	FPS       int    `json:"fps"`
	Status    string `json:"status"`
}

// Loop drives the per-frame pipeline. One detection call is in flight
// at a time; detector latency is the natural frame cadence.
type Loop struct {
	config   Config
	source   camera.Source
	detector landmark.Detector
	renderer Renderer

	cloud *geometry.Buffer
	wire  *geometry.Wireframe
	fps   *FPSCounter

	// Observables: single writer (the loop), many readers
	mu    sync.RWMutex
	state State
	obs   Observables

	// OnFrame, if set, is called after each rendered frame with a
	// fresh snapshot. Used to push dashboard updates.
	OnFrame func(Observables)
}

// New creates a render loop. Source, detector and renderer are
// external collaborators owned by the caller; the loop owns its
// geometry buffers.
func New(cfg Config, source camera.Source, detector landmark.Detector, renderer Renderer) *Loop {
	return &Loop{
		config:   cfg,
		source:   source,
		detector: detector,
		renderer: renderer,
		cloud:    geometry.NewBuffer(cfg.DepthScale),
		wire:     geometry.NewWireframe(cfg.Neighbors, cfg.RebuildEvery),
		fps:      NewFPSCounter(cfg.FPSWindow),
		state:    Initializing,
	}
}

// Run drives frames until ctx is cancelled, then releases owned
// buffers. Only one Run per loop.
func (l *Loop) Run(ctx context.Context) error {
	l.setState(Running)
	log.Info("render loop started",
		"neighbors", l.config.Neighbors,
		"rebuild_every", l.config.RebuildEvery,
		"depth_scale", l.config.DepthScale,
	)

	defer l.teardown()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := l.tick(ctx); err != nil {
			// Cancellation is the only error that escapes a tick
			return nil
		}
	}
}

type detectResult struct {
	faces []landmark.Face
	err   error
}

// tick runs one frame. Detection is scheduled as its own task so a
// pending call can be abandoned when ctx is cancelled during teardown;
// the buffered channel lets the discarded task complete.
func (l *Loop) tick(ctx context.Context) error {
	frame, err := l.source.CaptureJPEG()
	if err != nil {
		l.renderStale()
		l.frameDone(0, "capture failed: "+err.Error())
		return nil
	}

	ch := make(chan detectResult, 1)
	go func() {
		faces, err := l.detector.Estimate(ctx, frame)
		ch <- detectResult{faces: faces, err: err}
	}()

	var res detectResult
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}

	if res.err != nil {
		// Detector trouble is non-fatal: treat as zero faces
		l.renderStale()
		l.frameDone(0, "detector: "+res.err.Error())
		return nil
	}

	if len(res.faces) == 0 {
		// Keep showing the previous frame's buffers, not a blank
		l.renderStale()
		l.frameDone(0, "")
		return nil
	}

	// Single tracked face: the best-scoring detection is visualized
	face := landmark.SelectBest(res.faces)
	points := face.Landmarks
	if len(points) == 0 {
		l.renderStale()
		l.frameDone(len(res.faces), "")
		return nil
	}

	dw, dh := l.renderer.DisplaySize()
	vw, vh := l.source.FrameSize()
	mapped := geometry.MapToDisplay(points, dw, dh, float64(vw), float64(vh))

	l.cloud.Update(mapped)
	l.wire.Update(mapped)

	if err := l.renderer.Draw(l.cloud, l.wire.Lines()); err != nil {
		l.frameDone(len(res.faces), "draw: "+err.Error())
		return nil
	}
	l.cloud.MarkClean()

	l.frameDone(len(res.faces), "")
	return nil
}

// renderStale redraws the previous buffers so the display is not
// blanked on a faceless frame.
func (l *Loop) renderStale() {
	if l.cloud.Count() == 0 {
		return
	}
	if err := l.renderer.Draw(l.cloud, l.wire.Lines()); err != nil {
		log.Warn("stale redraw failed", "error", err)
	}
}

func (l *Loop) frameDone(faces int, status string) {
	fps, reported := l.fps.Frame(time.Now())

	l.mu.Lock()
	l.obs.FaceCount = faces
	if reported {
		l.obs.FPS = fps
	}
	l.obs.Status = status
	l.obs.State = l.state.String()
	snapshot := l.obs
	cb := l.OnFrame
	l.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

func (l *Loop) teardown() {
	l.cloud.Release()
	l.wire.Release()
	l.renderer.Release()
	l.setState(Stopped)
	log.Info("render loop stopped")
}

func (l *Loop) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.obs.State = s.String()
	l.mu.Unlock()
}

// State returns the current lifecycle phase.
func (l *Loop) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Snapshot returns the latest observables. Safe for concurrent use.
func (l *Loop) Snapshot() Observables {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.obs
}
