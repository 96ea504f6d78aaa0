// Package display renders the point cloud and wireframe in a desktop
// window. All low-level graphics calls stay inside this package; the
// render loop only hands over vertex data.
package display

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/visageio/go-facewire/pkg/geometry"
)

// Colors for the visualization.
var (
	pointColor = color.RGBA{R: 0x4f, G: 0xc3, B: 0xf7, A: 0xff}
	lineColor  = color.RGBA{R: 0x26, G: 0x6a, B: 0x8a, A: 0xff}
)

// Window is an ebiten-backed display surface. It implements
// render.Renderer: the render loop uploads vertex snapshots via Draw,
// and the ebiten frame callback paints the latest snapshot. The
// hand-off is the only shared state between the two and is guarded by
// a single mutex (single writer, single reader).
type Window struct {
	title string

	mu       sync.RWMutex
	width    int
	height   int
	points   []float32
	lines    []float32
	released bool
	closing  bool

	// OnResize is called when the display surface changes size.
	OnResize func(width, height float64)
}

// NewWindow creates a display surface with an initial size.
func NewWindow(title string, width, height int) *Window {
	return &Window{
		title:  title,
		width:  width,
		height: height,
	}
}

// Run opens the window and blocks until it closes. Must be called on
// the main goroutine.
func (w *Window) Run() error {
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(&game{w: w})
}

// DisplaySize returns the current surface dimensions in pixels.
func (w *Window) DisplaySize() (float64, float64) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return float64(w.width), float64(w.height)
}

// Draw uploads the current point cloud and line buffer. The data is
// copied so the render loop can keep overwriting its own buffers.
func (w *Window) Draw(cloud *geometry.Buffer, lines []float32) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.released {
		return nil
	}

	vertices := cloud.Vertices()
	if cap(w.points) < len(vertices) {
		w.points = make([]float32, len(vertices))
	}
	w.points = w.points[:len(vertices)]
	copy(w.points, vertices)

	if cap(w.lines) < len(lines) {
		w.lines = make([]float32, len(lines))
	}
	w.lines = w.lines[:len(lines)]
	copy(w.lines, lines)

	return nil
}

// RequestClose makes Run return after the current frame. Safe to call
// from any goroutine.
func (w *Window) RequestClose() {
	w.mu.Lock()
	w.closing = true
	w.mu.Unlock()
}

// Release drops the uploaded snapshots.
func (w *Window) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.released = true
	w.points = nil
	w.lines = nil
}

// game adapts Window to the ebiten.Game interface.
type game struct {
	w *Window
}

func (g *game) Update() error {
	g.w.mu.RLock()
	closing := g.w.closing
	g.w.mu.RUnlock()

	if closing {
		return ebiten.Termination
	}
	return nil
}

// Draw paints the latest uploaded snapshot. Stored depth is negated
// and scaled, so a higher value means nearer to the camera; nearer
// points render larger.
func (g *game) Draw(screen *ebiten.Image) {
	g.w.mu.RLock()
	defer g.w.mu.RUnlock()
	points := g.w.points
	lines := g.w.lines

	for i := 0; i+5 < len(lines); i += 6 {
		vector.StrokeLine(screen,
			lines[i], lines[i+1],
			lines[i+3], lines[i+4],
			1, lineColor, true)
	}

	for i := 0; i+2 < len(points); i += 3 {
		depth := points[i+2]
		radius := float32(2) + depth*0.05
		if radius < 1 {
			radius = 1
		}
		vector.DrawFilledCircle(screen, points[i], points[i+1], radius, pointColor, true)
	}
}

// Layout tracks the outside size so the surface reports live
// dimensions on resize.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.w.mu.Lock()
	resized := outsideWidth != g.w.width || outsideHeight != g.w.height
	g.w.width = outsideWidth
	g.w.height = outsideHeight
	cb := g.w.OnResize
	g.w.mu.Unlock()

	if resized && cb != nil {
		cb(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}
