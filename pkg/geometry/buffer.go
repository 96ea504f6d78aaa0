package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/visageio/go-facewire/pkg/landmark"
)

// DefaultDepthScale exaggerates raw depth for visual effect.
// Stored depth is -z*scale so larger raw z (farther from camera)
// renders as moving away along the view axis.
const DefaultDepthScale = 2.0

// Bounds is the axis-aligned bounding volume of a buffer, used by the
// renderer for culling and clipping.
type Bounds struct {
	Min, Max r3.Vec
}

// Buffer maintains a persistent, frame-reusable vertex array for the
// point cloud. The flat layout is x0,y0,z0,x1,y1,z1,... and the array
// is reallocated only when the point count changes between frames,
// never speculatively.
type Buffer struct {
	vertices   []float32
	count      int
	depthScale float64
	bounds     Bounds
	dirty      bool
	reallocs   int
}

// NewBuffer creates an empty point-cloud buffer.
func NewBuffer(depthScale float64) *Buffer {
	if depthScale <= 0 {
		depthScale = DefaultDepthScale
	}
	return &Buffer{depthScale: depthScale}
}

// Update overwrites the buffer with the given display-space points,
// reallocating exactly once if the point count changed. Depth is
// stored negated and scaled; the bounding volume is recomputed and
// the buffer is marked dirty for re-upload.
func (b *Buffer) Update(points []landmark.Point) {
	if len(points) != b.count {
		b.vertices = make([]float32, 3*len(points))
		b.count = len(points)
		b.reallocs++
	}

	for i, p := range points {
		b.vertices[i*3] = float32(p.X)
		b.vertices[i*3+1] = float32(p.Y)
		b.vertices[i*3+2] = float32(-p.Z * b.depthScale)
	}

	b.recomputeBounds()
	b.dirty = true
}

func (b *Buffer) recomputeBounds() {
	if b.count == 0 {
		b.bounds = Bounds{}
		return
	}

	min := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i < b.count; i++ {
		x := float64(b.vertices[i*3])
		y := float64(b.vertices[i*3+1])
		z := float64(b.vertices[i*3+2])
		min.X = math.Min(min.X, x)
		min.Y = math.Min(min.Y, y)
		min.Z = math.Min(min.Z, z)
		max.X = math.Max(max.X, x)
		max.Y = math.Max(max.Y, y)
		max.Z = math.Max(max.Z, z)
	}
	b.bounds = Bounds{Min: min, Max: max}
}

// Vertices returns the flat vertex array. The slice is owned by the
// buffer and only valid until the next Update.
func (b *Buffer) Vertices() []float32 { return b.vertices }

// Count returns the current point count.
func (b *Buffer) Count() int { return b.count }

// Bounds returns the bounding volume computed on the last Update.
func (b *Buffer) Bounds() Bounds { return b.bounds }

// Dirty reports whether the buffer changed since the last MarkClean.
func (b *Buffer) Dirty() bool { return b.dirty }

// MarkClean is called by the renderer after uploading the buffer.
func (b *Buffer) MarkClean() { b.dirty = false }

// Reallocs returns how many times the vertex array was reallocated.
func (b *Buffer) Reallocs() int { return b.reallocs }

// Release drops the vertex storage. The buffer is reusable afterwards
// but starts from an empty allocation.
func (b *Buffer) Release() {
	b.vertices = nil
	b.count = 0
	b.bounds = Bounds{}
	b.dirty = false
}
