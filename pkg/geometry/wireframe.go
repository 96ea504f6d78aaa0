package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/visageio/go-facewire/pkg/landmark"
)

// Defaults for the wireframe builder.
const (
	// DefaultNeighbors is K, the nearest neighbors linked per point.
	DefaultNeighbors = 2

	// DefaultRebuildEvery throttles edge recomputation to every Nth
	// update; skipped frames reuse the previous edge set.
	DefaultRebuildEvery = 2
)

// Edge is an unordered pair of point indices, canonicalized so that
// A < B to deduplicate undirected edges.
type Edge struct {
	A, B int
}

// NewEdge canonicalizes an undirected edge.
func NewEdge(i, j int) Edge {
	if i > j {
		i, j = j, i
	}
	return Edge{A: i, B: j}
}

// Wireframe approximates a mesh by connecting each point to its K
// nearest neighbors. The O(n²·K) scan is the dominant cost of the
// pipeline, which is why rebuilds are throttled.
type Wireframe struct {
	neighbors    int
	rebuildEvery int

	calls    int
	rebuilds int

	edges []Edge
	lines []float32
}

// NewWireframe creates a wireframe builder. Non-positive arguments
// fall back to defaults.
func NewWireframe(neighbors, rebuildEvery int) *Wireframe {
	if neighbors <= 0 {
		neighbors = DefaultNeighbors
	}
	if rebuildEvery <= 0 {
		rebuildEvery = DefaultRebuildEvery
	}
	return &Wireframe{neighbors: neighbors, rebuildEvery: rebuildEvery}
}

// Update recomputes the edge set and line buffer if this call lands on
// a rebuild cycle, otherwise keeps the previous ones. Point-count
// changes do not force an out-of-cycle rebuild; stale edges are a
// tolerated transient. Reports whether a rebuild happened.
//
// Distances use the raw mapped coordinates, not the depth-scaled
// values the point-cloud buffer stores; wireframe density does not
// change with the depth-exaggeration constant.
func (w *Wireframe) Update(points []landmark.Point) bool {
	w.calls++
	if (w.calls-1)%w.rebuildEvery != 0 {
		return false
	}

	w.rebuild(points)
	w.rebuilds++
	return true
}

func (w *Wireframe) rebuild(points []landmark.Point) {
	edgeSet := make(map[Edge]struct{})

	vecs := make([]r3.Vec, len(points))
	for i, p := range points {
		vecs[i] = r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
	}

	// Per point: keep the K best (squaredDistance, index) candidates in
	// ascending order by insertion.
	type candidate struct {
		dist  float64
		index int
	}
	best := make([]candidate, 0, w.neighbors)

	for i := range points {
		best = best[:0]
		for j := range points {
			if j == i {
				continue
			}
			d := r3.Norm2(r3.Sub(vecs[i], vecs[j]))

			if len(best) < w.neighbors {
				best = append(best, candidate{})
			} else if d >= best[len(best)-1].dist {
				continue
			}

			// Insert keeping ascending order
			k := len(best) - 1
			for k > 0 && best[k-1].dist > d {
				best[k] = best[k-1]
				k--
			}
			best[k] = candidate{dist: d, index: j}
		}

		for _, c := range best {
			edgeSet[NewEdge(i, c.index)] = struct{}{}
		}
	}

	w.edges = w.edges[:0]
	for e := range edgeSet {
		w.edges = append(w.edges, e)
	}

	// Rebuild the line buffer wholesale: two endpoints per edge
	if cap(w.lines) < 6*len(w.edges) {
		w.lines = make([]float32, 0, 6*len(w.edges))
	}
	w.lines = w.lines[:0]
	for _, e := range w.edges {
		w.lines = append(w.lines,
			float32(points[e.A].X), float32(points[e.A].Y), float32(points[e.A].Z),
			float32(points[e.B].X), float32(points[e.B].Y), float32(points[e.B].Z),
		)
	}
}

// Edges returns the current edge set. Valid until the next rebuild.
func (w *Wireframe) Edges() []Edge { return w.edges }

// Lines returns the flat line vertex buffer, 6 floats per edge.
func (w *Wireframe) Lines() []float32 { return w.lines }

// Rebuilds returns how many times the edge set was recomputed.
func (w *Wireframe) Rebuilds() int { return w.rebuilds }

// Release drops edge and line storage.
func (w *Wireframe) Release() {
	w.edges = nil
	w.lines = nil
}
