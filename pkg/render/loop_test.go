package render

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/visageio/go-facewire/pkg/geometry"
	"github.com/visageio/go-facewire/pkg/landmark"
)

// scriptedDetector returns a queued sequence of results, then repeats
// the last one.
type scriptedDetector struct {
	mu      sync.Mutex
	results [][]landmark.Face
	errs    []error
	calls   int
}

func (d *scriptedDetector) Estimate(ctx context.Context, frame []byte) ([]landmark.Face, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.calls
	d.calls++
	if i >= len(d.results) {
		i = len(d.results) - 1
	}
	if i < 0 {
		return nil, nil
	}
	var err error
	if i < len(d.errs) {
		err = d.errs[i]
	}
	return d.results[i], err
}

func (d *scriptedDetector) Name() string { return "scripted" }
func (d *scriptedDetector) Close() error { return nil }

func (d *scriptedDetector) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// stubSource hands out the same dummy frame.
type stubSource struct{}

func (stubSource) CaptureJPEG() ([]byte, error) { return []byte{0xff, 0xd8}, nil }
func (stubSource) FrameSize() (int, int)        { return 640, 480 }
func (stubSource) Close() error                 { return nil }

// flakySource fails capture from a given frame onward.
type flakySource struct {
	stubSource
	failFrom int
	calls    int
}

func (s *flakySource) CaptureJPEG() ([]byte, error) {
	s.calls++
	if s.calls > s.failFrom {
		return nil, errors.New("device busy")
	}
	return s.stubSource.CaptureJPEG()
}

// recordingRenderer records draw calls and buffer identity.
type recordingRenderer struct {
	mu       sync.Mutex
	draws    int
	lastLen  int
	released bool
}

func (r *recordingRenderer) DisplaySize() (float64, float64) { return 640, 480 }

func (r *recordingRenderer) Draw(cloud *geometry.Buffer, lines []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws++
	r.lastLen = len(cloud.Vertices())
	return nil
}

func (r *recordingRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
}

func (r *recordingRenderer) stats() (int, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draws, r.lastLen, r.released
}

func faces(n int) []landmark.Face {
	return []landmark.Face{{Landmarks: makeLandmarks(n), Confidence: 0.9}}
}

func makeLandmarks(n int) []landmark.Point {
	points := make([]landmark.Point, n)
	for i := range points {
		points[i] = landmark.Point{X: float64(i * 10), Y: float64(i * 5), Z: float64(i)}
	}
	return points
}

// runTicks drives the loop manually for a fixed number of frames.
func runTicks(t *testing.T, l *Loop, n int) {
	t.Helper()
	l.setState(Running)
	ctx := context.Background()
	for i := 0; i < n; i++ {
		if err := l.tick(ctx); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
}

func TestLoop_StableCountDoesNotReallocate(t *testing.T) {
	det := &scriptedDetector{results: [][]landmark.Face{faces(10), faces(10)}}
	l := New(DefaultConfig(), stubSource{}, det, &recordingRenderer{})

	runTicks(t, l, 2)

	if l.cloud.Reallocs() != 1 {
		t.Errorf("reallocs %d, want 1 (no reallocation on identical frame 2)", l.cloud.Reallocs())
	}
}

func TestLoop_CountChangeReallocatesOnce(t *testing.T) {
	det := &scriptedDetector{results: [][]landmark.Face{faces(10), faces(12)}}
	l := New(DefaultConfig(), stubSource{}, det, &recordingRenderer{})

	runTicks(t, l, 2)

	if l.cloud.Reallocs() != 2 {
		t.Errorf("reallocs %d, want 2 (exactly one per count change)", l.cloud.Reallocs())
	}
	if len(l.cloud.Vertices()) != 36 {
		t.Errorf("buffer length %d, want 36", len(l.cloud.Vertices()))
	}
}

func TestLoop_VisualizesBestScoringFace(t *testing.T) {
	// Two detections in one frame: the higher-confidence face wins
	// regardless of result order.
	multi := []landmark.Face{
		{Landmarks: makeLandmarks(5), Confidence: 0.4},
		{Landmarks: makeLandmarks(12), Confidence: 0.9},
	}
	det := &scriptedDetector{results: [][]landmark.Face{multi}}
	r := &recordingRenderer{}
	l := New(DefaultConfig(), stubSource{}, det, r)

	runTicks(t, l, 1)

	_, lastLen, _ := r.stats()
	if lastLen != 36 {
		t.Errorf("drew %d floats, want 36 from the 12-landmark face", lastLen)
	}
	if got := l.Snapshot().FaceCount; got != 2 {
		t.Errorf("face count %d, want 2 detections reported", got)
	}
}

func TestLoop_ZeroFacesRendersStale(t *testing.T) {
	det := &scriptedDetector{results: [][]landmark.Face{faces(10), nil}}
	r := &recordingRenderer{}
	l := New(DefaultConfig(), stubSource{}, det, r)

	runTicks(t, l, 2)

	draws, lastLen, _ := r.stats()
	if draws != 2 {
		t.Errorf("draws %d, want 2 (stale frame still rendered)", draws)
	}
	if lastLen != 30 {
		t.Errorf("stale draw used %d floats, want previous frame's 30", lastLen)
	}
	if got := l.Snapshot().FaceCount; got != 0 {
		t.Errorf("face count %d, want 0", got)
	}
}

func TestLoop_CaptureErrorRendersStale(t *testing.T) {
	// Degraded paths behave alike: a capture failure keeps showing the
	// previous frame's buffers, just like zero faces.
	det := &scriptedDetector{results: [][]landmark.Face{faces(10)}}
	r := &recordingRenderer{}
	l := New(DefaultConfig(), &flakySource{failFrom: 1}, det, r)

	runTicks(t, l, 2)

	draws, lastLen, _ := r.stats()
	if draws != 2 {
		t.Errorf("draws %d, want 2 (stale frame rendered on capture error)", draws)
	}
	if lastLen != 30 {
		t.Errorf("stale draw used %d floats, want previous frame's 30", lastLen)
	}
	snap := l.Snapshot()
	if snap.FaceCount != 0 {
		t.Errorf("face count %d, want 0 on capture error", snap.FaceCount)
	}
	if snap.Status == "" {
		t.Error("capture error should surface a status string")
	}
}

func TestLoop_DetectorErrorIsNonFatal(t *testing.T) {
	det := &scriptedDetector{
		results: [][]landmark.Face{faces(5), nil, faces(5)},
		errs:    []error{nil, errors.New("inference backend hiccup"), nil},
	}
	l := New(DefaultConfig(), stubSource{}, det, &recordingRenderer{})

	runTicks(t, l, 3)

	snap := l.Snapshot()
	if snap.FaceCount != 1 {
		t.Errorf("face count %d, want 1 after recovery", snap.FaceCount)
	}
	if snap.Status != "" {
		t.Errorf("status %q, want cleared after a good frame", snap.Status)
	}
}

func TestLoop_DetectorErrorSurfacesStatus(t *testing.T) {
	det := &scriptedDetector{
		results: [][]landmark.Face{nil},
		errs:    []error{errors.New("model exploded")},
	}
	l := New(DefaultConfig(), stubSource{}, det, &recordingRenderer{})

	runTicks(t, l, 1)

	snap := l.Snapshot()
	if snap.FaceCount != 0 {
		t.Errorf("face count %d, want 0 on detector error", snap.FaceCount)
	}
	if snap.Status == "" {
		t.Error("detector error should surface a status string")
	}
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	det := &scriptedDetector{results: [][]landmark.Face{faces(8)}}
	r := &recordingRenderer{}
	l := New(DefaultConfig(), stubSource{}, det, r)

	if l.State() != Initializing {
		t.Fatalf("state %v, want Initializing", l.State())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	// Let a few frames through, then tear down
	for l.Snapshot().FaceCount == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil on cancellation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if l.State() != Stopped {
		t.Errorf("state %v, want Stopped", l.State())
	}
	if _, _, released := r.stats(); !released {
		t.Error("teardown must release the renderer")
	}
	if l.cloud.Count() != 0 {
		t.Error("teardown must release the point-cloud buffer")
	}

	// A detect task abandoned mid-cancel may still land; let it settle,
	// then verify no new calls are issued.
	time.Sleep(20 * time.Millisecond)
	calls := det.callCount()
	time.Sleep(20 * time.Millisecond)
	if det.callCount() != calls {
		t.Error("no detection calls may be issued after Stopped")
	}
}

func TestLoop_ObservablesSnapshot(t *testing.T) {
	det := &scriptedDetector{results: [][]landmark.Face{faces(10)}}
	l := New(DefaultConfig(), stubSource{}, det, &recordingRenderer{})

	var pushed []Observables
	l.OnFrame = func(o Observables) { pushed = append(pushed, o) }

	runTicks(t, l, 3)

	if len(pushed) != 3 {
		t.Fatalf("OnFrame fired %d times, want 3", len(pushed))
	}
	last := pushed[len(pushed)-1]
	if last.FaceCount != 1 {
		t.Errorf("face count %d, want 1", last.FaceCount)
	}
	if last.State != "running" {
		t.Errorf("state %q, want running", last.State)
	}
}
