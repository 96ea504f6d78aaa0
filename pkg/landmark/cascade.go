package landmark

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// CascadeDetector is the legacy fallback backend built on a Haar
// cascade classifier. Cascades only produce face rectangles, so the
// landmark set is synthesized from rectangle geometry: two eyes, nose
// tip and two mouth corners at fixed fractional offsets.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
	closed     bool
	mu         sync.Mutex
}

// NewCascade loads a Haar cascade from the given XML file.
func NewCascade(cfg Config) (*CascadeDetector, error) {
	if _, err := os.Stat(cfg.CascadePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.CascadePath)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cfg.CascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("landmark: load cascade %s failed", cfg.CascadePath)
	}

	return &CascadeDetector{classifier: classifier}, nil
}

// Name identifies the backend.
func (d *CascadeDetector) Name() string { return "cascade" }

// Fractional landmark offsets within a detected face rectangle.
var cascadeOffsets = [5][2]float64{
	{0.3, 0.4},  // right eye
	{0.7, 0.4},  // left eye
	{0.5, 0.6},  // nose tip
	{0.35, 0.8}, // right mouth corner
	{0.65, 0.8}, // left mouth corner
}

// Estimate detects faces and synthesizes landmark points from each
// bounding rectangle.
func (d *CascadeDetector) Estimate(ctx context.Context, frame []byte) ([]Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDetectorClosed
	}

	img, err := gocv.IMDecode(frame, gocv.IMReadGrayScale)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, ErrEmptyFrame
	}

	rects := d.classifier.DetectMultiScale(img)

	var out []Face
	for _, r := range rects {
		points := make([]Point, 0, len(cascadeOffsets))
		for _, off := range cascadeOffsets {
			points = append(points, Point{
				X: float64(r.Min.X) + off[0]*float64(r.Dx()),
				Y: float64(r.Min.Y) + off[1]*float64(r.Dy()),
				Z: 0,
			})
		}
		// Cascades carry no score; report a flat mid confidence
		out = append(out, Face{Landmarks: points, Confidence: 0.5})
	}

	return out, nil
}

// Close releases the classifier resources.
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.classifier.Close()
	return nil
}
