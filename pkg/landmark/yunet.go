package landmark

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// yunetLandmarks is the number of landmark points YuNet emits per face:
// right eye, left eye, nose tip, right mouth corner, left mouth corner.
const yunetLandmarks = 5

// YuNetDetector uses OpenCV's FaceDetectorYN for landmark detection.
// This is the preferred runtime.
type YuNetDetector struct {
	detector gocv.FaceDetectorYN
	config   Config
	closed   bool
	mu       sync.Mutex // Protects inference
}

// NewYuNet creates a YuNet detector using GoCV's built-in FaceDetectorYN.
func NewYuNet(cfg Config) (*YuNetDetector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.ModelPath)
	}

	// Input size is updated per-image in Estimate
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"", // No config file needed for ONNX
		image.Pt(cfg.InputWidth, cfg.InputHeight),
		float32(cfg.ConfidenceThresh),
		0.3,  // NMS threshold
		5000, // Top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &YuNetDetector{
		detector: detector,
		config:   cfg,
	}, nil
}

// Name identifies the backend.
func (d *YuNetDetector) Name() string { return "yunet" }

// Estimate finds faces in the JPEG frame and returns their landmark sets
// in source-frame pixel coordinates.
func (d *YuNetDetector) Estimate(ctx context.Context, frame []byte) ([]Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDetectorClosed
	}

	img, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, ErrEmptyFrame
	}

	d.detector.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()

	d.detector.Detect(img, &faces)

	// YuNet output format (15 columns):
	// 0-3: x, y, w, h (bounding box in pixels)
	// 4-13: 5 facial landmarks (x,y pairs, pixels)
	// 14: face score
	var out []Face
	for r := 0; r < faces.Rows(); r++ {
		points := make([]Point, 0, yunetLandmarks)
		for l := 0; l < yunetLandmarks; l++ {
			points = append(points, Point{
				X: float64(faces.GetFloatAt(r, 4+l*2)),
				Y: float64(faces.GetFloatAt(r, 5+l*2)),
				Z: 0, // YuNet gives no depth
			})
		}
		out = append(out, Face{
			Landmarks:  points,
			Confidence: float64(faces.GetFloatAt(r, 14)),
		})
	}

	return out, nil
}

// Close releases the detector resources.
func (d *YuNetDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.detector.Close()
	return nil
}
