// Package landmark provides facial landmark detection backends.
package landmark

import "context"

// Point is a single tracked facial point in detector-native pixel space.
// Z is a relative depth value; backends that produce no depth set it to 0.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Face is one detected face with its landmark set.
// Landmark indices are stable across frames while the same face is tracked.
type Face struct {
	Landmarks  []Point `json:"landmarks"`
	Confidence float64 `json:"confidence"`
}

// Detector is the interface for facial landmark detection backends.
type Detector interface {
	// Estimate finds faces in the JPEG frame and returns their landmarks
	// in source-frame pixel coordinates. An empty slice means no face.
	Estimate(ctx context.Context, frame []byte) ([]Face, error)

	// Name identifies the backend for logging and status reporting.
	Name() string

	// Close releases resources.
	Close() error
}

// Config holds detector configuration.
type Config struct {
	ModelPath        string  // Path to YuNet ONNX model
	CascadePath      string  // Path to Haar cascade XML (legacy fallback)
	ConfidenceThresh float64 // Minimum confidence (default 0.6)
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YuNet.
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/face_detection_yunet.onnx",
		CascadePath:      "models/haarcascade_frontalface_default.xml",
		ConfidenceThresh: 0.6,
		InputWidth:       320,
		InputHeight:      320,
	}
}

// SelectBest picks the best face from multiple detections.
// Priority: confidence, then landmark count as a tie-breaker.
func SelectBest(faces []Face) *Face {
	if len(faces) == 0 {
		return nil
	}

	best := &faces[0]
	for i := 1; i < len(faces); i++ {
		f := &faces[i]
		if f.Confidence > best.Confidence ||
			(f.Confidence == best.Confidence && len(f.Landmarks) > len(best.Landmarks)) {
			best = f
		}
	}
	return best
}
