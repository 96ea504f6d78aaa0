package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Source is the interface the render loop captures frames through.
type Source interface {
	// CaptureJPEG grabs one frame and returns it JPEG-encoded.
	CaptureJPEG() ([]byte, error)

	// FrameSize returns the native source frame dimensions.
	FrameSize() (width, height int)

	// Close releases the capture device.
	Close() error
}

// Webcam captures frames from a local camera via gocv.
type Webcam struct {
	capture *gocv.VideoCapture
	config  Config
	width   int
	height  int
	closed  bool
	mu      sync.Mutex
}

// OpenWebcam opens the configured capture device and applies the
// requested resolution. The device may negotiate different dimensions;
// FrameSize reports what it actually delivers.
func OpenWebcam(cfg Config) (*Webcam, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("camera: invalid config: %v", errs)
	}

	capture, err := gocv.OpenVideoCapture(cfg.DeviceIndex)
	if err != nil {
		return nil, fmt.Errorf("camera: open device %d: %w", cfg.DeviceIndex, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	w := &Webcam{
		capture: capture,
		config:  cfg,
		width:   int(capture.Get(gocv.VideoCaptureFrameWidth)),
		height:  int(capture.Get(gocv.VideoCaptureFrameHeight)),
	}

	if w.width == 0 || w.height == 0 {
		capture.Close()
		return nil, fmt.Errorf("camera: device %d reports zero frame size", cfg.DeviceIndex)
	}

	return w, nil
}

// CaptureJPEG grabs one frame and returns it JPEG-encoded.
func (w *Webcam) CaptureJPEG() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, fmt.Errorf("camera: capture on closed device")
	}

	img := gocv.NewMat()
	defer img.Close()

	if ok := w.capture.Read(&img); !ok || img.Empty() {
		return nil, fmt.Errorf("camera: read frame from device %d failed", w.config.DeviceIndex)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img,
		[]int{int(gocv.IMWriteJpegQuality), w.config.Quality})
	if err != nil {
		return nil, fmt.Errorf("camera: encode frame: %w", err)
	}
	defer buf.Close()

	// Copy out: buf memory is owned by gocv
	frame := make([]byte, buf.Len())
	copy(frame, buf.GetBytes())
	return frame, nil
}

// FrameSize returns the native frame dimensions the device delivers.
func (w *Webcam) FrameSize() (int, int) {
	return w.width, w.height
}

// Close releases the capture device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.capture.Close()
}
