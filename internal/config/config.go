// Package config provides configuration helpers for facewire commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the visualizer binary.
const (
	DefaultHTTPPort    = "8080"
	DefaultCameraIndex = 0
	DefaultModelPath   = "models/face_detection_yunet.onnx"
	DefaultCascadePath = "models/haarcascade_frontalface_default.xml"
)

// HTTPPort returns the dashboard port from FACEWIRE_PORT env var.
// Falls back to the default if not set.
func HTTPPort() string {
	if port := os.Getenv("FACEWIRE_PORT"); port != "" {
		return port
	}
	return DefaultHTTPPort
}

// CameraIndex returns the capture device index from FACEWIRE_CAMERA.
func CameraIndex() int {
	if v := os.Getenv("FACEWIRE_CAMERA"); v != "" {
		if idx, err := strconv.Atoi(v); err == nil && idx >= 0 {
			return idx
		}
	}
	return DefaultCameraIndex
}

// ModelPath returns the YuNet ONNX model path from FACEWIRE_MODEL.
func ModelPath() string {
	if p := os.Getenv("FACEWIRE_MODEL"); p != "" {
		return p
	}
	return DefaultModelPath
}

// CascadePath returns the Haar cascade path from FACEWIRE_CASCADE.
// Used by the legacy fallback detector.
func CascadePath() string {
	if p := os.Getenv("FACEWIRE_CASCADE"); p != "" {
		return p
	}
	return DefaultCascadePath
}

// GazePredictorURL returns the websocket URL of the external gaze
// predictor from FACEWIRE_GAZE_URL. Empty means gaze features are off.
func GazePredictorURL() string {
	return os.Getenv("FACEWIRE_GAZE_URL")
}

// LogLevel returns the log level from FACEWIRE_LOG_LEVEL.
func LogLevel() string {
	if lvl := os.Getenv("FACEWIRE_LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}
