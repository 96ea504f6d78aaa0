// Package camera provides a configurable capture source for facewire.
// This follows the same pattern as pkg/render for tunable parameters.
package camera

// Config holds capture configuration parameters.
type Config struct {
	// DeviceIndex is the V4L2 / AVFoundation capture device index.
	DeviceIndex int `json:"device_index"`

	// === Resolution ===
	Width     int `json:"width"`     // Frame width in pixels
	Height    int `json:"height"`    // Frame height in pixels
	Framerate int `json:"framerate"` // Target FPS
	Quality   int `json:"quality"`   // JPEG quality 1-100
}

// DefaultConfig returns the recommended configuration.
// 640x480 keeps detector latency low enough for interactive use.
func DefaultConfig() Config {
	return Config{
		DeviceIndex: 0,
		Width:       640,
		Height:      480,
		Framerate:   30,
		Quality:     85,
	}
}

// HDConfig returns a 720p configuration for higher landmark accuracy
// at the cost of detection latency.
func HDConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 1280
	cfg.Height = 720
	return cfg
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.DeviceIndex < 0 {
		errors = append(errors, "device_index must be >= 0")
	}
	if c.Width < 160 || c.Width > 4096 {
		errors = append(errors, "width must be between 160 and 4096")
	}
	if c.Height < 120 || c.Height > 2160 {
		errors = append(errors, "height must be between 120 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > 120 {
		errors = append(errors, "framerate must be between 1 and 120")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}
