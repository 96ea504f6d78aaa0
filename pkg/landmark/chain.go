package landmark

import (
	"github.com/visageio/go-facewire/internal/log"
)

// Factory constructs a detector backend from a config.
type Factory struct {
	Name string
	New  func(Config) (Detector, error)
}

// DefaultFactories returns the backend fallback order: the YuNet
// runtime first, then the legacy Haar cascade interface.
func DefaultFactories() []Factory {
	return []Factory{
		{Name: "yunet", New: func(cfg Config) (Detector, error) { return NewYuNet(cfg) }},
		{Name: "cascade", New: func(cfg Config) (Detector, error) { return NewCascade(cfg) }},
	}
}

// NewWithFallback tries each backend factory in order and returns the
// first detector that initializes. Each failure is logged and non-fatal
// until all options are exhausted, at which point an aggregate error
// is returned.
func NewWithFallback(cfg Config, factories ...Factory) (Detector, error) {
	if len(factories) == 0 {
		factories = DefaultFactories()
	}

	logger := log.With("component", "landmark.chain")

	var errs []error
	for i, f := range factories {
		det, err := f.New(cfg)
		if err == nil {
			if i > 0 {
				logger.Info("fallback backend initialized",
					"backend", f.Name,
					"backend_index", i,
				)
			}
			return det, nil
		}

		errs = append(errs, &BackendError{Backend: f.Name, Err: err})
		logger.Warn("backend failed to initialize, trying next",
			"backend", f.Name,
			"error", err,
		)
	}

	return nil, &ChainError{Errors: errs}
}
