package gaze

// Predictor is the contract of the external gaze-prediction model.
// The model is a black box: calibration only mutates its training
// data and toggles its sample collection.
type Predictor interface {
	// Begin starts prediction.
	Begin() error

	// End stops prediction.
	End() error

	// ClearData discards any existing trained data.
	ClearData()

	// AddMouseEventListeners enables training-sample collection tied
	// to user pointer interaction.
	AddMouseEventListeners()

	// RemoveMouseEventListeners disables training-sample collection.
	RemoveMouseEventListeners()

	// ShowPredictionPoints toggles the predictor's own debug overlay.
	ShowPredictionPoints(show bool)
}

// NopPredictor is a Predictor that does nothing. Used when the gaze
// predictor is unavailable so calibration degrades gracefully.
type NopPredictor struct{}

// Begin implements Predictor.
func (NopPredictor) Begin() error { return nil }

// End implements Predictor.
func (NopPredictor) End() error { return nil }

// ClearData implements Predictor.
func (NopPredictor) ClearData() {}

// AddMouseEventListeners implements Predictor.
func (NopPredictor) AddMouseEventListeners() {}

// RemoveMouseEventListeners implements Predictor.
func (NopPredictor) RemoveMouseEventListeners() {}

// ShowPredictionPoints implements Predictor.
func (NopPredictor) ShowPredictionPoints(bool) {}
