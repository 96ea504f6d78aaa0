package gaze

import (
	"github.com/visageio/go-facewire/internal/log"
)

// controlMessage is an outbound command to the predictor service.
type controlMessage struct {
	Op   string `json:"op"`
	Show *bool  `json:"show,omitempty"`
}

// StreamClient also implements Predictor: control operations are sent
// as JSON commands on the same websocket the samples arrive on.
var _ Predictor = (*StreamClient)(nil)

func (c *StreamClient) send(msg controlMessage) error {
	c.wsMu.Lock()
	defer c.wsMu.Unlock()

	if !c.connected || c.ws == nil {
		return nil // predictor gone; controls degrade to no-ops
	}
	if err := c.ws.WriteJSON(msg); err != nil {
		log.Warn("gaze control send failed", "op", msg.Op, "error", err)
		return err
	}
	return nil
}

// Begin starts prediction.
func (c *StreamClient) Begin() error {
	return c.send(controlMessage{Op: "begin"})
}

// End stops prediction.
func (c *StreamClient) End() error {
	return c.send(controlMessage{Op: "end"})
}

// ClearData discards the predictor's trained data.
func (c *StreamClient) ClearData() {
	c.send(controlMessage{Op: "clear_data"})
}

// AddMouseEventListeners enables training-sample collection.
func (c *StreamClient) AddMouseEventListeners() {
	c.send(controlMessage{Op: "add_mouse_listeners"})
}

// RemoveMouseEventListeners disables training-sample collection.
func (c *StreamClient) RemoveMouseEventListeners() {
	c.send(controlMessage{Op: "remove_mouse_listeners"})
}

// ShowPredictionPoints toggles the predictor's debug overlay.
func (c *StreamClient) ShowPredictionPoints(show bool) {
	c.send(controlMessage{Op: "show_prediction_points", Show: &show})
}
