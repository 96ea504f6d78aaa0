package gaze

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/visageio/go-facewire/internal/log"
)

// StreamClient subscribes to an external gaze predictor service over
// websocket and forwards decoded samples in arrival order. The stream
// runs on its own cadence, fully decoupled from the render loop; if it
// fails, gaze features become unavailable and nothing else is
// affected.
type StreamClient struct {
	url string

	ws   *websocket.Conn
	wsMu sync.Mutex

	// OnSample receives each decoded sample with its arrival time.
	OnSample func(s Sample, now time.Time)

	// OnClosed is called once when the stream ends, with the reason.
	OnClosed func(err error)

	connected bool
	closed    bool
}

// NewStreamClient creates a client for the given websocket URL.
func NewStreamClient(url string) *StreamClient {
	return &StreamClient{url: url}
}

// Connect establishes the websocket connection and starts the reader.
func (c *StreamClient) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	ws, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("gaze: connect predictor stream: %w", err)
	}

	c.wsMu.Lock()
	c.ws = ws
	c.connected = true
	c.wsMu.Unlock()

	go c.readLoop()

	log.Info("gaze stream connected", "url", c.url)
	return nil
}

// readLoop decodes samples until the connection drops or Close is
// called. Samples are delivered strictly in arrival order.
func (c *StreamClient) readLoop() {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.wsMu.Lock()
			closed := c.closed
			c.connected = false
			c.wsMu.Unlock()

			if !closed {
				log.Warn("gaze stream ended", "error", err)
			}
			if c.OnClosed != nil {
				c.OnClosed(err)
			}
			return
		}

		var s Sample
		if err := json.Unmarshal(data, &s); err != nil {
			log.Debug("gaze stream: bad sample", "error", err)
			continue
		}

		if c.OnSample != nil {
			c.OnSample(s, time.Now())
		}
	}
}

// Connected reports whether the stream is live.
func (c *StreamClient) Connected() bool {
	c.wsMu.Lock()
	defer c.wsMu.Unlock()
	return c.connected
}

// Close stops the stream.
func (c *StreamClient) Close() error {
	c.wsMu.Lock()
	defer c.wsMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.connected = false
	if c.ws != nil {
		return c.ws.Close()
	}
	return nil
}
