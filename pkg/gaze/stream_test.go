package gaze

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakePredictorServer is a minimal websocket predictor endpoint.
func fakePredictorServer(t *testing.T, serve func(*websocket.Conn)) (*httptest.Server, string) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		serve(conn)
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return srv, url
}

func TestStreamClient_DeliversSamplesInOrder(t *testing.T) {
	srv, url := fakePredictorServer(t, func(conn *websocket.Conn) {
		conn.WriteJSON(Sample{X: 1, Y: 2, TimestampMs: 10, Valid: true})
		conn.WriteJSON(Sample{TimestampMs: 20, Valid: false})
		conn.WriteJSON(Sample{X: 3, Y: 4, TimestampMs: 30, Valid: true})
		time.Sleep(50 * time.Millisecond)
	})
	defer srv.Close()

	received := make(chan Sample, 8)
	client := NewStreamClient(url)
	client.OnSample = func(s Sample, now time.Time) {
		received <- s
	}

	if err := client.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	want := []int64{10, 20, 30}
	for i, ts := range want {
		select {
		case s := <-received:
			if s.TimestampMs != ts {
				t.Errorf("sample %d: timestamp %d, want %d (order matters)", i, s.TimestampMs, ts)
			}
		case <-time.After(time.Second):
			t.Fatalf("sample %d never arrived", i)
		}
	}
}

func TestStreamClient_ControlOps(t *testing.T) {
	ops := make(chan string, 8)
	srv, url := fakePredictorServer(t, func(conn *websocket.Conn) {
		for {
			var msg struct {
				Op string `json:"op"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			ops <- msg.Op
		}
	})
	defer srv.Close()

	client := NewStreamClient(url)
	if err := client.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	client.ClearData()
	client.AddMouseEventListeners()
	client.RemoveMouseEventListeners()

	want := []string{"clear_data", "add_mouse_listeners", "remove_mouse_listeners"}
	for _, op := range want {
		select {
		case got := <-ops:
			if got != op {
				t.Errorf("got op %q, want %q", got, op)
			}
		case <-time.After(time.Second):
			t.Fatalf("control op %q never arrived", op)
		}
	}
}

func TestStreamClient_DisconnectReported(t *testing.T) {
	srv, url := fakePredictorServer(t, func(conn *websocket.Conn) {
		// Close immediately
	})
	defer srv.Close()

	closed := make(chan struct{})
	client := NewStreamClient(url)
	client.OnClosed = func(err error) { close(closed) }

	if err := client.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("OnClosed never fired after server hangup")
	}

	if client.Connected() {
		t.Error("client should report disconnected")
	}

	// Controls degrade to no-ops once the predictor is gone
	client.ClearData()
	client.AddMouseEventListeners()
}

func TestStreamClient_FeedsMonitor(t *testing.T) {
	srv, url := fakePredictorServer(t, func(conn *websocket.Conn) {
		conn.WriteJSON(Sample{X: 400, Y: 300, Valid: true})
		time.Sleep(50 * time.Millisecond)
	})
	defer srv.Close()

	monitor := NewMonitor(DefaultMonitorConfig(), 800, 600)

	seen := make(chan struct{}, 1)
	client := NewStreamClient(url)
	client.OnSample = func(s Sample, now time.Time) {
		monitor.Observe(s, now)
		select {
		case seen <- struct{}{}:
		default:
		}
	}

	if err := client.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	select {
	case <-seen:
	case <-time.After(time.Second):
		t.Fatal("sample never reached the monitor")
	}

	if monitor.OffScreen() {
		t.Error("on-screen sample should have cleared off-screen state")
	}
}
