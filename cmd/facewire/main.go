// Facewire - live facial-landmark point cloud with gaze attention monitoring
//
// Captures camera frames, detects facial landmarks, and visualizes
// them as a 3D point cloud with a KNN wireframe. An independent gaze
// predictor stream drives a debounced on/off-screen attention state
// shown on the web dashboard.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/visageio/go-facewire/internal/config"
	"github.com/visageio/go-facewire/internal/log"
	"github.com/visageio/go-facewire/pkg/camera"
	"github.com/visageio/go-facewire/pkg/display"
	"github.com/visageio/go-facewire/pkg/gaze"
	"github.com/visageio/go-facewire/pkg/landmark"
	"github.com/visageio/go-facewire/pkg/render"
	"github.com/visageio/go-facewire/pkg/web"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	port := flag.String("port", config.HTTPPort(), "Dashboard HTTP port")
	device := flag.Int("camera", config.CameraIndex(), "Capture device index")
	neighbors := flag.Int("neighbors", 0, "Wireframe neighbors per point (0 = default)")
	flag.Parse()

	level := config.LogLevel()
	if *debug {
		level = "debug"
	}
	log.Init(level)

	if err := run(*port, *device, *neighbors); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(port string, device, neighbors int) error {
	// Camera first: without a source frame there is nothing to show
	camCfg := camera.DefaultConfig()
	camCfg.DeviceIndex = device
	source, err := camera.OpenWebcam(camCfg)
	if err != nil {
		return err
	}
	defer source.Close()

	// Detector with runtime fallback chain
	detCfg := landmark.DefaultConfig()
	detCfg.ModelPath = config.ModelPath()
	detCfg.CascadePath = config.CascadePath()
	detector, err := landmark.NewWithFallback(detCfg)
	if err != nil {
		return err
	}
	defer detector.Close()
	log.Info("detector ready", "backend", detector.Name())

	vw, vh := source.FrameSize()
	window := display.NewWindow("Facewire", vw, vh)

	// Gaze domain: monitor plus optional predictor stream. Stream
	// failure only disables gaze features, never the visualizer.
	monitor := gaze.NewMonitor(gaze.DefaultMonitorConfig(), float64(vw), float64(vh))
	window.OnResize = monitor.SetViewport

	var predictor gaze.Predictor = gaze.NopPredictor{}
	var stream *gaze.StreamClient
	if url := config.GazePredictorURL(); url != "" {
		stream = gaze.NewStreamClient(url)
		stream.OnSample = monitor.Observe
		if err := stream.Connect(); err != nil {
			log.Warn("gaze predictor unavailable", "error", err)
			stream = nil
		} else {
			defer stream.Close()
			predictor = stream
			if err := stream.Begin(); err != nil {
				log.Warn("gaze predictor begin failed", "error", err)
			}
		}
	}
	calibrator := gaze.NewCalibrator(predictor, gaze.DefaultQuota)

	// Render domain
	renderCfg := render.DefaultConfig()
	if neighbors > 0 {
		renderCfg.Neighbors = neighbors
	}
	loop := render.New(renderCfg, source, detector, window)

	// Dashboard
	server := web.NewServer(port, loop.Snapshot, monitor, calibrator)
	server.GazeConnected = func() bool { return stream != nil && stream.Connected() }
	loop.OnFrame = func(render.Observables) { server.PushStatus() }
	server.StartAsync()
	defer server.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The render loop runs in its own goroutine; the window must own
	// the main one. Closing the window or a signal tears both down.
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	go func() {
		<-ctx.Done()
		window.RequestClose()
	}()

	err = window.Run()
	cancel()
	<-loopDone
	return err
}
