// Package app wires the capture, detection, and action layers into the
// local-camera pipeline for the Abhinaya face gesture communication system.
package app

import (
	"log"
	"sync"

	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/gesture"
	"github.com/ayusman/abhinaya/internal/plugin"
	"github.com/ayusman/abhinaya/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds without motion before
	// dropping back to the idle frame rate.
	IdleTimeoutMs = 2000
	// DefaultPluginTimeoutMs bounds a single plugin execution.
	DefaultPluginTimeoutMs = 5000
)

// Config holds configuration options for the application.
type Config struct {
	Store           *store.Store
	Thresholds      gesture.Thresholds
	PluginDir       string
	PluginTimeoutMs int
	CameraID        int
	Width           int
	Height          int
	MotionThresh    float64
}

// App runs gesture detection on the local camera and dispatches confirmed
// gesture events to bound action plugins.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	session    *gesture.Session
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	enabled   bool
	mu        sync.RWMutex
	stopCh    chan struct{}
	lastEvent *gesture.Event
	onGesture func(*gesture.Event)
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}
	timeout := config.PluginTimeoutMs
	if timeout <= 0 {
		timeout = DefaultPluginTimeoutMs
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID, config.Width, config.Height),
		motion:     capture.NewMotionDetector(motionThreshold),
		session:    gesture.NewSession(config.Thresholds),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(timeout),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe face detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the face detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera, primarily so tests can feed recorded frames.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// OnGesture registers a callback invoked for every emitted gesture event.
// The callback runs on the pipeline goroutine and must not block.
func (a *App) OnGesture(fn func(*gesture.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onGesture = fn
}

// LastEvent returns the most recently emitted gesture event, or nil.
func (a *App) LastEvent() *gesture.Event {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastEvent
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the face detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Session returns the detection session driven by the local camera.
func (a *App) Session() *gesture.Session {
	return a.session
}
