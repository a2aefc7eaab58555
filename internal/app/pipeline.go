package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/gesture"
	"github.com/ayusman/abhinaya/internal/plugin"
)

// runPipeline is the main detection loop that processes frames from the
// camera. It starts at the idle frame rate and only runs the expensive
// landmark extraction while recent motion suggests someone is in front of
// the camera; after IdleTimeoutMs without motion it drops back to idle.
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if activeMode {
				a.processFrame(frame)
			}
			frame.Close()
		}
	}
}

// processFrame runs one frame through landmark extraction and the detection
// session, dispatching any emitted gesture event.
func (a *App) processFrame(frame *gocv.Mat) {
	landmarks, err := a.Detector().Detect(frame)
	if err != nil {
		log.Printf("Error detecting face: %v", err)
		return
	}

	_, event := a.session.Process(detector.Features(landmarks, time.Now()))
	if event == nil {
		return
	}

	a.handleEvent(event)
}

// handleEvent records an emitted gesture event, notifies the registered
// callback, and kicks off any bound plugin actions.
func (a *App) handleEvent(event *gesture.Event) {
	log.Printf("Gesture detected: %s", event.Type.Name())

	a.mu.Lock()
	a.lastEvent = event
	cb := a.onGesture
	a.mu.Unlock()

	if cb != nil {
		cb(event)
	}

	// Plugins run off the pipeline goroutine so a slow action cannot stall
	// frame processing.
	go a.executeBindings(event)
}

// executeBindings looks up the bindings for an emitted gesture event and
// executes each enabled one through its plugin. Failures are logged and do
// not affect other bindings.
func (a *App) executeBindings(event *gesture.Event) {
	if a.config.Store == nil {
		return
	}

	bindings, err := a.config.Store.Bindings().ListByGestureType(string(event.Type))
	if err != nil {
		log.Printf("Failed to load bindings for %s: %v", event.Type, err)
		return
	}

	for _, b := range bindings {
		if !b.Enabled {
			continue
		}

		p, err := a.pluginMgr.Get(b.PluginName)
		if err != nil {
			log.Printf("Binding %s references unknown plugin %q", b.ID, b.PluginName)
			continue
		}

		req := &plugin.Request{
			Action: b.ActionName,
			Gesture: plugin.GestureInfo{
				Type:      string(event.Type),
				Name:      event.Type.Name(),
				Timestamp: event.Timestamp.UnixMilli(),
			},
			Config: b.Config,
		}

		resp, err := a.pluginExec.Execute(p, req)
		if err != nil {
			log.Printf("Plugin %s action %s failed: %v", b.PluginName, b.ActionName, err)
			continue
		}
		if !resp.Success {
			log.Printf("Plugin %s action %s reported failure: %s", b.PluginName, b.ActionName, resp.Error)
		}
	}
}
