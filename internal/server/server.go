// Package server provides the HTTP and WebSocket server for the Abhinaya
// face gesture communication system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/gesture"
	"github.com/ayusman/abhinaya/internal/server/api"
	"github.com/ayusman/abhinaya/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Camera     capture.Camera
	Detector   detector.Detector
	Thresholds gesture.Thresholds
}

// Server represents the HTTP server for the Abhinaya application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/config", s.handleConfig)

	// Register phrase and binding API handlers if Store is configured
	if s.config.Store != nil {
		phraseHandler := api.NewPhraseHandler(s.config.Store)
		s.mux.Handle("/api/phrases", phraseHandler)
		s.mux.Handle("/api/phrases/", phraseHandler)

		bindingHandler := api.NewBindingHandler(s.config.Store)
		s.mux.Handle("/api/bindings", bindingHandler)
		s.mux.Handle("/api/bindings/", bindingHandler)
	}

	// Register camera stream endpoint if Camera is configured
	if s.config.Camera != nil {
		streamHandler := NewStreamHandler(s.config.Camera)
		s.mux.Handle("/api/stream", streamHandler)
	}

	// Register the face detection WebSocket endpoint if Detector is configured
	if s.config.Detector != nil {
		faceHandler := NewFaceHandler(s.config.Detector, s.config.Thresholds)
		s.mux.Handle("/ws", faceHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleConfig handles GET requests to /api/config and reports the active
// detection thresholds in the same shape as the thresholds file.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	t := s.config.Thresholds
	response := map[string]interface{}{
		"eye": map[string]interface{}{
			"aspect_ratio_threshold":  t.EyeARThreshold,
			"min_blink_frames":        t.MinBlinkFrames,
			"double_blink_interval_s": t.DoubleBlinkInterval.Seconds(),
			"long_close_frames":       t.LongCloseFrames,
		},
		"mouth": map[string]interface{}{
			"aspect_ratio_threshold": t.MouthARThreshold,
			"confirm_frames":         t.MouthConfirmFrames,
		},
		"eyebrow": map[string]interface{}{
			"raise_threshold": t.EyebrowRaiseThreshold,
			"confirm_frames":  t.EyebrowConfirmFrames,
		},
		"head_tilt": map[string]interface{}{
			"angle_threshold": t.HeadTiltThreshold,
			"deadzone":        t.HeadTiltDeadzone,
			"confirm_frames":  t.HeadTiltConfirmFrames,
		},
		"gesture": map[string]interface{}{
			"cooldown_s": t.Cooldown.Seconds(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
