// Package plugin provides discovery and execution of external action plugins
// for the Abhinaya face gesture communication system. A plugin is a
// standalone executable under the plugins directory with a plugin.json
// manifest; it receives one JSON request on stdin and replies with one JSON
// response on stdout.
package plugin

import "encoding/json"

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// GestureInfo describes the gesture event that triggered a plugin run.
type GestureInfo struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
}

// Request represents a request sent to a plugin for execution.
type Request struct {
	Action  string          `json:"action"`
	Gesture GestureInfo     `json:"gesture"`
	Config  json.RawMessage `json:"config"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
