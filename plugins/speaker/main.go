// Package main provides a speech plugin. It speaks a configured phrase (or
// the gesture name) aloud using the platform's speech synthesizer.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Gesture GestureInfo     `json:"gesture"`
	Config  json.RawMessage `json:"config"`
}

// GestureInfo identifies the gesture event that triggered this run.
type GestureInfo struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// SpeakConfig defines the configuration for the speak action.
type SpeakConfig struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	switch req.Action {
	case "speak":
		if err := handleSpeak(&req); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	writeSuccessResponse()
}

// handleSpeak speaks the configured text, falling back to the gesture name.
func handleSpeak(req *Request) error {
	var cfg SpeakConfig
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	text := cfg.Text
	if text == "" {
		text = req.Gesture.Name
	}
	if text == "" {
		return fmt.Errorf("nothing to speak")
	}

	return speak(text, cfg.Voice)
}

// speak invokes the platform speech synthesizer.
func speak(text, voice string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		args := []string{text}
		if voice != "" {
			args = append([]string{"-v", voice}, args...)
		}
		cmd = exec.Command("say", args...)
	default:
		args := []string{text}
		if voice != "" {
			args = append([]string{"-v", voice}, args...)
		}
		cmd = exec.Command("espeak", args...)
	}
	return cmd.Run()
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
