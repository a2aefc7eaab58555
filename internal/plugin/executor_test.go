package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeScript(t *testing.T, content string) *Plugin {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "abhinaya-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	scriptPath := filepath.Join(tmpDir, "plugin.sh")
	if err := os.WriteFile(scriptPath, []byte(content), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       "test-plugin",
			Version:    "1.0.0",
			Executable: "plugin.sh",
			Actions:    []string{"speak"},
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}
}

func TestExecutor_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	p := writeScript(t, `#!/bin/sh
cat <<'EOF'
{"success":true,"data":{"message":"spoken"}}
EOF
`)

	request := &Request{
		Action:  "speak",
		Gesture: GestureInfo{Type: "DOUBLE_BLINK", Name: "Double blink", Timestamp: 1700000000000},
		Config:  json.RawMessage(`{"voice":"default"}`),
	}

	executor := NewExecutor(5000)
	response, err := executor.Execute(p, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Error("expected success=true, got false")
	}
	if response.Error != "" {
		t.Errorf("expected empty error, got %q", response.Error)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "spoken" {
		t.Errorf("expected message 'spoken', got %v", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	// Echo the request back so the test can verify what the plugin received
	p := writeScript(t, `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`)

	request := &Request{
		Action:  "speak",
		Gesture: GestureInfo{Type: "MOUTH_OPEN", Name: "Mouth open", Timestamp: 42},
	}

	executor := NewExecutor(5000)
	response, err := executor.Execute(p, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received Request `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data.Received.Action != "speak" || data.Received.Gesture.Type != "MOUTH_OPEN" {
		t.Errorf("plugin received unexpected request: %+v", data.Received)
	}
	if data.Received.Gesture.Timestamp != 42 {
		t.Errorf("expected timestamp 42, got %d", data.Received.Gesture.Timestamp)
	}
}

func TestExecutor_Execute_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	p := writeScript(t, `#!/bin/sh
sleep 5
echo '{"success":true}'
`)

	executor := NewExecutor(100)
	_, err := executor.Execute(p, &Request{Action: "speak"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout in error, got %v", err)
	}
}

func TestExecutor_Execute_FailedPlugin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	p := writeScript(t, `#!/bin/sh
echo "boom" >&2
exit 1
`)

	executor := NewExecutor(5000)
	_, err := executor.Execute(p, &Request{Action: "speak"})
	if err == nil {
		t.Fatal("expected execution error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected stderr in error, got %v", err)
	}
}

func TestExecutor_Execute_MalformedResponse(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	p := writeScript(t, `#!/bin/sh
echo "this is not json"
`)

	executor := NewExecutor(5000)
	_, err := executor.Execute(p, &Request{Action: "speak"})
	if err == nil {
		t.Fatal("expected parse error")
	}
}
