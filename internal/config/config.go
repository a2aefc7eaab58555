// Package config loads the YAML configuration documents for the Abhinaya
// face gesture communication system: detection thresholds, runtime settings,
// and phrase lists.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/abhinaya/internal/gesture"
)

// Settings holds process-level configuration loaded from settings.yaml.
type Settings struct {
	Camera  CameraSettings  `yaml:"camera"`
	Server  ServerSettings  `yaml:"server"`
	Plugins PluginSettings  `yaml:"plugins"`
	Storage StorageSettings `yaml:"storage"`
}

// CameraSettings configures the local capture device.
type CameraSettings struct {
	DeviceID int `yaml:"device_id"`
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	FPS      int `yaml:"fps"`
}

// ServerSettings configures the HTTP/WebSocket server.
type ServerSettings struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// PluginSettings configures action plugin discovery and execution.
type PluginSettings struct {
	Dir       string `yaml:"dir"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// StorageSettings configures the SQLite database location.
type StorageSettings struct {
	Path string `yaml:"path"`
}

// DefaultSettings returns the settings used when settings.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Camera:  CameraSettings{DeviceID: 0, Width: 640, Height: 480, FPS: 30},
		Server:  ServerSettings{Addr: ":8080"},
		Plugins: PluginSettings{Dir: "plugins", TimeoutMs: 5000},
	}
}

// LoadSettings reads settings.yaml from path. A missing file yields the
// defaults; a malformed file or invalid values are errors.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}

	if s.Camera.FPS <= 0 {
		return s, fmt.Errorf("camera.fps must be positive, got %d", s.Camera.FPS)
	}
	if s.Camera.Width <= 0 || s.Camera.Height <= 0 {
		return s, fmt.Errorf("camera resolution must be positive, got %dx%d", s.Camera.Width, s.Camera.Height)
	}
	if s.Plugins.TimeoutMs <= 0 {
		return s, fmt.Errorf("plugins.timeout_ms must be positive, got %d", s.Plugins.TimeoutMs)
	}
	return s, nil
}

// thresholdsDoc mirrors the thresholds.yaml layout. Pointer fields
// distinguish "absent, use the default" from an explicit zero.
type thresholdsDoc struct {
	Eye struct {
		AspectRatioThreshold *float64 `yaml:"aspect_ratio_threshold"`
		MinBlinkFrames       *int     `yaml:"min_blink_frames"`
		DoubleBlinkIntervalS *float64 `yaml:"double_blink_interval_s"`
		LongCloseFrames      *int     `yaml:"long_close_frames"`
	} `yaml:"eye"`
	Mouth struct {
		AspectRatioThreshold *float64 `yaml:"aspect_ratio_threshold"`
		ConfirmFrames        *int     `yaml:"confirm_frames"`
	} `yaml:"mouth"`
	Eyebrow struct {
		RaiseThreshold *float64 `yaml:"raise_threshold"`
		ConfirmFrames  *int     `yaml:"confirm_frames"`
	} `yaml:"eyebrow"`
	HeadTilt struct {
		AngleThreshold *float64 `yaml:"angle_threshold"`
		Deadzone       *float64 `yaml:"deadzone"`
		ConfirmFrames  *int     `yaml:"confirm_frames"`
	} `yaml:"head_tilt"`
	Gesture struct {
		CooldownS *float64 `yaml:"cooldown_s"`
	} `yaml:"gesture"`
}

// LoadThresholds reads thresholds.yaml from path and overlays it on the
// defaults. A missing file yields the defaults. The result is validated, so
// a session never starts from an inconsistent configuration.
func LoadThresholds(path string) (gesture.Thresholds, error) {
	t := gesture.DefaultThresholds()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("read thresholds: %w", err)
	}

	var doc thresholdsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return t, fmt.Errorf("parse thresholds: %w", err)
	}

	setFloat(&t.EyeARThreshold, doc.Eye.AspectRatioThreshold)
	setInt(&t.MinBlinkFrames, doc.Eye.MinBlinkFrames)
	setDuration(&t.DoubleBlinkInterval, doc.Eye.DoubleBlinkIntervalS)
	setInt(&t.LongCloseFrames, doc.Eye.LongCloseFrames)
	setFloat(&t.MouthARThreshold, doc.Mouth.AspectRatioThreshold)
	setInt(&t.MouthConfirmFrames, doc.Mouth.ConfirmFrames)
	setFloat(&t.EyebrowRaiseThreshold, doc.Eyebrow.RaiseThreshold)
	setInt(&t.EyebrowConfirmFrames, doc.Eyebrow.ConfirmFrames)
	setFloat(&t.HeadTiltThreshold, doc.HeadTilt.AngleThreshold)
	setFloat(&t.HeadTiltDeadzone, doc.HeadTilt.Deadzone)
	setInt(&t.HeadTiltConfirmFrames, doc.HeadTilt.ConfirmFrames)
	setDuration(&t.Cooldown, doc.Gesture.CooldownS)

	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid thresholds in %s: %w", path, err)
	}
	return t, nil
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, seconds *float64) {
	if seconds != nil {
		*dst = time.Duration(*seconds * float64(time.Second))
	}
}
