package capture

import (
	"errors"
	"testing"
)

func TestNewCamera(t *testing.T) {
	t.Run("applies requested resolution", func(t *testing.T) {
		c := NewCamera(0, 1280, 720)
		impl, ok := c.(*cameraImpl)
		if !ok {
			t.Fatal("NewCamera did not return a *cameraImpl")
		}
		if impl.width != 1280 || impl.height != 720 {
			t.Errorf("resolution = %dx%d, want 1280x720", impl.width, impl.height)
		}
	})

	t.Run("falls back to default resolution", func(t *testing.T) {
		c := NewCamera(0, 0, -1)
		impl := c.(*cameraImpl)
		if impl.width != DefaultWidth || impl.height != DefaultHeight {
			t.Errorf("resolution = %dx%d, want %dx%d", impl.width, impl.height, DefaultWidth, DefaultHeight)
		}
	})

	t.Run("starts closed with default fps", func(t *testing.T) {
		c := NewCamera(0, 0, 0)
		if c.IsOpen() {
			t.Error("camera should not be open before Open is called")
		}
		if c.FPS() != DefaultFPS {
			t.Errorf("FPS = %d, want %d", c.FPS(), DefaultFPS)
		}
	})
}

func TestCamera_ReadFrameBeforeOpen(t *testing.T) {
	c := NewCamera(0, 0, 0)

	if _, err := c.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("expected ErrCameraNotOpen, got %v", err)
	}
}

func TestCamera_SetFPS(t *testing.T) {
	c := NewCamera(0, 0, 0)

	c.SetFPS(15)
	if c.FPS() != 15 {
		t.Errorf("FPS = %d, want 15", c.FPS())
	}

	// Invalid values are ignored
	c.SetFPS(0)
	c.SetFPS(-5)
	if c.FPS() != 15 {
		t.Errorf("FPS = %d after invalid values, want 15", c.FPS())
	}
}
