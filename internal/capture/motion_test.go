package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector(t *testing.T) {
	md := NewMotionDetector(1.0)
	if md == nil {
		t.Fatal("NewMotionDetector returned nil")
	}
	defer md.Close()

	if md.threshold != 1.0 {
		t.Errorf("threshold = %f, want 1.0", md.threshold)
	}
	if md.initialized {
		t.Error("motion detector should not be initialized initially")
	}
}

func TestMotionDetector_NilAndEmptyFrames(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if detected, _ := md.Detect(nil); detected {
		t.Error("nil frame should not detect motion")
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if detected, _ := md.Detect(&empty); detected {
		t.Error("empty frame should not detect motion")
	}
}

func TestMotionDetector_NoMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()

	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	// First frame only establishes the baseline
	detected, changePercent := md.Detect(&frame1)
	if detected {
		t.Error("first frame should not detect motion")
	}
	if changePercent != 0 {
		t.Errorf("first frame changePercent = %f, want 0", changePercent)
	}

	detected, changePercent = md.Detect(&frame2)
	if detected {
		t.Errorf("identical frames should not detect motion, changePercent = %f", changePercent)
	}
}

func TestMotionDetector_WithMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	blackFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer blackFrame.Close()

	whiteFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer whiteFrame.Close()
	whiteFrame.SetTo(gocv.NewScalar(255, 255, 255, 0))

	if detected, _ := md.Detect(&blackFrame); detected {
		t.Error("first frame should not detect motion")
	}

	detected, changePercent := md.Detect(&whiteFrame)
	if !detected {
		t.Errorf("black to white should detect motion, changePercent = %f", changePercent)
	}
	if changePercent < 50.0 {
		t.Errorf("changePercent = %f, expected > 50%% for black to white transition", changePercent)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.Detect(&frame)
	if !md.initialized {
		t.Error("detector should be initialized after a frame")
	}

	md.Reset()
	if md.initialized {
		t.Error("detector should not be initialized after Reset")
	}

	// The frame after a reset is a baseline again, never motion
	if detected, _ := md.Detect(&frame); detected {
		t.Error("first frame after reset should not detect motion")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.SetThreshold(5.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0", md.threshold)
	}

	// Invalid values are ignored
	md.SetThreshold(0)
	md.SetThreshold(-1)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f after invalid values, want 5.0", md.threshold)
	}
}
