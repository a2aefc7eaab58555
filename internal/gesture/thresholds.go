package gesture

import (
	"fmt"
	"time"
)

// Thresholds holds every tunable of the gesture detectors. All frame counts
// are consecutive-frame counters; any frame breaking a run resets them.
type Thresholds struct {
	// EyeARThreshold: eyes count as closed while the average EAR is strictly
	// below this value.
	EyeARThreshold float64
	// MinBlinkFrames is the minimum consecutive closed frames for a blink.
	MinBlinkFrames int
	// DoubleBlinkInterval is the maximum gap between two blink edges.
	DoubleBlinkInterval time.Duration
	// LongCloseFrames is the closed-run length that triggers a long close.
	LongCloseFrames int

	// MouthARThreshold: the mouth counts as open while the MAR exceeds it.
	MouthARThreshold float64
	// MouthConfirmFrames is the open-run length that confirms a mouth open.
	MouthConfirmFrames int

	// EyebrowRaiseThreshold is the rise above the moving baseline that counts
	// as raised.
	EyebrowRaiseThreshold float64
	// EyebrowConfirmFrames is the raised-run length that confirms a raise.
	EyebrowConfirmFrames int

	// HeadTiltThreshold is the deviation from upright, in degrees, beyond
	// which a tilt zone is entered.
	HeadTiltThreshold float64
	// HeadTiltDeadzone is the deviation band, in degrees, classified as
	// center. Deviations between deadzone and threshold keep the last
	// confirmed zone.
	HeadTiltDeadzone float64
	// HeadTiltConfirmFrames is the run length that confirms a zone change.
	HeadTiltConfirmFrames int

	// Cooldown is the window after any emitted event during which further
	// events are suppressed.
	Cooldown time.Duration
}

// DefaultThresholds returns the tuning used when no configuration overrides
// are present.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EyeARThreshold:        0.20,
		MinBlinkFrames:        2,
		DoubleBlinkInterval:   800 * time.Millisecond,
		LongCloseFrames:       30,
		MouthARThreshold:      0.30,
		MouthConfirmFrames:    5,
		EyebrowRaiseThreshold: 0.020,
		EyebrowConfirmFrames:  5,
		HeadTiltThreshold:     15.0,
		HeadTiltDeadzone:      7.0,
		HeadTiltConfirmFrames: 5,
		Cooldown:              500 * time.Millisecond,
	}
}

// Validate reports the first inconsistency in the thresholds. A Session must
// not be created from thresholds that fail validation.
func (t Thresholds) Validate() error {
	if t.EyeARThreshold <= 0 {
		return fmt.Errorf("eye.aspect_ratio_threshold must be positive, got %g", t.EyeARThreshold)
	}
	if t.MinBlinkFrames < 1 {
		return fmt.Errorf("eye.min_blink_frames must be at least 1, got %d", t.MinBlinkFrames)
	}
	if t.DoubleBlinkInterval <= 0 {
		return fmt.Errorf("eye.double_blink_interval_s must be positive, got %s", t.DoubleBlinkInterval)
	}
	if t.LongCloseFrames < 1 {
		return fmt.Errorf("eye.long_close_frames must be at least 1, got %d", t.LongCloseFrames)
	}
	if t.MouthARThreshold <= 0 {
		return fmt.Errorf("mouth.aspect_ratio_threshold must be positive, got %g", t.MouthARThreshold)
	}
	if t.MouthConfirmFrames < 1 {
		return fmt.Errorf("mouth.confirm_frames must be at least 1, got %d", t.MouthConfirmFrames)
	}
	if t.EyebrowRaiseThreshold <= 0 {
		return fmt.Errorf("eyebrow.raise_threshold must be positive, got %g", t.EyebrowRaiseThreshold)
	}
	if t.EyebrowConfirmFrames < 1 {
		return fmt.Errorf("eyebrow.confirm_frames must be at least 1, got %d", t.EyebrowConfirmFrames)
	}
	if t.HeadTiltThreshold <= 0 || t.HeadTiltThreshold >= 90 {
		return fmt.Errorf("head_tilt.angle_threshold must be in (0, 90), got %g", t.HeadTiltThreshold)
	}
	if t.HeadTiltDeadzone < 0 {
		return fmt.Errorf("head_tilt.deadzone must not be negative, got %g", t.HeadTiltDeadzone)
	}
	if t.HeadTiltDeadzone >= t.HeadTiltThreshold {
		return fmt.Errorf("head_tilt.deadzone (%g) must be below head_tilt.angle_threshold (%g)",
			t.HeadTiltDeadzone, t.HeadTiltThreshold)
	}
	if t.HeadTiltConfirmFrames < 1 {
		return fmt.Errorf("head_tilt.confirm_frames must be at least 1, got %d", t.HeadTiltConfirmFrames)
	}
	if t.Cooldown < 0 {
		return fmt.Errorf("gesture.cooldown_s must not be negative, got %s", t.Cooldown)
	}
	return nil
}
