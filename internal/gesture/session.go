package gesture

import (
	"math"
	"time"

	"github.com/ayusman/abhinaya/internal/detector"
)

// Snapshot is the instantaneous face state for one processed frame, reported
// to clients alongside any confirmed event.
type Snapshot struct {
	FaceDetected   bool
	EyesClosed     bool
	MouthOpen      bool
	EyebrowsRaised bool
	HeadTiltLeft   bool
	HeadTiltRight  bool
	HeadTiltCenter bool

	LeftEyeAR       float64
	RightEyeAR      float64
	MouthAR         float64
	EyebrowPosition float64
	HeadTiltAngle   float64
}

// Session owns the full detection state for one client session: the four
// sub-detectors plus the global cooldown gate. A Session must only be used
// from one goroutine at a time, and frames must be processed in arrival
// order. Sessions are independent; concurrent sessions each get their own.
type Session struct {
	thresholds Thresholds

	eye      eyeDetector
	mouth    mouthDetector
	eyebrow  eyebrowDetector
	headTilt headTiltDetector

	cooldownUntil time.Time
}

// NewSession creates a detection session with the given thresholds.
// The thresholds are assumed to have passed Validate.
func NewSession(t Thresholds) *Session {
	return &Session{thresholds: t}
}

// Thresholds returns the session's tuning.
func (s *Session) Thresholds() Thresholds {
	return s.thresholds
}

// Reset returns the session to its initial state: all run counters zeroed,
// latches cleared, the eyebrow baseline forgotten, and the cooldown lifted.
func (s *Session) Reset() {
	*s = Session{thresholds: s.thresholds}
}

// Process advances every sub-detector with one feature frame and returns the
// instantaneous snapshot plus at most one confirmed event.
//
// A frame without a face advances nothing: run counters and latches hold
// their values until geometry is available again. When several detectors
// confirm on the same frame the fixed order eye → mouth → eyebrow → head
// tilt decides which event is kept; the others still latch. During the
// cooldown window events are suppressed but state advances normally, so
// latches must still be cleared by their own neutral-state rule.
func (s *Session) Process(frame detector.FeatureFrame) (Snapshot, *Event) {
	snap := Snapshot{FaceDetected: frame.FaceDetected}
	if !frame.FaceDetected {
		return snap, nil
	}

	t := &s.thresholds
	now := frame.Timestamp

	snap.LeftEyeAR = frame.LeftEyeAR
	snap.RightEyeAR = frame.RightEyeAR
	snap.MouthAR = frame.MouthAR
	snap.EyebrowPosition = frame.EyebrowPosition
	snap.HeadTiltAngle = frame.HeadTiltAngle

	avgEAR := (frame.LeftEyeAR + frame.RightEyeAR) / 2
	snap.EyesClosed = avgEAR < t.EyeARThreshold
	snap.MouthOpen = frame.MouthAR > t.MouthARThreshold

	dev := deviation(frame.HeadTiltAngle)
	snap.HeadTiltCenter = math.Abs(dev) <= t.HeadTiltDeadzone
	snap.HeadTiltLeft = dev < -t.HeadTiltDeadzone
	snap.HeadTiltRight = dev > t.HeadTiltDeadzone

	// The eyebrow interlock tolerates more lean than the deadzone: detection
	// is suspended only once the head is tilted past the zone threshold.
	headCenteredForBrow := math.Abs(dev) <= t.HeadTiltThreshold

	var winner EventType
	var have bool

	if ev, ok := s.eye.process(snap.EyesClosed, now, t); ok && !have {
		winner, have = ev, true
	}
	if ev, ok := s.mouth.process(snap.MouthOpen, t); ok && !have {
		winner, have = ev, true
	}
	raised, ev, ok := s.eyebrow.process(frame.EyebrowPosition, headCenteredForBrow, t)
	snap.EyebrowsRaised = raised
	if ok && !have {
		winner, have = ev, true
	}
	if ev, ok := s.headTilt.process(frame.HeadTiltAngle, t); ok && !have {
		winner, have = ev, true
	}

	if !have {
		return snap, nil
	}
	if now.Before(s.cooldownUntil) {
		// Suppressed: the detector latched, but no event leaves the session.
		return snap, nil
	}

	s.cooldownUntil = now.Add(t.Cooldown)
	return snap, &Event{Type: winner, Timestamp: now, Frame: frame}
}
