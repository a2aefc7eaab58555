// Package gesture converts per-frame facial feature measurements into
// debounced, edge-triggered, cooldown-gated gesture events.
package gesture

import (
	"time"

	"github.com/ayusman/abhinaya/internal/detector"
)

// EventType identifies a detected gesture.
type EventType string

const (
	// EventDoubleBlink is two confirmed blinks inside the double-blink window.
	EventDoubleBlink EventType = "DOUBLE_BLINK"
	// EventLongClose is a sustained eye closure.
	EventLongClose EventType = "LONG_CLOSE"
	// EventMouthOpen is a confirmed mouth opening.
	EventMouthOpen EventType = "MOUTH_OPEN"
	// EventEyebrowsRaised is a confirmed eyebrow raise above the baseline.
	EventEyebrowsRaised EventType = "EYEBROWS_RAISED"
	// EventHeadTiltLeft is a confirmed head tilt from center to the left.
	EventHeadTiltLeft EventType = "HEAD_TILT_LEFT"
	// EventHeadTiltRight is a confirmed head tilt from center to the right.
	EventHeadTiltRight EventType = "HEAD_TILT_RIGHT"
)

// Name returns a short human-readable label for the gesture type.
func (t EventType) Name() string {
	switch t {
	case EventDoubleBlink:
		return "Double Blink"
	case EventLongClose:
		return "Long Close"
	case EventMouthOpen:
		return "Mouth Open"
	case EventEyebrowsRaised:
		return "Eyebrows Raised"
	case EventHeadTiltLeft:
		return "Head Tilt Left"
	case EventHeadTiltRight:
		return "Head Tilt Right"
	}
	return string(t)
}

// Event is a single confirmed gesture. Events are ephemeral: one is produced
// at most once per processed frame and is not retained by the detector.
type Event struct {
	Type      EventType
	Timestamp time.Time

	// Frame carries the raw feature values at trigger time for debugging.
	Frame detector.FeatureFrame
}
