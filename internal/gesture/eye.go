package gesture

import "time"

// eyeDetector tracks eye closure to recognize blinks, double blinks, and
// long closes. A blink is the closed→open edge after a sufficiently long
// closed run; a long close fires while the eyes are still shut.
type eyeDetector struct {
	closed         bool
	closedFrames   int
	pendingBlink   time.Time // zero when no blink is awaiting a partner
	longCloseFired bool
}

func (d *eyeDetector) process(closed bool, now time.Time, t *Thresholds) (EventType, bool) {
	if closed {
		d.closed = true
		d.closedFrames++
		if d.closedFrames >= t.LongCloseFrames && !d.longCloseFired {
			d.longCloseFired = true
			return EventLongClose, true
		}
		return "", false
	}

	wasClosed := d.closed
	run := d.closedFrames
	d.closed = false
	d.closedFrames = 0
	d.longCloseFired = false // re-arm on the neutral state

	if !wasClosed || run < t.MinBlinkFrames {
		return "", false
	}

	// Confirmed blink edge. Pair it with a pending blink when one exists
	// inside the window, otherwise it becomes the new pending blink.
	if !d.pendingBlink.IsZero() && now.Sub(d.pendingBlink) <= t.DoubleBlinkInterval {
		d.pendingBlink = time.Time{}
		return EventDoubleBlink, true
	}
	d.pendingBlink = now
	return "", false
}
