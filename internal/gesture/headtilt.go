package gesture

import "math"

// Zone classifies the head position relative to upright.
type Zone int

const (
	// ZoneCenter is the upright position inside the deadzone.
	ZoneCenter Zone = iota
	// ZoneLeft is a confirmed leftward tilt.
	ZoneLeft
	// ZoneRight is a confirmed rightward tilt.
	ZoneRight
)

// String returns the zone name.
func (z Zone) String() string {
	switch z {
	case ZoneLeft:
		return "LEFT"
	case ZoneRight:
		return "RIGHT"
	}
	return "CENTER"
}

// deviation converts the cyclic nose-chin angle, whose center sits at ±180°,
// into a signed offset from upright in degrees. Negative values lean left,
// positive values lean right. The conversion happens once per frame so every
// later comparison is an ordinary linear one.
func deviation(angle float64) float64 {
	return math.Copysign(180-math.Abs(angle), angle)
}

// headTiltDetector debounces the head zone. A candidate zone must hold for
// the configured run of frames before it is confirmed, and an event fires
// only when a confirmed CENTER transitions into LEFT or RIGHT.
type headTiltDetector struct {
	confirmed       Zone
	candidate       Zone
	candidateFrames int
}

// classify maps a deviation to a zone. Deviations between the deadzone and
// the tilt threshold fall into the hysteresis band and observe the last
// confirmed zone, which prevents chatter at the boundary.
func (d *headTiltDetector) classify(dev float64, t *Thresholds) Zone {
	switch {
	case math.Abs(dev) <= t.HeadTiltDeadzone:
		return ZoneCenter
	case dev <= -t.HeadTiltThreshold:
		return ZoneLeft
	case dev >= t.HeadTiltThreshold:
		return ZoneRight
	}
	return d.confirmed
}

func (d *headTiltDetector) process(angle float64, t *Thresholds) (EventType, bool) {
	zone := d.classify(deviation(angle), t)

	if zone == d.confirmed {
		// Back in (or still in) the confirmed zone: cancel any pending run.
		d.candidate = zone
		d.candidateFrames = 0
		return "", false
	}

	if zone != d.candidate {
		d.candidate = zone
		d.candidateFrames = 1
	} else {
		d.candidateFrames++
	}

	if d.candidateFrames < t.HeadTiltConfirmFrames {
		return "", false
	}

	prev := d.confirmed
	d.confirmed = zone
	d.candidateFrames = 0

	// Edge-triggered on leaving CENTER only. LEFT↔RIGHT without a confirmed
	// CENTER in between does not re-emit, and returning to CENTER only
	// re-arms the detector.
	if prev != ZoneCenter {
		return "", false
	}
	switch zone {
	case ZoneLeft:
		return EventHeadTiltLeft, true
	case ZoneRight:
		return EventHeadTiltRight, true
	}
	return "", false
}
