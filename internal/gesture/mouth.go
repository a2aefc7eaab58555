package gesture

// mouthDetector confirms a sustained mouth opening. The fired latch blocks
// repeat events until the mouth returns to closed.
type mouthDetector struct {
	confirmFrames int
	fired         bool
}

func (d *mouthDetector) process(open bool, t *Thresholds) (EventType, bool) {
	if !open {
		d.confirmFrames = 0
		d.fired = false
		return "", false
	}

	d.confirmFrames++
	if d.confirmFrames >= t.MouthConfirmFrames && !d.fired {
		d.fired = true
		return EventMouthOpen, true
	}
	return "", false
}
