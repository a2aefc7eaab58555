package gesture

// Eyebrow baseline moving-average sizing. Roughly one second of frames, and
// enough warm-up samples that a single noisy reading cannot set the baseline.
const (
	eyebrowBaselineWindow = 30
	eyebrowBaselineWarmup = 10
)

// eyebrowDetector confirms an eyebrow raise relative to an adaptive baseline.
// The baseline only learns from frames where the eyebrows are not raised and
// the head is near center, because head tilt shifts the apparent eyebrow
// position and would otherwise pollute it.
type eyebrowDetector struct {
	samples       []float64
	baseline      float64
	haveBaseline  bool
	confirmFrames int
	fired         bool
}

// process advances the detector with this frame's eyebrow position.
// headCentered reflects the near-center head-tilt interlock: while false, the
// detector is suspended entirely and reports not-raised.
func (d *eyebrowDetector) process(pos float64, headCentered bool, t *Thresholds) (raised bool, ev EventType, ok bool) {
	if !headCentered {
		return false, "", false
	}

	if d.haveBaseline {
		raised = pos-d.baseline > t.EyebrowRaiseThreshold
	}

	if !raised {
		d.confirmFrames = 0
		d.fired = false
		d.observe(pos)
		return false, "", false
	}

	d.confirmFrames++
	if d.confirmFrames >= t.EyebrowConfirmFrames && !d.fired {
		d.fired = true
		return true, EventEyebrowsRaised, true
	}
	return true, "", false
}

// observe folds a relaxed-eyebrow sample into the moving average.
func (d *eyebrowDetector) observe(pos float64) {
	if len(d.samples) == eyebrowBaselineWindow {
		copy(d.samples, d.samples[1:])
		d.samples = d.samples[:eyebrowBaselineWindow-1]
	}
	d.samples = append(d.samples, pos)

	if len(d.samples) < eyebrowBaselineWarmup {
		return
	}

	var sum float64
	for _, s := range d.samples {
		sum += s
	}
	d.baseline = sum / float64(len(d.samples))
	d.haveBaseline = true
}
