package gesture

import (
	"testing"
	"time"

	"github.com/ayusman/abhinaya/internal/detector"
)

// frameInterval approximates a 30 FPS capture cadence.
const frameInterval = 33 * time.Millisecond

var testBase = time.Unix(1000, 0)

// neutralFrame returns a frame for an upright face with open eyes, closed
// mouth, and relaxed eyebrows.
func neutralFrame(ts time.Time) detector.FeatureFrame {
	return detector.FeatureFrame{
		FaceDetected:    true,
		LeftEyeAR:       0.25,
		RightEyeAR:      0.25,
		MouthAR:         0.10,
		EyebrowPosition: -0.110,
		HeadTiltAngle:   180,
		Timestamp:       ts,
	}
}

// run feeds a sequence of frame mutations into the session, spacing frames
// by frameInterval, and collects every emitted event.
func run(s *Session, start time.Time, mutations []func(*detector.FeatureFrame)) []Event {
	var events []Event
	ts := start
	for _, mutate := range mutations {
		frame := neutralFrame(ts)
		if mutate != nil {
			mutate(&frame)
		}
		if _, ev := s.Process(frame); ev != nil {
			events = append(events, *ev)
		}
		ts = ts.Add(frameInterval)
	}
	return events
}

func repeat(n int, mutate func(*detector.FeatureFrame)) []func(*detector.FeatureFrame) {
	seq := make([]func(*detector.FeatureFrame), n)
	for i := range seq {
		seq[i] = mutate
	}
	return seq
}

func closedEyes(f *detector.FeatureFrame) {
	f.LeftEyeAR = 0.10
	f.RightEyeAR = 0.10
}

func openMouth(f *detector.FeatureFrame) {
	f.MouthAR = 0.50
}

func tilt(deviationDeg float64) func(*detector.FeatureFrame) {
	return func(f *detector.FeatureFrame) {
		if deviationDeg < 0 {
			f.HeadTiltAngle = -(180 + deviationDeg)
		} else {
			f.HeadTiltAngle = 180 - deviationDeg
		}
	}
}

// noCooldown returns defaults with the cooldown disabled, so latch and
// debounce behavior can be observed without emission gating.
func noCooldown() Thresholds {
	t := DefaultThresholds()
	t.Cooldown = 0
	return t
}

func TestSession_BlinkScenarios(t *testing.T) {
	t.Run("single blink emits no event but records a pending blink", func(t *testing.T) {
		// EAR sequence [0.25]*5 + [0.10]*3 + [0.25]*5 with min_blink_frames=2:
		// one confirmed blink edge at the ninth frame, no DOUBLE_BLINK.
		s := NewSession(noCooldown())

		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(5, nil)...)
		seq = append(seq, repeat(3, closedEyes)...)
		seq = append(seq, repeat(5, nil)...)

		events := run(s, testBase, seq)

		if len(events) != 0 {
			t.Fatalf("expected no events for a single blink, got %v", events)
		}
		wantEdge := testBase.Add(8 * frameInterval)
		if !s.eye.pendingBlink.Equal(wantEdge) {
			t.Errorf("expected pending blink at the ninth frame %v, got %v", wantEdge, s.eye.pendingBlink)
		}
	})

	t.Run("closed run shorter than min_blink_frames is not a blink", func(t *testing.T) {
		s := NewSession(noCooldown())

		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(3, nil)...)
		seq = append(seq, repeat(1, closedEyes)...)
		seq = append(seq, repeat(3, nil)...)

		if events := run(s, testBase, seq); len(events) != 0 {
			t.Fatalf("expected no events, got %v", events)
		}
		if !s.eye.pendingBlink.IsZero() {
			t.Error("expected no pending blink for a one-frame closure")
		}
	})

	t.Run("two blinks inside the window emit one DOUBLE_BLINK", func(t *testing.T) {
		s := NewSession(noCooldown())

		// Edges land 8 frames (264ms) apart, inside the 800ms window.
		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(3, closedEyes)...)
		seq = append(seq, repeat(5, nil)...)
		seq = append(seq, repeat(3, closedEyes)...)
		seq = append(seq, repeat(3, nil)...)

		events := run(s, testBase, seq)

		if len(events) != 1 {
			t.Fatalf("expected exactly one event, got %v", events)
		}
		if events[0].Type != EventDoubleBlink {
			t.Errorf("expected DOUBLE_BLINK, got %s", events[0].Type)
		}
		wantEdge := testBase.Add(11 * frameInterval)
		if !events[0].Timestamp.Equal(wantEdge) {
			t.Errorf("expected event at the second edge %v, got %v", wantEdge, events[0].Timestamp)
		}
	})

	t.Run("two blinks outside the window stay single blinks", func(t *testing.T) {
		th := noCooldown()
		th.DoubleBlinkInterval = 200 * time.Millisecond
		s := NewSession(th)

		// Edges land 264ms apart, beyond the 200ms window.
		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(3, closedEyes)...)
		seq = append(seq, repeat(5, nil)...)
		seq = append(seq, repeat(3, closedEyes)...)
		seq = append(seq, repeat(3, nil)...)

		if events := run(s, testBase, seq); len(events) != 0 {
			t.Fatalf("expected no events, got %v", events)
		}
		if s.eye.pendingBlink.IsZero() {
			t.Error("expected the second blink to replace the stale pending blink")
		}
	})
}

func TestSession_LongClose(t *testing.T) {
	th := noCooldown()
	th.LongCloseFrames = 10

	t.Run("fires once per closure no matter how long it lasts", func(t *testing.T) {
		s := NewSession(th)

		events := run(s, testBase, repeat(60, closedEyes))

		if len(events) != 1 {
			t.Fatalf("expected exactly one LONG_CLOSE, got %d events", len(events))
		}
		if events[0].Type != EventLongClose {
			t.Errorf("expected LONG_CLOSE, got %s", events[0].Type)
		}
		wantAt := testBase.Add(9 * frameInterval)
		if !events[0].Timestamp.Equal(wantAt) {
			t.Errorf("expected LONG_CLOSE at frame 10 (%v), got %v", wantAt, events[0].Timestamp)
		}
	})

	t.Run("re-arms only after an open frame", func(t *testing.T) {
		s := NewSession(th)

		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(15, closedEyes)...)
		seq = append(seq, repeat(1, nil)...)
		seq = append(seq, repeat(12, closedEyes)...)

		events := run(s, testBase, seq)

		if len(events) != 2 {
			t.Fatalf("expected two LONG_CLOSE events, got %d", len(events))
		}
		for _, ev := range events {
			if ev.Type != EventLongClose {
				t.Errorf("expected LONG_CLOSE, got %s", ev.Type)
			}
		}
	})
}

func TestSession_MouthLatch(t *testing.T) {
	s := NewSession(noCooldown())

	// Holding the mouth open far past confirmation emits exactly one event.
	events := run(s, testBase, repeat(1000, openMouth))
	if len(events) != 1 {
		t.Fatalf("expected exactly one MOUTH_OPEN over 1000 held frames, got %d", len(events))
	}
	if events[0].Type != EventMouthOpen {
		t.Errorf("expected MOUTH_OPEN, got %s", events[0].Type)
	}

	// One closed frame re-arms; reopening confirms a second event.
	next := testBase.Add(1000 * frameInterval)
	var seq []func(*detector.FeatureFrame)
	seq = append(seq, repeat(1, nil)...)
	seq = append(seq, repeat(5, openMouth)...)

	events = run(s, next, seq)
	if len(events) != 1 || events[0].Type != EventMouthOpen {
		t.Fatalf("expected a second MOUTH_OPEN after re-closing, got %v", events)
	}
}

func TestSession_Eyebrows(t *testing.T) {
	raiseBrow := func(f *detector.FeatureFrame) {
		f.EyebrowPosition = -0.080
	}

	t.Run("raise confirms after the baseline warms up", func(t *testing.T) {
		s := NewSession(noCooldown())

		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(15, nil)...) // learn the baseline
		seq = append(seq, repeat(20, raiseBrow)...)

		events := run(s, testBase, seq)

		if len(events) != 1 {
			t.Fatalf("expected exactly one EYEBROWS_RAISED, got %d", len(events))
		}
		if events[0].Type != EventEyebrowsRaised {
			t.Errorf("expected EYEBROWS_RAISED, got %s", events[0].Type)
		}
	})

	t.Run("no events before the baseline exists", func(t *testing.T) {
		s := NewSession(noCooldown())

		if events := run(s, testBase, repeat(50, raiseBrow)); len(events) != 0 {
			t.Fatalf("expected no events without a baseline, got %v", events)
		}
	})

	t.Run("suppressed entirely while the head is tilted", func(t *testing.T) {
		s := NewSession(noCooldown())

		// Warm the baseline up, then tilt the head past the zone threshold
		// while raising the eyebrows hard.
		tiltedRaise := func(f *detector.FeatureFrame) {
			tilt(-20)(f)
			f.EyebrowPosition = 0.50
		}

		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(15, nil)...)
		seq = append(seq, repeat(40, tiltedRaise)...)

		events := run(s, testBase, seq)

		// The head-tilt event is expected; an eyebrow event is not.
		for _, ev := range events {
			if ev.Type == EventEyebrowsRaised {
				t.Fatalf("eyebrow raise must not fire while the head is tilted")
			}
		}
		if s.eyebrow.confirmFrames != 0 {
			t.Error("expected the eyebrow confirm counter to stay frozen under tilt")
		}
	})

	t.Run("lowering re-arms the latch", func(t *testing.T) {
		s := NewSession(noCooldown())

		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(15, nil)...)
		seq = append(seq, repeat(10, raiseBrow)...)
		seq = append(seq, repeat(5, nil)...)
		seq = append(seq, repeat(10, raiseBrow)...)

		events := run(s, testBase, seq)

		if len(events) != 2 {
			t.Fatalf("expected two EYEBROWS_RAISED events, got %d", len(events))
		}
	})
}

func TestSession_HeadTilt(t *testing.T) {
	t.Run("sustained left tilt from center fires once at the confirm frame", func(t *testing.T) {
		th := noCooldown()
		th.HeadTiltConfirmFrames = 10
		s := NewSession(th)

		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(5, nil)...)
		seq = append(seq, repeat(25, tilt(-20))...)

		events := run(s, testBase, seq)

		if len(events) != 1 {
			t.Fatalf("expected exactly one HEAD_TILT_LEFT, got %d", len(events))
		}
		if events[0].Type != EventHeadTiltLeft {
			t.Errorf("expected HEAD_TILT_LEFT, got %s", events[0].Type)
		}
		wantAt := testBase.Add(14 * frameInterval) // frame 10 of the tilted run
		if !events[0].Timestamp.Equal(wantAt) {
			t.Errorf("expected event at %v, got %v", wantAt, events[0].Timestamp)
		}
	})

	t.Run("flapping faster than confirm_frames never fires", func(t *testing.T) {
		th := noCooldown()
		th.HeadTiltConfirmFrames = 5
		s := NewSession(th)

		var seq []func(*detector.FeatureFrame)
		for i := 0; i < 20; i++ {
			seq = append(seq, repeat(3, tilt(-20))...)
			seq = append(seq, repeat(3, nil)...)
		}

		if events := run(s, testBase, seq); len(events) != 0 {
			t.Fatalf("expected no events while flapping, got %v", events)
		}
	})

	t.Run("left to right without a confirmed center does not re-emit", func(t *testing.T) {
		s := NewSession(noCooldown())

		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(10, tilt(-20))...)
		seq = append(seq, repeat(10, tilt(20))...)

		events := run(s, testBase, seq)

		if len(events) != 1 {
			t.Fatalf("expected only the initial HEAD_TILT_LEFT, got %v", events)
		}
		if s.headTilt.confirmed != ZoneRight {
			t.Errorf("expected confirmed zone RIGHT, got %s", s.headTilt.confirmed)
		}
	})

	t.Run("returning to center re-arms without emitting", func(t *testing.T) {
		s := NewSession(noCooldown())

		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(10, tilt(-20))...)
		seq = append(seq, repeat(10, nil)...)
		seq = append(seq, repeat(10, tilt(20))...)

		events := run(s, testBase, seq)

		if len(events) != 2 {
			t.Fatalf("expected left then right, got %v", events)
		}
		if events[0].Type != EventHeadTiltLeft || events[1].Type != EventHeadTiltRight {
			t.Errorf("expected HEAD_TILT_LEFT then HEAD_TILT_RIGHT, got %s, %s",
				events[0].Type, events[1].Type)
		}
	})

	t.Run("transition band frames cancel a pending candidate run", func(t *testing.T) {
		th := noCooldown()
		th.HeadTiltConfirmFrames = 10
		s := NewSession(th)

		// 9 frames left, a band frame (between deadzone 7 and threshold 15),
		// then 9 more left: neither run reaches 10.
		var seq []func(*detector.FeatureFrame)
		seq = append(seq, repeat(9, tilt(-20))...)
		seq = append(seq, repeat(1, tilt(-10))...)
		seq = append(seq, repeat(9, tilt(-20))...)

		if events := run(s, testBase, seq); len(events) != 0 {
			t.Fatalf("expected no events with an interrupted run, got %v", events)
		}
	})
}

func TestSession_Cooldown(t *testing.T) {
	th := DefaultThresholds()
	th.Cooldown = 10 * time.Second
	s := NewSession(th)

	// Mouth confirms at frame 5; the head tilt confirms at frame 15 while
	// the cooldown is still live and must be suppressed, but its zone still
	// latches.
	var seq []func(*detector.FeatureFrame)
	seq = append(seq, repeat(5, openMouth)...)
	seq = append(seq, repeat(25, func(f *detector.FeatureFrame) {
		openMouth(f)
		tilt(-20)(f)
	})...)

	events := run(s, testBase, seq)

	if len(events) != 1 {
		t.Fatalf("expected exactly one event inside the cooldown window, got %d", len(events))
	}
	if events[0].Type != EventMouthOpen {
		t.Errorf("expected MOUTH_OPEN, got %s", events[0].Type)
	}
	if s.headTilt.confirmed != ZoneLeft {
		t.Errorf("expected the suppressed tilt to still latch its zone, got %s", s.headTilt.confirmed)
	}
}

func TestSession_Priority(t *testing.T) {
	// Mouth and head tilt confirm on the same frame: the fixed evaluation
	// order keeps the mouth event and drops the tilt, which still latches.
	th := noCooldown()
	th.MouthConfirmFrames = 5
	th.HeadTiltConfirmFrames = 5
	s := NewSession(th)

	both := func(f *detector.FeatureFrame) {
		openMouth(f)
		tilt(-20)(f)
	}

	events := run(s, testBase, repeat(20, both))

	if len(events) != 1 {
		t.Fatalf("expected a single event for coinciding confirmations, got %v", events)
	}
	if events[0].Type != EventMouthOpen {
		t.Errorf("expected MOUTH_OPEN to win the tie, got %s", events[0].Type)
	}
	if s.headTilt.confirmed != ZoneLeft {
		t.Errorf("expected the losing tilt to latch, got %s", s.headTilt.confirmed)
	}
}

func TestSession_NoFaceFrames(t *testing.T) {
	th := noCooldown()
	th.LongCloseFrames = 10
	s := NewSession(th)

	noFace := func(f *detector.FeatureFrame) {
		*f = detector.FeatureFrame{Timestamp: f.Timestamp}
	}

	// A burst of no-face frames in the middle of a closure neither breaks
	// nor extends the closed run.
	var seq []func(*detector.FeatureFrame)
	seq = append(seq, repeat(5, closedEyes)...)
	seq = append(seq, repeat(3, noFace)...)
	seq = append(seq, repeat(5, closedEyes)...)

	events := run(s, testBase, seq)

	if len(events) != 1 || events[0].Type != EventLongClose {
		t.Fatalf("expected one LONG_CLOSE at the tenth closed frame, got %v", events)
	}

	snap, ev := s.Process(detector.FeatureFrame{Timestamp: testBase.Add(time.Minute)})
	if snap.FaceDetected {
		t.Error("expected FaceDetected false in the snapshot")
	}
	if ev != nil {
		t.Errorf("expected no event for a no-face frame, got %v", ev)
	}
}

func TestSession_Snapshot(t *testing.T) {
	s := NewSession(DefaultThresholds())

	t.Run("reports instantaneous zone booleans from the deadzone", func(t *testing.T) {
		frame := neutralFrame(testBase)
		tilt(-10)(&frame)

		snap, _ := s.Process(frame)

		if snap.HeadTiltCenter || !snap.HeadTiltLeft || snap.HeadTiltRight {
			t.Errorf("expected left-only outside the deadzone, got center=%v left=%v right=%v",
				snap.HeadTiltCenter, snap.HeadTiltLeft, snap.HeadTiltRight)
		}
	})

	t.Run("eyes closed uses the averaged EAR", func(t *testing.T) {
		frame := neutralFrame(testBase.Add(frameInterval))
		frame.LeftEyeAR = 0.15
		frame.RightEyeAR = 0.30 // average 0.225, above the 0.20 threshold

		snap, _ := s.Process(frame)

		if snap.EyesClosed {
			t.Error("expected open eyes when the averaged EAR clears the threshold")
		}
	})
}

func TestSession_Reset(t *testing.T) {
	s := NewSession(noCooldown())

	// Latch the mouth and warm the eyebrow baseline.
	var seq []func(*detector.FeatureFrame)
	seq = append(seq, repeat(15, openMouth)...)
	if events := run(s, testBase, seq); len(events) != 1 {
		t.Fatalf("setup: expected one MOUTH_OPEN, got %v", events)
	}

	s.Reset()

	if s.mouth.fired || s.mouth.confirmFrames != 0 {
		t.Error("expected the mouth latch and counter to clear on reset")
	}
	if s.eyebrow.haveBaseline || len(s.eyebrow.samples) != 0 {
		t.Error("expected the eyebrow baseline to be forgotten on reset")
	}
	if !s.cooldownUntil.IsZero() {
		t.Error("expected the cooldown to lift on reset")
	}

	// Detection works again from scratch.
	events := run(s, testBase.Add(time.Hour), repeat(5, openMouth))
	if len(events) != 1 || events[0].Type != EventMouthOpen {
		t.Fatalf("expected MOUTH_OPEN after reset, got %v", events)
	}
}
