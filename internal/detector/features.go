package detector

import "time"

// FeatureFrame is the per-frame measurement bundle consumed by the gesture
// detectors. When FaceDetected is false the geometry fields carry no meaning
// and must be ignored.
type FeatureFrame struct {
	FaceDetected bool

	LeftEyeAR       float64
	RightEyeAR      float64
	MouthAR         float64
	EyebrowPosition float64
	HeadTiltAngle   float64

	Timestamp time.Time
}

// Features derives a FeatureFrame from detected landmarks.
// A nil landmarks value yields a "no face" frame.
func Features(f *FaceLandmarks, ts time.Time) FeatureFrame {
	if f == nil {
		return FeatureFrame{Timestamp: ts}
	}
	return FeatureFrame{
		FaceDetected:    true,
		LeftEyeAR:       f.LeftEyeAspectRatio(),
		RightEyeAR:      f.RightEyeAspectRatio(),
		MouthAR:         f.MouthAspectRatio(),
		EyebrowPosition: f.EyebrowPosition(),
		HeadTiltAngle:   f.HeadTiltAngle(),
		Timestamp:       ts,
	}
}
