package detector

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	landmarks *FaceLandmarks
	err       error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetLandmarks sets the landmarks that will be returned by Detect.
// Passing nil simulates a frame without a face.
func (m *MockDetector) SetLandmarks(landmarks *FaceLandmarks) {
	m.landmarks = landmarks
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured landmarks or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*FaceLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.landmarks, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// NeutralFaceLandmarks returns a preset FaceLandmarks for an upright face with
// open eyes, closed mouth, and relaxed eyebrows. Feature values: both eye
// aspect ratios 0.25, mouth aspect ratio ~0.094, eyebrow position -0.11,
// head tilt angle 180° (centered).
func NeutralFaceLandmarks() FaceLandmarks {
	f := FaceLandmarks{Score: 0.95}

	// Right eye: 0.10 wide, 0.025 tall
	f.Points[RightEyeTop] = Point3D{X: 0.35, Y: 0.4000}
	f.Points[RightEyeBottom] = Point3D{X: 0.35, Y: 0.4250}
	f.Points[RightEyeLeft] = Point3D{X: 0.30, Y: 0.4125}
	f.Points[RightEyeRight] = Point3D{X: 0.40, Y: 0.4125}

	// Left eye mirrors the right
	f.Points[LeftEyeTop] = Point3D{X: 0.65, Y: 0.4000}
	f.Points[LeftEyeBottom] = Point3D{X: 0.65, Y: 0.4250}
	f.Points[LeftEyeLeft] = Point3D{X: 0.60, Y: 0.4125}
	f.Points[LeftEyeRight] = Point3D{X: 0.70, Y: 0.4125}

	// Mouth: 0.16 wide, barely open
	f.Points[MouthTop] = Point3D{X: 0.50, Y: 0.620}
	f.Points[MouthBottom] = Point3D{X: 0.50, Y: 0.635}
	f.Points[MouthLeft] = Point3D{X: 0.42, Y: 0.630}
	f.Points[MouthRight] = Point3D{X: 0.58, Y: 0.630}

	// Eyebrows and forehead reference
	f.Points[RightEyebrow] = Point3D{X: 0.33, Y: 0.33}
	f.Points[LeftEyebrow] = Point3D{X: 0.67, Y: 0.33}
	f.Points[ForeheadCenter] = Point3D{X: 0.50, Y: 0.22}

	// Nose directly above chin: upright head
	f.Points[NoseTip] = Point3D{X: 0.50, Y: 0.52}
	f.Points[Chin] = Point3D{X: 0.50, Y: 0.70}

	return f
}

// ClosedEyesLandmarks returns a neutral face with both eyes shut
// (eye aspect ratios 0.10).
func ClosedEyesLandmarks() FaceLandmarks {
	f := NeutralFaceLandmarks()
	f.Points[RightEyeTop].Y = 0.4075
	f.Points[RightEyeBottom].Y = 0.4175
	f.Points[LeftEyeTop].Y = 0.4075
	f.Points[LeftEyeBottom].Y = 0.4175
	return f
}

// OpenMouthLandmarks returns a neutral face with the mouth wide open
// (mouth aspect ratio 0.50).
func OpenMouthLandmarks() FaceLandmarks {
	f := NeutralFaceLandmarks()
	f.Points[MouthTop].Y = 0.590
	f.Points[MouthBottom].Y = 0.670
	return f
}

// RaisedEyebrowsLandmarks returns a neutral face with the eyebrows lifted by
// 0.03 in normalized coordinates.
func RaisedEyebrowsLandmarks() FaceLandmarks {
	f := NeutralFaceLandmarks()
	f.Points[RightEyebrow].Y = 0.30
	f.Points[LeftEyebrow].Y = 0.30
	return f
}

// TiltedHeadLandmarks returns a neutral face with the head tilted by the
// given deviation from upright, in degrees. Negative values tilt left,
// positive values tilt right.
func TiltedHeadLandmarks(deviation float64) FaceLandmarks {
	f := NeutralFaceLandmarks()

	theta := math.Copysign(180-math.Abs(deviation), deviation) * math.Pi / 180
	f.Points[NoseTip] = Point3D{
		X: f.Points[Chin].X + 0.18*math.Sin(theta),
		Y: f.Points[Chin].Y + 0.18*math.Cos(theta),
	}
	return f
}
