// Package detector provides face landmark detection interfaces and the
// per-frame feature measurements derived from them.
package detector

import "math"

// Face landmark indices following the MediaPipe Face Mesh convention.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
const (
	RightEyeTop    = 159
	RightEyeBottom = 145
	RightEyeLeft   = 33
	RightEyeRight  = 133

	LeftEyeTop    = 386
	LeftEyeBottom = 374
	LeftEyeLeft   = 362
	LeftEyeRight  = 263

	MouthTop    = 13
	MouthBottom = 14
	MouthLeft   = 78
	MouthRight  = 308

	RightEyebrow   = 70
	LeftEyebrow    = 300
	ForeheadCenter = 10

	NoseTip = 4
	Chin    = 152

	// NumLandmarks is the landmark count of the refined face mesh model.
	NumLandmarks = 478
)

// Point3D represents a 3D point in normalized image space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FaceLandmarks represents the face mesh landmarks detected by MediaPipe.
// Coordinates are normalized to the frame, with Y growing downward.
type FaceLandmarks struct {
	Points [NumLandmarks]Point3D `json:"points"`
	Score  float64               `json:"score"`
}

// distance2D calculates the Euclidean distance between two points in the
// image plane, ignoring depth.
func distance2D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// aspectRatio returns the vertical/horizontal distance ratio for four
// landmarks bounding an opening (an eye or the mouth). Returns 0 when the
// horizontal span is degenerate.
func (f *FaceLandmarks) aspectRatio(top, bottom, left, right int) float64 {
	vertical := distance2D(f.Points[top], f.Points[bottom])
	horizontal := distance2D(f.Points[left], f.Points[right])
	if horizontal <= 0 {
		return 0
	}
	return vertical / horizontal
}

// LeftEyeAspectRatio returns the EAR of the left eye. Low values indicate a
// closed eye.
func (f *FaceLandmarks) LeftEyeAspectRatio() float64 {
	return f.aspectRatio(LeftEyeTop, LeftEyeBottom, LeftEyeLeft, LeftEyeRight)
}

// RightEyeAspectRatio returns the EAR of the right eye.
func (f *FaceLandmarks) RightEyeAspectRatio() float64 {
	return f.aspectRatio(RightEyeTop, RightEyeBottom, RightEyeLeft, RightEyeRight)
}

// MouthAspectRatio returns the MAR. High values indicate an open mouth.
func (f *FaceLandmarks) MouthAspectRatio() float64 {
	return f.aspectRatio(MouthTop, MouthBottom, MouthLeft, MouthRight)
}

// EyebrowPosition returns the vertical displacement of the eyebrows relative
// to the forehead center. The value grows as the eyebrows are raised.
func (f *FaceLandmarks) EyebrowPosition() float64 {
	avgBrowY := (f.Points[RightEyebrow].Y + f.Points[LeftEyebrow].Y) / 2
	return f.Points[ForeheadCenter].Y - avgBrowY
}

// HeadTiltAngle returns the nose-to-chin axis angle in degrees. An upright
// head maps near ±180°; 0° corresponds to maximal tilt. The sign is negative
// for a leftward tilt and positive for a rightward tilt.
func (f *FaceLandmarks) HeadTiltAngle() float64 {
	dx := f.Points[NoseTip].X - f.Points[Chin].X
	dy := f.Points[NoseTip].Y - f.Points[Chin].Y
	return math.Atan2(dx, dy) * 180 / math.Pi
}
