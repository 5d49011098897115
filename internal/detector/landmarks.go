// Package detector provides hand landmark detection interfaces and types.
package detector

import "fmt"

// Landmark names one of the 21 hand keypoints, following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
type Landmark int

const (
	Wrist Landmark = iota
	ThumbCMC
	ThumbMCP
	ThumbIP
	ThumbTip
	IndexMCP
	IndexPIP
	IndexDIP
	IndexTip
	MiddleMCP
	MiddlePIP
	MiddleDIP
	MiddleTip
	RingMCP
	RingPIP
	RingDIP
	RingTip
	PinkyMCP
	PinkyPIP
	PinkyDIP
	PinkyTip
)

// NumLandmarks is the number of keypoints in one landmark set.
const NumLandmarks = 21

var landmarkNames = [NumLandmarks]string{
	"wrist",
	"thumb_cmc", "thumb_mcp", "thumb_ip", "thumb_tip",
	"index_mcp", "index_pip", "index_dip", "index_tip",
	"middle_mcp", "middle_pip", "middle_dip", "middle_tip",
	"ring_mcp", "ring_pip", "ring_dip", "ring_tip",
	"pinky_mcp", "pinky_pip", "pinky_dip", "pinky_tip",
}

// String returns the snake_case anatomical name of the landmark.
func (l Landmark) String() string {
	if l < 0 || int(l) >= NumLandmarks {
		return fmt.Sprintf("landmark(%d)", int(l))
	}
	return landmarkNames[l]
}

// Point3D is a normalized keypoint position. X and Y are in [0,1] with the origin at the
// top-left of the source image, so a smaller Y is higher on screen.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is the landmark set of one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// At returns the keypoint for the given landmark.
func (h *HandLandmarks) At(l Landmark) Point3D {
	return h.Points[l]
}

// Set stores p as the keypoint for the given landmark.
func (h *HandLandmarks) Set(l Landmark, p Point3D) {
	h.Points[l] = p
}
