package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// Default thresholds, in normalized image units.
const (
	DefaultExtensionThreshold = 0.02
	DefaultThumbThreshold     = 0.10
)

// Finger identifies one of the four non-thumb fingers.
type Finger int

const (
	Index Finger = iota
	Middle
	Ring
	Pinky
)

var fingerNames = [...]string{"index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if f < Index || f > Pinky {
		return "finger(?)"
	}
	return fingerNames[f]
}

// fingerJoints maps each finger to its tip and base knuckle (MCP).
var fingerJoints = [...]struct {
	tip, mcp detector.Landmark
}{
	Index:  {detector.IndexTip, detector.IndexMCP},
	Middle: {detector.MiddleTip, detector.MiddleMCP},
	Ring:   {detector.RingTip, detector.RingMCP},
	Pinky:  {detector.PinkyTip, detector.PinkyMCP},
}

// Extension holds the extended state of index, middle, ring and pinky.
type Extension [4]bool

// Count returns the number of extended fingers.
func (e Extension) Count() int {
	n := 0
	for _, extended := range e {
		if extended {
			n++
		}
	}
	return n
}

// All reports whether every finger is extended.
func (e Extension) All() bool {
	return e.Count() == len(e)
}

// Thresholds configures the geometric rules.
type Thresholds struct {
	// Extension is the margin by which a fingertip must sit above its knuckle.
	Extension float64
	// Thumb is the vertical distance between thumb tip and wrist that counts as
	// pointing up or down.
	Thumb float64
}

// DefaultThresholds returns the standard thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Extension: DefaultExtensionThreshold,
		Thumb:     DefaultThumbThreshold,
	}
}

// Classifier maps a landmark set to a Label with fixed geometric rules.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier. Non-positive thresholds fall back to the defaults.
func NewClassifier(t Thresholds) *Classifier {
	defaults := DefaultThresholds()
	if t.Extension <= 0 {
		t.Extension = defaults.Extension
	}
	if t.Thumb <= 0 {
		t.Thumb = defaults.Thumb
	}
	return &Classifier{thresholds: t}
}

// Thresholds returns the thresholds in use.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Extension computes which non-thumb fingers are extended. A finger is extended when
// its tip is higher on screen than its knuckle by more than the extension threshold.
func (c *Classifier) Extension(hand *detector.HandLandmarks) Extension {
	var e Extension
	for f, j := range fingerJoints {
		e[f] = hand.At(j.tip).Y < hand.At(j.mcp).Y-c.thresholds.Extension
	}
	return e
}

// ThumbDelta returns thumb tip Y minus wrist Y. Negative values mean the thumb
// points up.
func (c *Classifier) ThumbDelta(hand *detector.HandLandmarks) float64 {
	return hand.At(detector.ThumbTip).Y - hand.At(detector.Wrist).Y
}

// Classify returns the gesture for hand. A nil hand is NoHandDetected.
//
// Rules, first match wins:
//
//	at most one finger extended, thumb above wrist by more than Thumb  -> ThumbsUp
//	at most one finger extended, thumb below wrist by more than Thumb  -> ThumbsDown
//	no finger extended                                                 -> Fist
//	index and middle only                                              -> Peace
//	all four                                                           -> OpenHand
//	anything else                                                      -> Unknown
func (c *Classifier) Classify(hand *detector.HandLandmarks) Label {
	if hand == nil {
		return NoHandDetected
	}

	ext := c.Extension(hand)
	count := ext.Count()
	delta := c.ThumbDelta(hand)

	if count <= 1 {
		if delta < -c.thresholds.Thumb {
			return ThumbsUp
		}
		if delta > c.thresholds.Thumb {
			return ThumbsDown
		}
	}

	if count == 0 {
		return Fist
	}

	if ext[Index] && ext[Middle] && !ext[Ring] && !ext[Pinky] {
		return Peace
	}

	if ext.All() {
		return OpenHand
	}

	return Unknown
}
