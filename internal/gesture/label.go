// Package gesture classifies hand landmark sets into gesture labels.
package gesture

// Label is the closed set of classification outcomes.
type Label string

const (
	// Fist is a hand with every non-thumb finger folded.
	Fist Label = "fist"
	// OpenHand is a hand with every non-thumb finger extended.
	OpenHand Label = "open_hand"
	// Peace is a hand with only index and middle extended.
	Peace Label = "peace"
	// ThumbsUp is a folded hand with the thumb clearly above the wrist.
	ThumbsUp Label = "thumbs_up"
	// ThumbsDown is a folded hand with the thumb clearly below the wrist.
	ThumbsDown Label = "thumbs_down"
	// Unknown is a detected hand whose pose matches no rule.
	Unknown Label = "unknown"
	// NoHandDetected means the detector found no hand in the image.
	NoHandDetected Label = "no_hand_detected"
)

var labels = []Label{Fist, OpenHand, Peace, ThumbsUp, ThumbsDown, Unknown, NoHandDetected}

// Labels returns every label in a stable order.
func Labels() []Label {
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	for _, known := range labels {
		if l == known {
			return true
		}
	}
	return false
}

func (l Label) String() string {
	return string(l)
}
