package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand detection implementations.
//
// Implementations are not required to be safe for concurrent use unless documented;
// wrap them in a Pool to serve concurrent requests.
type Detector interface {
	// Detect analyzes an RGB frame and returns the detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// StaticImageMode treats every frame as an unrelated still image.
	StaticImageMode bool

	// ScriptPath overrides the landmark service script location.
	ScriptPath string

	// PythonPath overrides the interpreter used to run the script.
	PythonPath string

	// IdleTimeout is how long an idle subprocess is kept alive.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config for single still images.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		StaticImageMode: true,
		IdleTimeout:     30 * time.Second,
	}
}
