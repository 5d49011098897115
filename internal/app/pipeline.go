// Package app runs still images through decoding, hand detection and
// classification, and records the outcome.
package app

import (
	"fmt"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Classifier maps one hand to a gesture label.
type Classifier interface {
	Classify(hand *detector.HandLandmarks) gesture.Label
}

// Pipeline classifies a single image. It holds no per-call state; concurrent
// use is safe as long as the detector is (see detector.Pool).
type Pipeline struct {
	detector   detector.Detector
	classifier Classifier
}

// NewPipeline creates a pipeline over the given detector and classifier.
func NewPipeline(d detector.Detector, c Classifier) *Pipeline {
	return &Pipeline{detector: d, classifier: c}
}

// Classify decodes a base64 payload and classifies the first detected hand.
// Decode failures are returned as *capture.DecodeError without invoking the
// detector. An image with no hand yields gesture.NoHandDetected.
func (p *Pipeline) Classify(payload string) (gesture.Label, error) {
	data, err := capture.DecodePayload(payload)
	if err != nil {
		return "", err
	}
	return p.ClassifyImage(data)
}

// ClassifyImage is Classify for already decoded image bytes.
func (p *Pipeline) ClassifyImage(data []byte) (gesture.Label, error) {
	bgr, err := capture.DecodeImage(data)
	if err != nil {
		return "", err
	}
	defer bgr.Close()

	rgb, err := capture.ToRGB(bgr)
	if err != nil {
		return "", fmt.Errorf("prepare frame: %w", err)
	}
	defer rgb.Close()

	hands, err := p.detector.Detect(&rgb)
	if err != nil {
		return "", fmt.Errorf("detect hands: %w", err)
	}
	if len(hands) == 0 {
		return gesture.NoHandDetected, nil
	}

	// Only the first hand is considered.
	return p.classifier.Classify(&hands[0]), nil
}

// Close releases the detector.
func (p *Pipeline) Close() error {
	return p.detector.Close()
}
