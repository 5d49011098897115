package detector

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when Detect is called without pixel data.
var ErrEmptyFrame = errors.New("empty frame")

// frameHeaderSize is the size of the big-endian rows/cols/channels prefix sent ahead of raw pixels.
const frameHeaderSize = 12

// rawFrame is an RGB frame flattened for transport to a landmark service.
type rawFrame struct {
	Rows     int
	Cols     int
	Channels int
	Data     []byte
}

func newRawFrame(frame *gocv.Mat) (*rawFrame, error) {
	if frame == nil || frame.Empty() {
		return nil, ErrEmptyFrame
	}
	if frame.Channels() != 3 {
		return nil, fmt.Errorf("expected 3 channel frame, got %d", frame.Channels())
	}

	return &rawFrame{
		Rows:     frame.Rows(),
		Cols:     frame.Cols(),
		Channels: frame.Channels(),
		Data:     frame.ToBytes(),
	}, nil
}

// header encodes rows, cols and channels as three big-endian uint32 values.
func (f *rawFrame) header() []byte {
	h := make([]byte, frameHeaderSize)
	binary.BigEndian.PutUint32(h[0:4], uint32(f.Rows))
	binary.BigEndian.PutUint32(h[4:8], uint32(f.Cols))
	binary.BigEndian.PutUint32(h[8:12], uint32(f.Channels))
	return h
}

// detectResponse is the JSON reply of a landmark service.
type detectResponse struct {
	Hands []jsonHand `json:"hands"`
	Error string     `json:"error,omitempty"`
}

// jsonHand represents one hand in a landmark service reply.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (h jsonHand) toHandLandmarks() (HandLandmarks, error) {
	if len(h.Points) != NumLandmarks {
		return HandLandmarks{}, fmt.Errorf("expected %d landmarks, got %d", NumLandmarks, len(h.Points))
	}

	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	for i, p := range h.Points {
		lm.Points[i] = Point3D{X: p.X, Y: p.Y, Z: p.Z}
	}

	return lm, nil
}

// parseDetectResponse decodes a landmark service reply into landmark sets.
func parseDetectResponse(data []byte) ([]HandLandmarks, error) {
	var response detectResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("landmark service: %s", response.Error)
	}

	result := make([]HandLandmarks, 0, len(response.Hands))
	for i, h := range response.Hands {
		lm, err := h.toHandLandmarks()
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i, err)
		}
		result = append(result, lm)
	}

	return result, nil
}
