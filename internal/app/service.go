package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/store"
)

// Listing bounds for Recent.
const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

// Readings is the persistence the service needs. *store.ReadingRepository
// satisfies it.
type Readings interface {
	Create(ctx context.Context, r *store.Reading) error
	GetByID(ctx context.Context, id string) (*store.Reading, error)
	List(ctx context.Context, limit int) ([]store.Reading, error)
}

// Archiver keeps a copy of the original image bytes.
type Archiver interface {
	Archive(ctx context.Context, id string, data []byte) error
}

// Publisher receives every recorded result.
type Publisher interface {
	Publish(r Result)
}

// Result is a recorded classification as shown to callers.
type Result struct {
	ID          string        `json:"id"`
	Gesture     gesture.Label `json:"gesture"`
	ImagePath   string        `json:"image_path"`
	ImageLength int           `json:"image_length"`
	CreatedAt   time.Time     `json:"created_at"`
}

func resultFromReading(r *store.Reading) Result {
	return Result{
		ID:          r.ID,
		Gesture:     gesture.Label(r.Gesture),
		ImagePath:   r.ImagePath,
		ImageLength: r.ImageLength,
		CreatedAt:   r.CreatedAt,
	}
}

// Service classifies images and records every outcome.
type Service struct {
	pipeline  *Pipeline
	readings  Readings
	archiver  Archiver
	publisher Publisher
}

// NewService creates a service. Archiving and publishing are off until
// SetArchiver and SetPublisher are called.
func NewService(p *Pipeline, readings Readings) *Service {
	return &Service{pipeline: p, readings: readings}
}

// SetArchiver enables image archiving.
func (s *Service) SetArchiver(a Archiver) {
	s.archiver = a
}

// SetPublisher enables result broadcasting.
func (s *Service) SetPublisher(p Publisher) {
	s.publisher = p
}

// Process classifies the payload, records the reading and returns it.
// Decode errors come back as *capture.DecodeError. Archive failures are
// logged and do not fail the call.
func (s *Service) Process(ctx context.Context, payload string) (*Result, error) {
	start := time.Now()

	data, err := capture.DecodePayload(payload)
	if err != nil {
		return nil, err
	}

	label, err := s.pipeline.ClassifyImage(data)
	if err != nil {
		return nil, err
	}

	reading := &store.Reading{
		Gesture:     string(label),
		ImagePath:   gesture.AssetPath(label),
		ImageLength: len(payload),
	}
	if err := s.readings.Create(ctx, reading); err != nil {
		return nil, err
	}

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, reading.ID, data); err != nil {
			logger.WithError(err).WithField("id", reading.ID).Warn("Failed to archive image")
		}
	}

	result := resultFromReading(reading)

	logger.WithFields(logrus.Fields{
		"id":                 result.ID,
		"gesture":            result.Gesture,
		"image_length":       result.ImageLength,
		"processing_time_ms": time.Since(start).Milliseconds(),
	}).Info("Gesture reading recorded")

	if s.publisher != nil {
		s.publisher.Publish(result)
	}

	return &result, nil
}

// Recent returns up to limit results, newest first. Non-positive limits mean
// DefaultRecentLimit and larger ones are capped at MaxRecentLimit.
func (s *Service) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	readings, err := s.readings.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(readings))
	for i := range readings {
		results[i] = resultFromReading(&readings[i])
	}
	return results, nil
}

// Get returns one result, or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Result, error) {
	r, err := s.readings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := resultFromReading(r)
	return &result, nil
}

// Close releases the pipeline's detector.
func (s *Service) Close() error {
	return s.pipeline.Close()
}
