package detector

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// ErrPoolClosed is returned by Detect after the pool has been closed.
var ErrPoolClosed = errors.New("detector pool closed")

// Pool hands each Detect call its own detector instance, so detectors that are not
// safe for concurrent use can serve concurrent requests.
type Pool struct {
	instances chan Detector
	all       []Detector
	closed    chan struct{}
	once      sync.Once
}

// NewPool builds size detectors with factory. If any construction fails, the
// detectors built so far are closed.
func NewPool(size int, factory func() (Detector, error)) (*Pool, error) {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		instances: make(chan Detector, size),
		all:       make([]Detector, 0, size),
		closed:    make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		d, err := factory()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("create detector %d: %w", i, err)
		}
		p.all = append(p.all, d)
		p.instances <- d
	}

	return p, nil
}

// Size returns the number of detectors in the pool.
func (p *Pool) Size() int {
	return len(p.all)
}

// Detect borrows a detector, runs it and returns it to the pool.
// It blocks while every detector is busy.
func (p *Pool) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	var d Detector
	select {
	case <-p.closed:
		return nil, ErrPoolClosed
	case d = <-p.instances:
	}
	defer func() { p.instances <- d }()

	return d.Detect(frame)
}

// Close closes every detector in the pool.
func (p *Pool) Close() error {
	var errs []error
	p.once.Do(func() {
		close(p.closed)
		for _, d := range p.all {
			if err := d.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
