package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested reading does not exist.
var ErrNotFound = errors.New("not found")

// Reading is one classified image.
type Reading struct {
	ID          string    `db:"id"`
	Gesture     string    `db:"gesture"`
	ImagePath   string    `db:"image_path"`
	ImageLength int       `db:"image_length"`
	CreatedAt   time.Time `db:"created_at"`
}

// ReadingRepository appends and reads readings. It never updates or deletes.
type ReadingRepository struct {
	db *sqlx.DB
}

// Readings returns the reading repository for this store.
func (s *Store) Readings() *ReadingRepository {
	return &ReadingRepository{db: s.db}
}

// Create inserts r. An empty ID is replaced with a fresh UUID and a zero
// CreatedAt with the current UTC time.
func (r *ReadingRepository) Create(ctx context.Context, reading *Reading) error {
	if reading.ID == "" {
		reading.ID = uuid.New().String()
	}
	if reading.CreatedAt.IsZero() {
		reading.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`INSERT INTO readings (id, gesture, image_path, image_length, created_at)
		VALUES (?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		reading.ID, reading.Gesture, reading.ImagePath, reading.ImageLength, reading.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	return nil
}

// GetByID returns the reading with the given id, or ErrNotFound.
func (r *ReadingRepository) GetByID(ctx context.Context, id string) (*Reading, error) {
	query := r.db.Rebind(`SELECT id, gesture, image_path, image_length, created_at
		FROM readings WHERE id = ?`)

	var reading Reading
	if err := r.db.GetContext(ctx, &reading, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query reading: %w", err)
	}

	return &reading, nil
}

// List returns up to limit readings, newest first.
func (r *ReadingRepository) List(ctx context.Context, limit int) ([]Reading, error) {
	query := r.db.Rebind(`SELECT id, gesture, image_path, image_length, created_at
		FROM readings ORDER BY created_at DESC LIMIT ?`)

	readings := []Reading{}
	if err := r.db.SelectContext(ctx, &readings, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}

	return readings, nil
}

// Count returns the number of stored readings.
func (r *ReadingRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM readings`); err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return n, nil
}
