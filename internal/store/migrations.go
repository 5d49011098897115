package store

// runMigrations creates the schema for the store's driver.
func (s *Store) runMigrations() error {
	timestamp := "DATETIME"
	if s.driver == DriverPostgres {
		timestamp = "TIMESTAMPTZ"
	}

	migrations := []string{
		// Readings are append-only: one row per processed image.
		`CREATE TABLE IF NOT EXISTS readings (
			id TEXT PRIMARY KEY,
			gesture TEXT NOT NULL,
			image_path TEXT NOT NULL,
			image_length INTEGER NOT NULL DEFAULT 0,
			created_at ` + timestamp + ` NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_readings_created_at ON readings(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
