package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Probes table - one row per probe run
		`CREATE TABLE IF NOT EXISTS probes (
			id TEXT PRIMARY KEY,
			version TEXT NOT NULL DEFAULT '',
			library_path TEXT NOT NULL,
			model_dir TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			duration_ns INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Probe features table - per-feature outcome of a probe
		`CREATE TABLE IF NOT EXISTS probe_features (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			probe_id TEXT NOT NULL REFERENCES probes(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			feature TEXT NOT NULL,
			available INTEGER NOT NULL DEFAULT 0,
			stage TEXT NOT NULL,
			result INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_probe_features_probe_id ON probe_features(probe_id)`,
		`CREATE INDEX IF NOT EXISTS idx_probes_started_at ON probes(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
