package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Phrase categories table - groups phrases shown on the board
		`CREATE TABLE IF NOT EXISTS phrase_categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			icon TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0
		)`,

		// Phrases table - stores selectable phrases, both seeded and custom
		`CREATE TABLE IF NOT EXISTS phrases (
			id TEXT PRIMARY KEY,
			category_id TEXT REFERENCES phrase_categories(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			short TEXT NOT NULL DEFAULT '',
			custom INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Bindings table - maps an emitted gesture event to a plugin action
		`CREATE TABLE IF NOT EXISTS bindings (
			id TEXT PRIMARY KEY,
			gesture_type TEXT NOT NULL,
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_phrases_category_id ON phrases(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bindings_gesture_type ON bindings(gesture_type)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
