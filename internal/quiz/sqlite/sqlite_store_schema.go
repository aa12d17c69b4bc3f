package sqlite

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	// The list is rewritten as a whole on every save; position 0 is the newest.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS history_entries (
			position INTEGER PRIMARY KEY,
			entry_id TEXT NOT NULL,
			started_at_unix INTEGER NOT NULL,
			finished_at_unix INTEGER NOT NULL,
			book_key TEXT NOT NULL,
			config_json TEXT NOT NULL,
			correct INTEGER NOT NULL,
			total INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			time_spent_ms INTEGER NOT NULL,
			auto_submitted INTEGER NOT NULL DEFAULT 0,
			wrong_card_ids_json TEXT NOT NULL,
			verification_code TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_finished_at ON history_entries(finished_at_unix DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
