package state

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS playlists (
			id TEXT PRIMARY KEY,
			folder TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			imported_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_playlists_imported_at ON playlists(imported_at DESC);

		CREATE TABLE IF NOT EXISTS playback_progress (
			playlist_id TEXT PRIMARY KEY,
			track_index INTEGER NOT NULL DEFAULT 0,
			position_ms INTEGER NOT NULL DEFAULT 0,
			track_path TEXT,
			saved_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: version 1 databases lack track_path
	_, _ = db.Exec(`ALTER TABLE playback_progress ADD COLUMN track_path TEXT`)

	return nil
}
