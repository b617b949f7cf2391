package state

import (
	"context"
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/folderplay/internal/db"
)

// ProgressRow is the stored form of a playback checkpoint.
type ProgressRow struct {
	PlaylistID string `json:"playlist_id"`
	TrackIndex int    `json:"track_index"`
	PositionMS int64  `json:"position_ms"`
	TrackPath  string `json:"track_path,omitempty"`
	SavedAtMS  int64  `json:"saved_at"`
}

// GetProgress returns the progress row for playlistID, or nil if none exists.
func (m *Manager) GetProgress(ctx context.Context, playlistID string) (*ProgressRow, error) {
	return getProgress(ctx, m.db, playlistID)
}

// SaveProgress inserts or replaces the progress row of row.PlaylistID.
func (m *Manager) SaveProgress(ctx context.Context, row ProgressRow) error {
	return saveProgress(ctx, m.db, row)
}

// DeleteProgress removes the progress row of playlistID. Deleting a missing
// row is not an error.
func (m *Manager) DeleteProgress(ctx context.Context, playlistID string) error {
	_, err := m.db.ExecContext(ctx,
		`DELETE FROM playback_progress WHERE playlist_id = ?`, playlistID)
	return err
}

func getProgress(ctx context.Context, db *sql.DB, playlistID string) (*ProgressRow, error) {
	row := ProgressRow{PlaylistID: playlistID}
	var trackPath sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT track_index, position_ms, track_path, saved_at
		FROM playback_progress
		WHERE playlist_id = ?
	`, playlistID).Scan(&row.TrackIndex, &row.PositionMS, &trackPath, &row.SavedAtMS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	if err != nil {
		return nil, err
	}
	row.TrackPath = dbutil.NullStringValue(trackPath)
	return &row, nil
}

func saveProgress(ctx context.Context, db *sql.DB, row ProgressRow) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO playback_progress (playlist_id, track_index, position_ms, track_path, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(playlist_id) DO UPDATE SET
			track_index = excluded.track_index,
			position_ms = excluded.position_ms,
			track_path = excluded.track_path,
			saved_at = excluded.saved_at
	`, row.PlaylistID, row.TrackIndex, row.PositionMS, dbutil.NullString(row.TrackPath), row.SavedAtMS)
	return err
}
