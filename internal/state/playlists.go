package state

import (
	"context"
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/folderplay/internal/db"
)

// PlaylistRow is a registered folder.
type PlaylistRow struct {
	ID         string
	Folder     string
	Name       string
	ImportedAt int64 // unix milliseconds
}

// InsertPlaylist registers a playlist. The folder must not be registered yet.
func (m *Manager) InsertPlaylist(ctx context.Context, p PlaylistRow) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO playlists (id, folder, name, imported_at)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Folder, p.Name, p.ImportedAt)
	return err
}

// ListPlaylists returns all playlists, most recently imported first.
func (m *Manager) ListPlaylists(ctx context.Context) ([]PlaylistRow, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, folder, name, imported_at
		FROM playlists
		ORDER BY imported_at DESC, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []PlaylistRow
	for rows.Next() {
		var p PlaylistRow
		if err := rows.Scan(&p.ID, &p.Folder, &p.Name, &p.ImportedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetPlaylist returns the playlist with id, or nil if none exists.
func (m *Manager) GetPlaylist(ctx context.Context, id string) (*PlaylistRow, error) {
	return m.queryPlaylist(ctx, `WHERE id = ?`, id)
}

// PlaylistByFolder returns the playlist bound to folder, or nil if none exists.
func (m *Manager) PlaylistByFolder(ctx context.Context, folder string) (*PlaylistRow, error) {
	return m.queryPlaylist(ctx, `WHERE folder = ?`, folder)
}

func (m *Manager) queryPlaylist(ctx context.Context, where string, arg any) (*PlaylistRow, error) {
	var p PlaylistRow
	err := m.db.QueryRowContext(ctx,
		`SELECT id, folder, name, imported_at FROM playlists `+where, arg,
	).Scan(&p.ID, &p.Folder, &p.Name, &p.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePlaylist removes a playlist together with its progress row.
// It reports whether the playlist existed.
func (m *Manager) DeletePlaylist(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := dbutil.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM playback_progress WHERE playlist_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}
