// internal/state/interface.go
package state

import (
	"context"
)

// ProgressStore persists at most one progress row per playlist.
// GetProgress returns nil when no row exists.
type ProgressStore interface {
	GetProgress(ctx context.Context, playlistID string) (*ProgressRow, error)
	SaveProgress(ctx context.Context, row ProgressRow) error
	DeleteProgress(ctx context.Context, playlistID string) error
}

// PlaylistStore persists registered playlists.
type PlaylistStore interface {
	InsertPlaylist(ctx context.Context, p PlaylistRow) error
	ListPlaylists(ctx context.Context) ([]PlaylistRow, error)
	GetPlaylist(ctx context.Context, id string) (*PlaylistRow, error)
	PlaylistByFolder(ctx context.Context, folder string) (*PlaylistRow, error)
	DeletePlaylist(ctx context.Context, id string) (bool, error)
}

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	ProgressStore
	PlaylistStore
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
