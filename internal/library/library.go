// Package library is the registry of folders imported as playlists.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/llehouerou/folderplay/internal/state"
)

var (
	ErrFolderNotFound  = errors.New("folder not found")
	ErrNoAudioFiles    = errors.New("folder has no audio files")
	ErrAlreadyImported = errors.New("folder already imported")
	ErrNotFound        = errors.New("playlist not found")
)

// Playlist is a folder registered for playback.
type Playlist struct {
	ID         string
	Folder     string
	Name       string
	ImportedAt time.Time
}

// AudioCounter counts the audio files of a folder.
type AudioCounter interface {
	CountAudioFiles(folder string) (int, error)
}

// ProgressDeleter removes the checkpoint of a playlist.
type ProgressDeleter interface {
	Delete(ctx context.Context, playlistID string) error
}

// Library provides playlist registration on top of a playlist store.
type Library struct {
	store    state.PlaylistStore
	progress ProgressDeleter
	counter  AudioCounter
	now      func() time.Time
}

// New creates a new Library. progress may be nil when checkpoints live in
// the playlist store itself.
func New(store state.PlaylistStore, progress ProgressDeleter, counter AudioCounter) *Library {
	return &Library{
		store:    store,
		progress: progress,
		counter:  counter,
		now:      time.Now,
	}
}

// PlaylistID returns the identity of the playlist bound to an absolute
// folder path. The same folder always yields the same identity.
func PlaylistID(folder string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+folder)).String()
}

// Import registers folder as a playlist.
func (l *Library) Import(ctx context.Context, folder string) (Playlist, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return Playlist{}, err
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return Playlist{}, fmt.Errorf("%w: %s", ErrFolderNotFound, abs)
	}

	n, err := l.counter.CountAudioFiles(abs)
	if err != nil {
		return Playlist{}, err
	}
	if n == 0 {
		return Playlist{}, fmt.Errorf("%w: %s", ErrNoAudioFiles, abs)
	}

	existing, err := l.store.PlaylistByFolder(ctx, abs)
	if err != nil {
		return Playlist{}, err
	}
	if existing != nil {
		return Playlist{}, fmt.Errorf("%w: %s", ErrAlreadyImported, abs)
	}

	p := Playlist{
		ID:         PlaylistID(abs),
		Folder:     abs,
		Name:       filepath.Base(abs),
		ImportedAt: l.now().Truncate(time.Millisecond),
	}
	if err := l.store.InsertPlaylist(ctx, toRow(p)); err != nil {
		return Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}
	return p, nil
}

// List returns all playlists, most recently imported first.
func (l *Library) List(ctx context.Context) ([]Playlist, error) {
	rows, err := l.store.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]Playlist, len(rows))
	for i, r := range rows {
		list[i] = fromRow(r)
	}
	return list, nil
}

// Get returns the playlist with id.
func (l *Library) Get(ctx context.Context, id string) (Playlist, error) {
	row, err := l.store.GetPlaylist(ctx, id)
	if err != nil {
		return Playlist{}, err
	}
	if row == nil {
		return Playlist{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return fromRow(*row), nil
}

// Remove deletes a playlist and its checkpoint.
func (l *Library) Remove(ctx context.Context, id string) error {
	deleted, err := l.store.DeletePlaylist(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if l.progress != nil {
		if err := l.progress.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// FolderExists reports whether the folder of p is still a directory.
func FolderExists(p Playlist) bool {
	info, err := os.Stat(p.Folder)
	return err == nil && info.IsDir()
}

func toRow(p Playlist) state.PlaylistRow {
	return state.PlaylistRow{
		ID:         p.ID,
		Folder:     p.Folder,
		Name:       p.Name,
		ImportedAt: p.ImportedAt.UnixMilli(),
	}
}

func fromRow(r state.PlaylistRow) Playlist {
	return Playlist{
		ID:         r.ID,
		Folder:     r.Folder,
		Name:       r.Name,
		ImportedAt: time.UnixMilli(r.ImportedAt),
	}
}
