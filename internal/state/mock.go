// internal/state/mock.go
package state

import (
	"context"
	"sort"
	"sync"
)

// Mock is an in-memory test double for Manager. It is safe for concurrent use.
type Mock struct {
	mu        sync.Mutex
	progress  map[string]ProgressRow
	playlists map[string]PlaylistRow
	saves     []ProgressRow
	errs      map[string]error
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{
		progress:  make(map[string]ProgressRow),
		playlists: make(map[string]PlaylistRow),
		errs:      make(map[string]error),
	}
}

func (m *Mock) GetProgress(_ context.Context, playlistID string) (*ProgressRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs["get"]; err != nil {
		return nil, err
	}
	row, ok := m.progress[playlistID]
	if !ok {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	return &row, nil
}

func (m *Mock) SaveProgress(_ context.Context, row ProgressRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs["save"]; err != nil {
		return err
	}
	m.progress[row.PlaylistID] = row
	m.saves = append(m.saves, row)
	return nil
}

func (m *Mock) DeleteProgress(_ context.Context, playlistID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs["delete"]; err != nil {
		return err
	}
	delete(m.progress, playlistID)
	return nil
}

func (m *Mock) InsertPlaylist(_ context.Context, p PlaylistRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlists[p.ID] = p
	return nil
}

func (m *Mock) ListPlaylists(_ context.Context) ([]PlaylistRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]PlaylistRow, 0, len(m.playlists))
	for _, p := range m.playlists {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ImportedAt > list[j].ImportedAt })
	return list, nil
}

func (m *Mock) GetPlaylist(_ context.Context, id string) (*PlaylistRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.playlists[id]
	if !ok {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	return &p, nil
}

func (m *Mock) PlaylistByFolder(_ context.Context, folder string) (*PlaylistRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.playlists {
		if p.Folder == folder {
			return &p, nil
		}
	}
	return nil, nil //nolint:nilnil // absence is not an error
}

func (m *Mock) DeletePlaylist(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.playlists[id]
	delete(m.playlists, id)
	delete(m.progress, id)
	return ok, nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Test helpers

// SetProgress stores row without recording a save.
func (m *Mock) SetProgress(row ProgressRow) {
	m.mu.Lock()
	m.progress[row.PlaylistID] = row
	m.mu.Unlock()
}

// Progress returns the stored row for playlistID.
func (m *Mock) Progress(playlistID string) (ProgressRow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.progress[playlistID]
	return row, ok
}

// Saves returns every successful SaveProgress call in order.
func (m *Mock) Saves() []ProgressRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ProgressRow, len(m.saves))
	copy(out, m.saves)
	return out
}

// FailOn makes later "get", "save" or "delete" calls return err.
// A nil err clears the failure.
func (m *Mock) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, op)
		return
	}
	m.errs[op] = err
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
