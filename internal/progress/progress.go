// Package progress translates playback checkpoints to and from stored rows.
package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/folderplay/internal/state"
)

// Checkpoint is the last known listening position of a playlist.
type Checkpoint struct {
	PlaylistID string
	Index      int
	Offset     time.Duration
	TrackPath  string
	SavedAt    time.Time
}

// Adapter reads and writes checkpoints through a state.ProgressStore.
type Adapter struct {
	store state.ProgressStore
}

func NewAdapter(store state.ProgressStore) *Adapter {
	return &Adapter{store: store}
}

// Load returns the checkpoint of playlistID. The boolean is false when no
// checkpoint exists. Negative indexes and offsets read back as zero.
func (a *Adapter) Load(ctx context.Context, playlistID string) (Checkpoint, bool, error) {
	row, err := a.store.GetProgress(ctx, playlistID)
	if err != nil {
		return Checkpoint{}, false, fmt.Errorf("load progress %s: %w", playlistID, err)
	}
	if row == nil {
		return Checkpoint{}, false, nil
	}
	return fromRow(*row), true, nil
}

// Save overwrites the checkpoint of cp.PlaylistID.
func (a *Adapter) Save(ctx context.Context, cp Checkpoint) error {
	if err := a.store.SaveProgress(ctx, toRow(cp)); err != nil {
		return fmt.Errorf("save progress %s: %w", cp.PlaylistID, err)
	}
	return nil
}

// Delete removes the checkpoint of playlistID.
func (a *Adapter) Delete(ctx context.Context, playlistID string) error {
	if err := a.store.DeleteProgress(ctx, playlistID); err != nil {
		return fmt.Errorf("delete progress %s: %w", playlistID, err)
	}
	return nil
}

func fromRow(row state.ProgressRow) Checkpoint {
	cp := Checkpoint{
		PlaylistID: row.PlaylistID,
		Index:      max(row.TrackIndex, 0),
		Offset:     time.Duration(max(row.PositionMS, 0)) * time.Millisecond,
		TrackPath:  row.TrackPath,
	}
	if row.SavedAtMS > 0 {
		cp.SavedAt = time.UnixMilli(row.SavedAtMS)
	}
	return cp
}

func toRow(cp Checkpoint) state.ProgressRow {
	row := state.ProgressRow{
		PlaylistID: cp.PlaylistID,
		TrackIndex: max(cp.Index, 0),
		PositionMS: max(cp.Offset.Milliseconds(), 0),
		TrackPath:  cp.TrackPath,
	}
	if !cp.SavedAt.IsZero() {
		row.SavedAtMS = cp.SavedAt.UnixMilli()
	}
	return row
}
