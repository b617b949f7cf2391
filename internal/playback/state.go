// internal/playback/state.go
package playback

import (
	"time"

	"github.com/llehouerou/folderplay/internal/tracklist"
)

// Phase is the lifecycle phase of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseActive
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseLoading:
		return "Loading"
	case PhaseActive:
		return "Active"
	default:
		return "Unknown"
	}
}

// Notice is an informational condition reported alongside a snapshot.
// Notices are not errors.
type Notice int

const (
	NoticeNone Notice = iota
	// NoticeNothingToPlay: the folder holds no playable track.
	NoticeNothingToPlay
	// NoticeResumeTrackMissing: the checkpointed track is gone and playback
	// resumed at the next existing track.
	NoticeResumeTrackMissing
)

// String returns the notice name.
func (n Notice) String() string {
	switch n {
	case NoticeNone:
		return "None"
	case NoticeNothingToPlay:
		return "NothingToPlay"
	case NoticeResumeTrackMissing:
		return "ResumeTrackMissing"
	default:
		return "Unknown"
	}
}

// Snapshot is an immutable view of the session. Tracks is shared between
// snapshots and must not be modified.
type Snapshot struct {
	Phase            Phase
	PlaylistID       string
	Tracks           []tracklist.Track
	Index            int
	Offset           time.Duration
	Duration         time.Duration // 0 when the engine does not know it
	Playing          bool
	LastCheckpointAt time.Time
	Notice           Notice
	Err              error // set when the engine failed; the session is over
	Seq              uint64
}

// IsActive returns true if a playlist is loaded (playing or paused).
func (s Snapshot) IsActive() bool {
	return s.Phase == PhaseActive
}

// DurationKnown reports whether Duration holds an engine-reported value.
func (s Snapshot) DurationKnown() bool {
	return s.Duration > 0
}

// Track returns the current track.
func (s Snapshot) Track() (tracklist.Track, bool) {
	if s.Index < 0 || s.Index >= len(s.Tracks) {
		return tracklist.Track{}, false
	}
	return s.Tracks[s.Index], true
}
