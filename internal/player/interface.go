// internal/player/interface.go
package player

import (
	"errors"
	"time"

	"github.com/llehouerou/folderplay/internal/tracklist"
)

// EventKind is the coarse engine state reported on the event channel.
type EventKind int

const (
	EventIdle EventKind = iota
	EventBuffering
	EventReady
	EventEnded
	EventError
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventIdle:
		return "Idle"
	case EventBuffering:
		return "Buffering"
	case EventReady:
		return "Ready"
	case EventEnded:
		return "Ended"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ErrReleased is returned by engine commands issued after Release.
var ErrReleased = errors.New("player released")

// Event is emitted by an engine when its state changes.
//
// Ready carries the index of the track that is now loaded, which differs from
// the previous one when the engine advanced on its own at the end of a track.
// Ended means the last track of the list finished. Error is unrecoverable.
type Event struct {
	Kind  EventKind
	Index int
	Err   error
}

// Interface is the playback engine contract.
type Interface interface {
	Load(tracks []tracklist.Track, index int, offset time.Duration) error
	Play() error
	Pause() error
	SeekTo(index int, offset time.Duration) error
	Seek(offset time.Duration) error
	Next() error
	Previous() error

	Position() time.Duration
	Index() int
	// Duration returns the length of the current track, or 0 when unknown.
	Duration() time.Duration
	IsPlaying() bool

	Events() <-chan Event
	Release() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
