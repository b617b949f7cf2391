// internal/player/mock.go
package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/llehouerou/folderplay/internal/tracklist"
)

// Mock is a test double for an engine. It is safe for concurrent use.
type Mock struct {
	mu       sync.Mutex
	tracks   []tracklist.Track
	index    int
	position time.Duration
	posFunc  func(index int) time.Duration
	duration time.Duration
	playing  bool
	released bool
	calls    []string
	errs     map[string]error
	events   chan Event
}

// NewMock creates a new mock engine for testing.
func NewMock() *Mock {
	return &Mock{
		errs:   make(map[string]error),
		events: make(chan Event, 64),
	}
}

func (m *Mock) record(op string, format string, args ...any) error {
	call := op
	if format != "" {
		call += "(" + fmt.Sprintf(format, args...) + ")"
	}
	m.calls = append(m.calls, call)
	if m.released {
		return ErrReleased
	}
	return m.errs[op]
}

func (m *Mock) Load(tracks []tracklist.Track, index int, offset time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("load", "%d,%s", index, offset); err != nil {
		return err
	}
	m.tracks = tracks
	m.index = index
	m.position = offset
	m.playing = false
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("play", ""); err != nil {
		return err
	}
	m.playing = true
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("pause", ""); err != nil {
		return err
	}
	m.playing = false
	return nil
}

func (m *Mock) SeekTo(index int, offset time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("seekTo", "%d,%s", index, offset); err != nil {
		return err
	}
	m.index = index
	m.position = offset
	return nil
}

func (m *Mock) Seek(offset time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("seek", "%s", offset); err != nil {
		return err
	}
	m.position = offset
	return nil
}

func (m *Mock) Next() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("next", ""); err != nil {
		return err
	}
	if m.index < len(m.tracks)-1 {
		m.index++
		m.position = 0
	}
	return nil
}

func (m *Mock) Previous() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("previous", ""); err != nil {
		return err
	}
	if m.index > 0 {
		m.index--
		m.position = 0
	}
	return nil
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.posFunc != nil {
		return m.posFunc(m.index)
	}
	return m.position
}

func (m *Mock) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "release")
	m.released = true
	m.playing = false
	return nil
}

// Test helpers

// SetPosition sets the position reported by Position.
func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	m.position = d
	m.mu.Unlock()
}

// SetPositionFunc makes Position report f(current index). A nil f restores
// the stored position.
func (m *Mock) SetPositionFunc(f func(index int) time.Duration) {
	m.mu.Lock()
	m.posFunc = f
	m.mu.Unlock()
}

// SetDuration sets the duration reported by Duration.
func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	m.duration = d
	m.mu.Unlock()
}

// SetIndex moves the engine to index as if it advanced on its own.
func (m *Mock) SetIndex(i int) {
	m.mu.Lock()
	m.index = i
	m.position = 0
	m.mu.Unlock()
}

// FailOn makes every later call of op ("load", "play", "seekTo", ...) return err.
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

// Emit delivers an event to the engine's event channel.
func (m *Mock) Emit(e Event) {
	m.events <- e
}

// Calls returns a copy of the recorded calls.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Released reports whether Release was called.
func (m *Mock) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
