package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/folderplay/internal/tracklist"
)

const (
	outputSampleRate = beep.SampleRate(44100)
	resampleQuality  = 4
	eventBufferSize  = 32
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
)

// ErrNoTracks is returned when loading an empty track list.
var ErrNoTracks = errors.New("no tracks to load")

// Player plays an ordered track list through the system speaker. It moves to
// the next track by itself when one finishes and reports Ended after the last.
type Player struct {
	mu       sync.Mutex
	tracks   []tracklist.Track
	index    int
	playing  bool
	released bool

	ctrl     *beep.Ctrl
	streamer beep.StreamSeekCloser
	format   beep.Format

	// gen invalidates end-of-track callbacks of replaced streams.
	gen    uint64
	events chan Event
}

// New creates an idle player.
func New() *Player {
	return &Player{events: make(chan Event, eventBufferSize)}
}

// Load replaces the track list and opens tracks[index] at offset, paused.
func (p *Player) Load(tracks []tracklist.Track, index int, offset time.Duration) error {
	if len(tracks) == 0 {
		return ErrNoTracks
	}
	if index < 0 || index >= len(tracks) {
		return fmt.Errorf("track index %d out of range [0,%d)", index, len(tracks))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}
	p.tracks = tracks
	p.playing = false
	return p.openLocked(index, offset)
}

func (p *Player) Play() error {
	return p.setPaused(false)
}

func (p *Player) Pause() error {
	return p.setPaused(true)
}

func (p *Player) setPaused(paused bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}
	if p.ctrl == nil {
		return nil
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
	p.playing = !paused
	return nil
}

// SeekTo opens tracks[index] at offset, keeping the play/pause state.
func (p *Player) SeekTo(index int, offset time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}
	if index < 0 || index >= len(p.tracks) {
		return fmt.Errorf("track index %d out of range [0,%d)", index, len(p.tracks))
	}
	return p.openLocked(index, offset)
}

// Seek moves within the current track.
func (p *Player) Seek(offset time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}
	if p.streamer == nil {
		return nil
	}
	speaker.Lock()
	err := p.streamer.Seek(p.clampSamples(offset))
	speaker.Unlock()
	return err
}

// Next opens the following track. It is a no-op on the last track.
func (p *Player) Next() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}
	if p.index >= len(p.tracks)-1 {
		return nil
	}
	return p.openLocked(p.index+1, 0)
}

// Previous opens the preceding track. It is a no-op on the first track.
func (p *Player) Previous() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return ErrReleased
	}
	if p.index <= 0 {
		return nil
	}
	return p.openLocked(p.index-1, 0)
}

func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.format.SampleRate.D(p.streamer.Position())
	speaker.Unlock()
	return pos
}

func (p *Player) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	n := p.streamer.Len()
	if n <= 0 {
		return 0
	}
	return p.format.SampleRate.D(n)
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) Events() <-chan Event { return p.events }

// Release stops output and closes the current stream. Later commands fail
// with ErrReleased.
func (p *Player) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil
	}
	p.released = true
	p.playing = false
	p.closeLocked()
	return nil
}

// openLocked replaces the current stream with tracks[index] at offset.
func (p *Player) openLocked(index int, offset time.Duration) error {
	p.closeLocked()
	p.index = index
	p.emit(Event{Kind: EventBuffering, Index: index})

	streamer, format, err := decodeFile(p.tracks[index].Path)
	if err != nil {
		return p.fail(index, err)
	}
	if err := initSpeaker(); err != nil {
		streamer.Close()
		return p.fail(index, err)
	}

	p.streamer = streamer
	p.format = format
	if offset > 0 {
		if err := streamer.Seek(p.clampSamples(offset)); err != nil {
			p.closeLocked()
			return p.fail(index, fmt.Errorf("seek to %s: %w", offset, err))
		}
	}

	var out beep.Streamer = streamer
	if format.SampleRate != outputSampleRate {
		out = beep.Resample(resampleQuality, format.SampleRate, outputSampleRate, streamer)
	}
	p.ctrl = &beep.Ctrl{Streamer: out, Paused: !p.playing}

	p.gen++
	gen := p.gen
	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker lock held.
		go p.trackFinished(gen)
	})))

	p.emit(Event{Kind: EventReady, Index: index})
	return nil
}

func (p *Player) trackFinished(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.released {
		return
	}
	if p.index < len(p.tracks)-1 {
		// Failures reach the controller as EventError.
		_ = p.openLocked(p.index+1, 0)
		return
	}
	p.closeLocked()
	p.playing = false
	p.emit(Event{Kind: EventEnded, Index: p.index})
}

func (p *Player) closeLocked() {
	if p.streamer == nil {
		return
	}
	p.gen++
	speaker.Clear()
	p.streamer.Close()
	p.streamer = nil
	p.ctrl = nil
}

// clampSamples converts offset to a sample position inside the stream.
func (p *Player) clampSamples(offset time.Duration) int {
	n := p.format.SampleRate.N(offset)
	if n < 0 {
		return 0
	}
	if length := p.streamer.Len(); length > 0 && n >= length {
		return length - 1
	}
	return n
}

// fail reports err for track index as an Error event and returns it.
func (p *Player) fail(index int, err error) error {
	p.emit(Event{Kind: EventError, Index: index, Err: err})
	return err
}

// emit never blocks; events are dropped if nobody drains the channel.
func (p *Player) emit(e Event) {
	select {
	case p.events <- e:
	default:
	}
}

func initSpeaker() error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(outputSampleRate, outputSampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speakerInitialized = true
	return nil
}
