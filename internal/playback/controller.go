// Package playback implements the session controller: it drives an engine
// through a folder playlist, checkpoints the listening position and
// broadcasts session snapshots to observers.
package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/folderplay/internal/broadcast"
	"github.com/llehouerou/folderplay/internal/player"
	"github.com/llehouerou/folderplay/internal/progress"
	"github.com/llehouerou/folderplay/internal/tracklist"
)

const DefaultCheckpointInterval = 5 * time.Second

var (
	ErrNoEngine      = errors.New("no engine bound")
	ErrNothingToPlay = errors.New("nothing to play")
	ErrSessionBusy   = errors.New("another playlist is active")
	ErrClosed        = errors.New("controller closed")
	ErrEngineFailed  = errors.New("engine failed")
)

// TrackSource lists the ordered tracks of a folder.
type TrackSource interface {
	ListTracks(ctx context.Context, folder string) ([]tracklist.Track, error)
	Exists(ctx context.Context, t tracklist.Track) bool
}

// Checkpointer reads and writes checkpoints.
type Checkpointer interface {
	Load(ctx context.Context, playlistID string) (progress.Checkpoint, bool, error)
	Save(ctx context.Context, cp progress.Checkpoint) error
}

// Deps are the collaborators of a Controller. Store and Source are required.
// Compare must be the file name order Source lists tracks in; it defaults to
// tracklist.Compare.
type Deps struct {
	Store   Checkpointer
	Source  TrackSource
	Compare func(a, b string) int
	Logger  *zap.Logger
}

// PlaylistRef names the playlist to load.
type PlaylistRef struct {
	ID     string
	Folder string
}

type Option func(*Controller)

// WithCheckpointInterval sets the period of position checkpoints.
func WithCheckpointInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithClock sets the clock used to timestamp checkpoints.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller owns one playback session at a time.
//
// All session state is owned by a single loop goroutine. Public methods send
// closures to the loop and wait for them to run, so commands from any
// goroutine apply one at a time in arrival order.
type Controller struct {
	source   TrackSource
	compare  func(a, b string) int
	store    Checkpointer
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time

	cmds      chan func()
	quit      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once

	hub    *broadcast.Hub[Snapshot]
	writer *checkpointWriter

	// Loop-owned below.

	engine     player.Interface
	bindGen    uint64
	pumpCancel context.CancelFunc
	pumpWG     sync.WaitGroup

	gen        uint64 // session generation; bumps on every load and teardown
	tickCancel context.CancelFunc
	tickWG     sync.WaitGroup

	phase            Phase
	playlistID       string
	tracks           []tracklist.Track
	index            int
	offset           time.Duration
	duration         time.Duration
	playing          bool
	lastCheckpointAt time.Time
	notice           Notice
	err              error
	seq              uint64
}

// New creates a controller and starts its loop. Call Close to stop it.
func New(deps Deps, opts ...Option) *Controller {
	c := &Controller{
		source:   deps.Source,
		compare:  deps.Compare,
		store:    deps.Store,
		log:      deps.Logger,
		interval: DefaultCheckpointInterval,
		now:      time.Now,
		cmds:     make(chan func()),
		quit:     make(chan struct{}),
		loopDone: make(chan struct{}),
		hub:      broadcast.New[Snapshot](),
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.compare == nil {
		c.compare = tracklist.Compare
	}
	for _, opt := range opts {
		opt(c)
	}
	c.writer = newCheckpointWriter(c.store, c.log)

	c.publish()
	go c.writer.run()
	go c.run()
	return c
}

func (c *Controller) run() {
	defer close(c.loopDone)
	for {
		select {
		case fn := <-c.cmds:
			fn()
		case <-c.writer.saved:
			c.checkpointSaved()
		case <-c.quit:
			return
		}
	}
}

// do runs fn on the loop and waits for it. It returns false once the
// controller is closed.
func (c *Controller) do(fn func()) bool {
	done := make(chan struct{})
	select {
	case c.cmds <- func() { fn(); close(done) }:
	case <-c.quit:
		return false
	}
	<-done
	return true
}

// post hands fn to the loop without waiting for it to run. Background
// goroutines use it so that cancelling ctx always unblocks them.
func (c *Controller) post(ctx context.Context, fn func()) {
	select {
	case c.cmds <- fn:
	case <-ctx.Done():
	case <-c.quit:
	}
}

// Bind makes engine the controller's engine. An active session on the
// previous engine is torn down and the previous engine released.
func (c *Controller) Bind(engine player.Interface) error {
	if !c.do(func() { c.bind(engine) }) {
		return ErrClosed
	}
	return nil
}

// LoadPlaylist starts playing ref from its last checkpoint.
//
// Loading the playlist that is already loaded is a no-op. Loading another
// playlist while one is active fails with ErrSessionBusy.
func (c *Controller) LoadPlaylist(ctx context.Context, ref PlaylistRef) error {
	var err error
	if !c.do(func() { err = c.load(ctx, ref) }) {
		return ErrClosed
	}
	return err
}

func (c *Controller) Pause() {
	c.do(func() { c.setPlaying(false) })
}

func (c *Controller) Resume() {
	c.do(func() { c.setPlaying(true) })
}

// SkipToNext moves to the next track, wrapping to the first one.
func (c *Controller) SkipToNext() {
	c.do(func() { c.skip(1) })
}

// SkipToPrevious moves to the previous track, wrapping to the last one.
func (c *Controller) SkipToPrevious() {
	c.do(func() { c.skip(-1) })
}

// SkipToIndex moves to track i. Out of range indexes are ignored.
func (c *Controller) SkipToIndex(i int) {
	c.do(func() { c.skipTo(i) })
}

// SeekWithinTrack moves within the current track.
func (c *Controller) SeekWithinTrack(offset time.Duration) {
	c.do(func() { c.seek(offset) })
}

// SeekBy moves delta away from the current position within the track.
func (c *Controller) SeekBy(delta time.Duration) {
	c.do(func() { c.seekBy(delta) })
}

// Snapshot returns the latest published snapshot.
func (c *Controller) Snapshot() Snapshot {
	s, _ := c.hub.Current()
	return s
}

// Subscribe returns a subscription that first receives the current snapshot
// and then every later one.
func (c *Controller) Subscribe() *broadcast.Subscription[Snapshot] {
	return c.hub.Subscribe()
}

// Teardown ends the session: it stops checkpointing, writes a final
// checkpoint, releases the engine and returns to Idle. It is safe to call
// when idle.
func (c *Controller) Teardown() {
	c.do(func() { c.endSession(nil) })
}

// Close tears down the session, stops the loop and closes all subscriptions.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.do(func() { c.endSession(nil) })
		close(c.quit)
		<-c.loopDone
		c.writer.close()
		c.hub.Close()
	})
}

// publish broadcasts the current state. Loop only.
func (c *Controller) publish() {
	c.seq++
	c.hub.Publish(Snapshot{
		Phase:            c.phase,
		PlaylistID:       c.playlistID,
		Tracks:           c.tracks,
		Index:            c.index,
		Offset:           c.offset,
		Duration:         c.duration,
		Playing:          c.playing,
		LastCheckpointAt: c.lastCheckpointAt,
		Notice:           c.notice,
		Err:              c.err,
		Seq:              c.seq,
	})
}
