package playback

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/folderplay/internal/progress"
)

const writeTimeout = 10 * time.Second

// checkpoint captures the session position and queues it for writing.
// Loop only: index and offset always come from the same state.
func (c *Controller) checkpoint() {
	c.writer.submit(pendingCheckpoint{
		gen: c.gen,
		cp: progress.Checkpoint{
			PlaylistID: c.playlistID,
			Index:      c.index,
			Offset:     c.offset,
			TrackPath:  c.tracks[c.index].Path,
			SavedAt:    c.now(),
		},
	})
}

func (c *Controller) startTicker() {
	ctx, cancel := context.WithCancel(context.Background())
	c.tickCancel = cancel
	gen := c.gen
	interval := c.interval

	c.tickWG.Go(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.post(ctx, func() { c.tick(gen) })
			}
		}
	})
}

// stopTicker cancels the periodic task and waits for it to exit.
func (c *Controller) stopTicker() {
	if c.tickCancel == nil {
		return
	}
	c.tickCancel()
	c.tickWG.Wait()
	c.tickCancel = nil
}

func (c *Controller) tick(gen uint64) {
	if gen != c.gen || c.phase != PhaseActive {
		return
	}
	// The engine moved on by itself; its Ready event will catch us up.
	if c.engine.Index() != c.index {
		return
	}
	c.duration = c.engine.Duration()
	c.offset = c.clampOffset(c.engine.Position())
	c.checkpoint()
	c.publish()
}

func (c *Controller) checkpointSaved() {
	p, ok := c.writer.lastSaved()
	if !ok || p.gen != c.gen || c.phase != PhaseActive {
		return
	}
	c.lastCheckpointAt = p.cp.SavedAt
	c.publish()
}

type pendingCheckpoint struct {
	gen uint64
	cp  progress.Checkpoint
}

// checkpointWriter writes checkpoints off the loop. It holds a single
// pending slot: a newer checkpoint replaces one not yet written.
type checkpointWriter struct {
	store Checkpointer
	log   *zap.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending *pendingCheckpoint
	busy    bool
	closed  bool
	last    pendingCheckpoint
	hasLast bool

	saved chan struct{}
	done  chan struct{}
}

func newCheckpointWriter(store Checkpointer, log *zap.Logger) *checkpointWriter {
	w := &checkpointWriter{
		store: store,
		log:   log,
		saved: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

func (w *checkpointWriter) submit(p pendingCheckpoint) {
	w.mu.Lock()
	w.pending = &p
	w.cond.Broadcast()
	w.mu.Unlock()
}

// wait blocks until every submitted checkpoint has been written or failed.
func (w *checkpointWriter) wait() {
	w.mu.Lock()
	for w.pending != nil || w.busy {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

func (w *checkpointWriter) lastSaved() (pendingCheckpoint, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.hasLast
}

// close writes what is pending and stops the writer.
func (w *checkpointWriter) close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}

func (w *checkpointWriter) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for w.pending == nil && !w.closed {
			w.cond.Wait()
		}
		if w.pending == nil {
			w.mu.Unlock()
			return
		}
		p := *w.pending
		w.pending = nil
		w.busy = true
		w.mu.Unlock()

		err := w.write(p.cp)

		w.mu.Lock()
		w.busy = false
		if err == nil {
			w.last = p
			w.hasLast = true
		}
		w.cond.Broadcast()
		w.mu.Unlock()

		if err == nil {
			select {
			case w.saved <- struct{}{}:
			default:
			}
		}
	}
}

func (w *checkpointWriter) write(cp progress.Checkpoint) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := w.store.Save(ctx, cp); err != nil {
		w.log.Warn("checkpoint write failed, retrying on next tick",
			zap.String("playlist_id", cp.PlaylistID),
			zap.Int("index", cp.Index),
			zap.Duration("offset", cp.Offset),
			zap.Error(err))
		return err
	}
	return nil
}
