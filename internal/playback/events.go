package playback

import (
	"context"

	"go.uber.org/zap"

	"github.com/llehouerou/folderplay/internal/player"
)

// startPump forwards engine events to the loop until stopPump.
func (c *Controller) startPump(engine player.Interface) {
	ctx, cancel := context.WithCancel(context.Background())
	c.pumpCancel = cancel
	gen := c.bindGen
	events := engine.Events()

	c.pumpWG.Go(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				c.post(ctx, func() { c.handleEvent(gen, ev) })
			}
		}
	})
}

func (c *Controller) stopPump() {
	if c.pumpCancel == nil {
		return
	}
	c.pumpCancel()
	c.pumpWG.Wait()
	c.pumpCancel = nil
}

// handleEvent maps engine events onto the session. Loop only.
func (c *Controller) handleEvent(bindGen uint64, ev player.Event) {
	if bindGen != c.bindGen || c.phase != PhaseActive {
		return
	}

	switch ev.Kind {
	case player.EventBuffering:
		// Transient; Ready or Error follows.
	case player.EventReady:
		// Ready also follows our own SeekTo calls and can arrive after a
		// later one; only an index the engine still holds is an advance.
		current := c.engine.Index()
		if ev.Index != current {
			return
		}
		c.duration = c.engine.Duration()
		if ev.Index != c.index && ev.Index >= 0 && ev.Index < len(c.tracks) {
			c.index = ev.Index
			c.offset = 0
			c.checkpoint()
		}
		c.publish()
	case player.EventEnded:
		c.wrapAround()
	case player.EventIdle:
		if c.playing {
			c.playing = false
			c.publish()
		}
	case player.EventError:
		err := ev.Err
		if err == nil {
			err = ErrEngineFailed
		}
		c.log.Error("engine failed, ending session",
			zap.String("playlist_id", c.playlistID),
			zap.Int("index", ev.Index),
			zap.Error(err))
		c.endSession(err)
	}
}

// wrapAround parks the session paused on the first track after the last
// one finished.
func (c *Controller) wrapAround() {
	if err := c.engine.SeekTo(0, 0); err != nil {
		c.log.Warn("engine rewind failed", zap.Error(err))
	}
	if err := c.engine.Pause(); err != nil {
		c.log.Warn("engine pause failed", zap.Error(err))
	}
	c.index = 0
	c.offset = 0
	c.duration = c.engine.Duration()
	c.playing = false
	c.checkpoint()
	c.publish()
}
