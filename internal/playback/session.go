package playback

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/folderplay/internal/player"
	"github.com/llehouerou/folderplay/internal/progress"
	"github.com/llehouerou/folderplay/internal/tracklist"
)

// Everything in this file runs on the loop goroutine.

func (c *Controller) bind(engine player.Interface) {
	if engine == c.engine {
		return
	}
	c.endSession(nil)
	if engine == nil {
		return
	}
	c.engine = engine
	c.bindGen++
	c.startPump(engine)
}

func (c *Controller) load(ctx context.Context, ref PlaylistRef) error {
	if c.engine == nil {
		return ErrNoEngine
	}
	if c.phase != PhaseIdle {
		if c.playlistID == ref.ID {
			return nil
		}
		return ErrSessionBusy
	}

	c.resetSession()
	c.phase = PhaseLoading
	c.playlistID = ref.ID
	c.publish()

	log := c.log.With(zap.String("playlist_id", ref.ID))

	tracks, err := c.source.ListTracks(ctx, ref.Folder)
	if err != nil {
		c.abortLoad(NoticeNone, nil)
		return fmt.Errorf("list tracks: %w", err)
	}
	if len(tracks) == 0 {
		log.Info("folder has no audio files", zap.String("folder", ref.Folder))
		c.abortLoad(NoticeNothingToPlay, nil)
		return ErrNothingToPlay
	}

	cp, found, err := c.store.Load(ctx, ref.ID)
	if err != nil {
		log.Warn("read checkpoint failed, starting from the beginning", zap.Error(err))
		found = false
	}

	index, offset, missing, ok := c.resolveResume(ctx, tracks, cp, found)
	if !ok {
		log.Info("no track of the playlist exists anymore")
		c.abortLoad(NoticeNothingToPlay, nil)
		return ErrNothingToPlay
	}
	if missing {
		log.Info("resume track missing, skipping ahead",
			zap.Int("checkpoint_index", cp.Index),
			zap.Int("index", index))
		c.notice = NoticeResumeTrackMissing
	}

	if err := c.engine.Load(tracks, index, offset); err != nil {
		c.abortLoad(NoticeNone, err)
		return fmt.Errorf("load engine: %w", err)
	}
	if err := c.engine.Play(); err != nil {
		c.abortLoad(NoticeNone, err)
		return fmt.Errorf("start engine: %w", err)
	}

	c.gen++
	c.phase = PhaseActive
	c.tracks = tracks
	c.index = index
	c.offset = offset
	c.duration = c.engine.Duration()
	c.playing = true
	c.checkpoint()
	c.startTicker()
	c.publish()

	log.Debug("session started", zap.Int("index", index), zap.Duration("offset", offset))
	return nil
}

// resolveResume picks the track to start from. missing reports that the
// checkpointed track was skipped; ok is false when no track exists.
func (c *Controller) resolveResume(
	ctx context.Context,
	tracks []tracklist.Track,
	cp progress.Checkpoint,
	found bool,
) (index int, offset time.Duration, missing, ok bool) {
	if found {
		index, offset = cp.Index, cp.Offset
		if cp.TrackPath != "" {
			if i := tracklist.IndexOfPath(tracks, cp.TrackPath); i >= 0 {
				index = i
			} else {
				// The file left the listing: resume at the track that now
				// follows it in natural order.
				index = followingIndex(tracks, cp.TrackPath, c.compare)
				offset = 0
				missing = true
			}
		}
	}
	if index < 0 || index >= len(tracks) {
		index = min(max(index, 0), len(tracks)-1)
		offset = 0
	}

	for n := range len(tracks) {
		i := (index + n) % len(tracks)
		if !c.source.Exists(ctx, tracks[i]) {
			continue
		}
		if n > 0 {
			offset = 0
			missing = true
		}
		return i, offset, missing, true
	}
	return 0, 0, true, false
}

// followingIndex returns the index of the first track sorting after path
// under compare, wrapping to 0. tracks must be sorted by compare.
func followingIndex(tracks []tracklist.Track, path string, compare func(a, b string) int) int {
	name := filepath.Base(path)
	i := sort.Search(len(tracks), func(i int) bool {
		return compare(tracks[i].FileName, name) > 0
	})
	if i == len(tracks) {
		return 0
	}
	return i
}

func (c *Controller) abortLoad(notice Notice, err error) {
	c.resetSession()
	c.notice = notice
	c.err = err
	c.publish()
}

func (c *Controller) setPlaying(playing bool) {
	if c.phase != PhaseActive {
		c.log.Debug("ignoring play state change without a session")
		return
	}
	var err error
	if playing {
		err = c.engine.Play()
	} else {
		err = c.engine.Pause()
	}
	if err != nil {
		c.log.Warn("engine play state change failed", zap.Bool("playing", playing), zap.Error(err))
		return
	}
	if c.engine.Index() == c.index {
		c.offset = c.clampOffset(c.engine.Position())
	}
	c.playing = playing
	c.publish()
}

func (c *Controller) skip(delta int) {
	if c.phase != PhaseActive || len(c.tracks) == 0 {
		c.log.Debug("ignoring skip without a session")
		return
	}
	n := len(c.tracks)
	c.navigate(((c.index+delta)%n + n) % n)
}

func (c *Controller) skipTo(i int) {
	if c.phase != PhaseActive || i < 0 || i >= len(c.tracks) {
		c.log.Debug("ignoring skip to index", zap.Int("index", i), zap.Int("tracks", len(c.tracks)))
		return
	}
	c.navigate(i)
}

// navigate moves to track i at offset 0 and checkpoints right away.
func (c *Controller) navigate(i int) {
	if err := c.engine.SeekTo(i, 0); err != nil {
		c.log.Warn("engine seek failed", zap.Int("index", i), zap.Error(err))
		return
	}
	c.index = i
	c.offset = 0
	c.duration = c.engine.Duration()
	c.checkpoint()
	c.publish()
}

func (c *Controller) seek(offset time.Duration) {
	if c.phase != PhaseActive {
		c.log.Debug("ignoring seek without a session")
		return
	}
	offset = c.clampOffset(offset)
	if err := c.engine.Seek(offset); err != nil {
		c.log.Warn("engine seek failed", zap.Duration("offset", offset), zap.Error(err))
		return
	}
	c.offset = offset
	c.publish()
}

func (c *Controller) seekBy(delta time.Duration) {
	if c.phase != PhaseActive {
		c.log.Debug("ignoring relative seek without a session")
		return
	}
	pos := c.offset
	if c.engine.Index() == c.index {
		pos = c.engine.Position()
	}
	c.seek(pos + delta)
}

func (c *Controller) clampOffset(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if c.duration > 0 && d > c.duration {
		return c.duration
	}
	return d
}

// endSession stops checkpointing, flushes a final checkpoint and releases
// the engine. A non-nil cause leaves a terminal snapshot carrying it.
func (c *Controller) endSession(cause error) {
	c.stopTicker()
	if c.phase == PhaseActive {
		if c.engine.Index() == c.index {
			c.offset = c.clampOffset(c.engine.Position())
		}
		c.checkpoint()
		c.writer.wait()
	}
	c.gen++

	hadEngine := c.engine != nil
	if hadEngine {
		c.stopPump()
		if err := c.engine.Release(); err != nil {
			c.log.Warn("release engine failed", zap.Error(err))
		}
		c.engine = nil
	}

	if cause != nil {
		c.phase = PhaseIdle
		c.playing = false
		c.err = cause
		c.publish()
		return
	}
	if c.phase == PhaseIdle && c.playlistID == "" && !hadEngine {
		return
	}
	c.resetSession()
	c.publish()
}

func (c *Controller) resetSession() {
	c.phase = PhaseIdle
	c.playlistID = ""
	c.tracks = nil
	c.index = 0
	c.offset = 0
	c.duration = 0
	c.playing = false
	c.lastCheckpointAt = time.Time{}
	c.notice = NoticeNone
	c.err = nil
}
