package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/folderplay/internal/errmsg"
	"github.com/llehouerou/folderplay/internal/playback"
	"github.com/llehouerou/folderplay/internal/player"
)

const seekStep = 10 * time.Second

const playHelp = `Commands (press Enter after each):
  <space>/<empty>  pause or resume
  n / p            next / previous track
  j <number>       jump to track
  f / b            forward / back 10s
  q                quit`

var playCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Play a playlist from where it stopped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return withApp(ctx, func(a *app) error {
			return runPlay(ctx, a, args[0], player.New(), cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

func runPlay(
	ctx context.Context,
	a *app,
	id string,
	engine player.Interface,
	in io.Reader,
	out io.Writer,
) error {
	p, err := a.library.Get(ctx, id)
	if err != nil {
		return errmsg.Error(errmsg.OpPlaylistLoad, err)
	}

	ctrl := playback.New(playback.Deps{
		Store:   a.progress,
		Source:  a.source,
		Compare: a.source.Compare,
		Logger:  a.log.Logger,
	}, playback.WithCheckpointInterval(a.cfg.GetCheckpointInterval()))
	// Close writes the final checkpoint.
	defer ctrl.Close()

	if err := ctrl.Bind(engine); err != nil {
		return errmsg.Error(errmsg.OpPlaybackStart, err)
	}
	sub := ctrl.Subscribe()
	defer sub.Close()

	if err := ctrl.LoadPlaylist(ctx, playback.PlaylistRef{ID: p.ID, Folder: p.Folder}); err != nil {
		return errmsg.Error(errmsg.OpPlaybackStart, err)
	}
	fmt.Fprintf(out, "Playing %s\n%s\n", p.Name, playHelp)

	lines := readLines(ctx, in)
	var last string
	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-sub.C:
			if !ok {
				return nil
			}
			if line := formatSnapshot(s); line != last {
				fmt.Fprintln(out, line)
				last = line
			}
			if s.Err != nil {
				return errmsg.Error(errmsg.OpPlaybackRun, s.Err)
			}
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			c, err := parseCommand(line)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if c.kind == cmdQuit {
				return nil
			}
			apply(ctrl, c)
		}
	}
}

func apply(ctrl *playback.Controller, c command) {
	switch c.kind {
	case cmdToggle:
		if ctrl.Snapshot().Playing {
			ctrl.Pause()
		} else {
			ctrl.Resume()
		}
	case cmdNext:
		ctrl.SkipToNext()
	case cmdPrevious:
		ctrl.SkipToPrevious()
	case cmdJump:
		ctrl.SkipToIndex(c.index)
	case cmdForward:
		ctrl.SeekBy(seekStep)
	case cmdBack:
		ctrl.SeekBy(-seekStep)
	case cmdQuit:
	}
}

// readLines delivers the lines of in until EOF or ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func init() {
	rootCmd.AddCommand(playCmd)
}
