package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/folderplay/internal/playback"
)

type commandKind int

const (
	cmdToggle commandKind = iota
	cmdNext
	cmdPrevious
	cmdJump
	cmdForward
	cmdBack
	cmdQuit
)

type command struct {
	kind  commandKind
	index int // zero-based, cmdJump only
}

var errUnknownCommand = errors.New("unknown command, one of: <space> n p j f b q")

// parseCommand parses one line typed during playback. Track numbers are
// one-based.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{kind: cmdToggle}, nil
	}

	switch fields[0] {
	case "space":
		return command{kind: cmdToggle}, nil
	case "n":
		return command{kind: cmdNext}, nil
	case "p":
		return command{kind: cmdPrevious}, nil
	case "f":
		return command{kind: cmdForward}, nil
	case "b":
		return command{kind: cmdBack}, nil
	case "q":
		return command{kind: cmdQuit}, nil
	case "j":
		if len(fields) != 2 {
			return command{}, errors.New("usage: j <track number>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return command{}, fmt.Errorf("invalid track number %q", fields[1])
		}
		return command{kind: cmdJump, index: n - 1}, nil
	}
	return command{}, errUnknownCommand
}

func formatSnapshot(s playback.Snapshot) string {
	switch s.Phase {
	case playback.PhaseLoading:
		return "Loading..."
	case playback.PhaseIdle:
		if s.Err != nil {
			return "Stopped: " + s.Err.Error()
		}
		if s.Notice == playback.NoticeNothingToPlay {
			return "Nothing to play"
		}
		return "Idle"
	case playback.PhaseActive:
	}

	status := "Paused "
	if s.Playing {
		status = "Playing"
	}
	name := ""
	if t, ok := s.Track(); ok {
		name = t.Name
	}
	total := "--:--"
	if s.DurationKnown() {
		total = formatClock(s.Duration)
	}

	line := fmt.Sprintf("%s %d/%d %s  %s / %s",
		status, s.Index+1, len(s.Tracks), name, formatClock(s.Offset), total)
	if s.Notice == playback.NoticeResumeTrackMissing {
		line += "  (saved track missing, skipped ahead)"
	}
	return line
}

// formatClock renders d as m:ss, or h:mm:ss from one hour.
func formatClock(d time.Duration) string {
	d = max(d, 0).Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	sec := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
