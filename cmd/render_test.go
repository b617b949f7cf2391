package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/folderplay/internal/playback"
	"github.com/llehouerou/folderplay/internal/tracklist"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    command
		wantErr bool
	}{
		{"", command{kind: cmdToggle}, false},
		{" ", command{kind: cmdToggle}, false},
		{"space", command{kind: cmdToggle}, false},
		{"n", command{kind: cmdNext}, false},
		{"p", command{kind: cmdPrevious}, false},
		{"f", command{kind: cmdForward}, false},
		{"b", command{kind: cmdBack}, false},
		{"q", command{kind: cmdQuit}, false},
		{"j 3", command{kind: cmdJump, index: 2}, false},
		{"  j   1 ", command{kind: cmdJump, index: 0}, false},
		{"j", command{}, true},
		{"j 0", command{}, true},
		{"j x", command{}, true},
		{"x", command{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{59*time.Second + 900*time.Millisecond, "0:59"},
		{83 * time.Second, "1:23"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatClock(tt.d), "formatClock(%v)", tt.d)
	}
}

func TestFormatSnapshot(t *testing.T) {
	tracks := []tracklist.Track{{Name: "Prologue"}, {Name: "Chapter 1"}}

	tests := []struct {
		name string
		s    playback.Snapshot
		want string
	}{
		{
			name: "idle",
			s:    playback.Snapshot{},
			want: "Idle",
		},
		{
			name: "loading",
			s:    playback.Snapshot{Phase: playback.PhaseLoading},
			want: "Loading...",
		},
		{
			name: "nothing to play",
			s:    playback.Snapshot{Notice: playback.NoticeNothingToPlay},
			want: "Nothing to play",
		},
		{
			name: "engine failure",
			s:    playback.Snapshot{Err: errors.New("decoder crashed")},
			want: "Stopped: decoder crashed",
		},
		{
			name: "playing with known duration",
			s: playback.Snapshot{
				Phase: playback.PhaseActive, Tracks: tracks, Index: 1, Playing: true,
				Offset: 75 * time.Second, Duration: 10 * time.Minute,
			},
			want: "Playing 2/2 Chapter 1  1:15 / 10:00",
		},
		{
			name: "paused with unknown duration and notice",
			s: playback.Snapshot{
				Phase: playback.PhaseActive, Tracks: tracks,
				Notice: playback.NoticeResumeTrackMissing,
			},
			want: "Paused  1/2 Prologue  0:00 / --:--  (saved track missing, skipped ahead)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSnapshot(tt.s))
		})
	}
}
