package tracklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSort_NumericRunsByValue(t *testing.T) {
	got := Sort([]string{"track10.mp3", "track2.mp3", "track1.mp3"})

	assert.Equal(t, []string{"track1.mp3", "track2.mp3", "track10.mp3"}, got)
}

func TestSort_DoesNotModifyInput(t *testing.T) {
	in := []string{"b.mp3", "a.mp3"}
	_ = Sort(in)

	assert.Equal(t, []string{"b.mp3", "a.mp3"}, in)
}

func TestSort_Idempotent(t *testing.T) {
	in := []string{
		"Chapter 12.mp3", "chapter 3.mp3", "Chapter 1.mp3", "intro.mp3",
		"track007.mp3", "track7.mp3", "track70.mp3", "a", "a1", "a01",
	}

	first := Sort(in)
	second := Sort(in)
	resorted := Sort(first)

	assert.Equal(t, first, second)
	assert.Equal(t, first, resorted)
}

func TestSort_Empty(t *testing.T) {
	got := Sort(nil)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"shorter number first", "track2", "track10", -1},
		{"prefix before prefix plus digits", "a", "a1", -1},
		{"equal names", "disc1 track4.flac", "disc1 track4.flac", 0},
		{"second numeric run decides", "disc1 track10", "disc1 track9", 1},
		{"text without digits", "beta.mp3", "alpha.mp3", 1},
		{"leading zeros tie broken by length", "1.mp3", "01.mp3", -1},
		{"leading zeros compare by value", "02.mp3", "1.mp3", 1},
		{"values beyond int64", "x99999999999999999999999", "x100000000000000000000000", -1},
		{"accented letters collate with base letter", "élan.mp3", "zebra.mp3", -1},
		{"digits before text run", "1 intro", "intro", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			if sign(got) != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
			}
			if rev := Compare(tt.b, tt.a); sign(rev) != -tt.want {
				t.Errorf("Compare(%q, %q) = %d, want sign %d", tt.b, tt.a, rev, -tt.want)
			}
		})
	}
}

func TestCompare_TotalOrder(t *testing.T) {
	names := []string{"a", "A", "a1", "a01", "a001", "b", "B1", "10", "9", "", "track 1", "track1"}

	for _, a := range names {
		for _, b := range names {
			if a == b {
				assert.Zero(t, Compare(a, b), "Compare(%q, %q)", a, b)
				continue
			}
			assert.NotZero(t, Compare(a, b), "distinct names must not tie: %q %q", a, b)
		}
	}
}

func TestSequence_FiltersAudioFiles(t *testing.T) {
	seq := NewSequencer(defaultSequencer.lang)

	got := seq.Sequence([]string{
		"d.ogg", "notes.txt", "b.MP3", ".hidden.mp3", "c.Flac", "cover.jpg", "e.wav",
	})

	assert.Equal(t, []string{"b.MP3", "c.Flac", "d.ogg", "e.wav"}, got)
}

func TestSequence_EmptyFolder(t *testing.T) {
	got := defaultSequencer.Sequence([]string{})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseSequencer(t *testing.T) {
	seq, err := ParseSequencer("zh")
	require.NoError(t, err)
	assert.Equal(t, []string{"track1.mp3", "track2.mp3"}, seq.Sort([]string{"track2.mp3", "track1.mp3"}))

	_, err = ParseSequencer("not a tag!")
	assert.Error(t, err)

	seq, err = ParseSequencer("")
	require.NoError(t, err)
	assert.NotNil(t, seq)
}

func TestSortTracks_ByFileName(t *testing.T) {
	tracks := []Track{
		{Name: "Zulu", FileName: "10.mp3"},
		{Name: "Alpha", FileName: "9.mp3"},
	}

	got := defaultSequencer.SortTracks(tracks)

	assert.Equal(t, []string{"9.mp3", "10.mp3"}, fileNames(got))
	assert.Equal(t, "10.mp3", tracks[0].FileName, "input untouched")
}

func TestSplitRuns(t *testing.T) {
	text, digits := splitRuns("a12b3")

	assert.Equal(t, []string{"a", "b", ""}, text)
	assert.Equal(t, []string{"12", "3"}, digits)

	text, digits = splitRuns("")
	assert.Equal(t, []string{""}, text)
	assert.Empty(t, digits)
}

func TestIsAudioFile(t *testing.T) {
	for _, name := range []string{"a.mp3", "A.MP3", "b.Flac", "c.wav", "d.OGG", "/music/x.mp3"} {
		assert.True(t, IsAudioFile(name), name)
	}
	for _, name := range []string{"a.txt", "mp3", ".hidden.mp3", "cover.jpg", ""} {
		assert.False(t, IsAudioFile(name), name)
	}
}

func fileNames(tracks []Track) []string {
	names := make([]string, 0, len(tracks))
	for _, t := range tracks {
		names = append(names, t.FileName)
	}
	return names
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
