package tracklist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
)

// Source lists the audio tracks of a folder in natural order.
type Source struct {
	seq *Sequencer
}

// NewSource creates a filesystem track source ordering names with seq.
// A nil seq uses the root collation.
func NewSource(seq *Sequencer) *Source {
	if seq == nil {
		seq = defaultSequencer
	}
	return &Source{seq: seq}
}

// ListTracks reads folder (non-recursively) and returns its audio tracks.
// A folder without audio files yields an empty list, not an error.
func (s *Source) ListTracks(ctx context.Context, folder string) ([]Track, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", abs, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}

	ordered := s.seq.Sequence(names)
	tracks := make([]Track, 0, len(ordered))
	for _, name := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(abs, name)
		tracks = append(tracks, Track{
			Name:     displayName(path),
			FileName: name,
			Path:     path,
		})
	}
	return tracks, nil
}

// Compare orders file names the way ListTracks does.
func (s *Source) Compare(a, b string) int {
	return s.seq.Compare(a, b)
}

// Exists reports whether the track's file is still present.
func (s *Source) Exists(_ context.Context, t Track) bool {
	info, err := os.Stat(t.Path)
	return err == nil && !info.IsDir()
}

// CountAudioFiles returns the number of audio files directly in folder.
func (s *Source) CountAudioFiles(folder string) (int, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && IsAudioFile(e.Name()) {
			n++
		}
	}
	return n, nil
}

func displayName(path string) string {
	name := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		return name
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return name
	}
	if title := m.Title(); title != "" {
		return title
	}
	return name
}
