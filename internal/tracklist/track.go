package tracklist

import (
	"path/filepath"
	"strings"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

// Track is an entry of an ordered track list.
type Track struct {
	Name     string // display name: title tag, or file name when untagged
	FileName string
	Path     string
}

// IsAudioFile reports whether name has a supported audio extension.
// The check is case-insensitive and hidden files are never audio files.
func IsAudioFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case extMP3, extFLAC, extWAV, extOGG:
		return true
	default:
		return false
	}
}

// IndexOfPath returns the index of the track with the given path, or -1.
func IndexOfPath(tracks []Track, path string) int {
	if path == "" {
		return -1
	}
	for i, t := range tracks {
		if t.Path == path {
			return i
		}
	}
	return -1
}
