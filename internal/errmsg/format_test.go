//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlaylistImport,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpPlaylistImport,
			err:      errors.New("folder not found"),
			expected: "Failed to import folder: folder not found",
		},
		{
			name:     "progress operation",
			op:       OpProgressForget,
			err:      errors.New("database is locked"),
			expected: "Failed to forget progress: database is locked",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlaylistLoad,
			context:  "Dune",
			err:      nil,
			expected: "",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpPlaylistLoad,
			context:  "",
			err:      errors.New("nothing to play"),
			expected: "Failed to load playlist: nothing to play",
		},
		{
			name:     "formats error with context",
			op:       OpPlaylistRemove,
			context:  "Dune",
			err:      errors.New("playlist not found"),
			expected: "Failed to remove playlist 'Dune': playlist not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestError(t *testing.T) {
	if Error(OpStoreOpen, nil) != nil {
		t.Error("Error(nil) should be nil")
	}

	cause := errors.New("permission denied")
	err := Error(OpStoreOpen, cause)
	if !errors.Is(err, cause) {
		t.Errorf("Error() should wrap the cause, got %v", err)
	}
	if err.Error() != "failed to open store: permission denied" {
		t.Errorf("Error() = %q", err.Error())
	}
}
