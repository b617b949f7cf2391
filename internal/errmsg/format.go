// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playlist operations
	OpPlaylistImport Op = "import folder"
	OpPlaylistList   Op = "list playlists"
	OpPlaylistRemove Op = "remove playlist"
	OpPlaylistLoad   Op = "load playlist"

	// Progress operations
	OpProgressLoad   Op = "load progress"
	OpProgressForget Op = "forget progress"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackRun   Op = "play"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpStoreOpen  Op = "open store"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Error wraps err so that its message reads like Format.
func Error(op Op, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
