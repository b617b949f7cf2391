// Package cmd implements the folderplay command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "folderplay",
	Short: "Resumable playback of audio folders",
	Long: `folderplay plays folders of audio files (audiobooks, lecture series)
in natural order and remembers where you stopped in each of them.`,
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
