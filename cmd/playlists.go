package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/folderplay/internal/errmsg"
	"github.com/llehouerou/folderplay/internal/library"
	"github.com/llehouerou/folderplay/internal/progress"
)

var importCmd = &cobra.Command{
	Use:   "import <folder>",
	Short: "Register a folder as a playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			p, err := a.library.Import(cmd.Context(), args[0])
			if err != nil {
				return errmsg.Error(errmsg.OpPlaylistImport, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%s)\n", p.Name, p.ID)
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List playlists and where each one stopped",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			playlists, err := a.library.List(cmd.Context())
			if err != nil {
				return errmsg.Error(errmsg.OpPlaylistList, err)
			}
			if len(playlists) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No playlists. Add one with: folderplay import <folder>")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPROGRESS\tIMPORTED")
			for _, p := range playlists {
				cp, ok, err := a.progress.Load(cmd.Context(), p.ID)
				if err != nil {
					return errmsg.Error(errmsg.OpProgressLoad, err)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					p.ID, p.Name, describeProgress(p, cp, ok), humanize.Time(p.ImportedAt))
			}
			return w.Flush()
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a playlist and its saved position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			if err := a.library.Remove(cmd.Context(), args[0]); err != nil {
				return errmsg.Error(errmsg.OpPlaylistRemove, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed", args[0])
			return nil
		})
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget <id>",
	Short: "Forget the saved position of a playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			p, err := a.library.Get(cmd.Context(), args[0])
			if err != nil {
				return errmsg.Error(errmsg.OpProgressForget, err)
			}
			if err := a.progress.Delete(cmd.Context(), p.ID); err != nil {
				return errmsg.Error(errmsg.OpProgressForget, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s will start from the beginning\n", p.Name)
			return nil
		})
	},
}

func describeProgress(p library.Playlist, cp progress.Checkpoint, ok bool) string {
	if !library.FolderExists(p) {
		return "folder missing"
	}
	if !ok {
		return "not started"
	}
	s := fmt.Sprintf("track %d at %s", cp.Index+1, formatClock(cp.Offset))
	if !cp.SavedAt.IsZero() {
		s += ", " + humanize.Time(cp.SavedAt)
	}
	return s
}

func init() {
	rootCmd.AddCommand(importCmd, listCmd, removeCmd, forgetCmd)
}
