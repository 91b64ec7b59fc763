package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/snaptyx/snaptyx/pkg/color"
	"github.com/snaptyx/snaptyx/pkg/snaptyx"
)

var (
	restoreDest     string
	restoreDryRun   bool
	restoreProgress bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore <snapshot_file>",
	Short: "Restore a directory from a snapshot",
	Long: `Restore the files recorded in a snapshot into a destination directory.

The destination is created if needed. Existing files with the same path
are overwritten; other files are left alone. Blocks whose path would
land outside the destination are skipped with a warning.

Examples:
  snaptyx restore project.txt -d ./restored
  snaptyx restore project.txt -d ./restored --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshotFile := args[0]
		if err := requireSnapshotFile(snapshotFile); err != nil {
			return err
		}

		if !jsonOutput {
			fmt.Printf("Restoring snapshot from '%s' to '%s'...\n", snapshotFile, restoreDest)
		}
		cb, done := progressBar(cmd, restoreProgress)
		res, err := snaptyx.RestoreSnapshot(cmd.Context(), snapshotFile, restoreDest, snaptyx.RestoreOptions{
			DryRun:   restoreDryRun,
			Progress: cb,
		})
		done()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(res)
		}

		verb := "Restored file"
		if res.DryRun {
			verb = "Would restore"
		}
		for _, rel := range res.Files {
			fmt.Printf("%s: %s\n", verb, color.Path(filepath.Join(res.Dest, filepath.FromSlash(rel))))
		}
		for _, s := range res.Skipped {
			fmt.Printf("%s %s (line %d): %s\n", color.Warning("Skipped"), s.Path, s.Line, s.Reason)
		}

		switch {
		case res.DryRun:
			fmt.Printf("Dry run: %d files would be restored, %d skipped.\n", len(res.Files), len(res.Skipped))
		case len(res.Skipped) > 0:
			fmt.Println(color.Warning(fmt.Sprintf("Snapshot restored with %d skipped files.", len(res.Skipped))))
		default:
			fmt.Println(color.Success("Snapshot restored successfully."))
		}
		return nil
	},
}

func init() {
	restoreCmd.Flags().StringVarP(&restoreDest, "destination", "d", "", "the destination directory to restore the project to")
	restoreCmd.MarkFlagRequired("destination")
	restoreCmd.Flags().BoolVar(&restoreDryRun, "dry-run", false, "list the files that would be restored without writing")
	restoreCmd.Flags().BoolVar(&restoreProgress, "progress", false, "show a progress bar on stderr")
	rootCmd.AddCommand(restoreCmd)
}
