package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snaptyx/snaptyx/pkg/snaptyx"
)

var diffStatOnly bool

var diffCmd = &cobra.Command{
	Use:   "diff <snapshot_file> <directory>",
	Short: "Show differences between a snapshot and a directory",
	Long: `Show how a directory differs from a snapshot.

The directory is read with the same exclusions create would apply, so
comparing a directory with its own fresh snapshot reports no changes.
Added files exist only in the directory, removed files only in the
snapshot.

Examples:
  snaptyx diff project.txt ./project
  snaptyx diff project.txt ./project --stat`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshotFile := args[0]
		if err := requireSnapshotFile(snapshotFile); err != nil {
			return err
		}
		cfg, err := commandConfig()
		if err != nil {
			return err
		}

		result, err := snaptyx.Diff(cmd.Context(), snapshotFile, args[1], snaptyx.CreateOptions{Config: cfg})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		if diffStatOnly {
			fmt.Printf("Added: %d, Removed: %d, Modified: %d\n",
				result.TotalAdded, result.TotalRemoved, result.TotalModified)
			return nil
		}
		fmt.Print(result.FormatHuman())
		return nil
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffStatOnly, "stat", false, "show summary only")
	rootCmd.AddCommand(diffCmd)
}
