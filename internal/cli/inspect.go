package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snaptyx/snaptyx/pkg/color"
	"github.com/snaptyx/snaptyx/pkg/snaptyx"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot_file>",
	Short: "List the files recorded in a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSnapshotFile(args[0]); err != nil {
			return err
		}
		entries, err := snaptyx.Inspect(args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No files recorded.")
			return nil
		}
		var total int
		for _, e := range entries {
			fmt.Printf("%8d %6d  %s\n", e.Bytes, e.Lines, color.Path(e.Path))
			total += e.Bytes
		}
		fmt.Println(color.Dim(fmt.Sprintf("%d files, %d bytes", len(entries), total)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
