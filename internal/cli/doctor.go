package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snaptyx/snaptyx/pkg/color"
	"github.com/snaptyx/snaptyx/pkg/errclass"
	"github.com/snaptyx/snaptyx/pkg/snaptyx"
)

var doctorStrict bool

var doctorCmd = &cobra.Command{
	Use:   "doctor <snapshot_file>",
	Short: "Check a snapshot for problems",
	Long: `Check a snapshot document for problems.

Reports blocks without an end delimiter, paths restore would skip or
rewrite, duplicate blocks, and a file map that no longer matches the
blocks. Use --strict to fail on warnings too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshotFile := args[0]
		if err := requireSnapshotFile(snapshotFile); err != nil {
			return err
		}

		result, err := snaptyx.Check(snapshotFile, doctorStrict)
		if err != nil {
			return err
		}

		if jsonOutput {
			if err := outputJSON(result); err != nil {
				return err
			}
		} else if len(result.Findings) == 0 {
			fmt.Println(color.Successf("Snapshot is healthy (%d files).", result.Blocks))
		} else {
			fmt.Println(color.Header(fmt.Sprintf("Findings (%d):", len(result.Findings))))
			for _, f := range result.Findings {
				where := ""
				if f.Line > 0 {
					where = fmt.Sprintf(" (line %d)", f.Line)
				}
				fmt.Printf("  [%s] %s: %s%s\n", severityColor(f.Severity), f.Category, f.Description, where)
			}
		}

		if !result.Healthy {
			return errclass.ErrInvalidSnapshot.WithMessagef("%s has problems", snapshotFile)
		}
		return nil
	},
}

func severityColor(s string) string {
	switch s {
	case "critical", "error":
		return color.Error(s)
	case "warning":
		return color.Warning(s)
	}
	return s
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorStrict, "strict", false, "treat warnings as problems")
	rootCmd.AddCommand(doctorCmd)
}
