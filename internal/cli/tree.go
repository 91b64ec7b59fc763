package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snaptyx/snaptyx/pkg/color"
	"github.com/snaptyx/snaptyx/pkg/snaptyx"
)

var treeCmd = &cobra.Command{
	Use:   "tree <source_directory>",
	Short: "Print the file map a snapshot would contain",
	Long: `Print the file map of a directory as create would write it, after
applying the same exclusions. Nothing is written to disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commandConfig()
		if err != nil {
			return err
		}
		tree, rels, err := snaptyx.Tree(args[0], snaptyx.CreateOptions{Config: cfg})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]any{
				"map":   tree,
				"files": rels,
			})
		}

		for i, line := range strings.Split(tree, "\n") {
			if i == 0 {
				fmt.Println(color.Header(line))
				continue
			}
			if strings.HasSuffix(line, "/") {
				fmt.Println(colorDirLine(line))
				continue
			}
			fmt.Println(line)
		}
		return nil
	},
}

// connectorTail ends both branch connectors of a map line.
const connectorTail = "── "

// colorDirLine highlights the directory name of a map line, leaving the
// connectors plain.
func colorDirLine(line string) string {
	i := strings.Index(line, connectorTail)
	if i < 0 {
		return line
	}
	i += len(connectorTail)
	return line[:i] + color.Dir(line[i:])
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
