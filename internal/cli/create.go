package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snaptyx/snaptyx/pkg/color"
	"github.com/snaptyx/snaptyx/pkg/snaptyx"
)

var (
	createOutput      string
	createExcludeExts []string
	createExcludeDirs []string
	createPatterns    []string
	createIgnoreFile  string
	createProgress    bool
)

var createCmd = &cobra.Command{
	Use:   "create <source_directory>",
	Short: "Create a snapshot of a directory",
	Long: `Create a plain-text snapshot of a directory.

The snapshot starts with a map of the selected files, followed by the
content of each file between start and end delimiter lines. Archives
(.zip, .rar), .git, __pycache__ and Python virtual environments are
excluded by default; .snaptyx.yaml and .snaptyxignore in the source
directory extend the exclusions.

Examples:
  snaptyx create ./project -o project.txt
  snaptyx create . -o snap.txt --exclude-ext .log --exclude-dir node_modules
  snaptyx create . -o snap.txt --pattern 'build/' --pattern '*.tmp'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commandConfig()
		if err != nil {
			return err
		}
		opts := snaptyx.CreateOptions{
			Config:            cfg,
			ExcludeExtensions: createExcludeExts,
			ExcludeDirs:       createExcludeDirs,
			Patterns:          createPatterns,
			IgnoreFile:        createIgnoreFile,
		}
		cb, done := progressBar(cmd, createProgress)
		opts.Progress = cb

		source := args[0]
		if !jsonOutput {
			fmt.Printf("Creating snapshot of '%s' to '%s'...\n", source, createOutput)
		}
		res, err := snaptyx.CreateSnapshot(cmd.Context(), source, createOutput, opts)
		done()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(res)
		}
		if res.Empty {
			fmt.Println(formatEmptySelection(source))
			return nil
		}
		fmt.Printf("Snapshot created: %s (%d files, %d bytes)\n",
			color.Success(createOutput), len(res.Files), res.Bytes)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createOutput, "output", "o", "", "the output file for the snapshot")
	createCmd.MarkFlagRequired("output")
	createCmd.Flags().StringSliceVar(&createExcludeExts, "exclude-ext", nil, "additional file extensions to exclude")
	createCmd.Flags().StringSliceVar(&createExcludeDirs, "exclude-dir", nil, "additional directory names to exclude")
	createCmd.Flags().StringArrayVar(&createPatterns, "pattern", nil, "gitignore-style pattern to exclude (repeatable)")
	createCmd.Flags().StringVar(&createIgnoreFile, "ignore-file", "", "ignore file name in the source directory (default from config)")
	createCmd.Flags().BoolVar(&createProgress, "progress", false, "show a progress bar on stderr")
	rootCmd.AddCommand(createCmd)
}
