package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/snaptyx/snaptyx/pkg/color"
	"github.com/snaptyx/snaptyx/pkg/config"
	"github.com/snaptyx/snaptyx/pkg/logging"
	"github.com/snaptyx/snaptyx/pkg/progress"
)

var (
	jsonOutput bool
	logLevel   string
	noColor    bool
	forceColor bool
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "snaptyx",
		Short: "snaptyx - directory trees as plain text snapshots",
		Long: `snaptyx serializes a directory tree into a single plain-text snapshot
with a file map on top, and restores a directory tree from such a snapshot.
Snapshots are easy to diff, mail, or paste into a chat window.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&forceColor, "color", false, "force colored output even when stdout is not a terminal")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default: ./"+config.FileName+")")
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(err)
		stop()
		os.Exit(1)
	}
}

// setup applies the persistent flags before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	switch {
	case noColor:
		color.Disable()
	case forceColor:
		color.Enable()
	}
	color.Init(false)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(lvl)
	logger.SetFormat(format)
	logger.SetOutput(cmd.ErrOrStderr())
	logging.SetGlobal(logger)
	return nil
}

// loadConfig returns the --config file, or ./.snaptyx.yaml when present.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load(".")
}

// commandConfig returns the explicit --config file, or nil to let the
// library read the source directory's own configuration.
func commandConfig() (*config.Config, error) {
	if configPath == "" {
		return nil, nil
	}
	return config.LoadFile(configPath)
}

// progressBar returns a bar drawing on stderr and the func that clears it.
// The bar stays off for JSON output.
func progressBar(cmd *cobra.Command, enabled bool) (progress.Callback, func()) {
	if !enabled || jsonOutput {
		return progress.Noop, func() {}
	}
	bar := progress.NewBar(cmd.ErrOrStderr())
	return bar.Callback(), bar.Done
}

// reportError prints err with a hint when one applies.
func reportError(err error) {
	var nf *notFoundError
	if errors.As(err, &nf) {
		fmt.Fprintln(os.Stderr, formatSnapshotNotFoundError(nf.path))
		return
	}
	fmtErr("%v", err)
}

// outputJSON prints v as JSON if --json flag is set, otherwise does nothing.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

