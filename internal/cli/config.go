package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/snaptyx/snaptyx/pkg/config"
	"github.com/snaptyx/snaptyx/pkg/errclass"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config <command>",
	Short: "Manage snaptyx configuration",
	Long: `Manage snaptyx configuration stored in .snaptyx.yaml.

The configuration of a source directory is read from <dir>/.snaptyx.yaml
by create and tree. --config points at an explicit file instead.

Configuration options:
  exclude.extensions   - File extensions never included (list)
  exclude.directories  - Directory names pruned at any depth (list)
  exclude.patterns     - Gitignore-style patterns to exclude (list)
  ignore_file          - Gitignore-style file read from the source root
  logging.level        - Log level (debug, info, warn, error)
  logging.format       - Log format (text, json)

Available commands:
  show [dir]               - Show the effective configuration
  init [dir]               - Write a default configuration file
  get <key> [dir]          - Get a configuration value
  set <key> <value> [dir]  - Set a configuration value`,
	DisableFlagsInUseLine: true,
}

// configDir returns the directory argument at index i, or ".".
func configDir(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return "."
}

// configLocation returns the file a config command reads and writes.
func configLocation(dir string) string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(dir, config.FileName)
}

func loadConfigAt(dir string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load(dir)
}

func saveConfigAt(dir string, cfg *config.Config) error {
	if configPath != "" {
		return config.SaveFile(configPath, cfg)
	}
	return config.Save(dir, cfg)
}

var configShowCmd = &cobra.Command{
	Use:   "show [dir]",
	Short: "Show the effective configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := configDir(args, 0)
		cfg, err := loadConfigAt(dir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if jsonOutput {
			return outputJSON(cfg)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Println("# snaptyx configuration")
		location := configLocation(dir)
		if _, err := os.Stat(location); err != nil {
			fmt.Printf("# Location: %s (not found, showing defaults)\n\n", location)
		} else {
			fmt.Printf("# Location: %s\n\n", location)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := configDir(args, 0)
		location := configLocation(dir)
		if _, err := os.Stat(location); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", location)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("check config: %w", err)
		}

		if err := saveConfigAt(dir, config.Default()); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		if jsonOutput {
			return outputJSON(map[string]string{"path": location})
		}
		fmt.Printf("Wrote %s\n", location)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value> [dir]",
	Short: "Set a configuration value",
	Long: `Set a configuration value in .snaptyx.yaml.

Examples:
  snaptyx config set exclude.extensions ".zip,.rar,.log"
  snaptyx config set exclude.patterns '["build/", "*.tmp"]'
  snaptyx config set logging.level info`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := configDir(args, 2)
		cfg, err := loadConfigAt(dir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		key := args[0]
		value := args[1]

		if err := cfg.Set(key, value); err != nil {
			return err
		}

		if err := saveConfigAt(dir, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key> [dir]",
	Short: "Get a configuration value",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigAt(configDir(args, 1))
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		key := args[0]
		value, err := cfg.Get(key)
		if err != nil {
			if errors.Is(err, errclass.ErrConfigInvalid) {
				return fmt.Errorf("%w (keys: %s)", err, strings.Join(config.Keys(), ", "))
			}
			return err
		}

		if value == "" {
			fmt.Printf("%s (not set)\n", key)
		} else {
			// Trim trailing newlines for cleaner output
			value = strings.TrimRight(value, "\n")
			fmt.Println(value)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing configuration file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}
