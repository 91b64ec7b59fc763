package cli

import (
	"fmt"
	"os"

	"github.com/snaptyx/snaptyx/pkg/color"
)

// notFoundError reports a snapshot file argument that does not exist.
type notFoundError struct {
	path string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("snapshot file '%s' not found", e.path)
}

// requireSnapshotFile checks that path names an existing regular file.
func requireSnapshotFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &notFoundError{path: path}
	}
	if err != nil {
		return fmt.Errorf("cannot access snapshot file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("snapshot file '%s' is a directory", path)
	}
	return nil
}

func fmtErr(format string, args ...any) {
	// Colorize the error prefix
	prefix := "snaptyx: "
	if color.Enabled() {
		prefix = color.Error("snaptyx:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
