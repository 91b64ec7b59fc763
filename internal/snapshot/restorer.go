package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/snaptyx/snaptyx/pkg/errclass"
	"github.com/snaptyx/snaptyx/pkg/fsutil"
	"github.com/snaptyx/snaptyx/pkg/logging"
	"github.com/snaptyx/snaptyx/pkg/pathutil"
	"github.com/snaptyx/snaptyx/pkg/progress"
)

// RestoreOptions controls Restore.
type RestoreOptions struct {
	// DryRun parses and validates without touching the destination.
	DryRun bool
	// Progress is called once per restored block. The total is not
	// known upfront and is reported as zero.
	Progress progress.Callback
}

// SkippedBlock is a block that was not restored.
type SkippedBlock struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// RestoreResult describes a restore.
type RestoreResult struct {
	Dest    string         `json:"dest"`
	Files   []string       `json:"files"`
	Skipped []SkippedBlock `json:"skipped,omitempty"`
	DryRun  bool           `json:"dry_run,omitempty"`
}

// Restore recreates the files recorded in the document at snapshotPath
// under destDir, creating directories as needed and overwriting existing
// files. Blocks whose path is empty, absolute or escapes destDir are
// skipped with a warning. A block repeated in the document is written
// once per occurrence, so the last one wins.
func Restore(ctx context.Context, snapshotPath, destDir string, opts RestoreOptions) (*RestoreResult, error) {
	f, err := os.Open(snapshotPath)
	if err != nil {
		return nil, errclass.ErrInvalidSnapshot.Wrapf(err, "open snapshot %s", snapshotPath)
	}
	defer f.Close()
	if info, err := f.Stat(); err != nil || info.IsDir() {
		return nil, errclass.ErrInvalidSnapshot.WithMessagef("not a snapshot file: %s", snapshotPath)
	}

	dest, err := filepath.Abs(destDir)
	if err != nil {
		return nil, errclass.ErrIO.Wrapf(err, "resolve destination %s", destDir)
	}
	if !opts.DryRun {
		if err := os.MkdirAll(dest, 0755); err != nil {
			return nil, errclass.ErrIO.Wrapf(err, "create destination %s", destDir)
		}
	}

	result := &RestoreResult{Dest: dest, Files: []string{}, DryRun: opts.DryRun}
	counter := progress.New("restore", 0, opts.Progress)
	err = Parse(f, func(b Block) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := resolveTarget(dest, b.Path, opts.DryRun)
		if err != nil {
			logging.Warn("skipping unsafe path", map[string]any{
				"path":  b.Path,
				"line":  b.Line,
				"error": err.Error(),
			})
			result.Skipped = append(result.Skipped, SkippedBlock{Path: b.Path, Line: b.Line, Reason: err.Error()})
			return nil
		}
		rel := filepath.ToSlash(strings.TrimPrefix(target, dest+string(filepath.Separator)))
		if opts.DryRun {
			result.Files = append(result.Files, rel)
			counter.Step(rel)
			return nil
		}
		if err := fsutil.WriteFileAll(target, []byte(b.Content), 0644); err != nil {
			return errclass.ErrIO.Wrapf(err, "write %s", rel)
		}
		logging.Debug("restored file", map[string]any{"path": rel, "bytes": len(b.Content)})
		result.Files = append(result.Files, rel)
		counter.Step(rel)
		return nil
	})
	if err != nil {
		return result, err
	}

	logging.Info("snapshot restored", map[string]any{
		"dest":    dest,
		"files":   len(result.Files),
		"skipped": len(result.Skipped),
	})
	return result, nil
}

// resolveTarget validates rel against dest. A dry run may target a
// destination that does not exist yet, so only the lexical checks apply.
func resolveTarget(dest, rel string, dryRun bool) (string, error) {
	if dryRun {
		clean, err := pathutil.CleanSnapshotPath(rel)
		if err != nil {
			return "", err
		}
		return filepath.Join(dest, filepath.FromSlash(clean)), nil
	}
	return pathutil.SafeJoin(dest, rel)
}

// Entry summarizes one block of a document.
type Entry struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
	Lines int    `json:"lines"`
}

// Inspect lists the blocks of the document at snapshotPath without
// writing anything.
func Inspect(snapshotPath string) ([]Entry, error) {
	f, err := os.Open(snapshotPath)
	if err != nil {
		return nil, errclass.ErrInvalidSnapshot.Wrapf(err, "open snapshot %s", snapshotPath)
	}
	defer f.Close()

	entries := []Entry{}
	err = Parse(f, func(b Block) error {
		entries = append(entries, Entry{
			Path:  b.Path,
			Bytes: len(b.Content),
			Lines: countLines(b.Content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
