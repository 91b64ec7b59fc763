package snaptyx

import (
	"context"
	"fmt"
	"os"

	"github.com/snaptyx/snaptyx/internal/diff"
	"github.com/snaptyx/snaptyx/internal/doctor"
	"github.com/snaptyx/snaptyx/internal/filemap"
	"github.com/snaptyx/snaptyx/internal/selector"
	"github.com/snaptyx/snaptyx/internal/snapshot"
	"github.com/snaptyx/snaptyx/pkg/config"
	"github.com/snaptyx/snaptyx/pkg/progress"
)

// Result describes a written snapshot.
type Result = snapshot.Result

// RestoreResult describes a restore.
type RestoreResult = snapshot.RestoreResult

// Entry summarizes one file block of a snapshot.
type Entry = snapshot.Entry

// DiffResult describes how a directory differs from a snapshot.
type DiffResult = diff.Result

// CheckResult lists the problems found in a snapshot document.
type CheckResult = doctor.Result

// CreateOptions configures snapshot creation.
type CreateOptions struct {
	Config            *config.Config // Exclusion settings; nil loads .snaptyx.yaml from the source directory
	ExcludeExtensions []string       // Added to the configured extensions
	ExcludeDirs       []string       // Added to the configured directory names
	Patterns          []string       // Added gitignore-style patterns
	IgnoreFile        string         // Overrides the configured ignore file name when set
	Progress          progress.Callback
}

// RestoreOptions configures snapshot restore.
type RestoreOptions struct {
	DryRun   bool // Validate and list without writing
	Progress progress.Callback
}

// policyFor returns the selection policy CreateSnapshot would use for
// sourceDir with opts.
func policyFor(sourceDir string, opts CreateOptions) (selector.Policy, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	// A missing or non-directory source is reported by the selector.
	if info, err := os.Stat(sourceDir); opts.Config == nil && err == nil && info.IsDir() {
		loaded, err := config.Load(sourceDir)
		if err != nil {
			return selector.Policy{}, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	p := selector.PolicyFromConfig(cfg)
	p.ExcludedExtensions = append(p.ExcludedExtensions, opts.ExcludeExtensions...)
	p.ExcludedDirs = append(p.ExcludedDirs, opts.ExcludeDirs...)
	p.Patterns = append(p.Patterns, opts.Patterns...)
	if opts.IgnoreFile != "" {
		p.IgnoreFile = opts.IgnoreFile
	}
	return p, nil
}

// CreateSnapshot writes the snapshot of sourceDir to outputPath. When no
// file is selected it returns a Result with Empty set and writes nothing.
func CreateSnapshot(ctx context.Context, sourceDir, outputPath string, opts CreateOptions) (*Result, error) {
	p, err := policyFor(sourceDir, opts)
	if err != nil {
		return nil, err
	}
	return snapshot.Write(ctx, sourceDir, outputPath, snapshot.Options{Policy: p, Progress: opts.Progress})
}

// RestoreSnapshot recreates the files recorded in snapshotPath under
// destDir.
func RestoreSnapshot(ctx context.Context, snapshotPath, destDir string, opts RestoreOptions) (*RestoreResult, error) {
	return snapshot.Restore(ctx, snapshotPath, destDir, snapshot.RestoreOptions{
		DryRun:   opts.DryRun,
		Progress: opts.Progress,
	})
}

// Inspect lists the file blocks of snapshotPath without writing.
func Inspect(snapshotPath string) ([]Entry, error) {
	return snapshot.Inspect(snapshotPath)
}

// Tree returns the file map CreateSnapshot would place at the top of the
// snapshot of sourceDir, along with the selected relative paths.
func Tree(sourceDir string, opts CreateOptions) (string, []string, error) {
	p, err := policyFor(sourceDir, opts)
	if err != nil {
		return "", nil, err
	}
	sel, err := selector.Select(sourceDir, p)
	if err != nil {
		return "", nil, err
	}
	rels := sel.RelPaths()
	return filemap.Render(sel.Root, rels), rels, nil
}

// Diff compares the blocks of snapshotPath with the files CreateSnapshot
// would select under dir. Only the selection fields of opts apply.
func Diff(ctx context.Context, snapshotPath, dir string, opts CreateOptions) (*DiffResult, error) {
	p, err := policyFor(dir, opts)
	if err != nil {
		return nil, err
	}
	return diff.Compare(ctx, snapshotPath, dir, p)
}

// Check reports problems in snapshotPath that restore would skip or
// work around. With strict, warnings make the result unhealthy.
func Check(snapshotPath string, strict bool) (*CheckResult, error) {
	return doctor.Check(snapshotPath, strict)
}
