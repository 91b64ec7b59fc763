// Package diff compares a snapshot document with a directory tree.
package diff

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/snaptyx/snaptyx/internal/selector"
	"github.com/snaptyx/snaptyx/internal/snapshot"
	"github.com/snaptyx/snaptyx/pkg/errclass"
	"github.com/snaptyx/snaptyx/pkg/logging"
)

// ChangeType represents the kind of difference for one path.
type ChangeType string

const (
	// ChangeAdded is a file selected in the directory but absent from the snapshot.
	ChangeAdded ChangeType = "added"
	// ChangeRemoved is a block in the snapshot with no matching file.
	ChangeRemoved ChangeType = "removed"
	// ChangeModified is a path present on both sides with different content.
	ChangeModified ChangeType = "modified"
)

// Change represents a single differing path.
type Change struct {
	Path    string     `json:"path"`
	Type    ChangeType `json:"type"`
	Size    int        `json:"size,omitempty"`
	OldSize int        `json:"old_size,omitempty"`
	OldHash string     `json:"old_hash,omitempty"`
	NewHash string     `json:"new_hash,omitempty"`
}

// Result is the outcome of Compare. The snapshot is the old side and
// the directory the new one.
type Result struct {
	Snapshot      string    `json:"snapshot"`
	Dir           string    `json:"dir"`
	Added         []*Change `json:"added"`
	Removed       []*Change `json:"removed"`
	Modified      []*Change `json:"modified"`
	Unchanged     int       `json:"unchanged"`
	TotalAdded    int       `json:"total_added"`
	TotalRemoved  int       `json:"total_removed"`
	TotalModified int       `json:"total_modified"`
}

// Clean reports whether the directory matches the snapshot.
func (r *Result) Clean() bool {
	return r.TotalAdded == 0 && r.TotalRemoved == 0 && r.TotalModified == 0
}

type entry struct {
	size int
	hash string
}

// Compare reports how the files policy selects under dir differ from the
// blocks recorded in snapshotPath. Directory files are decoded the same
// way a snapshot of dir would record them, so a fresh snapshot compares
// clean. When a block appears twice, the last one counts.
func Compare(ctx context.Context, snapshotPath, dir string, policy selector.Policy) (*Result, error) {
	old, err := readSnapshot(snapshotPath)
	if err != nil {
		return nil, err
	}

	absSnap, err := filepath.Abs(snapshotPath)
	if err != nil {
		return nil, errclass.ErrIO.Wrapf(err, "resolve snapshot path %s", snapshotPath)
	}
	policy.Skip = append(append([]string(nil), policy.Skip...), absSnap)
	sel, err := selector.Select(dir, policy)
	if err != nil {
		return nil, err
	}

	cur := make(map[string]entry, len(sel.Files))
	for _, f := range sel.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content := snapshot.ReadContent(f)
		cur[f.Rel] = entry{size: len(content), hash: hashString(content)}
	}

	result := &Result{Snapshot: absSnap, Dir: sel.Root}
	for path, n := range cur {
		o, ok := old[path]
		switch {
		case !ok:
			result.Added = append(result.Added, &Change{Path: path, Type: ChangeAdded, Size: n.size, NewHash: n.hash})
		case o.hash != n.hash:
			result.Modified = append(result.Modified, &Change{
				Path:    path,
				Type:    ChangeModified,
				Size:    n.size,
				OldSize: o.size,
				OldHash: o.hash,
				NewHash: n.hash,
			})
		default:
			result.Unchanged++
		}
	}
	for path, o := range old {
		if _, ok := cur[path]; !ok {
			result.Removed = append(result.Removed, &Change{Path: path, Type: ChangeRemoved, OldSize: o.size, OldHash: o.hash})
		}
	}

	sortChanges(result.Added)
	sortChanges(result.Removed)
	sortChanges(result.Modified)
	result.TotalAdded = len(result.Added)
	result.TotalRemoved = len(result.Removed)
	result.TotalModified = len(result.Modified)

	logging.Debug("compared snapshot", map[string]any{
		"snapshot": absSnap,
		"added":    result.TotalAdded,
		"removed":  result.TotalRemoved,
		"modified": result.TotalModified,
	})
	return result, nil
}

func readSnapshot(path string) (map[string]entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errclass.ErrInvalidSnapshot.Wrapf(err, "open snapshot %s", path)
	}
	defer f.Close()
	if info, err := f.Stat(); err != nil || info.IsDir() {
		return nil, errclass.ErrInvalidSnapshot.WithMessagef("not a snapshot file: %s", path)
	}

	blocks := make(map[string]entry)
	err = snapshot.Parse(f, func(b snapshot.Block) error {
		blocks[b.Path] = entry{size: len(b.Content), hash: hashString(b.Content)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

func sortChanges(changes []*Change) {
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
}

// FormatHuman returns a human-readable rendering of the result.
func (r *Result) FormatHuman() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Diff %s -> %s\n\n", r.Snapshot, r.Dir))

	if r.TotalAdded > 0 {
		sb.WriteString(fmt.Sprintf("Added (%d):\n", r.TotalAdded))
		for _, c := range r.Added {
			sb.WriteString(fmt.Sprintf("  + %s\n", c.Path))
		}
		sb.WriteString("\n")
	}

	if r.TotalRemoved > 0 {
		sb.WriteString(fmt.Sprintf("Removed (%d):\n", r.TotalRemoved))
		for _, c := range r.Removed {
			sb.WriteString(fmt.Sprintf("  - %s\n", c.Path))
		}
		sb.WriteString("\n")
	}

	if r.TotalModified > 0 {
		sb.WriteString(fmt.Sprintf("Modified (%d):\n", r.TotalModified))
		for _, c := range r.Modified {
			sb.WriteString(fmt.Sprintf("  ~ %s", c.Path))
			if c.OldSize != c.Size {
				sb.WriteString(fmt.Sprintf(" (%d -> %d bytes)", c.OldSize, c.Size))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if r.Clean() {
		sb.WriteString("No changes.\n")
	}

	return sb.String()
}
