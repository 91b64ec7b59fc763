// Package doctor checks snapshot documents for problems that restore
// would silently work around.
package doctor

import (
	"fmt"
	"os"
	"strings"

	"github.com/snaptyx/snaptyx/internal/filemap"
	"github.com/snaptyx/snaptyx/internal/snapshot"
	"github.com/snaptyx/snaptyx/pkg/errclass"
	"github.com/snaptyx/snaptyx/pkg/pathutil"
)

// Severity levels, from most to least serious.
const (
	SeverityCritical = "critical"
	SeverityError    = "error"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Finding represents a detected issue.
type Finding struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Path        string `json:"path,omitempty"`
	Line        int    `json:"line,omitempty"`
}

// Result contains check results.
type Result struct {
	Healthy  bool      `json:"healthy"`
	Blocks   int       `json:"blocks"`
	Findings []Finding `json:"findings"`
}

func (r *Result) add(f Finding, strict bool) {
	r.Findings = append(r.Findings, f)
	switch f.Severity {
	case SeverityCritical, SeverityError:
		r.Healthy = false
	case SeverityWarning:
		if strict {
			r.Healthy = false
		}
	}
}

// Check parses the document at snapshotPath and reports its findings.
// Critical and error findings make the result unhealthy; with strict,
// warnings do too.
func Check(snapshotPath string, strict bool) (*Result, error) {
	f, err := os.Open(snapshotPath)
	if err != nil {
		return nil, errclass.ErrInvalidSnapshot.Wrapf(err, "open snapshot %s", snapshotPath)
	}
	defer f.Close()
	if info, err := f.Stat(); err != nil || info.IsDir() {
		return nil, errclass.ErrInvalidSnapshot.WithMessagef("not a snapshot file: %s", snapshotPath)
	}

	result := &Result{Healthy: true, Findings: []Finding{}}
	var blocks []snapshot.Block
	sum, err := snapshot.ParseDocument(f, func(b snapshot.Block) error {
		blocks = append(blocks, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Blocks = len(blocks)

	checkMap(result, sum, blocks, strict)
	checkBlocks(result, blocks, strict)
	return result, nil
}

func checkMap(result *Result, sum *snapshot.Summary, blocks []snapshot.Block, strict bool) {
	if !sum.HasMap {
		result.add(Finding{
			Category:    "format",
			Description: "no file map section; file blocks are only read after one",
			Severity:    SeverityCritical,
		}, strict)
		return
	}
	if sum.IgnoredStarts > 0 {
		result.add(Finding{
			Category:    "format",
			Description: fmt.Sprintf("%d start delimiters before the file map are ignored", sum.IgnoredStarts),
			Severity:    SeverityWarning,
		}, strict)
	}

	got := trimTrailingBlank(sum.Map)
	if len(got) == 0 || !strings.HasPrefix(got[0], filemap.Title) {
		result.add(Finding{
			Category:    "map",
			Description: "file map has no title line",
			Severity:    SeverityInfo,
		}, strict)
		return
	}

	rels := make([]string, 0, len(blocks))
	for _, b := range blocks {
		rels = append(rels, b.Path)
	}
	root := strings.TrimPrefix(got[0], filemap.Title)
	want := filemap.Render(root, rels)
	if strings.Join(got, "\n") != want {
		result.add(Finding{
			Category:    "map",
			Description: "file map does not match the file blocks",
			Severity:    SeverityWarning,
		}, strict)
	}
}

func checkBlocks(result *Result, blocks []snapshot.Block, strict bool) {
	seen := make(map[string]int, len(blocks))
	for _, b := range blocks {
		if !b.Terminated {
			result.add(Finding{
				Category:    "block",
				Description: "block is not closed by its end delimiter",
				Severity:    SeverityError,
				Path:        b.Path,
				Line:        b.Line,
			}, strict)
		}

		clean, err := pathutil.CleanSnapshotPath(b.Path)
		if err != nil {
			result.add(Finding{
				Category:    "path",
				Description: fmt.Sprintf("unsafe path, restore will skip it: %v", err),
				Severity:    SeverityError,
				Path:        b.Path,
				Line:        b.Line,
			}, strict)
			continue
		}
		if clean != b.Path {
			result.add(Finding{
				Category:    "path",
				Description: fmt.Sprintf("path restores as %s", clean),
				Severity:    SeverityInfo,
				Path:        b.Path,
				Line:        b.Line,
			}, strict)
		}

		if !pathutil.IsNFC(b.Path) {
			result.add(Finding{
				Category:    "path",
				Description: "name is not NFC-normalized; filesystems that normalize names may restore it under another name",
				Severity:    SeverityInfo,
				Path:        b.Path,
				Line:        b.Line,
			}, strict)
		}

		if first, ok := seen[clean]; ok {
			result.add(Finding{
				Category:    "path",
				Description: fmt.Sprintf("duplicate of the block at line %d; the last one wins", first),
				Severity:    SeverityWarning,
				Path:        b.Path,
				Line:        b.Line,
			}, strict)
			continue
		}
		seen[clean] = b.Line
	}
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
