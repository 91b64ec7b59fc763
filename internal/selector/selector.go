// Package selector walks a source directory and decides which files
// belong in a snapshot.
package selector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/snaptyx/snaptyx/pkg/config"
	"github.com/snaptyx/snaptyx/pkg/errclass"
	"github.com/snaptyx/snaptyx/pkg/logging"
)

// Policy controls which files are selected.
type Policy struct {
	// ExcludedExtensions are matched case-insensitively, with leading dot.
	ExcludedExtensions []string
	// ExcludedDirs are directory names pruned at any depth.
	ExcludedDirs []string
	// Patterns are gitignore-style patterns relative to the root.
	Patterns []string
	// IgnoreFile names a gitignore-style file read from the root, if present.
	IgnoreFile string
	// Skip lists paths that are never selected.
	Skip []string
}

// DefaultPolicy returns the built-in exclusion policy.
func DefaultPolicy() Policy {
	return PolicyFromConfig(config.Default())
}

// PolicyFromConfig builds a Policy from configuration.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		ExcludedExtensions: append([]string(nil), cfg.Exclude.Extensions...),
		ExcludedDirs:       append([]string(nil), cfg.Exclude.Directories...),
		Patterns:           append([]string(nil), cfg.Exclude.Patterns...),
		IgnoreFile:         cfg.IgnoreFile,
	}
}

// File is a selected regular file.
type File struct {
	// Path is the absolute path on disk.
	Path string
	// Rel is the slash-separated path relative to the selection root.
	Rel string
}

// Selection is the result of Select, ordered by Rel.
type Selection struct {
	Root  string
	Files []File
}

// Empty reports whether no file was selected.
func (s *Selection) Empty() bool {
	return len(s.Files) == 0
}

// RelPaths returns the relative paths of all selected files.
func (s *Selection) RelPaths() []string {
	paths := make([]string, len(s.Files))
	for i, f := range s.Files {
		paths[i] = f.Rel
	}
	return paths
}

// Select walks root and returns every regular file that survives the
// policy. Unreadable subdirectories are skipped with a warning.
func Select(root string, p Policy) (*Selection, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errclass.ErrInvalidSource.Wrapf(err, "resolve %s", root)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, errclass.ErrInvalidSource.Wrapf(err, "source directory %s", root)
	}
	if !info.IsDir() {
		return nil, errclass.ErrInvalidSource.WithMessagef("source %s is not a directory", root)
	}

	// walk the resolved directory so a symlinked root is still descended
	walkRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, errclass.ErrInvalidSource.Wrapf(err, "resolve %s", root)
	}

	m, err := newMatcher(walkRoot, p)
	if err != nil {
		return nil, err
	}

	log := logging.WithFields(map[string]any{"component": "selector"})
	seen := make(map[string]bool)
	var files []File

	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return errclass.ErrInvalidSource.Wrapf(err, "read source directory %s", root)
			}
			log.Warn("skipping unreadable path", map[string]any{"path": path, "error": err.Error()})
			return nil
		}

		rel, relErr := filepath.Rel(walkRoot, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == walkRoot {
				return nil
			}
			if reason := m.skipDir(path, d.Name(), rel); reason != "" {
				log.Debug("pruned directory", map[string]any{"path": rel, "reason": reason})
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			log.Debug("skipped non-regular file", map[string]any{"path": rel})
			return nil
		}
		if reason := m.skipFile(path, d.Name(), rel); reason != "" {
			log.Debug("excluded file", map[string]any{"path": rel, "reason": reason})
			return nil
		}
		if !seen[rel] {
			seen[rel] = true
			files = append(files, File{Path: path, Rel: rel})
		}
		return nil
	})
	if err != nil {
		var ec *errclass.Error
		if errors.As(err, &ec) {
			return nil, err
		}
		return nil, errclass.ErrIO.Wrapf(err, "walk %s", root)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })

	return &Selection{Root: absRoot, Files: files}, nil
}

type matcher struct {
	exts   map[string]bool
	dirs   map[string]bool
	skip   map[string]bool
	ignore *ignore.GitIgnore
}

func newMatcher(root string, p Policy) (*matcher, error) {
	m := &matcher{
		exts: make(map[string]bool),
		dirs: make(map[string]bool),
		skip: make(map[string]bool),
	}
	for _, ext := range p.ExcludedExtensions {
		ext = strings.ToLower(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		m.exts[ext] = true
	}
	for _, d := range p.ExcludedDirs {
		m.dirs[d] = true
	}
	for _, s := range p.Skip {
		m.skip[resolvePath(s)] = true
	}

	ignorePath := ""
	if p.IgnoreFile != "" {
		candidate := filepath.Join(root, p.IgnoreFile)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			ignorePath = candidate
		}
	}
	switch {
	case ignorePath != "":
		gi, err := ignore.CompileIgnoreFileAndLines(ignorePath, p.Patterns...)
		if err != nil {
			return nil, fmt.Errorf("compile ignore file %s: %w", ignorePath, err)
		}
		m.ignore = gi
	case len(p.Patterns) > 0:
		m.ignore = ignore.CompileIgnoreLines(p.Patterns...)
	}
	return m, nil
}

func (m *matcher) skipDir(path, name, rel string) string {
	if m.dirs[name] {
		return "excluded directory"
	}
	if m.skip[path] {
		return "skip list"
	}
	if m.ignore != nil && m.ignore.MatchesPath(rel+"/") {
		return "ignore pattern"
	}
	if IsVirtualEnv(path) {
		return "virtual environment"
	}
	return ""
}

func (m *matcher) skipFile(path, name, rel string) string {
	if m.exts[Ext(name)] {
		return "excluded extension"
	}
	if m.skip[path] {
		return "skip list"
	}
	if m.ignore != nil && m.ignore.MatchesPath(rel) {
		return "ignore pattern"
	}
	return ""
}

// Ext returns the lower-cased extension of a file name. Leading dots do
// not start an extension, so ".zip" has none while "a.ZIP" has ".zip".
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(strings.TrimLeft(name, ".")))
}

// resolvePath returns an absolute, symlink-resolved form of path. The
// final element may not exist yet.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return abs
	}
	return filepath.Join(dir, filepath.Base(abs))
}
