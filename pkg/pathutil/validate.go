// Package pathutil validates snapshot-relative paths and joins them safely
// under a destination root.
package pathutil

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/snaptyx/snaptyx/pkg/errclass"
)

// CleanSnapshotPath validates a relative path taken from a snapshot
// document and returns it cleaned and slash-separated. Names are kept
// byte for byte: no Unicode normalization is applied, and a backslash is
// a separator only where the platform treats it as one.
func CleanSnapshotPath(rel string) (string, error) {
	return cleanPath(rel, filepath.Separator == '\\')
}

func cleanPath(rel string, backslashSep bool) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", errclass.ErrPathEscape.WithMessage("path must not be empty")
	}

	for _, r := range rel {
		if unicode.IsControl(r) {
			return "", errclass.ErrPathEscape.WithMessagef("path must not contain control characters: %q", rel)
		}
	}

	slashed := rel
	if backslashSep {
		slashed = strings.ReplaceAll(rel, "\\", "/")
	}
	if strings.HasPrefix(slashed, "/") || filepath.VolumeName(rel) != "" || hasDriveLetter(slashed) {
		return "", errclass.ErrPathEscape.WithMessagef("path must be relative: %s", rel)
	}

	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", errclass.ErrPathEscape.WithMessagef("path must not contain '..': %s", rel)
		}
	}

	clean := path.Clean(slashed)
	if clean == "." {
		return "", errclass.ErrPathEscape.WithMessagef("path does not name a file: %s", rel)
	}
	// "./c:/x" only shows its drive letter once cleaned.
	if hasDriveLetter(clean) {
		return "", errclass.ErrPathEscape.WithMessagef("path must be relative: %s", rel)
	}
	return clean, nil
}

// IsNFC reports whether rel is in Unicode normalization form C. A name
// that is not may be restored under a different name on filesystems
// that normalize.
func IsNFC(rel string) bool {
	return norm.NFC.IsNormalString(rel)
}

func hasDriveLetter(p string) bool {
	return len(p) >= 2 && p[1] == ':' && ((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}

// SafeJoin validates rel with CleanSnapshotPath and joins it under root.
// The result is guaranteed not to escape root, including through
// symlinks already present under root.
func SafeJoin(root, rel string) (string, error) {
	clean, err := CleanSnapshotPath(rel)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, filepath.FromSlash(clean))
	if err := ValidatePathSafety(root, target); err != nil {
		return "", err
	}
	return target, nil
}

// ValidatePathSafety verifies target path does not escape root.
func ValidatePathSafety(root, targetPath string) error {
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return errclass.ErrPathEscape.WithMessagef("cannot resolve root: %v", err)
	}

	// Try resolving target; if it doesn't exist, resolve closest ancestor
	resolvedTarget, err := filepath.EvalSymlinks(targetPath)
	if err != nil {
		if os.IsNotExist(err) {
			resolvedTarget = resolveClosestAncestor(targetPath)
		} else {
			return errclass.ErrPathEscape.WithMessagef("cannot resolve target: %v", err)
		}
	}

	sep := string(filepath.Separator)
	if !strings.HasPrefix(resolvedTarget+sep, resolvedRoot+sep) &&
		resolvedTarget != resolvedRoot {
		return errclass.ErrPathEscape.WithMessagef("path escapes destination root: %s", targetPath)
	}

	return nil
}

// resolveClosestAncestor walks up from path to find the closest existing
// ancestor, resolves it, then appends the remaining components.
func resolveClosestAncestor(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		if os.IsNotExist(err) && dir != path {
			resolved = resolveClosestAncestor(dir)
		} else {
			return filepath.Clean(path)
		}
	}
	return filepath.Join(resolved, base)
}
