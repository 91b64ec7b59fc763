package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/snaptyx/snaptyx/pkg/color"
)

// maxSuggestions bounds the "Did you mean" list.
const maxSuggestions = 3

// suggestSnapshotFiles provides helpful suggestions when a snapshot file
// is not found. Candidates are the regular files next to the requested
// path whose names share a prefix or substring with it.
func suggestSnapshotFiles(path string) string {
	dir := filepath.Dir(path)
	base := strings.ToLower(filepath.Base(path))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Sprintf("Run %s to create one.", color.Code("snaptyx create <source_directory> -o "+path))
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	// Try to find close matches by name
	var matches []string
	for _, name := range names {
		if stem != "" && strings.HasPrefix(strings.ToLower(name), stem) {
			matches = append(matches, name)
		}
	}

	// If no prefix matches, try substring
	if len(matches) == 0 {
		for _, name := range names {
			if stem != "" && strings.Contains(strings.ToLower(name), stem) {
				matches = append(matches, name)
			}
		}
	}

	if len(matches) > 0 {
		if len(matches) > maxSuggestions {
			matches = matches[:maxSuggestions]
		}
		for i, m := range matches {
			matches[i] = color.Path(filepath.Join(dir, m))
		}
		hint := "Did you mean"
		if len(matches) > 1 {
			hint += " one of"
		}
		return fmt.Sprintf("%s: %s?", hint, strings.Join(matches, ", "))
	}

	return fmt.Sprintf("Run %s to create one.", color.Code("snaptyx create <source_directory> -o "+path))
}

// formatSnapshotNotFoundError formats a missing snapshot file error with suggestions.
func formatSnapshotNotFoundError(path string) string {
	var sb strings.Builder

	sb.WriteString(color.Error(fmt.Sprintf("snapshot file '%s' not found", path)))
	sb.WriteString("\n")

	// Add suggestions
	suggestion := suggestSnapshotFiles(path)
	sb.WriteString(color.Dim("  " + suggestion))

	return sb.String()
}

// formatEmptySelection explains why nothing was written.
func formatEmptySelection(source string) string {
	var sb strings.Builder

	sb.WriteString(color.Warning(fmt.Sprintf("no files selected in %s; snapshot not written", source)))
	sb.WriteString("\n")
	sb.WriteString(color.Dim(fmt.Sprintf("  Run %s to see what the exclusions keep.", color.Code("snaptyx tree "+source))))

	return sb.String()
}
