// Package snapshot writes a directory tree to a single text document and
// restores a directory tree from one.
//
// A document starts with a map section bracketed by MapStart and MapEnd,
// followed by one block per file:
//
//	--- Start of: <rel> ---
//
//	<content>
//	--- End of: <rel> ---
//
// Delimiters are matched as literal lines. There is no escaping, so file
// content that contains a delimiter line, or a path that contains the
// delimiter suffix, does not survive a round trip.
package snapshot

import "strings"

// Delimiter lines of the document format.
const (
	MapStart = "--- Start of File Map ---"
	MapEnd   = "--- End of File Map ---"

	FileStartPrefix = "--- Start of: "
	FileEndPrefix   = "--- End of: "
	DelimSuffix     = " ---"
)

// StartLine returns the start delimiter for rel, without newline.
func StartLine(rel string) string {
	return FileStartPrefix + rel + DelimSuffix
}

// EndLine returns the end delimiter for rel, without newline.
func EndLine(rel string) string {
	return FileEndPrefix + rel + DelimSuffix
}

func isStartLine(line string) bool {
	return strings.HasPrefix(line, FileStartPrefix) && strings.HasSuffix(line, DelimSuffix)
}

func isEndLine(line string) bool {
	return strings.HasPrefix(line, FileEndPrefix)
}

// pathFromStartLine strips the prefix and every DelimSuffix occurrence,
// which is how existing documents have always been read back. A path
// containing " ---" loses those characters.
func pathFromStartLine(line string) string {
	return strings.ReplaceAll(strings.TrimPrefix(line, FileStartPrefix), DelimSuffix, "")
}
