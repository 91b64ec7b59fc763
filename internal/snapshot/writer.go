package snapshot

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/snaptyx/snaptyx/internal/filemap"
	"github.com/snaptyx/snaptyx/internal/selector"
	"github.com/snaptyx/snaptyx/internal/textenc"
	"github.com/snaptyx/snaptyx/pkg/errclass"
	"github.com/snaptyx/snaptyx/pkg/logging"
	"github.com/snaptyx/snaptyx/pkg/progress"
)

// Options controls Write.
type Options struct {
	Policy selector.Policy
	// Progress is called once per written block. Optional.
	Progress progress.Callback
}

// Result describes a written snapshot.
type Result struct {
	// Root is the absolute source directory.
	Root string `json:"root"`
	// Output is the absolute path of the document. Empty when nothing
	// was written.
	Output string `json:"output,omitempty"`
	// Files lists the relative paths in document order.
	Files []string `json:"files"`
	// Bytes is the size of the document.
	Bytes int64 `json:"bytes"`
	// Empty is set when no file was selected and no output was created.
	Empty bool `json:"empty"`
}

// Write serializes the files selected under sourceDir into the document
// at outputPath, truncating any existing file. When the selection is
// empty no output file is created and Result.Empty is set.
func Write(ctx context.Context, sourceDir, outputPath string, opts Options) (*Result, error) {
	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return nil, errclass.ErrIO.Wrapf(err, "resolve output path %s", outputPath)
	}

	policy := opts.Policy
	policy.Skip = append(append([]string(nil), policy.Skip...), absOut)

	sel, err := selector.Select(sourceDir, policy)
	if err != nil {
		return nil, err
	}

	result := &Result{Root: sel.Root, Files: sel.RelPaths()}
	if sel.Empty() {
		logging.Warn("no files selected, snapshot not written", map[string]any{"source": sel.Root})
		result.Empty = true
		return result, nil
	}

	f, err := os.Create(absOut)
	if err != nil {
		return nil, errclass.ErrIO.Wrapf(err, "create output %s", outputPath)
	}
	defer f.Close()

	cw := &countingWriter{w: f}
	bw := bufio.NewWriter(cw)

	if err := writeMap(bw, sel); err != nil {
		return nil, errclass.ErrIO.Wrap(err, "write file map")
	}

	counter := progress.New("snapshot", len(sel.Files), opts.Progress)
	for _, file := range sel.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := writeBlock(bw, file); err != nil {
			return nil, errclass.ErrIO.Wrapf(err, "write block %s", file.Rel)
		}
		counter.Step(file.Rel)
	}

	if err := bw.Flush(); err != nil {
		return nil, errclass.ErrIO.Wrap(err, "flush output")
	}
	if err := f.Close(); err != nil {
		return nil, errclass.ErrIO.Wrap(err, "close output")
	}

	result.Output = absOut
	result.Bytes = cw.n
	logging.Info("snapshot written", map[string]any{
		"output": absOut,
		"files":  len(result.Files),
		"bytes":  result.Bytes,
	})
	return result, nil
}

func writeMap(w *bufio.Writer, sel *selector.Selection) error {
	return writeStrings(w,
		MapStart+"\n",
		filemap.Render(sel.Root, sel.RelPaths()),
		"\n\n"+MapEnd+"\n\n",
	)
}

func writeBlock(w *bufio.Writer, file selector.File) error {
	return writeStrings(w,
		StartLine(file.Rel)+"\n\n",
		ReadContent(file),
		"\n"+EndLine(file.Rel)+"\n\n",
	)
}

// writeStrings writes parts in order and stops at the first error.
func writeStrings(w *bufio.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := w.WriteString(p); err != nil {
			return err
		}
	}
	return nil
}

// ReadContent returns the text recorded for file. It never fails: an
// unreadable file becomes an inline error body.
func ReadContent(file selector.File) string {
	text, err := textenc.ReadText(file.Path)
	if err != nil {
		logging.Warn("cannot read file", map[string]any{"path": file.Rel, "error": err.Error()})
		return "Error reading file: " + err.Error()
	}
	logging.Debug("read file", map[string]any{"path": file.Rel, "encoding": text.Encoding})
	return text.Content
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
