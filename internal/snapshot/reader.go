package snapshot

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/snaptyx/snaptyx/pkg/errclass"
)

// Block is one file recovered from a document. Path is taken verbatim
// from the start delimiter and has not been validated.
type Block struct {
	Path    string
	Content string
	// Line is the 1-based line number of the start delimiter.
	Line int
	// Terminated is false when the block was closed by the next start
	// delimiter or by the end of input instead of its end delimiter.
	Terminated bool
}

// Summary holds document-level facts gathered while parsing.
type Summary struct {
	// HasMap is set once a map start marker was seen.
	HasMap bool
	// Map holds the lines between the map markers, CR removed.
	Map []string
	// IgnoredStarts counts start delimiters seen before the map ended.
	IgnoredStarts int
	// Lines is the number of lines read.
	Lines int
}

type parseState int

const (
	beforeMap parseState = iota
	inMap
	afterMap
)

type parser struct {
	sum     Summary
	state   parseState
	open    bool
	block   Block
	lines   []string
	sepNext bool
	fn      func(Block) error
}

// Parse reads a document from r and calls fn once per file block, in
// document order. Parsing is best effort: a start delimiter while a block
// is open closes that block, and a block still open at end of input is
// emitted as is. Read failures are reported as ErrInvalidSnapshot; an
// error returned by fn stops parsing and is returned unchanged.
func Parse(r io.Reader, fn func(Block) error) error {
	_, err := ParseDocument(r, fn)
	return err
}

// ParseDocument is Parse that also returns a Summary of the document.
func ParseDocument(r io.Reader, fn func(Block) error) (*Summary, error) {
	p := &parser{fn: fn}
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errclass.ErrInvalidSnapshot.Wrap(err, "read snapshot")
		}
		if line != "" {
			lineNo++
			if perr := p.feed(strings.TrimSuffix(line, "\n"), lineNo); perr != nil {
				return nil, perr
			}
		}
		if err != nil {
			break
		}
	}
	p.sum.Lines = lineNo
	if err := p.flush(false, false); err != nil {
		return nil, err
	}
	return &p.sum, nil
}

func (p *parser) feed(line string, lineNo int) error {
	// Delimiters match with a trailing CR removed; content keeps it.
	delim := strings.TrimSuffix(line, "\r")

	switch delim {
	case MapStart:
		p.state = inMap
		p.sum.HasMap = true
		p.sum.Map = p.sum.Map[:0]
		return nil
	case MapEnd:
		p.state = afterMap
		return nil
	}
	switch p.state {
	case inMap:
		p.sum.Map = append(p.sum.Map, delim)
		return nil
	case beforeMap:
		if isStartLine(delim) {
			p.sum.IgnoredStarts++
		}
		return nil
	}

	switch {
	case isStartLine(delim):
		if err := p.flush(false, false); err != nil {
			return err
		}
		p.open = true
		p.sepNext = true
		p.block = Block{Path: pathFromStartLine(delim), Line: lineNo}
		p.lines = p.lines[:0]
	case isEndLine(delim):
		if p.open {
			return p.flush(true, len(delim) < len(line))
		}
	case p.open:
		if p.sepNext {
			p.sepNext = false
			if delim == "" {
				return nil
			}
		}
		p.lines = append(p.lines, line)
	}
	return nil
}

// flush emits the open block, if any. ended is set when the block's end
// delimiter closed it. The writer terminates every body
// with one newline before the end delimiter; joining the lines drops
// exactly that one. When the end delimiter itself carried a CR the
// document was converted to CRLF, and the CR of that newline goes too.
func (p *parser) flush(ended, crlf bool) error {
	if !p.open {
		return nil
	}
	if crlf && len(p.lines) > 0 {
		last := len(p.lines) - 1
		p.lines[last] = strings.TrimSuffix(p.lines[last], "\r")
	}
	p.block.Content = strings.Join(p.lines, "\n")
	p.block.Terminated = ended
	blk := p.block
	p.open = false
	p.sepNext = false
	p.block = Block{}
	p.lines = p.lines[:0]
	return p.fn(blk)
}
