// Package textenc guesses the text encoding of files and decodes them to
// UTF-8 without ever failing on malformed input.
package textenc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/exp/mmap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// SniffLen is the number of leading bytes examined by detection.
const SniffLen = 20000

// Default is returned when no better guess is available.
const Default = "utf-8"

const (
	// minHighBytes is the number of non-ASCII bytes a sample needs before
	// statistical detection is trusted over the single-byte fallback.
	minHighBytes = 16
	// minConfidence is the lowest detector confidence (0-100) accepted.
	minConfidence = 30
)

// Text is a file's content decoded to UTF-8.
type Text struct {
	Encoding string
	Content  string
}

// Detect returns a best-guess encoding label for the file at path. It
// never fails: unreadable files report Default.
func Detect(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return Default
	}
	defer f.Close()

	head := make([]byte, SniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Default
	}
	return DetectBytes(head[:n])
}

// DetectBytes returns a best-guess encoding label for head. A byte order
// mark or valid UTF-8 decides immediately; other input goes through
// statistical detection before falling back to windows-1252.
func DetectBytes(head []byte) string {
	if len(head) == 0 {
		return Default
	}
	sample := head
	if len(head) >= SniffLen {
		// the window may end inside a multi-byte sequence
		sample = trimPartialRune(head[:SniffLen])
	}

	_, name, certain := charset.DetermineEncoding(sample, "text/plain")
	if certain && name != "" {
		return name
	}
	if utf8.Valid(sample) {
		return Default
	}
	if label := detectStatistical(sample); label != "" {
		return label
	}
	if name == "" {
		return Default
	}
	return name
}

// detectStatistical runs the character-frequency detector and returns
// the canonical label of its best guess, or "" when the sample carries
// too little evidence or the guess cannot be decoded.
func detectStatistical(sample []byte) string {
	high := 0
	for _, b := range sample {
		if b >= utf8.RuneSelf {
			high++
		}
	}
	if high < minHighBytes {
		return ""
	}

	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil || res.Confidence < minConfidence {
		return ""
	}
	return canonicalLabel(res.Charset)
}

// canonicalLabel maps a detector charset name to the WHATWG name used by
// htmlindex, or "" when no decoder exists for it.
func canonicalLabel(detected string) string {
	label := strings.ToLower(detected)
	switch label {
	case "gb-18030":
		label = "gb18030"
	case "utf-8":
		return Default
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return ""
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return ""
	}
	return name
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off by the sniff
// window.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		c := b[i]
		if c < utf8.RuneSelf {
			return b
		}
		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			return b
		}
	}
	return b
}

// Decode converts data from the named encoding to UTF-8. Unknown labels
// fall back to UTF-8; invalid sequences become U+FFFD and a leading byte
// order mark is dropped.
func Decode(data []byte, label string) string {
	dec := decoderFor(label)
	out, err := dec.Bytes(data)
	if err != nil {
		out = []byte(strings.ToValidUTF8(string(data), "\uFFFD"))
	}
	return strings.TrimPrefix(string(out), "\uFEFF")
}

func decoderFor(label string) *encoding.Decoder {
	switch strings.ToLower(label) {
	case "", "utf-8", "utf8", "ascii", "us-ascii":
		return unicode.UTF8BOM.NewDecoder()
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return unicode.UTF8BOM.NewDecoder()
	}
	return enc.NewDecoder()
}

// ReadText maps the file at path, detects its encoding from the leading
// SniffLen bytes and decodes the whole content. Only failures to open or
// read the file are returned.
func ReadText(path string) (Text, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return Text{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if len(data) > 0 {
		if _, err := r.ReadAt(data, 0); err != nil && !errors.Is(err, io.EOF) {
			return Text{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	label := DetectBytes(data)
	return Text{Encoding: label, Content: Decode(data, label)}, nil
}
