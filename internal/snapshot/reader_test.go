package snapshot_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaptyx/snaptyx/internal/snapshot"
	"github.com/snaptyx/snaptyx/pkg/errclass"
)

const mapHeader = "--- Start of File Map ---\nFile Map for: p\n====================\n\n└── a.txt\n\n--- End of File Map ---\n\n"

func parseAll(t *testing.T, doc string) []snapshot.Block {
	t.Helper()
	var blocks []snapshot.Block
	require.NoError(t, snapshot.Parse(strings.NewReader(doc), func(b snapshot.Block) error {
		blocks = append(blocks, b)
		return nil
	}))
	return blocks
}

func block(rel, content string) string {
	return snapshot.StartLine(rel) + "\n\n" + content + "\n" + snapshot.EndLine(rel) + "\n\n"
}

func TestParse_ContentRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no trailing newline", "hello"},
		{"trailing newline", "hello\n"},
		{"empty", ""},
		{"only newline", "\n"},
		{"blank lines", "\n\nx\n\n"},
		{"indentation kept", "  if x:\n\treturn y\n"},
		{"trailing spaces kept", "a   \nb\t\n"},
		{"crlf content", "one\r\ntwo\r\n"},
		{"separator-like first line", "\nfirst line was blank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := parseAll(t, mapHeader+block("a.txt", tt.content))
			require.Len(t, blocks, 1)
			assert.Equal(t, "a.txt", blocks[0].Path)
			assert.Equal(t, tt.content, blocks[0].Content)
		})
	}
}

func TestParse_MultipleBlocksInOrder(t *testing.T) {
	doc := mapHeader + block("b.txt", "B") + block("a/c.txt", "C")
	blocks := parseAll(t, doc)
	require.Len(t, blocks, 2)
	assert.Equal(t, "b.txt", blocks[0].Path)
	assert.Equal(t, "a/c.txt", blocks[1].Path)
	assert.Equal(t, "B", blocks[0].Content)
	assert.Equal(t, "C", blocks[1].Content)
	assert.Equal(t, 9, blocks[0].Line)
}

func TestParse_IgnoresLinesBeforeAndInsideMap(t *testing.T) {
	doc := "preamble\n" + snapshot.StartLine("fake.txt") + "\n" + mapHeader + block("a.txt", "x")
	blocks := parseAll(t, doc)
	require.Len(t, blocks, 1)
	assert.Equal(t, "a.txt", blocks[0].Path)
}

func TestParse_NoMapYieldsNothing(t *testing.T) {
	assert.Empty(t, parseAll(t, block("a.txt", "x")))
}

func TestParse_StartWhileOpenFlushesPrevious(t *testing.T) {
	doc := mapHeader +
		snapshot.StartLine("a.txt") + "\n\nfirst\n" +
		snapshot.StartLine("b.txt") + "\n\nsecond\n" + snapshot.EndLine("b.txt") + "\n"
	blocks := parseAll(t, doc)
	require.Len(t, blocks, 2)
	assert.Equal(t, "first", blocks[0].Content)
	assert.Equal(t, "second", blocks[1].Content)
	assert.False(t, blocks[0].Terminated)
	assert.True(t, blocks[1].Terminated)
}

func TestParse_MissingEndFlushesAtEOF(t *testing.T) {
	doc := mapHeader + snapshot.StartLine("a.txt") + "\n\nline one\nline two"
	blocks := parseAll(t, doc)
	require.Len(t, blocks, 1)
	assert.Equal(t, "line one\nline two", blocks[0].Content)
	assert.False(t, blocks[0].Terminated)
}

func TestParse_StrayEndAndTextIgnored(t *testing.T) {
	doc := mapHeader + "stray text\n" + snapshot.EndLine("x.txt") + "\n" + block("a.txt", "x")
	blocks := parseAll(t, doc)
	require.Len(t, blocks, 1)
	assert.Equal(t, "x", blocks[0].Content)
}

func TestParse_EndPathNotReparsed(t *testing.T) {
	doc := mapHeader + snapshot.StartLine("a.txt") + "\n\nbody\n" + snapshot.EndLine("other.txt") + "\n"
	blocks := parseAll(t, doc)
	require.Len(t, blocks, 1)
	assert.Equal(t, "a.txt", blocks[0].Path)
	assert.Equal(t, "body", blocks[0].Content)
}

func TestParse_CRLFDocument(t *testing.T) {
	doc := strings.ReplaceAll(mapHeader+block("a.txt", "one\ntwo\n"), "\n", "\r\n")
	blocks := parseAll(t, doc)
	require.Len(t, blocks, 1)
	assert.Equal(t, "a.txt", blocks[0].Path)
	assert.Equal(t, "one\r\ntwo\r\n", blocks[0].Content)
}

func TestParse_DelimiterInContentSplitsBlock(t *testing.T) {
	content := "before\n" + snapshot.EndLine("a.txt") + "\nafter"
	blocks := parseAll(t, mapHeader+block("a.txt", content))
	require.Len(t, blocks, 1)
	assert.Equal(t, "before", blocks[0].Content)
}

func TestParse_PathWithDelimiterSuffixIsMangled(t *testing.T) {
	blocks := parseAll(t, mapHeader+block("notes ---draft.txt", "x"))
	require.Len(t, blocks, 1)
	assert.Equal(t, "notesdraft.txt", blocks[0].Path)
}

func TestParse_StartWithoutSuffixIsContent(t *testing.T) {
	doc := mapHeader + snapshot.StartLine("a.txt") + "\n\n--- Start of: not a delimiter\n" + snapshot.EndLine("a.txt") + "\n"
	blocks := parseAll(t, doc)
	require.Len(t, blocks, 1)
	assert.Equal(t, "--- Start of: not a delimiter", blocks[0].Content)
}

func TestParse_LongLine(t *testing.T) {
	long := strings.Repeat("x", 1<<20)
	blocks := parseAll(t, mapHeader+block("a.txt", long))
	require.Len(t, blocks, 1)
	assert.Equal(t, long, blocks[0].Content)
}

func TestParse_CallbackErrorStops(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := snapshot.Parse(strings.NewReader(mapHeader+block("a.txt", "a")+block("b.txt", "b")), func(snapshot.Block) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestParse_ReadError(t *testing.T) {
	err := snapshot.Parse(failingReader{}, func(snapshot.Block) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, errclass.ErrInvalidSnapshot)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestParseDocument_Summary(t *testing.T) {
	doc := snapshot.StartLine("early.txt") + "\n" + mapHeader + block("a.txt", "x")
	sum, err := snapshot.ParseDocument(strings.NewReader(doc), func(snapshot.Block) error { return nil })
	require.NoError(t, err)
	assert.True(t, sum.HasMap)
	assert.Equal(t, 1, sum.IgnoredStarts)
	assert.Equal(t, []string{"File Map for: p", "====================", "", "└── a.txt", ""}, sum.Map)
	assert.Equal(t, strings.Count(doc, "\n"), sum.Lines)
}

func TestParseDocument_NoMap(t *testing.T) {
	sum, err := snapshot.ParseDocument(strings.NewReader("just text\r\n"), func(snapshot.Block) error { return nil })
	require.NoError(t, err)
	assert.False(t, sum.HasMap)
	assert.Empty(t, sum.Map)
	assert.Equal(t, 1, sum.Lines)
}
