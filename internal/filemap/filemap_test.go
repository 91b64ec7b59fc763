package filemap_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/snaptyx/snaptyx/internal/filemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Scenario(t *testing.T) {
	got := filemap.Render(filepath.Join("tmp", "proj"), []string{"sub/b.txt", "a.txt"})
	want := strings.Join([]string{
		"File Map for: proj",
		"====================",
		"",
		"├── a.txt",
		"└── sub/",
		"    └── b.txt",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRender_Nested(t *testing.T) {
	rels := []string{"x/y/z.txt", "x/a.txt", "b/c.txt", "top.txt"}
	got := filemap.Render("root", rels)
	want := strings.Join([]string{
		"File Map for: root",
		"====================",
		"",
		"├── b/",
		"│   └── c.txt",
		"├── top.txt",
		"└── x/",
		"    ├── a.txt",
		"    └── y/",
		"        └── z.txt",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRender_PipeContinuesUnderNonLastAncestor(t *testing.T) {
	rels := []string{"a/b/c.txt", "a/b/d.txt", "a/e.txt", "z.txt"}
	lines := strings.Split(filemap.Render("r", rels), "\n")[3:]
	assert.Equal(t, []string{
		"├── a/",
		"│   ├── b/",
		"│   │   ├── c.txt",
		"│   │   └── d.txt",
		"│   └── e.txt",
		"└── z.txt",
	}, lines)
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "File Map for: proj\n====================\n", filemap.Render("proj", nil))
}

func TestRender_Deterministic(t *testing.T) {
	a := filemap.Render("p", []string{"c/d.txt", "a.txt", "b/e.txt", "b/a.txt"})
	b := filemap.Render("p", []string{"b/a.txt", "b/e.txt", "a.txt", "c/d.txt"})
	assert.Equal(t, a, b)
	assert.Equal(t, a, filemap.Render("p", []string{"b/a.txt", "b/e.txt", "a.txt", "c/d.txt"}))
}

func TestRender_LexicographicOrder(t *testing.T) {
	rels := []string{"b.txt", "B.txt", "a.txt", "_x.txt", "10.txt", "9.txt"}
	lines := strings.Split(filemap.Render("p", rels), "\n")[3:]
	assert.Equal(t, []string{
		"├── 10.txt",
		"├── 9.txt",
		"├── B.txt",
		"├── _x.txt",
		"├── a.txt",
		"└── b.txt",
	}, lines)
}

func TestBuild_DuplicatesCollapse(t *testing.T) {
	root := filemap.Build([]string{"a/b.txt", "a/b.txt", "a/c.txt"})
	require.Len(t, root.Children, 1)
	dir := root.Children[0]
	assert.Equal(t, "a", dir.Name)
	assert.True(t, dir.Dir)
	require.Len(t, dir.Children, 2)
	assert.Equal(t, "b.txt", dir.Children[0].Name)
	assert.False(t, dir.Children[0].Dir)
}

func TestBuild_IgnoresEmptyPaths(t *testing.T) {
	root := filemap.Build([]string{"", "/", "x.txt"})
	require.Len(t, root.Children, 1)
	assert.Equal(t, "x.txt", root.Children[0].Name)
}

func TestLines_OnlyAncestorsOfSelectedFiles(t *testing.T) {
	lines := filemap.Build([]string{"deep/er/file.go"}).Lines()
	assert.Equal(t, []string{
		"└── deep/",
		"    └── er/",
		"        └── file.go",
	}, lines)
}
