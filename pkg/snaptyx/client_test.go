package snaptyx_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaptyx/snaptyx/pkg/config"
	"github.com/snaptyx/snaptyx/pkg/errclass"
	"github.com/snaptyx/snaptyx/pkg/snaptyx"
)

func setupSource(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "src")
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func TestCreateAndRestore(t *testing.T) {
	src := setupSource(t, map[string]string{
		"main.go":        "package main\n",
		"docs/readme.md": "# docs\n",
		"dist/app.zip":   "PK",
	})
	out := filepath.Join(t.TempDir(), "snap.txt")
	ctx := context.Background()

	res, err := snaptyx.CreateSnapshot(ctx, src, out, snaptyx.CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/readme.md", "main.go"}, res.Files)

	dest := t.TempDir()
	rres, err := snaptyx.RestoreSnapshot(ctx, out, dest, snaptyx.RestoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/readme.md", "main.go"}, rres.Files)

	data, err := os.ReadFile(filepath.Join(dest, "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))
	assert.NoFileExists(t, filepath.Join(dest, "dist", "app.zip"))
}

func TestCreateSnapshot_UsesSourceConfig(t *testing.T) {
	src := setupSource(t, map[string]string{
		"a.txt":      "a",
		"a.log":      "log",
		"gen/x.txt":  "x",
		"tmp/y.txt":  "y",
		".skipme":    "tmp/\n",
		"keep/z.txt": "z",
	})
	cfg := config.Default()
	cfg.Exclude.Extensions = append(cfg.Exclude.Extensions, ".log")
	cfg.Exclude.Directories = append(cfg.Exclude.Directories, "gen")
	cfg.IgnoreFile = ".skipme"
	require.NoError(t, config.Save(src, cfg))

	res, err := snaptyx.CreateSnapshot(context.Background(), src, filepath.Join(t.TempDir(), "s.txt"), snaptyx.CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{".skipme", ".snaptyx.yaml", "a.txt", "keep/z.txt"}, res.Files)
}

func TestCreateSnapshot_OptionsExtendConfig(t *testing.T) {
	src := setupSource(t, map[string]string{
		"a.txt":        "a",
		"b.md":         "b",
		"vendor/c.txt": "c",
		"out/d.txt":    "d",
	})

	res, err := snaptyx.CreateSnapshot(context.Background(), src, filepath.Join(t.TempDir(), "s.txt"), snaptyx.CreateOptions{
		Config:            config.Default(),
		ExcludeExtensions: []string{".md"},
		ExcludeDirs:       []string{"vendor"},
		Patterns:          []string{"out/"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, res.Files)
}

func TestCreateSnapshot_EmptySelection(t *testing.T) {
	src := setupSource(t, map[string]string{"x.zip": "PK"})
	out := filepath.Join(t.TempDir(), "s.txt")

	res, err := snaptyx.CreateSnapshot(context.Background(), src, out, snaptyx.CreateOptions{})
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.NoFileExists(t, out)
}

func TestCreateSnapshot_InvalidSource(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := snaptyx.CreateSnapshot(context.Background(), file, filepath.Join(t.TempDir(), "s.txt"), snaptyx.CreateOptions{})
	assert.ErrorIs(t, err, errclass.ErrInvalidSource)

	_, err = snaptyx.CreateSnapshot(context.Background(), filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "s.txt"), snaptyx.CreateOptions{})
	assert.ErrorIs(t, err, errclass.ErrInvalidSource)
}

func TestCreateSnapshot_BadConfig(t *testing.T) {
	src := setupSource(t, map[string]string{
		"a.txt":         "a",
		".snaptyx.yaml": "exclude: [unclosed",
	})

	_, err := snaptyx.CreateSnapshot(context.Background(), src, filepath.Join(t.TempDir(), "s.txt"), snaptyx.CreateOptions{})
	assert.ErrorIs(t, err, errclass.ErrConfigInvalid)
}

func TestRestoreSnapshot_DryRun(t *testing.T) {
	src := setupSource(t, map[string]string{"a.txt": "a"})
	out := filepath.Join(t.TempDir(), "s.txt")
	ctx := context.Background()
	_, err := snaptyx.CreateSnapshot(ctx, src, out, snaptyx.CreateOptions{})
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "dest")
	res, err := snaptyx.RestoreSnapshot(ctx, out, dest, snaptyx.RestoreOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, res.Files)
	assert.NoDirExists(t, dest)
}

func TestRestoreSnapshot_Missing(t *testing.T) {
	_, err := snaptyx.RestoreSnapshot(context.Background(), filepath.Join(t.TempDir(), "none.txt"), t.TempDir(), snaptyx.RestoreOptions{})
	assert.ErrorIs(t, err, errclass.ErrInvalidSnapshot)
}

func TestInspect(t *testing.T) {
	src := setupSource(t, map[string]string{"a.txt": "one\ntwo\n", "b/c.txt": "x"})
	out := filepath.Join(t.TempDir(), "s.txt")
	_, err := snaptyx.CreateSnapshot(context.Background(), src, out, snaptyx.CreateOptions{})
	require.NoError(t, err)

	entries, err := snaptyx.Inspect(out)
	require.NoError(t, err)
	assert.Equal(t, []snaptyx.Entry{
		{Path: "a.txt", Bytes: 8, Lines: 2},
		{Path: "b/c.txt", Bytes: 1, Lines: 1},
	}, entries)
}

func TestTree(t *testing.T) {
	src := setupSource(t, map[string]string{"a.txt": "hello", "sub/b.txt": "world", "c.rar": "x"})

	tree, rels, err := snaptyx.Tree(src, snaptyx.CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, rels)
	assert.Equal(t, "File Map for: src\n====================\n\n├── a.txt\n└── sub/\n    └── b.txt", tree)
}

func TestDiff(t *testing.T) {
	src := setupSource(t, map[string]string{"a.txt": "a", "b.txt": "b"})
	out := filepath.Join(t.TempDir(), "s.txt")
	ctx := context.Background()
	_, err := snaptyx.CreateSnapshot(ctx, src, out, snaptyx.CreateOptions{})
	require.NoError(t, err)

	res, err := snaptyx.Diff(ctx, out, src, snaptyx.CreateOptions{})
	require.NoError(t, err)
	assert.True(t, res.Clean())

	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("changed"), 0644))
	require.NoError(t, os.Remove(filepath.Join(src, "b.txt")))
	require.NoError(t, os.WriteFile(filepath.Join(src, "c.txt"), []byte("c"), 0644))

	res, err = snaptyx.Diff(ctx, out, src, snaptyx.CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalAdded)
	assert.Equal(t, 1, res.TotalRemoved)
	assert.Equal(t, 1, res.TotalModified)
}

func TestCheck(t *testing.T) {
	src := setupSource(t, map[string]string{"a.txt": "a"})
	out := filepath.Join(t.TempDir(), "s.txt")
	_, err := snaptyx.CreateSnapshot(context.Background(), src, out, snaptyx.CreateOptions{})
	require.NoError(t, err)

	res, err := snaptyx.Check(out, true)
	require.NoError(t, err)
	assert.True(t, res.Healthy)
	assert.Equal(t, 1, res.Blocks)
}
