package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastate/ironsmith/pkg/file"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, contents := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(contents), 0644))
	}
}

func TestLoadDirectoryFollowsSymlinkedRoot(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "hi", "sub/b.txt": "bye"})
	link := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.Symlink(dir, link))

	files, err := LoadDirectory(context.Background(), link, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, files.Paths())
	assert.Equal(t, []byte("bye"), files["sub/b.txt"].Contents)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "hi", "sub/b.txt": "bye"})

	files, err := LoadDirectory(context.Background(), dir, LoadOptions{})
	require.NoError(t, err)

	require.Equal(t, []string{"a.txt", "sub/b.txt"}, files.Paths())
	assert.Equal(t, []byte("hi"), files["a.txt"].Contents)
	assert.Equal(t, []byte("bye"), files["sub/b.txt"].Contents)
	assert.False(t, files["a.txt"].Asset)
	assert.False(t, files["sub/b.txt"].Asset)
	assert.Equal(t, "sub/b.txt", files["sub/b.txt"].Path)
}

func TestLoadDirectoryPropagatesOptions(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "1", "b.txt": "2"})

	files, err := LoadDirectory(context.Background(), dir, LoadOptions{
		Options: file.Options{Asset: true, Tags: []string{"static"}, Attrs: map[string]any{"origin": "cdn"}},
	})
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, f := range files {
		assert.True(t, f.Asset)
		assert.True(t, f.Tagged("static"))
		origin, _ := f.Attr("origin")
		assert.Equal(t, "cdn", origin)
	}

	// Each file owns its own tag set.
	files["a.txt"].Tag("only-a")
	assert.False(t, files["b.txt"].Tagged("only-a"))
}

func TestLoadRelativeNormalization(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"post.md": "x"})

	tests := []struct {
		prefix string
		want   string
	}{
		{"/blog/", "blog/post.md"},
		{"blog", "blog/post.md"},
		{"blog/", "blog/post.md"},
		{"/nested/blog", "nested/blog/post.md"},
		{"", "post.md"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			files, err := LoadDirectory(context.Background(), dir, LoadOptions{LoadRelative: tt.prefix})
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, files.Paths())
		})
	}
}

func TestLoadDirectorySkipsRejectedFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"keep.md": "k", "draft.md": "d"})

	reg := file.NewRegistry()
	var reached []string
	reg.Add("no-drafts", func(_ context.Context, f *file.File) error {
		if strings.HasPrefix(f.Path, "draft") {
			return errors.New("draft")
		}
		return nil
	})
	reg.Add("trace", func(_ context.Context, f *file.File) error {
		reached = append(reached, f.Path)
		return nil
	})

	files, err := LoadDirectory(context.Background(), dir, LoadOptions{Augments: reg})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.md"}, files.Paths())
	assert.Equal(t, []string{"keep.md"}, reached)
}

func TestLoadDirectoryAugmentSeesPrefixedPath(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.md": "x"})

	reg := file.NewRegistry()
	var seen string
	reg.Add("path", func(_ context.Context, f *file.File) error {
		seen = f.Path
		return nil
	})

	_, err := LoadDirectory(context.Background(), dir, LoadOptions{LoadRelative: "docs", Augments: reg})
	require.NoError(t, err)
	assert.Equal(t, "docs/a.md", seen)
}

func TestLoadDirectoryMissing(t *testing.T) {
	_, err := LoadDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMergeCollisionLaterWins(t *testing.T) {
	assets := t.TempDir()
	source := t.TempDir()
	writeTree(t, assets, map[string]string{"logo.svg": "svg", "shared.txt": "asset"})
	writeTree(t, source, map[string]string{"index.html": "html", "shared.txt": "source"})

	a, err := LoadDirectory(context.Background(), assets, LoadOptions{Options: file.Options{Asset: true}})
	require.NoError(t, err)
	s, err := LoadDirectory(context.Background(), source, LoadOptions{})
	require.NoError(t, err)

	merged := make(file.Map).Merge(a).Merge(s)
	assert.Equal(t, []string{"index.html", "logo.svg", "shared.txt"}, merged.Paths())
	assert.True(t, merged["logo.svg"].Asset)
	assert.Equal(t, []byte("source"), merged["shared.txt"].Contents)
	assert.False(t, merged["shared.txt"].Asset)
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "", normalizePrefix(""))
	assert.Equal(t, "", normalizePrefix("/"))
	assert.Equal(t, "blog/", normalizePrefix("/blog/"))
	assert.Equal(t, "blog/", normalizePrefix("blog"))
}
