package ignore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastate/ironsmith/pkg/builder"
)

func TestShouldHandle(t *testing.T) {
	tests := map[string]bool{
		"index.html":             true,
		"css/site.css":           true,
		".git/config":            false,
		"css/_variables.css":     false,
		"html/includes/nav.html": false,
		"blog/.draft.md":         false,
		"my_file.txt":            true,
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, ShouldHandle(path))
		})
	}
}

func TestAugmentSkipsFilesDuringLoad(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"index.html", "_partial.html", "includes/nav.html", ".hidden"} {
		p := filepath.Join(root, "src", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(name), 0644))
	}

	opts := builder.DefaultOptions()
	opts.RootPath = root
	b := builder.NewBuilder(opts)
	Register(b.Augments())

	files, err := b.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, files.Paths())
}
