package flatten

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastate/ironsmith/pkg/builder"
	"github.com/toastate/ironsmith/pkg/file"
)

func TestRewritePath(t *testing.T) {
	opts := Options{Folder: "html", Drop: []string{"vars"}}

	assert.Equal(t, "about.html", opts.RewritePath("html/about.html"))
	assert.Equal(t, "blog/a.html", opts.RewritePath("html/blog/a.html"))
	assert.Equal(t, "", opts.RewritePath("html/vars/common.json"))
	assert.Equal(t, "css/site.css", opts.RewritePath("css/site.css"))
	assert.Equal(t, "htmlx/a.html", opts.RewritePath("htmlx/a.html"))
	assert.Equal(t, "a", Options{}.RewritePath("a"))
}

func TestFlattenPlugin(t *testing.T) {
	b := builder.NewBuilder(builder.Options{RootPath: t.TempDir(), SkipSource: true})
	for _, p := range []string{"html/index.html", "html/vars/common.json", "css/site.css"} {
		b.AddFile(p, file.New([]byte(p), p, file.Options{}))
	}
	b.Use(New(Options{Folder: "html", Drop: []string{"vars"}}))

	files, err := b.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"css/site.css", "index.html"}, files.Paths())
	assert.Equal(t, "index.html", files["index.html"].Path)
	assert.Equal(t, []byte("html/index.html"), files["index.html"].Contents)
}
