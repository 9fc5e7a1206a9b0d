package minify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastate/ironsmith/pkg/builder"
	"github.com/toastate/ironsmith/pkg/file"
)

func TestMinify(t *testing.T) {
	b := builder.NewBuilder(builder.Options{RootPath: t.TempDir(), SkipSource: true})
	b.AddFile("css/site.css", file.New([]byte("body {\n  color : red ;\n}\n"), "css/site.css", file.Options{}))
	b.AddFile("data.json", file.New([]byte("{ \"a\" : 1 }"), "data.json", file.Options{}))
	b.AddFile("notes.txt", file.New([]byte("keep   spacing"), "notes.txt", file.Options{}))
	b.AddFile("vendor.css", file.New([]byte("a {  }"), "vendor.css", file.Options{Asset: true}))
	b.AddFile("raw.css", file.New([]byte("a {  }"), "raw.css", file.Options{Tags: []string{"nominify"}}))
	b.Use(New(Options{}))

	files, err := b.Process(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "body{color:red}", string(files["css/site.css"].Contents))
	assert.Equal(t, `{"a":1}`, string(files["data.json"].Contents))
	assert.Equal(t, "keep   spacing", string(files["notes.txt"].Contents))
	assert.Equal(t, "a {  }", string(files["vendor.css"].Contents))
	assert.Equal(t, "a {  }", string(files["raw.css"].Contents))
}

func TestMinifyIncludeAssets(t *testing.T) {
	b := builder.NewBuilder(builder.Options{RootPath: t.TempDir(), SkipSource: true})
	b.AddFile("vendor.css", file.New([]byte("a {  color: blue; }"), "vendor.css", file.Options{Asset: true}))
	b.Use(New(Options{IncludeAssets: true}))

	files, err := b.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a{color:blue}", string(files["vendor.css"].Contents))
}
