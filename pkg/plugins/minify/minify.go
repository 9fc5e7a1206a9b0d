// Package minify shrinks css, html, js, json, svg and xml files in place.
package minify

import (
	"path"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/minify/v2/xml"

	"github.com/toastate/ironsmith/internal/tlogger"
	"github.com/toastate/ironsmith/pkg/builder"
	"github.com/toastate/ironsmith/pkg/file"
)

var mediaTypes = map[string]string{
	".css":  "text/css",
	".html": "text/html",
	".htm":  "text/html",
	".js":   "application/javascript",
	".mjs":  "application/javascript",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".xml":  "text/xml",
}

type Options struct {
	// Assets are left untouched unless IncludeAssets is set.
	IncludeAssets bool
	// SkipTag excludes files carrying this tag. Defaults to "nominify".
	SkipTag string
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
	})
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]json$"), json.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]xml$"), xml.Minify)
	return m
}

// New returns the minify stage.
func New(opts Options) builder.Plugin {
	if opts.SkipTag == "" {
		opts.SkipTag = "nominify"
	}
	m := newMinifier()

	return builder.Sync("minify", func(files file.Map, _ *builder.Builder) error {
		count := 0
		for name, f := range files {
			if f.Asset && !opts.IncludeAssets {
				continue
			}
			if f.Tagged(opts.SkipTag) {
				continue
			}
			mediatype, ok := mediaTypes[strings.ToLower(path.Ext(name))]
			if !ok {
				continue
			}

			out, err := m.Bytes(mediatype, f.Contents)
			if err != nil {
				tlogger.Error("plugin", "minify", "msg", "minification failed", "file", name, "err", err)
				return err
			}
			f.Contents = out
			count++
		}
		tlogger.Debug("plugin", "minify", "msg", "done", "files", count)
		return nil
	})
}
