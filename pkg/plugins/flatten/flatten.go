// Package flatten lifts files out of a source folder into the output root,
// e.g. html/about.html is written as about.html.
package flatten

import (
	"strings"

	"github.com/toastate/ironsmith/internal/tlogger"
	"github.com/toastate/ironsmith/pkg/builder"
	"github.com/toastate/ironsmith/pkg/file"
)

type Options struct {
	// Folder whose contents move to the root, e.g. "html".
	Folder string
	// Drop lists sub folders of Folder removed from the output, e.g. "vars".
	Drop []string
}

// RewritePath returns the output path for p, or "" when p must be dropped.
func (o Options) RewritePath(p string) string {
	folder := strings.Trim(o.Folder, "/")
	if folder == "" || !strings.HasPrefix(p, folder+"/") {
		return p
	}
	p = p[len(folder)+1:]
	for _, d := range o.Drop {
		d = strings.Trim(d, "/")
		if p == d || strings.HasPrefix(p, d+"/") {
			return ""
		}
	}
	return p
}

func New(opts Options) builder.Plugin {
	return builder.Sync("flatten", func(files file.Map, _ *builder.Builder) error {
		for _, name := range files.Paths() {
			out := opts.RewritePath(name)
			switch {
			case out == name:
				continue
			case out == "":
				delete(files, name)
				tlogger.Debug("plugin", "flatten", "msg", "dropped", "file", name)
			default:
				if _, taken := files[out]; taken {
					tlogger.Warn("plugin", "flatten", "msg", "overwriting existing file", "file", name, "target", out)
				}
				files.Rename(name, out)
				tlogger.Debug("plugin", "flatten", "file", name, "renamed", out)
			}
		}
		return nil
	})
}
