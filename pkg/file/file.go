// Package file holds the in-memory document model that flows through an
// ironsmith pipeline: File, its tag set, the augment Registry run at
// construction time, and Map, the path-keyed collection handed to plugins.
package file

import (
	"sort"

	"github.com/toastate/ironsmith/internal/tlogger"
)

// Options seeds a new File. Tags go into the tag set, Attrs are shallow-copied
// into File.Attrs.
type Options struct {
	Tags  []string
	Asset bool
	Attrs map[string]any
}

// File is a single document. Path is relative to the root it was loaded from
// and uses forward slashes.
type File struct {
	Path     string
	Contents []byte
	Asset    bool
	Attrs    map[string]any

	tags map[string]struct{}
}

// New builds a File without running any augment.
func New(contents []byte, path string, opts Options) *File {
	tlogger.Debug("msg", "New file created", "path", path, "asset", opts.Asset, "tags", len(opts.Tags))

	f := &File{
		Path:     path,
		Contents: contents,
		Asset:    opts.Asset,
		Attrs:    make(map[string]any, len(opts.Attrs)),
		tags:     make(map[string]struct{}, len(opts.Tags)),
	}
	for _, t := range opts.Tags {
		f.tags[t] = struct{}{}
	}
	for k, v := range opts.Attrs {
		f.Attrs[k] = v
	}
	return f
}

func (f *File) Tag(value string) {
	if f.tags == nil {
		f.tags = make(map[string]struct{})
	}
	f.tags[value] = struct{}{}
}

// Untag removes value and reports whether it was present.
func (f *File) Untag(value string) bool {
	if _, ok := f.tags[value]; !ok {
		return false
	}
	delete(f.tags, value)
	return true
}

func (f *File) Tagged(value string) bool {
	_, ok := f.tags[value]
	return ok
}

// Tags returns a sorted snapshot; callers may tag or untag while ranging over it.
func (f *File) Tags() []string {
	out := make([]string, 0, len(f.tags))
	for t := range f.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (f *File) TagCount() int {
	return len(f.tags)
}

// Attr returns the named extra attribute.
func (f *File) Attr(name string) (any, bool) {
	v, ok := f.Attrs[name]
	return v, ok
}

func (f *File) SetAttr(name string, value any) {
	if f.Attrs == nil {
		f.Attrs = make(map[string]any)
	}
	f.Attrs[name] = value
}
