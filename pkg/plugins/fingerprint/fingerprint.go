// Package fingerprint renames files to embed a content hash, e.g.
// css/site.css becomes css/site.3f2a9c1d0b7e4a55.css, so they can be cached forever.
package fingerprint

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/toastate/ironsmith/internal/tlogger"
	"github.com/toastate/ironsmith/pkg/builder"
	"github.com/toastate/ironsmith/pkg/file"
)

// MetadataKey holds the original path -> fingerprinted path table in Builder.Metadata.
const MetadataKey = "fingerprint"

// AttrKey holds the hash on each renamed file.
const AttrKey = "fingerprint"

type Options struct {
	// Extensions to fingerprint, with the leading dot. Defaults to .css and .js.
	Extensions []string
	// Length of the hex digest kept in the name, 1 to 16. Defaults to 16.
	Length int
}

func Hash(contents []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(contents))
}

func New(opts Options) builder.Plugin {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".css", ".js"}
	}
	if opts.Length <= 0 || opts.Length > 16 {
		opts.Length = 16
	}
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}

	return builder.Sync("fingerprint", func(files file.Map, b *builder.Builder) error {
		table := make(map[string]any)

		// Renaming while ranging over the map could visit renamed entries again.
		for _, name := range files.Paths() {
			ext := path.Ext(name)
			if _, ok := exts[strings.ToLower(ext)]; !ok {
				continue
			}

			f := files[name]
			sum := Hash(f.Contents)[:opts.Length]
			renamed := strings.TrimSuffix(name, ext) + "." + sum + ext
			if _, taken := files[renamed]; taken {
				tlogger.Warn("plugin", "fingerprint", "msg", "target already exists, skipping", "file", name, "target", renamed)
				continue
			}

			files.Rename(name, renamed)
			f.SetAttr(AttrKey, sum)
			table[name] = renamed
			tlogger.Debug("plugin", "fingerprint", "file", name, "renamed", renamed)
		}

		b.MergeMetadata(map[string]any{MetadataKey: table})
		return nil
	})
}

// Lookup returns the fingerprinted name recorded for original, if any.
func Lookup(b *builder.Builder, original string) (string, bool) {
	table, ok := b.Metadata[MetadataKey].(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := table[original].(string)
	return v, ok
}

// Paths returns the originals that were renamed, sorted.
func Paths(b *builder.Builder) []string {
	table, _ := b.Metadata[MetadataKey].(map[string]any)
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
