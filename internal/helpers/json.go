package helpers

import (
	"bytes"
	"encoding/json"

	"github.com/toastate/ironsmith/pkg/file"
)

// MarshalJson encodes v without escaping <, > and &, so paths and markup stay readable.
func MarshalJson(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(v)
	return buf.Bytes(), err
}

// FileSummary is the listing entry printed for each processed file.
type FileSummary struct {
	Path  string         `json:"path"`
	Size  int            `json:"size"`
	Asset bool           `json:"asset,omitempty"`
	Tags  []string       `json:"tags,omitempty"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Summarize lists files in path order.
func Summarize(files file.Map) []FileSummary {
	out := make([]FileSummary, 0, len(files))
	for _, p := range files.Paths() {
		f := files[p]
		s := FileSummary{
			Path:  p,
			Size:  len(f.Contents),
			Asset: f.Asset,
			Tags:  f.Tags(),
		}
		if len(f.Attrs) > 0 {
			s.Attrs = f.Attrs
		}
		if len(s.Tags) == 0 {
			s.Tags = nil
		}
		out = append(out, s)
	}
	return out
}
