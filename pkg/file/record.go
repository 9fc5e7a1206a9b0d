package file

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Record is the structural export of a File. Extra attributes are not part of it.
type Record struct {
	Asset    bool     `msgpack:"asset"`
	Contents []byte   `msgpack:"contents"`
	Path     string   `msgpack:"path"`
	Tags     []string `msgpack:"tags"`
}

func (f *File) Record() Record {
	return Record{
		Asset:    f.Asset,
		Contents: f.Contents,
		Path:     f.Path,
		Tags:     f.Tags(),
	}
}

// MarshalBinary encodes the File's Record as msgpack.
func (f *File) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(f.Record())
}

// UnmarshalBinary restores path, contents, asset flag and tags from a msgpack
// Record. Attrs are left untouched.
func (f *File) UnmarshalBinary(data []byte) error {
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("decoding file record: %w", err)
	}
	f.Path = r.Path
	f.Contents = r.Contents
	f.Asset = r.Asset
	f.tags = make(map[string]struct{}, len(r.Tags))
	for _, t := range r.Tags {
		f.tags[t] = struct{}{}
	}
	return nil
}
