package file

import "sort"

// Map is the path-keyed collection passed through the pipeline. Keys match
// File.Path at insertion time; changing Path afterwards does not re-key the
// entry, use Rename for that.
type Map map[string]*File

// Add inserts f under its current Path, replacing any previous entry.
func (m Map) Add(f *File) {
	m[f.Path] = f
}

// Merge copies every entry of other into m; other wins on collision.
func (m Map) Merge(other Map) Map {
	for k, v := range other {
		m[k] = v
	}
	return m
}

// Rename moves the entry at from to to, updating File.Path. It reports false
// when from is absent.
func (m Map) Rename(from, to string) bool {
	f, ok := m[from]
	if !ok {
		return false
	}
	delete(m, from)
	f.Path = to
	m[to] = f
	return true
}

// Paths returns the keys in lexical order.
func (m Map) Paths() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Tagged returns the paths of files carrying tag, sorted.
func (m Map) Tagged(tag string) []string {
	var out []string
	for k, f := range m {
		if f.Tagged(tag) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
