package builder

// Metadata is the key/value tree shared between plugins.
type Metadata map[string]any

// Merge deep-merges src into m: nested maps merge key by key, every other
// value (slices included) replaces what was there. Values are copied so later
// changes to src do not leak into m.
func (m Metadata) Merge(src map[string]any) Metadata {
	for k, v := range src {
		if sm, ok := asMap(v); ok {
			if dm, ok := asMap(m[k]); ok && dm != nil {
				m[k] = map[string]any(Metadata(dm).Merge(sm))
				continue
			}
		}
		m[k] = deepCopyValue(v)
	}
	return m
}

// MergeMetadata deep-merges src into the Builder's metadata.
func (b *Builder) MergeMetadata(src map[string]any) *Builder {
	if b.Metadata == nil {
		b.Metadata = make(Metadata)
	}
	b.Metadata.Merge(src)
	return b
}

// SetMetadata replaces the Builder's metadata outright.
func (b *Builder) SetMetadata(m map[string]any) *Builder {
	b.Metadata = Metadata(deepCopyMap(m))
	return b
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Metadata:
		return m, true
	default:
		return nil, false
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return make(map[string]any)
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = deepCopyValue(v)
	}
	return result
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case Metadata:
		return deepCopyMap(val)
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = deepCopyValue(item)
		}
		return result
	default:
		return v
	}
}
