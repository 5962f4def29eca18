package wikitree

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// SectionTree is one level of a page's heading hierarchy. Each key maps
// either to a nested SectionTree or to a content value produced by a
// ContentExtractor. Keys keep the order in which they were first set.
type SectionTree struct {
	keys    []string
	entries map[string]sectionEntry
}

type sectionEntry struct {
	child   *SectionTree
	content any
}

// NewSectionTree returns an empty tree.
func NewSectionTree() *SectionTree {
	return &SectionTree{entries: make(map[string]sectionEntry)}
}

// SetContent stores a content value under key. An existing key keeps its
// position and has its value replaced.
func (t *SectionTree) SetContent(key string, value any) {
	t.set(key, sectionEntry{content: value})
}

// SetChild stores a subsection under key. An existing key keeps its
// position and has its value replaced.
func (t *SectionTree) SetChild(key string, child *SectionTree) {
	t.set(key, sectionEntry{child: child})
}

func (t *SectionTree) set(key string, e sectionEntry) {
	if t.entries == nil {
		t.entries = make(map[string]sectionEntry)
	}
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = e
}

// Keys returns the keys in insertion order.
func (t *SectionTree) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of keys. A nil tree has none.
func (t *SectionTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Child returns the subsection stored under key.
func (t *SectionTree) Child(key string) (*SectionTree, bool) {
	e, ok := t.entries[key]
	if !ok || e.child == nil {
		return nil, false
	}
	return e.child, true
}

// Content returns the content value stored under key.
func (t *SectionTree) Content(key string) (any, bool) {
	e, ok := t.entries[key]
	if !ok || e.child != nil {
		return nil, false
	}
	return e.content, true
}

// Map converts the tree into generic nested maps, the shape produced by
// decoding its JSON form into an `any`. String slices become []any.
func (t *SectionTree) Map() map[string]any {
	out := make(map[string]any, len(t.keys))
	for _, k := range t.keys {
		e := t.entries[k]
		if e.child != nil {
			out[k] = e.child.Map()
			continue
		}
		out[k] = genericValue(e.content)
	}
	return out
}

func genericValue(v any) any {
	switch v := v.(type) {
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the tree as a JSON object in key order. HTML
// characters are left unescaped.
func (t *SectionTree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSON(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')

		e := t.entries[k]
		var v any = e.content
		if e.child != nil {
			v = e.child
		}
		if err := encodeJSON(&buf, v); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// IsEmptyContent reports whether an extracted content value counts as empty:
// nil, or a string, slice, array or map of length zero.
func IsEmptyContent(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
