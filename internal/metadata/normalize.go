package metadata

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strings"
)

// Normalize parses caller-supplied metadata. Anything that is not a single
// well-formed JSON object (empty input, malformed JSON, arrays, scalars,
// trailing garbage) becomes the empty object. It never fails.
func Normalize(raw string) Value {
	if strings.TrimSpace(raw) == "" {
		return EmptyObject()
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var x any
	if err := dec.Decode(&x); err != nil {
		return EmptyObject()
	}
	if _, err := dec.Token(); err != io.EOF {
		return EmptyObject()
	}

	obj, ok := x.(map[string]any)
	if !ok {
		return EmptyObject()
	}
	return FromAny(obj)
}

// Valid reports whether raw would survive Normalize unchanged in meaning,
// that is whether it is a single JSON object.
func Valid(raw string) bool {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Valid(trimmed)
}

// FromStored rebuilds an object from index stored fields whose names start
// with prefix + "." (for example "metadata.city" or "metadata.geo.lat").
// Multi-valued fields come back as arrays; each leaf goes through FromAny.
// Paths are applied in sorted order so a leaf and a nested object competing
// for the same name resolve deterministically in favour of the object.
func FromStored(fields map[string]any, prefix string) Value {
	p := prefix + "."
	paths := make([]string, 0, len(fields))
	for name := range fields {
		if strings.HasPrefix(name, p) && len(name) > len(p) {
			paths = append(paths, name)
		}
	}
	sort.Strings(paths)

	root := map[string]Value{}
	for _, name := range paths {
		setPath(root, strings.Split(name[len(p):], "."), FromAny(fields[name]))
	}
	return Object(root)
}

func setPath(obj map[string]Value, path []string, leaf Value) {
	key := path[0]
	if len(path) == 1 {
		if existing, ok := obj[key]; ok && existing.Kind() == KindObject {
			return
		}
		obj[key] = leaf
		return
	}

	child, ok := obj[key]
	if !ok || child.Kind() != KindObject {
		child = EmptyObject()
		obj[key] = child
	}
	setPath(child.obj, path[1:], leaf)
}
