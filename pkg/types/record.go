// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records served by regulation-server: regulations
// with their articles, regions, and search results.
//
// Records carry an open-ended payload. Fields the stores inspect are explicit;
// every other top-level field is kept verbatim in Extra. A known field whose
// source value is not of the expected type is kept verbatim as well, so a
// loaded record marshals back to the JSON it was loaded from, keys in source
// order.
package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var errNotObject = errors.New("expected a JSON object")

// fieldSet is a decoded JSON object whose known keys are consumed one by one.
// Whatever remains after decoding the known keys becomes the Extra payload.
type fieldSet struct {
	// keys lists every key of the object in source order.
	keys []string
	vals map[string]json.RawMessage
	// raw holds known fields whose value did not fit the typed field.
	raw map[string]json.RawMessage
}

func decodeFields(data []byte) (*fieldSet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	fs := &fieldSet{vals: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, dup := fs.vals[key]; !dup {
			fs.keys = append(fs.keys, key)
		}
		fs.vals[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fs, nil
}

// pop removes key from the payload and returns its value.
func (fs *fieldSet) pop(key string) (json.RawMessage, bool) {
	v, ok := fs.vals[key]
	if ok {
		delete(fs.vals, key)
	}
	return v, ok
}

func (fs *fieldSet) keep(key string, v json.RawMessage) {
	if fs.raw == nil {
		fs.raw = make(map[string]json.RawMessage)
	}
	fs.raw[key] = v
}

// id decodes the record identifier, which must be a string when present.
func (fs *fieldSet) id(dst *string) error {
	v, ok := fs.pop("id")
	if !ok {
		return nil
	}
	if !isString(v) {
		return fmt.Errorf("field \"id\": expected a string, got %s", v)
	}
	return json.Unmarshal(v, dst)
}

// text decodes a string field. Any other value is kept verbatim and leaves
// dst empty.
func (fs *fieldSet) text(key string, dst *string) {
	v, ok := fs.pop(key)
	if !ok {
		return
	}
	if !isString(v) || json.Unmarshal(v, dst) != nil {
		fs.keep(key, v)
	}
}

// texts decodes a list of strings. When the value is anything else it is kept
// verbatim, and dst receives the string elements of the list, if any.
func (fs *fieldSet) texts(key string, dst *[]string) {
	v, ok := fs.pop(key)
	if !ok {
		return
	}
	var items []json.RawMessage
	if isNull(v) || json.Unmarshal(v, &items) != nil {
		fs.keep(key, v)
		return
	}
	out := make([]string, 0, len(items))
	exact := true
	for _, item := range items {
		var s string
		if !isString(item) || json.Unmarshal(item, &s) != nil {
			exact = false
			continue
		}
		out = append(out, s)
	}
	*dst = out
	if !exact {
		fs.keep(key, v)
	}
}

// extra returns the unconsumed fields, or nil when there are none.
func (fs *fieldSet) extra() map[string]json.RawMessage {
	if len(fs.vals) == 0 {
		return nil
	}
	return fs.vals
}

// objectWriter assembles a JSON object with keys in insertion order.
// Setting a key again replaces its value in place.
type objectWriter struct {
	keys []string
	vals map[string]any
}

func (w *objectWriter) set(key string, v any) {
	if w.vals == nil {
		w.vals = make(map[string]any)
	}
	if _, ok := w.vals[key]; !ok {
		w.keys = append(w.keys, key)
	}
	w.vals[key] = v
}

func (w *objectWriter) bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range w.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(w.vals[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// field is a known field of a record as it is written back.
type field struct {
	key   string
	value any
	empty bool
}

func textField(key, v string) field { return field{key: key, value: v, empty: v == ""} }

// writeRecord lays out a record. Keys the record was loaded with come first,
// in source order, and a known key among them is written even when empty.
// Known fields set after loading follow in the order given, then extras added
// after loading, sorted. Known values kept in raw are written verbatim.
func writeRecord(keys []string, raw, extra map[string]json.RawMessage, fields []field) *objectWriter {
	w := &objectWriter{}
	known := make(map[string]field, len(fields))
	for _, f := range fields {
		known[f.key] = f
	}

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
		if f, ok := known[k]; ok {
			if v, ok := raw[k]; ok {
				w.set(k, v)
			} else {
				w.set(k, f.value)
			}
			continue
		}
		if v, ok := extra[k]; ok {
			w.set(k, v)
		}
	}

	for _, f := range fields {
		if seen[f.key] {
			continue
		}
		if v, ok := raw[f.key]; ok {
			w.set(f.key, v)
		} else if !f.empty {
			w.set(f.key, f.value)
		}
	}

	var added []string
	for k := range extra {
		if _, ok := known[k]; !ok && !seen[k] {
			added = append(added, k)
		}
	}
	sort.Strings(added)
	for _, k := range added {
		w.set(k, extra[k])
	}
	return w
}

func hasKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isString(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '"'
}
