// Package evidence provides read-only access to the scan evidence object.
//
// Evidence is produced externally by the HTML evidence extractor and
// arrives as an opaque JSON document. Its shape drifts between extractor
// versions, so nothing in this core pattern-matches on raw nested JSON:
// all reads go through Get (null-safe dotted paths) or through the named
// semantic extractors in extractors.go, each of which documents its
// default when the path is absent.
package evidence

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Evidence wraps one scan's evidence document. The zero value behaves as
// an empty document: every read returns its documented default.
type Evidence struct {
	raw string
}

// New wraps a raw evidence document. Invalid JSON is accepted and reads
// as empty; the extractor's output is never a reason to fail a render.
func New(doc json.RawMessage) Evidence {
	return Evidence{raw: string(doc)}
}

// FromString wraps a raw JSON string.
func FromString(doc string) Evidence {
	return Evidence{raw: doc}
}

// Raw returns the underlying document.
func (e Evidence) Raw() json.RawMessage {
	return json.RawMessage(e.raw)
}

// IsEmpty reports whether there is no usable evidence document at all.
func (e Evidence) IsEmpty() bool {
	return e.raw == "" || !gjson.Valid(e.raw)
}

// Get reads a dotted path ("schema.hasOrganization", "content.faqs.0.question").
// Missing or null intermediate nodes yield a non-existent result; Get
// never panics and never returns an error.
func (e Evidence) Get(path string) gjson.Result {
	if e.raw == "" {
		return gjson.Result{}
	}
	return gjson.Get(e.raw, path)
}

// Has reports whether a dotted path exists with a non-null value. Gating
// uses this as its coverage probe over evidence selectors.
func (e Evidence) Has(path string) bool {
	res := e.Get(path)
	return res.Exists() && res.Type != gjson.Null
}

// Str reads a string at path, or def when absent or not a string.
func (e Evidence) Str(path, def string) string {
	if res := e.Get(path); res.Type == gjson.String {
		return res.String()
	}
	return def
}

// Int reads an integer at path, or def when absent or non-numeric.
func (e Evidence) Int(path string, def int64) int64 {
	if res := e.Get(path); res.Type == gjson.Number {
		return res.Int()
	}
	return def
}

// Bool reads a boolean at path; absent and non-boolean values read as false.
func (e Evidence) Bool(path string) bool {
	res := e.Get(path)
	return res.IsBool() && res.Bool()
}

// Strings reads an array of strings at path; non-string elements are
// skipped. Absent paths yield nil.
func (e Evidence) Strings(path string) []string {
	res := e.Get(path)
	if !res.IsArray() {
		return nil
	}
	var out []string
	res.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			out = append(out, v.String())
		}
		return true
	})
	return out
}
