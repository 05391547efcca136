// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"maps"
)

// Regulation is a single legal or regulatory document: its identity, risk
// classification, summary, articles, and guidance for developers.
type Regulation struct {
	// ID is the case-insensitive unique key of the regulation (e.g. "gdpr").
	ID string `json:"id" yaml:"id"`

	// Name is the full title (e.g. "General Data Protection Regulation").
	Name string `json:"name" yaml:"name"`

	// Region is the jurisdiction label as written in the source file.
	Region string `json:"region" yaml:"region"`

	// RiskCategory is a free-form classification such as "high".
	RiskCategory string `json:"risk_category" yaml:"risk_category"`

	// Summary is the overall free-text summary.
	Summary string `json:"summary" yaml:"summary"`

	// Articles lists the articles in source order.
	Articles []Article `json:"articles" yaml:"articles"`

	// DeveloperGuidance lists guidance items in source order.
	DeveloperGuidance []string `json:"developer_guidance" yaml:"developer_guidance"`

	// Extra holds every other top-level field of the source record, verbatim.
	Extra map[string]json.RawMessage `json:"-" yaml:"-"`

	keys []string
	raw  map[string]json.RawMessage
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra. Only
// the id is type-checked; a known field holding an unexpected type is kept
// verbatim and reads as empty.
func (r *Regulation) UnmarshalJSON(data []byte) error {
	fs, err := decodeFields(data)
	if err != nil {
		return err
	}
	var out Regulation
	if err := fs.id(&out.ID); err != nil {
		return err
	}
	fs.text("name", &out.Name)
	fs.text("region", &out.Region)
	fs.text("risk_category", &out.RiskCategory)
	fs.text("summary", &out.Summary)
	fs.articles("articles", &out.Articles)
	fs.texts("developer_guidance", &out.DeveloperGuidance)

	out.Extra, out.keys, out.raw = fs.extra(), fs.keys, fs.raw
	*r = out
	return nil
}

// HasID reports whether the record carries an id field, even an empty one.
func (r Regulation) HasID() bool { return r.ID != "" || hasKey(r.keys, "id") }

// MarshalJSON writes the record back with its source keys in source order.
func (r Regulation) MarshalJSON() ([]byte, error) {
	return writeRecord(r.keys, r.raw, r.Extra, []field{
		textField("id", r.ID),
		textField("name", r.Name),
		textField("region", r.Region),
		textField("risk_category", r.RiskCategory),
		textField("summary", r.Summary),
		{key: "articles", value: r.Articles, empty: r.Articles == nil},
		{key: "developer_guidance", value: r.DeveloperGuidance, empty: r.DeveloperGuidance == nil},
	}).bytes()
}

// articles decodes a list of articles. Anything other than a list is kept
// verbatim.
func (fs *fieldSet) articles(key string, dst *[]Article) {
	v, ok := fs.pop(key)
	if !ok {
		return
	}
	var items []json.RawMessage
	if isNull(v) || json.Unmarshal(v, &items) != nil {
		fs.keep(key, v)
		return
	}
	out := make([]Article, len(items))
	for i, item := range items {
		out[i].decode(item)
	}
	*dst = out
}

// Article is one numbered article of a regulation.
type Article struct {
	// Number is the article number as text ("32", "164.312"). Source files
	// write it either as a JSON string or a JSON number.
	Number string `json:"article" yaml:"article"`

	// Title is the article heading.
	Title string `json:"title" yaml:"title"`

	// Summary is a short description of the article.
	Summary string `json:"summary" yaml:"summary"`

	// Notes is optional commentary.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// Extra holds every other field of the source article, verbatim.
	Extra map[string]json.RawMessage `json:"-" yaml:"-"`

	keys []string
	raw  map[string]json.RawMessage
	// whole is the source value of an article that is not an object.
	whole json.RawMessage
}

// Label returns the article number, or "N/A" when the article has none.
func (a Article) Label() string {
	if a.Number == "" {
		return "N/A"
	}
	return a.Number
}

// UnmarshalJSON decodes an article. It never fails: an entry that is not an
// object is kept as written and has no searchable text.
func (a *Article) UnmarshalJSON(data []byte) error {
	a.decode(data)
	return nil
}

func (a *Article) decode(data []byte) {
	var out Article
	fs, err := decodeFields(data)
	if err != nil {
		out.whole = append(json.RawMessage(nil), data...)
		*a = out
		return
	}
	if v, ok := fs.pop("article"); ok {
		out.Number, _ = articleNumber(v)
		if !isString(v) {
			fs.keep("article", v)
		}
	}
	fs.text("title", &out.Title)
	fs.text("summary", &out.Summary)
	fs.text("notes", &out.Notes)

	out.Extra, out.keys, out.raw = fs.extra(), fs.keys, fs.raw
	*a = out
}

// MarshalJSON writes the article back as it was loaded. A numeric article
// number stays numeric unless Number was changed.
func (a Article) MarshalJSON() ([]byte, error) {
	if a.whole != nil {
		return a.whole, nil
	}
	raw := a.raw
	if v, ok := raw["article"]; ok {
		if n, _ := articleNumber(v); n != a.Number {
			raw = maps.Clone(raw)
			delete(raw, "article")
		}
	}
	return writeRecord(a.keys, raw, a.Extra, []field{
		textField("article", a.Number),
		textField("title", a.Title),
		textField("summary", a.Summary),
		textField("notes", a.Notes),
	}).bytes()
}

// articleNumber returns the text of a string or numeric article number.
func articleNumber(raw json.RawMessage) (string, bool) {
	var s string
	if isString(raw) && json.Unmarshal(raw, &s) == nil {
		return s, true
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil && n != "" {
		return n.String(), true
	}
	return "", false
}
