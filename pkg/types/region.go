// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
)

// Region is a named grouping of regulations, usually a jurisdiction, as it
// appears in the region manifest.
type Region struct {
	// ID is the case-insensitive unique key of the region (e.g. "eu").
	ID string `json:"id" yaml:"id"`

	// Name is the display name (e.g. "European Union").
	Name string `json:"name" yaml:"name"`

	// RegulationIDs references regulations by id, in manifest order.
	RegulationIDs []string `json:"regulations" yaml:"regulations"`

	// Notes is free text about the region.
	Notes string `json:"notes" yaml:"notes"`

	// Extra holds every other field of the manifest entry, verbatim.
	Extra map[string]json.RawMessage `json:"-" yaml:"-"`

	keys []string
	raw  map[string]json.RawMessage
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra. Only
// the id is type-checked. Non-string regulation references cannot be
// resolved and are left out of RegulationIDs.
func (r *Region) UnmarshalJSON(data []byte) error {
	fs, err := decodeFields(data)
	if err != nil {
		return err
	}
	var out Region
	if err := fs.id(&out.ID); err != nil {
		return err
	}
	fs.text("name", &out.Name)
	fs.texts("regulations", &out.RegulationIDs)
	fs.text("notes", &out.Notes)

	out.Extra, out.keys, out.raw = fs.extra(), fs.keys, fs.raw
	*r = out
	return nil
}

// HasID reports whether the entry carries an id field, even an empty one.
func (r Region) HasID() bool { return r.ID != "" || hasKey(r.keys, "id") }

// MarshalJSON writes the manifest form of the region.
func (r Region) MarshalJSON() ([]byte, error) {
	return r.writer().bytes()
}

func (r Region) writer() *objectWriter {
	return writeRecord(r.keys, r.raw, r.Extra, []field{
		textField("id", r.ID),
		textField("name", r.Name),
		{key: "regulations", value: r.RegulationIDs, empty: r.RegulationIDs == nil},
		textField("notes", r.Notes),
	})
}

// ResolvedRegion is a Region whose regulation references have been replaced
// by the regulation records they point to. Unresolvable references are absent.
type ResolvedRegion struct {
	Region

	// Regulations holds the resolved records in reference order.
	Regulations []Regulation `json:"regulations" yaml:"regulations"`
}

// MarshalJSON writes the region with "regulations" holding full records.
// The raw reference list is never written.
func (r ResolvedRegion) MarshalJSON() ([]byte, error) {
	w := r.Region.writer()
	regs := r.Regulations
	if regs == nil {
		regs = []Regulation{}
	}
	w.set("regulations", regs)
	return w.bytes()
}

// UnmarshalJSON decodes a resolved region, reading "regulations" as records.
func (r *ResolvedRegion) UnmarshalJSON(data []byte) error {
	fs, err := decodeFields(data)
	if err != nil {
		return err
	}
	var out ResolvedRegion
	if v, ok := fs.vals["regulations"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &out.Regulations); err != nil {
			return fmt.Errorf("field \"regulations\": %w", err)
		}
	}
	if err := out.Region.UnmarshalJSON(data); err != nil {
		return err
	}
	out.RegulationIDs = nil
	delete(out.raw, "regulations")
	*r = out
	return nil
}
