// Package report models the AI-generated feedback report returned by
// the platform's analysis endpoint. The session core never inspects a
// report; it is decoded at the API boundary and handed to the
// presentation layer as-is.
package report

import (
	"encoding/json"
	"fmt"
)

// Report is the structured feedback for one submitted session.
type Report struct {
	SessionID string `json:"session_id"`
	Summary   string `json:"summary"`
	Items     []Item `json:"items"`
}

// ItemKind discriminates the two wire shapes an analysis item can take.
type ItemKind int

const (
	// ItemRemark is a plain-string observation.
	ItemRemark ItemKind = iota

	// ItemTrait is a structured per-trait assessment.
	ItemTrait
)

// Item is a tagged union over the two item variants the analysis
// endpoint emits: a bare string, or an object with trait details. The
// ambiguity is resolved here so it never leaks past the boundary.
type Item struct {
	Kind ItemKind

	// Remark is set when Kind == ItemRemark.
	Remark string

	// Trait fields are set when Kind == ItemTrait.
	Trait       string
	Observation string
	Suggestion  string
}

// traitItem is the structured wire form.
type traitItem struct {
	Trait       string `json:"trait"`
	Observation string `json:"observation"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// UnmarshalJSON accepts either a JSON string or a trait object.
func (it *Item) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*it = Item{Kind: ItemRemark, Remark: s}
		return nil
	}

	var t traitItem
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("analysis item is neither string nor object: %w", err)
	}
	if t.Trait == "" {
		return fmt.Errorf("analysis item object missing trait")
	}
	*it = Item{
		Kind:        ItemTrait,
		Trait:       t.Trait,
		Observation: t.Observation,
		Suggestion:  t.Suggestion,
	}
	return nil
}

// MarshalJSON writes the variant back in its original wire shape.
func (it Item) MarshalJSON() ([]byte, error) {
	if it.Kind == ItemRemark {
		return json.Marshal(it.Remark)
	}
	return json.Marshal(traitItem{
		Trait:       it.Trait,
		Observation: it.Observation,
		Suggestion:  it.Suggestion,
	})
}
