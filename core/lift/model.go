// Package lift parses LIFT (Lexicon Interchange Format) dictionary
// documents into a typed entry model and regenerates LIFT XML from it.
//
// Both namespaced and unnamespaced documents parse identically; see
// internal/xmlutil for the namespace-tolerant query layer.
package lift

import "encoding/json"

// LIFT 0.13 namespaces and version, as produced by FieldWorks exports.
const (
	// Namespace is the LIFT entry document namespace.
	Namespace = "http://fieldworks.sil.org/schemas/lift/0.13"
	// FlexNamespace is the auxiliary FieldWorks namespace declared on
	// generated documents.
	FlexNamespace = "http://fieldworks.sil.org/schemas/flex/0.1"
	// Version is the LIFT schema version emitted by the generator.
	Version = "0.13"
)

// Form is one language-tagged text value.
type Form struct {
	Lang string `json:"lang"`
	Text string `json:"text"`
}

// Etymology describes the historical origin of an entry. The parser only
// keeps etymologies that carry both a form and a gloss.
type Etymology struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Form   Form   `json:"form"`
	Gloss  Form   `json:"gloss"`
}

// Relation links an entry or sense to another entry by id.
type Relation struct {
	Type string `json:"type"`
	Ref  string `json:"ref"`
}

// UnmarshalJSON accepts both the typed relation shape and the legacy raw
// mapping shape ({"type": ..., "ref": ...} with arbitrary extra keys) still
// produced by some call sites. Any unrecognized shape decodes to a relation
// with empty type and ref rather than failing.
func (r *Relation) UnmarshalJSON(data []byte) error {
	*r = Relation{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if v, ok := raw["type"]; ok {
		_ = json.Unmarshal(v, &r.Type)
	}
	if v, ok := raw["ref"]; ok {
		_ = json.Unmarshal(v, &r.Ref)
	}
	return nil
}

// Variant is an alternate written form of an entry.
type Variant struct {
	Form Form   `json:"form"`
	Type string `json:"type,omitempty"`
}

// Media is an audio (or other) attachment on a pronunciation, with an
// optional multilingual label.
type Media struct {
	Href  string            `json:"href"`
	Label map[string]string `json:"label,omitempty"`
}

// Example is a usage example nested under a sense. Form holds the
// source-language text keyed by language; it never includes forms that
// belong to a nested translation.
type Example struct {
	ID           string            `json:"id,omitempty"`
	Form         map[string]string `json:"form"`
	Translations map[string]string `json:"translations"`
}

// Sense is one meaning of an entry.
type Sense struct {
	ID              string            `json:"id,omitempty"`
	Glosses         map[string]string `json:"glosses"`
	Definitions     map[string]string `json:"definitions"`
	GrammaticalInfo string            `json:"grammatical_info,omitempty"`
	Relations       []Relation        `json:"relations,omitempty"`
	Examples        []Example         `json:"examples,omitempty"`
}

// Entry is one dictionary headword unit. Sense order is meaningful and
// preserved; duplicate sense ids are allowed.
type Entry struct {
	ID                 string              `json:"id"`
	LexicalUnit        map[string]string   `json:"lexical_unit"`
	Citations          []map[string]string `json:"citations,omitempty"`
	Pronunciations     map[string]string   `json:"pronunciations,omitempty"`
	PronunciationMedia []Media             `json:"pronunciation_media,omitempty"`
	Variants           []Variant           `json:"variants,omitempty"`
	Etymologies        []Etymology         `json:"etymologies,omitempty"`
	Relations          []Relation          `json:"relations,omitempty"`
	Notes              map[string]string   `json:"notes,omitempty"`
	CustomFields       map[string]string   `json:"custom_fields,omitempty"`
	GrammaticalInfo    string              `json:"grammatical_info,omitempty"`
	Senses             []Sense             `json:"senses"`
}

// Headword returns a display form for the entry: the "en" lexical unit if
// present, else the lexicographically first language's text, else the
// entry id.
func (e *Entry) Headword() string {
	if t, ok := e.LexicalUnit["en"]; ok {
		return t
	}
	lang := ""
	text := ""
	for l, t := range e.LexicalUnit {
		if lang == "" || l < lang {
			lang = l
			text = t
		}
	}
	if text != "" {
		return text
	}
	return e.ID
}
