// Package ranges parses LIFT "ranges" documents: controlled-vocabulary
// taxonomies referenced by entry and sense fields (part of speech, semantic
// domains, variant types).
//
// Real-world exports encode the hierarchy three different ways: explicit
// XML nesting, parent-attribute back-references, or flat lists with no
// relationship at all. The parser reconciles all three into one canonical
// nested form.
package ranges

// Namespace is the LIFT 0.13 ranges document namespace.
const Namespace = "http://fieldworks.sil.org/schemas/lift/0.13/ranges"

// Range is one controlled vocabulary. Values holds only top-level roots;
// the canonical form is nested, never flat with dangling parents.
type Range struct {
	ID     string   `json:"id"`
	GUID   string   `json:"guid,omitempty"`
	Values []*Value `json:"values"`
}

// Value is one taxonomy node. A parsed tree is never mutated after
// construction; Resolve produces a separate derived view.
type Value struct {
	ID        string `json:"id"`
	GUID      string `json:"guid,omitempty"`
	ValueText string `json:"value"`
	// Abbrev is the flattened primary abbreviation, typically the "en"
	// entry of Abbrevs.
	Abbrev         string            `json:"abbrev"`
	Labels         map[string]string `json:"labels"`
	Abbrevs        map[string]string `json:"abbrevs"`
	ReverseLabels  map[string]string `json:"reverse_labels"`
	ReverseAbbrevs map[string]string `json:"reverse_abbrevs"`
	Traits         map[string]string `json:"traits"`
	Children       []*Value          `json:"children"`
}

// Description is an alias view of Labels used by some call sites; both
// always expose the same underlying map.
func (v *Value) Description() map[string]string {
	return v.Labels
}

// Label returns the flattened primary label: the "en" entry if present,
// else the lexicographically first language.
func (v *Value) Label() string {
	return primary(v.Labels)
}

// NodeCount returns the total number of nodes in the subtree rooted at v,
// including v itself.
func (v *Value) NodeCount() int {
	n := 1
	for _, child := range v.Children {
		n += child.NodeCount()
	}
	return n
}

// primary flattens a multilingual map to a single value: "en" wins, then
// the lexicographically first language with a non-empty value.
func primary(m map[string]string) string {
	if t := m["en"]; t != "" {
		return t
	}
	best := ""
	text := ""
	for lang, t := range m {
		if t == "" {
			continue
		}
		if best == "" || lang < best {
			best = lang
			text = t
		}
	}
	return text
}
