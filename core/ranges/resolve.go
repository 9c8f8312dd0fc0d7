package ranges

// ResolvedValue is a read-only annotated copy of a Value used by
// presentation-layer consumers. EffectiveLabel and EffectiveAbbrev carry
// the node's own primary label/abbrev when set, otherwise the value
// inherited from the nearest ancestor that defines one.
type ResolvedValue struct {
	ID              string            `json:"id"`
	GUID            string            `json:"guid,omitempty"`
	ValueText       string            `json:"value"`
	Abbrev          string            `json:"abbrev"`
	Labels          map[string]string `json:"labels"`
	Abbrevs         map[string]string `json:"abbrevs"`
	ReverseLabels   map[string]string `json:"reverse_labels"`
	ReverseAbbrevs  map[string]string `json:"reverse_abbrevs"`
	Traits          map[string]string `json:"traits"`
	EffectiveLabel  string            `json:"effective_label"`
	EffectiveAbbrev string            `json:"effective_abbrev"`
	Children        []*ResolvedValue  `json:"children"`
}

// Resolve produces the inheritance-resolved view of a value tree. The
// result is a deep copy: the canonical tree is never mutated and shares no
// maps with the returned view.
func Resolve(values []*Value) []*ResolvedValue {
	return resolveAll(values, "", "")
}

// resolveAll walks a sibling list carrying the effective label/abbrev
// computed so far down the ancestry; a node with no nearer ancestor value
// inherits exactly these.
func resolveAll(values []*Value, inheritedLabel, inheritedAbbrev string) []*ResolvedValue {
	if len(values) == 0 {
		return nil
	}
	out := make([]*ResolvedValue, 0, len(values))
	for _, v := range values {
		effLabel := v.Label()
		if effLabel == "" {
			effLabel = inheritedLabel
		}
		effAbbrev := v.Abbrev
		if effAbbrev == "" {
			effAbbrev = inheritedAbbrev
		}

		rv := &ResolvedValue{
			ID:              v.ID,
			GUID:            v.GUID,
			ValueText:       v.ValueText,
			Abbrev:          v.Abbrev,
			Labels:          copyMap(v.Labels),
			Abbrevs:         copyMap(v.Abbrevs),
			ReverseLabels:   copyMap(v.ReverseLabels),
			ReverseAbbrevs:  copyMap(v.ReverseAbbrevs),
			Traits:          copyMap(v.Traits),
			EffectiveLabel:  effLabel,
			EffectiveAbbrev: effAbbrev,
		}
		rv.Children = resolveAll(v.Children, effLabel, effAbbrev)
		out = append(out, rv)
	}
	return out
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
