package ranges

import (
	"reflect"
	"testing"
)

func testTree() []*Value {
	return []*Value{
		{
			ID:      "1",
			Labels:  map[string]string{"en": "Universe"},
			Abbrevs: map[string]string{"en": "Univ"},
			Abbrev:  "Univ",
			Traits:  map[string]string{},
			Children: []*Value{
				{
					ID:      "1.1",
					Labels:  map[string]string{},
					Abbrevs: map[string]string{},
					Traits:  map[string]string{},
					Children: []*Value{
						{
							ID:      "1.1.1",
							Labels:  map[string]string{},
							Abbrevs: map[string]string{},
							Traits:  map[string]string{},
						},
						{
							ID:      "1.1.2",
							Labels:  map[string]string{"en": "Sun"},
							Abbrevs: map[string]string{},
							Traits:  map[string]string{},
						},
					},
				},
			},
		},
	}
}

func TestResolveInheritance(t *testing.T) {
	resolved := Resolve(testTree())
	if len(resolved) != 1 {
		t.Fatalf("got %d roots, want 1", len(resolved))
	}

	root := resolved[0]
	if root.EffectiveLabel != "Universe" || root.EffectiveAbbrev != "Univ" {
		t.Errorf("root effective = %q / %q", root.EffectiveLabel, root.EffectiveAbbrev)
	}

	// 1.1 has no own label; it inherits from its parent.
	mid := root.Children[0]
	if mid.EffectiveLabel != "Universe" || mid.EffectiveAbbrev != "Univ" {
		t.Errorf("mid effective = %q / %q, want inherited Universe / Univ",
			mid.EffectiveLabel, mid.EffectiveAbbrev)
	}
	if mid.Abbrev != "" {
		t.Errorf("mid own abbrev = %q, inheritance must not overwrite it", mid.Abbrev)
	}

	// 1.1.1 inherits across two levels; 1.1.2's own label wins while its
	// abbrev still comes down from the grandparent.
	if got := mid.Children[0].EffectiveLabel; got != "Universe" {
		t.Errorf("grandchild effective label = %q, want Universe", got)
	}
	sun := mid.Children[1]
	if sun.EffectiveLabel != "Sun" {
		t.Errorf("own label lost: %q", sun.EffectiveLabel)
	}
	if sun.EffectiveAbbrev != "Univ" {
		t.Errorf("grandchild effective abbrev = %q, want Univ", sun.EffectiveAbbrev)
	}
}

func TestResolveDoesNotMutateCanonicalTree(t *testing.T) {
	tree := testTree()
	want := testTree()

	resolved := Resolve(tree)
	if !reflect.DeepEqual(tree, want) {
		t.Fatal("Resolve mutated its input")
	}

	// The view shares no maps with the canonical tree.
	resolved[0].Labels["en"] = "changed"
	resolved[0].Traits["probe"] = "x"
	if !reflect.DeepEqual(tree, want) {
		t.Error("resolved view aliases the canonical tree's maps")
	}
}

func TestResolveEmptyAndNil(t *testing.T) {
	if got := Resolve(nil); got != nil {
		t.Errorf("Resolve(nil) = %v, want nil", got)
	}
	if got := Resolve([]*Value{}); got != nil {
		t.Errorf("Resolve(empty) = %v, want nil", got)
	}
}

func TestResolveNonEnglishPrimary(t *testing.T) {
	tree := []*Value{
		{
			ID:     "x",
			Labels: map[string]string{"fr": "Feu", "de": "Feuer"},
			Children: []*Value{
				{ID: "x.1", Labels: map[string]string{}},
			},
		},
	}
	resolved := Resolve(tree)
	// No "en" entry: lexicographically first language wins.
	if resolved[0].EffectiveLabel != "Feuer" {
		t.Errorf("effective label = %q, want Feuer", resolved[0].EffectiveLabel)
	}
	if resolved[0].Children[0].EffectiveLabel != "Feuer" {
		t.Errorf("child inherited %q, want Feuer", resolved[0].Children[0].EffectiveLabel)
	}
}

func TestResolveParsedTree(t *testing.T) {
	xml := `<lift-ranges><range id="semantic-domain">
    <range-element id="1">
      <label><form lang="en"><text>Universe</text></form></label>
      <abbrev><form lang="en"><text>U</text></form></abbrev>
    </range-element>
    <range-element id="1.1" parent="1"/>
  </range></lift-ranges>`

	r := parseOne(t, xml, "semantic-domain")
	resolved := Resolve(r.Values)
	child := resolved[0].Children[0]
	if child.EffectiveLabel != "Universe" || child.EffectiveAbbrev != "U" {
		t.Errorf("child effective = %q / %q", child.EffectiveLabel, child.EffectiveAbbrev)
	}
	if r.Values[0].Children[0].Labels == nil {
		t.Error("canonical tree should keep its own empty maps")
	}
}
