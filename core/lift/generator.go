package lift

import (
	"os"
	"sort"

	"github.com/beevik/etree"

	liberr "github.com/lexbox-tools/liftkit/core/errors"
)

// Generator serializes entries back into a pretty-printed, namespaced LIFT
// document. Child elements are emitted in a fixed order and multitext
// languages are sorted, so output for a given model is byte-stable and
// re-parsing it recovers the same model.
type Generator struct {
	producer string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithProducer sets the producer attribute written on the document root.
func WithProducer(name string) GeneratorOption {
	return func(g *Generator) {
		if name != "" {
			g.producer = name
		}
	}
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{producer: "liftkit"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateString serializes entries into a LIFT XML document.
func (g *Generator) GenerateString(entries []Entry) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("lift")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("xmlns:flex", FlexNamespace)
	root.CreateAttr("version", Version)
	root.CreateAttr("producer", g.producer)

	for i := range entries {
		g.writeEntry(root, &entries[i])
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", liberr.Wrap(err, "serializing LIFT document")
	}
	return out, nil
}

// GenerateFile serializes entries and writes the document to path.
func (g *Generator) GenerateFile(entries []Entry, path string) error {
	out, err := g.GenerateString(entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return &liberr.IOError{Operation: "write", Path: path, Err: err}
	}
	return nil
}

// writeEntry emits one entry with children in the canonical order:
// lexical-unit, etymologies, citations, pronunciations, variants,
// grammatical-info, relations, notes, custom fields, senses.
func (g *Generator) writeEntry(parent *etree.Element, entry *Entry) {
	el := parent.CreateElement("entry")
	if entry.ID != "" {
		el.CreateAttr("id", entry.ID)
	}

	if len(entry.LexicalUnit) > 0 {
		writeForms(el.CreateElement("lexical-unit"), entry.LexicalUnit)
	}

	for _, etym := range entry.Etymologies {
		etymEl := el.CreateElement("etymology")
		etymEl.CreateAttr("type", etym.Type)
		etymEl.CreateAttr("source", etym.Source)
		writeForm(etymEl, "form", etym.Form)
		writeForm(etymEl, "gloss", etym.Gloss)
	}

	for _, citation := range entry.Citations {
		if len(citation) > 0 {
			writeForms(el.CreateElement("citation"), citation)
		}
	}

	if len(entry.Pronunciations) > 0 || len(entry.PronunciationMedia) > 0 {
		pronEl := el.CreateElement("pronunciation")
		writeForms(pronEl, entry.Pronunciations)
		for _, media := range entry.PronunciationMedia {
			mediaEl := pronEl.CreateElement("media")
			mediaEl.CreateAttr("href", media.Href)
			if len(media.Label) > 0 {
				writeForms(mediaEl.CreateElement("label"), media.Label)
			}
		}
	}

	for _, variant := range entry.Variants {
		variantEl := el.CreateElement("variant")
		writeForm(variantEl, "form", variant.Form)
		if variant.Type != "" {
			traitEl := variantEl.CreateElement("trait")
			traitEl.CreateAttr("name", "type")
			traitEl.CreateAttr("value", variant.Type)
		}
	}

	if entry.GrammaticalInfo != "" {
		el.CreateElement("grammatical-info").CreateAttr("value", entry.GrammaticalInfo)
	}

	writeRelations(el, entry.Relations)

	for _, noteType := range sortedKeys(entry.Notes) {
		noteEl := el.CreateElement("note")
		noteEl.CreateAttr("type", noteType)
		writeForm(noteEl, "form", Form{Lang: "en", Text: entry.Notes[noteType]})
	}

	for _, fieldType := range sortedKeys(entry.CustomFields) {
		fieldEl := el.CreateElement("field")
		fieldEl.CreateAttr("type", fieldType)
		writeForm(fieldEl, "form", Form{Lang: "en", Text: entry.CustomFields[fieldType]})
	}

	for i := range entry.Senses {
		g.writeSense(el, &entry.Senses[i])
	}
}

// writeSense emits one sense with children in the canonical order:
// glosses, definition, examples, grammatical-info, relations.
func (g *Generator) writeSense(parent *etree.Element, sense *Sense) {
	el := parent.CreateElement("sense")
	if sense.ID != "" {
		el.CreateAttr("id", sense.ID)
	}

	for _, lang := range sortedKeys(sense.Glosses) {
		glossEl := el.CreateElement("gloss")
		glossEl.CreateAttr("lang", lang)
		glossEl.CreateElement("text").SetText(sense.Glosses[lang])
	}

	if len(sense.Definitions) > 0 {
		writeForms(el.CreateElement("definition"), sense.Definitions)
	}

	for _, example := range sense.Examples {
		exampleEl := el.CreateElement("example")
		if example.ID != "" {
			exampleEl.CreateAttr("id", example.ID)
		}
		writeForms(exampleEl, example.Form)
		if len(example.Translations) > 0 {
			writeForms(exampleEl.CreateElement("translation"), example.Translations)
		}
	}

	if sense.GrammaticalInfo != "" {
		el.CreateElement("grammatical-info").CreateAttr("value", sense.GrammaticalInfo)
	}

	writeRelations(el, sense.Relations)
}

// writeRelations emits relation elements. Relations normalized from legacy
// shapes serialize identically to typed ones; a zero relation (the decode
// result for an unrecognized shape) still emits, with empty type and ref.
func writeRelations(parent *etree.Element, relations []Relation) {
	for _, rel := range relations {
		relEl := parent.CreateElement("relation")
		relEl.CreateAttr("type", rel.Type)
		relEl.CreateAttr("ref", rel.Ref)
	}
}

// writeForms emits form/text children for each language in sorted order.
func writeForms(parent *etree.Element, forms map[string]string) {
	for _, lang := range sortedKeys(forms) {
		formEl := parent.CreateElement("form")
		formEl.CreateAttr("lang", lang)
		formEl.CreateElement("text").SetText(forms[lang])
	}
}

// writeForm emits a single named form-shaped element (form, gloss, label).
func writeForm(parent *etree.Element, name string, form Form) {
	el := parent.CreateElement(name)
	if form.Lang != "" {
		el.CreateAttr("lang", form.Lang)
	}
	el.CreateElement("text").SetText(form.Text)
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
