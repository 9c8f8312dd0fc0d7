package lift

import (
	"log/slog"

	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"

	liberr "github.com/lexbox-tools/liftkit/core/errors"
	"github.com/lexbox-tools/liftkit/internal/xmlutil"
)

// Precompiled query paths. Paths written without ".//" match direct
// children only; the example form path in particular must stay that way so
// a nested translation's form is never captured as the example's own form.
var (
	entryPath           = xmlutil.NewPath(".//lift:entry")
	lexicalFormPath     = xmlutil.NewPath("lift:lexical-unit/lift:form")
	citationPath        = xmlutil.NewPath("lift:citation")
	pronunciationPath   = xmlutil.NewPath("lift:pronunciation")
	variantPath         = xmlutil.NewPath("lift:variant")
	etymologyPath       = xmlutil.NewPath("lift:etymology")
	relationPath        = xmlutil.NewPath("lift:relation")
	notePath            = xmlutil.NewPath("lift:note")
	fieldPath           = xmlutil.NewPath("lift:field")
	gramInfoPath        = xmlutil.NewPath("lift:grammatical-info")
	sensePath           = xmlutil.NewPath("lift:sense")
	glossPath           = xmlutil.NewPath("lift:gloss")
	definitionFormPath  = xmlutil.NewPath("lift:definition/lift:form")
	examplePath         = xmlutil.NewPath("lift:example")
	translationFormPath = xmlutil.NewPath("lift:translation/lift:form")
	formPath            = xmlutil.NewPath("lift:form")
	textPath            = xmlutil.NewPath("lift:text")
	mediaPath           = xmlutil.NewPath("lift:media")
	mediaLabelFormPath  = xmlutil.NewPath("lift:label/lift:form")
	traitPath           = xmlutil.NewPath("lift:trait")
)

// Parser parses LIFT entry documents. It carries only configuration (the
// validation flag and a logger) and no document-scoped state, so a single
// instance may be reused concurrently across goroutines.
type Parser struct {
	validate bool
	logger   *slog.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithValidation controls whether parsed entries are validated. Validation
// is enabled by default; disable it for bulk listing of legacy data.
func WithValidation(enabled bool) ParserOption {
	return func(p *Parser) { p.validate = enabled }
}

// WithLogger sets the logger used for tolerant-condition warnings.
func WithLogger(l *slog.Logger) ParserOption {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser creates a Parser. Validation is enabled unless turned off with
// WithValidation(false).
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		validate: true,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseString parses a LIFT document (or a bare entry fragment) and returns
// all entries it contains. Malformed XML and, when validation is enabled,
// the first invalid entry both abort the whole parse.
func (p *Parser) ParseString(xml string) ([]Entry, error) {
	doc, err := xmlutil.Parse([]byte(xml))
	if err != nil {
		p.logger.Error("malformed LIFT document", "error", err)
		return nil, err
	}
	return p.parseDocument(doc)
}

// ParseFile reads and parses a LIFT file. A missing file fails fast with a
// NotFoundError before any parsing begins.
func (p *Parser) ParseFile(path string) ([]Entry, error) {
	doc, err := xmlutil.ParseFile(path)
	if err != nil {
		if liberr.Is(err, liberr.ErrMalformed) {
			p.logger.Error("malformed LIFT document", "path", path, "error", err)
		}
		return nil, err
	}
	return p.parseDocument(doc)
}

func (p *Parser) parseDocument(doc *xmlquery.Node) ([]Entry, error) {
	nodes := entryPath.Find(doc, Namespace)
	if len(nodes) == 0 {
		// A bare <entry> fragment: the root element is the entry itself.
		if root := xmlutil.Root(doc); root != nil && root.Data == "entry" {
			nodes = []*xmlquery.Node{root}
		}
	}

	entries := make([]Entry, 0, len(nodes))
	for _, node := range nodes {
		entry := p.parseEntry(node)
		if p.validate {
			if err := ValidateEntry(&entry); err != nil {
				p.logger.Warn("entry failed validation, aborting parse",
					"entry_id", entry.ID, "error", err)
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseEntry builds one Entry from an <entry> element.
func (p *Parser) parseEntry(el *xmlquery.Node) Entry {
	entry := Entry{
		LexicalUnit: map[string]string{},
	}

	// Lexical unit: one text per language, last write wins for duplicate
	// same-language forms.
	for _, form := range lexicalFormPath.Find(el, Namespace) {
		lang := xmlutil.Attr(form, "lang")
		if lang == "" {
			continue
		}
		if text, ok := formText(form); ok {
			entry.LexicalUnit[lang] = text
		}
	}

	entry.ID = xmlutil.Attr(el, "id")
	if entry.ID == "" {
		entry.ID = "entry-" + uuid.NewString()
		p.logger.Warn("entry has no id, generated fallback",
			"entry_id", entry.ID, "headword", entry.Headword())
	}

	for _, citation := range citationPath.Find(el, Namespace) {
		if forms := formsMap(citation); len(forms) > 0 {
			entry.Citations = append(entry.Citations, forms)
		}
	}

	for _, pron := range pronunciationPath.Find(el, Namespace) {
		for _, form := range formPath.Find(pron, Namespace) {
			lang := xmlutil.Attr(form, "lang")
			if lang == "" {
				continue
			}
			if _, exists := entry.Pronunciations[lang]; exists {
				continue
			}
			if text, ok := formText(form); ok {
				if entry.Pronunciations == nil {
					entry.Pronunciations = map[string]string{}
				}
				entry.Pronunciations[lang] = text
			}
		}
		for _, media := range mediaPath.Find(pron, Namespace) {
			href := xmlutil.Attr(media, "href")
			if href == "" {
				continue
			}
			m := Media{Href: href}
			for _, form := range mediaLabelFormPath.Find(media, Namespace) {
				lang := xmlutil.Attr(form, "lang")
				if lang == "" {
					continue
				}
				if text, ok := formText(form); ok {
					if m.Label == nil {
						m.Label = map[string]string{}
					}
					if _, exists := m.Label[lang]; !exists {
						m.Label[lang] = text
					}
				}
			}
			entry.PronunciationMedia = append(entry.PronunciationMedia, m)
		}
	}

	for _, variant := range variantPath.Find(el, Namespace) {
		form := formPath.First(variant, Namespace)
		if form == nil {
			continue
		}
		text, ok := formText(form)
		if !ok {
			continue
		}
		v := Variant{Form: Form{Lang: xmlutil.Attr(form, "lang"), Text: text}}
		for _, trait := range traitPath.Find(variant, Namespace) {
			name := xmlutil.Attr(trait, "name")
			if name == "type" || name == "variant-type" {
				v.Type = xmlutil.Attr(trait, "value")
				break
			}
		}
		entry.Variants = append(entry.Variants, v)
	}

	// Partial etymologies (form or gloss missing) are dropped.
	for _, etym := range etymologyPath.Find(el, Namespace) {
		form := formPath.First(etym, Namespace)
		gloss := glossPath.First(etym, Namespace)
		if form == nil || gloss == nil {
			continue
		}
		ftext, formOK := formText(form)
		gtext, glossOK := glossValue(gloss)
		if !formOK || !glossOK || ftext == "" || gtext == "" {
			continue
		}
		entry.Etymologies = append(entry.Etymologies, Etymology{
			Type:   xmlutil.Attr(etym, "type"),
			Source: xmlutil.Attr(etym, "source"),
			Form:   Form{Lang: xmlutil.Attr(form, "lang"), Text: ftext},
			Gloss:  Form{Lang: xmlutil.Attr(gloss, "lang"), Text: gtext},
		})
	}

	entry.Relations = parseRelations(el)

	for _, note := range notePath.Find(el, Namespace) {
		noteType := xmlutil.Attr(note, "type")
		if noteType == "" {
			noteType = "general"
		}
		if _, exists := entry.Notes[noteType]; exists {
			continue
		}
		if text := multitextValue(note); text != "" {
			if entry.Notes == nil {
				entry.Notes = map[string]string{}
			}
			entry.Notes[noteType] = text
		}
	}

	for _, field := range fieldPath.Find(el, Namespace) {
		fieldType := xmlutil.Attr(field, "type")
		if fieldType == "" {
			fieldType = xmlutil.Attr(field, "name")
		}
		if fieldType == "" {
			continue
		}
		if _, exists := entry.CustomFields[fieldType]; exists {
			continue
		}
		if text := multitextValue(field); text != "" {
			if entry.CustomFields == nil {
				entry.CustomFields = map[string]string{}
			}
			entry.CustomFields[fieldType] = text
		}
	}

	if gi := gramInfoPath.First(el, Namespace); gi != nil {
		entry.GrammaticalInfo = xmlutil.Attr(gi, "value")
	}

	for _, sense := range sensePath.Find(el, Namespace) {
		entry.Senses = append(entry.Senses, p.parseSense(sense))
	}

	return entry
}

// parseSense builds one Sense from a <sense> element.
func (p *Parser) parseSense(el *xmlquery.Node) Sense {
	sense := Sense{
		ID:          xmlutil.Attr(el, "id"),
		Glosses:     map[string]string{},
		Definitions: map[string]string{},
	}

	for _, gloss := range glossPath.Find(el, Namespace) {
		lang := xmlutil.Attr(gloss, "lang")
		if lang == "" {
			continue
		}
		if _, exists := sense.Glosses[lang]; exists {
			continue
		}
		if text, ok := glossValue(gloss); ok {
			sense.Glosses[lang] = text
		}
	}

	// Definition text sits one level deeper than gloss text:
	// definition/form/text vs gloss direct lang/text.
	for _, form := range definitionFormPath.Find(el, Namespace) {
		lang := xmlutil.Attr(form, "lang")
		if lang == "" {
			continue
		}
		if _, exists := sense.Definitions[lang]; exists {
			continue
		}
		if text, ok := formText(form); ok {
			sense.Definitions[lang] = text
		}
	}

	if gi := gramInfoPath.First(el, Namespace); gi != nil {
		sense.GrammaticalInfo = xmlutil.Attr(gi, "value")
	}

	sense.Relations = parseRelations(el)

	for _, example := range examplePath.Find(el, Namespace) {
		sense.Examples = append(sense.Examples, parseExample(example))
	}

	return sense
}

// parseExample builds one Example. The form search is restricted to direct
// children of the example element so a nested translation's form is never
// mistaken for the example's primary form.
func parseExample(el *xmlquery.Node) Example {
	example := Example{
		ID:           xmlutil.Attr(el, "id"),
		Form:         map[string]string{},
		Translations: map[string]string{},
	}

	for _, form := range formPath.Find(el, Namespace) {
		lang := xmlutil.Attr(form, "lang")
		if lang == "" {
			continue
		}
		if _, exists := example.Form[lang]; exists {
			continue
		}
		if text, ok := formText(form); ok {
			example.Form[lang] = text
		}
	}

	for _, form := range translationFormPath.Find(el, Namespace) {
		lang := xmlutil.Attr(form, "lang")
		if lang == "" {
			continue
		}
		if _, exists := example.Translations[lang]; exists {
			continue
		}
		if text, ok := formText(form); ok {
			example.Translations[lang] = text
		}
	}

	return example
}

// parseRelations reads the direct relation children of an element, keeping
// only relations with a non-empty ref.
func parseRelations(el *xmlquery.Node) []Relation {
	var out []Relation
	for _, rel := range relationPath.Find(el, Namespace) {
		ref := xmlutil.Attr(rel, "ref")
		if ref == "" {
			continue
		}
		out = append(out, Relation{Type: xmlutil.Attr(rel, "type"), Ref: ref})
	}
	return out
}

// formText returns the text of a form element's first text child.
func formText(form *xmlquery.Node) (string, bool) {
	text := textPath.First(form, Namespace)
	if text == nil {
		return "", false
	}
	return xmlutil.Text(text), true
}

// glossValue returns a gloss element's text: the text child if present,
// else the gloss's own direct text content.
func glossValue(gloss *xmlquery.Node) (string, bool) {
	if text := textPath.First(gloss, Namespace); text != nil {
		return xmlutil.Text(text), true
	}
	if text := xmlutil.Text(gloss); text != "" {
		return text, true
	}
	return "", false
}

// formsMap reads all direct form children into a lang → text map,
// first match per language.
func formsMap(el *xmlquery.Node) map[string]string {
	var out map[string]string
	for _, form := range formPath.Find(el, Namespace) {
		lang := xmlutil.Attr(form, "lang")
		if lang == "" {
			continue
		}
		if _, exists := out[lang]; exists {
			continue
		}
		if text, ok := formText(form); ok {
			if out == nil {
				out = map[string]string{}
			}
			out[lang] = text
		}
	}
	return out
}

// multitextValue extracts a single text value from an element that may hold
// either form/text children or direct text content.
func multitextValue(el *xmlquery.Node) string {
	if form := formPath.First(el, Namespace); form != nil {
		if text, ok := formText(form); ok {
			return text
		}
	}
	return xmlutil.Text(el)
}
