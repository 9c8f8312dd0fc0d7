package ranges

import (
	"log/slog"
	"strings"

	"github.com/antchfx/xmlquery"

	liberr "github.com/lexbox-tools/liftkit/core/errors"
	"github.com/lexbox-tools/liftkit/internal/xmlutil"
)

var (
	rangePath         = xmlutil.NewPath(".//lift:range")
	allElementsPath   = xmlutil.NewPath(".//lift:range-element")
	childElementPath  = xmlutil.NewPath("lift:range-element")
	labelPath         = xmlutil.NewPath("lift:label")
	abbrevPath        = xmlutil.NewPath("lift:abbrev")
	reverseLabelPath  = xmlutil.NewPath("lift:reverse-label")
	reverseAbbrevPath = xmlutil.NewPath("lift:reverse-abbrev")
	traitPath         = xmlutil.NewPath("lift:trait")
	formPath          = xmlutil.NewPath("lift:form")
	nestedFormPath    = xmlutil.NewPath(".//lift:form")
	textPath          = xmlutil.NewPath("lift:text")
)

// Parser parses LIFT ranges documents. Like the entry parser it holds only
// configuration, so one instance may serve concurrent parses.
type Parser struct {
	logger *slog.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger sets the logger used for tolerant-condition warnings.
func WithLogger(l *slog.Logger) ParserOption {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser creates a ranges Parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseString parses a lift-ranges document into a mapping of range id to
// range. Each range's Values holds the reconstructed tree roots.
func (p *Parser) ParseString(xml string) (map[string]*Range, error) {
	doc, err := xmlutil.Parse([]byte(xml))
	if err != nil {
		p.logger.Error("malformed ranges document", "error", err)
		return nil, err
	}
	return p.parseDocument(doc), nil
}

// ParseFile reads and parses a lift-ranges file. A missing file fails fast
// with a NotFoundError before any parsing begins.
func (p *Parser) ParseFile(path string) (map[string]*Range, error) {
	doc, err := xmlutil.ParseFile(path)
	if err != nil {
		if liberr.Is(err, liberr.ErrMalformed) {
			p.logger.Error("malformed ranges document", "path", path, "error", err)
		}
		return nil, err
	}
	return p.parseDocument(doc), nil
}

func (p *Parser) parseDocument(doc *xmlquery.Node) map[string]*Range {
	out := map[string]*Range{}
	for _, rangeEl := range rangePath.Find(doc, Namespace) {
		id := xmlutil.Attr(rangeEl, "id")
		if id == "" {
			p.logger.Warn("range has no id, skipped")
			continue
		}
		out[id] = &Range{
			ID:     id,
			GUID:   xmlutil.Attr(rangeEl, "guid"),
			Values: p.parseRange(rangeEl, id),
		}
	}
	return out
}

// parseRange reconstructs one range's value tree. Hierarchy signals are
// checked in order: parent attributes win over native XML nesting, and a
// range with neither is flat.
func (p *Parser) parseRange(rangeEl *xmlquery.Node, rangeID string) []*Value {
	nodes := allElementsPath.Find(rangeEl, Namespace)
	if len(nodes) == 0 {
		return nil
	}

	hasParentAttr := false
	for _, node := range nodes {
		if xmlutil.HasAttr(node, "parent") {
			hasParentAttr = true
			break
		}
	}
	if hasParentAttr {
		return p.buildFromParentAttrs(nodes, rangeID)
	}

	for _, node := range nodes {
		if childElementPath.First(node, Namespace) != nil {
			return p.buildFromNesting(rangeEl, rangeID)
		}
	}

	// Flat: every element is a root with no children.
	values := make([]*Value, 0, len(nodes))
	for _, node := range nodes {
		values = append(values, p.parseValue(node, rangeID))
	}
	return values
}

// buildFromParentAttrs links elements through their parent="id" attributes.
// Elements with a missing or empty parent attribute are roots, as is any
// element whose parent id does not exist or names itself.
func (p *Parser) buildFromParentAttrs(nodes []*xmlquery.Node, rangeID string) []*Value {
	values := make([]*Value, len(nodes))
	index := make(map[string]*Value, len(nodes))
	for i, node := range nodes {
		values[i] = p.parseValue(node, rangeID)
		// Duplicate ids: last write wins in the index; every element
		// still appears in the tree.
		index[values[i].ID] = values[i]
	}

	var roots []*Value
	for i, node := range nodes {
		parentID := xmlutil.Attr(node, "parent")
		// The id may have been normalized; compare against the raw
		// attribute for self-reference.
		if parentID == "" || parentID == xmlutil.Attr(node, "id") {
			roots = append(roots, values[i])
			continue
		}
		parent, ok := index[parentID]
		if !ok || parent == values[i] {
			p.logger.Warn("range element references unknown parent, treated as root",
				"range", rangeID, "id", values[i].ID, "parent", parentID)
			roots = append(roots, values[i])
			continue
		}
		parent.Children = append(parent.Children, values[i])
	}
	return roots
}

// buildFromNesting treats direct XML nesting as the hierarchy. Only direct
// range-element children are recursed into, so descendants are never
// counted twice.
func (p *Parser) buildFromNesting(parent *xmlquery.Node, rangeID string) []*Value {
	var values []*Value
	for _, node := range childElementPath.Find(parent, Namespace) {
		value := p.parseValue(node, rangeID)
		value.Children = p.buildFromNesting(node, rangeID)
		values = append(values, value)
	}
	return values
}

// parseValue builds one flat Value from a range-element, regardless of its
// position in the document.
func (p *Parser) parseValue(node *xmlquery.Node, rangeID string) *Value {
	v := &Value{
		ID:             xmlutil.Attr(node, "id"),
		GUID:           xmlutil.Attr(node, "guid"),
		Labels:         collectMultitext(node, labelPath),
		Abbrevs:        collectMultitext(node, abbrevPath),
		ReverseLabels:  collectMultitext(node, reverseLabelPath),
		ReverseAbbrevs: collectMultitext(node, reverseAbbrevPath),
		Traits:         map[string]string{},
	}

	// Known upstream naming inconsistency: variant-type ranges use
	// "orthographic" where every consumer expects "spelling".
	if v.ID == "orthographic" && (rangeID == "variant-type" || rangeID == "variant-types") {
		v.ID = "spelling"
	}

	v.ValueText = xmlutil.Attr(node, "value")
	if v.ValueText == "" {
		v.ValueText = v.ID
	}
	v.Abbrev = primary(v.Abbrevs)

	for _, trait := range traitPath.Find(node, Namespace) {
		if name := xmlutil.Attr(trait, "name"); name != "" {
			if _, exists := v.Traits[name]; !exists {
				v.Traits[name] = xmlutil.Attr(trait, "value")
			}
		}
	}

	return v
}

// collectMultitext gathers language-tagged text from label-shaped child
// elements. Three fallback levels are tried per element: direct text
// content under a lang attribute, the deeper form/text structure, and
// finally any nested form matching the element's lang attribute.
func collectMultitext(parent *xmlquery.Node, path xmlutil.Path) map[string]string {
	m := map[string]string{}
	for _, el := range path.Find(parent, Namespace) {
		lang := xmlutil.Attr(el, "lang")
		if lang != "" {
			if text := directText(el); text != "" {
				if _, exists := m[lang]; !exists {
					m[lang] = text
				}
				continue
			}
		}

		for _, form := range formPath.Find(el, Namespace) {
			formLang := xmlutil.Attr(form, "lang")
			if formLang == "" {
				continue
			}
			if _, exists := m[formLang]; exists {
				continue
			}
			text := ""
			if textEl := textPath.First(form, Namespace); textEl != nil {
				text = xmlutil.Text(textEl)
			} else {
				text = directText(form)
			}
			if text != "" {
				m[formLang] = text
			}
		}

		if lang != "" && m[lang] == "" {
			for _, form := range nestedFormPath.Find(el, Namespace) {
				if xmlutil.Attr(form, "lang") != lang {
					continue
				}
				if textEl := textPath.First(form, Namespace); textEl != nil {
					if text := xmlutil.Text(textEl); text != "" {
						m[lang] = text
						break
					}
				}
			}
		}
	}
	return m
}

// directText concatenates the direct text children of an element, leaving
// out text that belongs to nested elements.
func directText(n *xmlquery.Node) string {
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.TextNode {
			sb.WriteString(child.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}
