package xmlutil

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Path is a parsed, namespace-tolerant element query.
//
// The expression syntax is a small XPath subset: segments separated by "/",
// each segment a local element name with an optional namespace prefix
// ("lift:sense/lift:gloss"). A leading ".//" makes the first segment match
// at any depth below the context node; every other segment matches direct
// children only.
//
// Evaluation runs in two passes. The first pass requires each prefixed
// segment to match the requested namespace URI; if that yields nothing and
// a namespace was requested, the whole path is re-evaluated ignoring
// namespaces. Documents that declare the namespace (default or prefixed)
// and documents that omit it entirely therefore resolve identically, with
// no textual rewriting of the query.
type Path struct {
	segments   []segment
	descendant bool // first segment matches at any depth
}

type segment struct {
	name     string // local element name
	prefixed bool   // written with a namespace prefix in the expression
}

// NewPath parses a path expression. The expression is trusted (compile-time
// constants throughout this codebase); an empty expression yields a Path
// that matches nothing.
func NewPath(expr string) Path {
	p := Path{}
	if rest, ok := strings.CutPrefix(expr, ".//"); ok {
		p.descendant = true
		expr = rest
	} else {
		expr = strings.TrimPrefix(expr, "./")
	}
	for _, part := range strings.Split(expr, "/") {
		if part == "" {
			continue
		}
		seg := segment{name: part}
		if prefix, local, ok := strings.Cut(part, ":"); ok && prefix != "" {
			seg.name = local
			seg.prefixed = true
		}
		p.segments = append(p.segments, seg)
	}
	return p
}

// Find returns all nodes matching the path under n. ns is the namespace URI
// that prefixed segments must match; when the namespace-aware pass finds
// nothing, the path is retried ignoring namespaces. A path with no matches
// under either interpretation returns nil, never an error.
func (p Path) Find(n *xmlquery.Node, ns string) []*xmlquery.Node {
	if n == nil || len(p.segments) == 0 {
		return nil
	}
	out := p.eval(n, ns)
	if len(out) == 0 && ns != "" {
		out = p.eval(n, "")
	}
	return out
}

// First returns the first node matching the path under n, or nil. The
// namespace fallback applies to the whole path, exactly as in Find.
func (p Path) First(n *xmlquery.Node, ns string) *xmlquery.Node {
	nodes := p.Find(n, ns)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func (p Path) eval(n *xmlquery.Node, ns string) []*xmlquery.Node {
	current := []*xmlquery.Node{n}
	for i, seg := range p.segments {
		var next []*xmlquery.Node
		for _, node := range current {
			if i == 0 && p.descendant {
				next = appendDescendants(next, node, seg, ns)
			} else {
				for child := node.FirstChild; child != nil; child = child.NextSibling {
					if matches(child, seg, ns) {
						next = append(next, child)
					}
				}
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

func appendDescendants(out []*xmlquery.Node, n *xmlquery.Node, seg segment, ns string) []*xmlquery.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if matches(child, seg, ns) {
			out = append(out, child)
		}
		out = appendDescendants(out, child, seg, ns)
	}
	return out
}

func matches(n *xmlquery.Node, seg segment, ns string) bool {
	if n.Type != xmlquery.ElementNode || n.Data != seg.name {
		return false
	}
	if ns == "" || !seg.prefixed {
		return true
	}
	return n.NamespaceURI == ns
}
