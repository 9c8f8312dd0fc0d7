// Package xmlutil provides XML parsing, namespace-tolerant querying, XPath,
// and formatting over xmlquery documents.
//
// Real-world LIFT exports differ in whether they declare the LIFT namespace
// at all (FieldWorks often omits it at the fragment level), so every lookup
// in this package can be evaluated twice: once namespace-aware, once
// ignoring namespaces. See Path for the query abstraction.
//
// Security Notes:
//   - The xmlquery library is used for parsing, which uses Go's encoding/xml
//     internally and does not fetch external entities.
package xmlutil

import (
	"bytes"
	"io/fs"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	liberr "github.com/lexbox-tools/liftkit/core/errors"
)

// Parse parses XML data and returns the document node.
func Parse(data []byte) (*xmlquery.Node, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &liberr.ParseError{Format: "XML", Message: err.Error(), Err: err}
	}
	return root, nil
}

// ParseFile reads and parses an XML file. A missing file fails fast with a
// NotFoundError before any parse attempt.
func ParseFile(path string) (*xmlquery.Node, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := Parse(data)
	if err != nil {
		if pe, ok := err.(*liberr.ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return root, nil
}

// ReadFile reads a file, mapping a missing path to NotFoundError.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if liberr.Is(err, fs.ErrNotExist) {
			return nil, &liberr.NotFoundError{Resource: "file", ID: path, Err: err}
		}
		return nil, &liberr.IOError{Operation: "read", Path: path, Err: err}
	}
	return data, nil
}

// Root returns the first element child of a document node.
func Root(doc *xmlquery.Node) *xmlquery.Node {
	if doc == nil {
		return nil
	}
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

// Children returns the direct element children of a node.
func Children(n *xmlquery.Node) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var out []*xmlquery.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			out = append(out, child)
		}
	}
	return out
}

// Attr returns the value of an attribute, or "" when absent.
func Attr(n *xmlquery.Node, name string) string {
	if n == nil {
		return ""
	}
	return n.SelectAttr(name)
}

// HasAttr reports whether the attribute is present, even when empty.
func HasAttr(n *xmlquery.Node, name string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return true
		}
	}
	return false
}

// Text returns the trimmed inner text of a node.
func Text(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}

// XPath compiles and executes an XPath query against a node.
func XPath(n *xmlquery.Node, expr string) ([]*xmlquery.Node, error) {
	// Compile the expression to check for errors
	if _, err := xpath.Compile(expr); err != nil {
		return nil, liberr.Wrapf(err, "invalid xpath %q", expr)
	}
	nodes, err := xmlquery.QueryAll(n, expr)
	if err != nil {
		return nil, liberr.Wrap(err, "xpath query failed")
	}
	return nodes, nil
}
