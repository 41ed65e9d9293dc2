package parser

import (
	"io"

	"github.com/heathj/imgset/parser/spec"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// Parser builds a DOM from an HTML byte stream. A parser with a context
// element parses a fragment as if it were the context's inner HTML.
type Parser struct {
	input     io.Reader
	context   *spec.Node
	scripting bool
}

type Option func(*Parser)

// WithScripting toggles the scripting flag, which changes how <noscript>
// content is parsed.
func WithScripting(enabled bool) Option {
	return func(p *Parser) { p.scripting = enabled }
}

func NewParser(htmlIn io.Reader, opts ...Option) *Parser {
	p := &Parser{input: htmlIn, scripting: true}
	for _, o := range opts {
		o(p)
	}
	return p
}

// NewFragmentParser parses htmlIn in the context of the given element. A
// nil context means <body>.
func NewFragmentParser(htmlIn io.Reader, context *spec.Node, opts ...Option) *Parser {
	p := NewParser(htmlIn, opts...)
	if context == nil {
		context = spec.NewDOMElement(nil, "body", spec.Htmlns)
	}
	p.context = context
	return p
}

// Start parses the whole input. Documents come back as a DocumentNode and
// fragments as a DocumentFragmentNode holding the parsed children.
func (p *Parser) Start() (*spec.Node, error) {
	if p.context != nil {
		return p.startFragment()
	}

	root, err := html.ParseWithOptions(p.input, html.ParseOptionEnableScripting(p.scripting))
	if err != nil {
		return nil, errors.Wrap(err, "parse document")
	}
	doc := spec.NewHTMLDocumentNode()
	buildChildren(doc, doc, root)
	return doc, nil
}

func (p *Parser) startFragment() (*spec.Node, error) {
	if p.context.NodeType != spec.ElementNode {
		return nil, errors.Errorf("fragment context must be an element, got %s", p.context.NodeType)
	}
	ctx := toHTMLElement(p.context)

	nodes, err := html.ParseFragmentWithOptions(p.input, ctx, html.ParseOptionEnableScripting(p.scripting))
	if err != nil {
		return nil, errors.Wrap(err, "parse fragment")
	}
	od := p.context.OwnerDocument
	if od == nil {
		od = spec.NewHTMLDocumentNode()
	}
	frag := spec.NewDocumentFragmentNode(od)
	for _, n := range nodes {
		if c := fromHTMLNode(od, n); c != nil {
			frag.AppendChild(c)
		}
	}
	return frag, nil
}

// Render writes the tree rooted at n as HTML. Documents and fragments
// render their children in order.
func Render(w io.Writer, n *spec.Node) error {
	switch n.NodeType {
	case spec.DocumentNode, spec.DocumentFragmentNode:
		for _, c := range n.ChildNodes {
			if err := html.Render(w, toHTMLNode(c)); err != nil {
				return errors.Wrap(err, "render")
			}
		}
		return nil
	}
	if err := html.Render(w, toHTMLNode(n)); err != nil {
		return errors.Wrap(err, "render")
	}
	return nil
}
