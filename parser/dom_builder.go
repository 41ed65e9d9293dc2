package parser

import (
	"github.com/heathj/imgset/parser/spec"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	elementNamespaces = map[string]spec.Namespace{
		"":     spec.Htmlns,
		"svg":  spec.Svgns,
		"math": spec.Mathmlns,
	}
	attrNamespaces = map[string]spec.Namespace{
		"xlink": spec.Xlinkns,
		"xml":   spec.Xmlns,
		"xmlns": spec.Xmlnsns,
	}
)

func elementNamespace(ns spec.Namespace) string {
	switch ns {
	case spec.Svgns:
		return "svg"
	case spec.Mathmlns:
		return "math"
	}
	return ""
}

func attrNamespace(ns spec.Namespace) string {
	switch ns {
	case spec.Xlinkns:
		return "xlink"
	case spec.Xmlns:
		return "xml"
	case spec.Xmlnsns:
		return "xmlns"
	}
	return ""
}

func buildChildren(od, parent *spec.Node, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := fromHTMLNode(od, c); child != nil {
			parent.AppendChild(child)
		}
	}
}

// fromHTMLNode converts n and its subtree. Error and raw nodes have no DOM
// counterpart and are dropped.
func fromHTMLNode(od *spec.Node, n *html.Node) *spec.Node {
	var out *spec.Node
	switch n.Type {
	case html.ElementNode:
		out = spec.NewDOMElement(od, n.Data, elementNamespaces[n.Namespace])
		for _, a := range n.Attr {
			attr := spec.NewAttr(a.Key, a.Val)
			if ns, ok := attrNamespaces[a.Namespace]; ok {
				attr.Namespace = ns
				attr.Prefix = a.Namespace
			}
			// duplicate attributes: the first one wins
			if out.Attributes.GetNamedItemNS(attr.Namespace, attr.LocalName) != nil {
				continue
			}
			out.Attributes.SetNamedItem(attr)
		}
	case html.TextNode:
		out = spec.NewTextNode(od, n.Data)
	case html.CommentNode:
		out = spec.NewCommentNode(od, n.Data)
	case html.DoctypeNode:
		var pub, sys string
		for _, a := range n.Attr {
			switch a.Key {
			case "public":
				pub = a.Val
			case "system":
				sys = a.Val
			}
		}
		out = spec.NewDocTypeNode(n.Data, pub, sys)
	default:
		return nil
	}

	buildChildren(od, out, n)
	return out
}

func toHTMLElement(n *spec.Node) *html.Node {
	out := &html.Node{
		Type:      html.ElementNode,
		Data:      n.NodeName,
		DataAtom:  atom.Lookup([]byte(n.NodeName)),
		Namespace: elementNamespace(n.Element.NamespaceURI),
	}
	for _, a := range n.Attributes.Attrs {
		out.Attr = append(out.Attr, html.Attribute{
			Namespace: attrNamespace(a.Namespace),
			Key:       a.LocalName,
			Val:       a.Value,
		})
	}
	return out
}

// toHTMLNode converts n and its subtree back into x/net/html nodes for
// rendering.
func toHTMLNode(n *spec.Node) *html.Node {
	var out *html.Node
	switch n.NodeType {
	case spec.ElementNode:
		out = toHTMLElement(n)
	case spec.TextNode:
		out = &html.Node{Type: html.TextNode, Data: n.Text.Data}
	case spec.CommentNode:
		out = &html.Node{Type: html.CommentNode, Data: n.Comment.Data}
	case spec.DocumentTypeNode:
		out = &html.Node{Type: html.DoctypeNode, Data: n.DocumentType.Name}
		if n.PublicID != "" {
			out.Attr = append(out.Attr, html.Attribute{Key: "public", Val: n.PublicID})
		}
		if n.SystemID != "" {
			out.Attr = append(out.Attr, html.Attribute{Key: "system", Val: n.SystemID})
		}
	case spec.DocumentNode, spec.DocumentFragmentNode:
		out = &html.Node{Type: html.DocumentNode}
	default:
		out = &html.Node{Type: html.ErrorNode}
	}

	for _, c := range n.ChildNodes {
		out.AppendChild(toHTMLNode(c))
	}
	return out
}
