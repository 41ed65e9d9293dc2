package spec

import (
	"fmt"
	"sort"
	"strings"
)

type NodeType uint16

const (
	ElementNode NodeType = iota + 1
	AttrNode
	TextNode
	CDATASectionNode
	ProcessingInstructionNode
	CommentNode
	DocumentNode
	DocumentTypeNode
	DocumentFragmentNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case AttrNode:
		return "attr"
	case TextNode:
		return "text"
	case CDATASectionNode:
		return "cdata"
	case ProcessingInstructionNode:
		return "processing-instruction"
	case CommentNode:
		return "comment"
	case DocumentNode:
		return "document"
	case DocumentTypeNode:
		return "doctype"
	case DocumentFragmentNode:
		return "document-fragment"
	}
	return fmt.Sprintf("NodeType(%d)", uint16(t))
}

// https://dom.whatwg.org/#node
type Node struct {
	NodeType                                                        NodeType
	NodeName                                                        string
	OwnerDocument                                                   *Node
	ParentNode, FirstChild, LastChild, PreviousSibling, NextSibling *Node
	ChildNodes                                                      NodeList

	// Node types
	*Element
	*Text
	*Comment
	*Document
	*DocumentType
}

// NewHTMLDocumentNode returns an empty document node of type html.
func NewHTMLDocumentNode() *Node {
	n := &Node{
		NodeType: DocumentNode,
		NodeName: "#document",
		Document: &Document{Type: "html"},
	}
	n.OwnerDocument = n
	return n
}

// NewDocumentFragmentNode returns an empty fragment owned by od.
func NewDocumentFragmentNode(od *Node) *Node {
	return &Node{
		NodeType:      DocumentFragmentNode,
		NodeName:      "#document-fragment",
		OwnerDocument: od,
	}
}

func NewTextNode(od *Node, text string) *Node {
	return &Node{
		NodeType:      TextNode,
		NodeName:      "#text",
		OwnerDocument: od,
		Text:          NewText(text),
	}
}

func NewCommentNode(od *Node, data string) *Node {
	return &Node{
		NodeType:      CommentNode,
		NodeName:      "#comment",
		OwnerDocument: od,
		Comment:       NewComment(data),
	}
}

func NewDocTypeNode(name, pub, sys string) *Node {
	return &Node{
		NodeType: DocumentTypeNode,
		NodeName: name,
		DocumentType: &DocumentType{
			Name:     name,
			PublicID: pub,
			SystemID: sys,
		},
	}
}

// NewDOMElement creates an element node. The optional argument is the
// namespace prefix.
func NewDOMElement(od *Node, name string, namespace Namespace, optionals ...string) *Node {
	var prefix string
	if len(optionals) >= 1 {
		prefix = optionals[0]
	}
	if namespace == Htmlns {
		name = strings.ToLower(name)
	}
	n := &Node{
		NodeType:      ElementNode,
		NodeName:      name,
		OwnerDocument: od,
		Element: &Element{
			NamespaceURI: namespace,
			Prefix:       prefix,
			LocalName:    name,
		},
	}
	n.Element.node = n
	n.Attributes = NewNamedNodeMap(n.Element)
	return n
}

func (n *Node) HasChildNodes() bool {
	return len(n.ChildNodes) > 0
}

// https://dom.whatwg.org/#concept-node-append
func (n *Node) AppendChild(on *Node) *Node {
	if on.ParentNode != nil {
		on.ParentNode.RemoveChild(on)
	}
	on.PreviousSibling = n.LastChild
	on.NextSibling = nil
	if n.LastChild != nil {
		n.LastChild.NextSibling = on
	} else {
		n.FirstChild = on
	}
	on.ParentNode = n
	n.LastChild = on
	n.ChildNodes = append(n.ChildNodes, on)
	return on
}

// InsertBefore inserts on as a child of n immediately before child. A nil
// child appends.
func (n *Node) InsertBefore(on, child *Node) *Node {
	if child == nil {
		return n.AppendChild(on)
	}
	i := n.ChildNodes.Contains(child)
	if i < 0 {
		return nil
	}
	if on.ParentNode != nil {
		on.ParentNode.RemoveChild(on)
		i = n.ChildNodes.Contains(child)
	}

	n.ChildNodes = append(n.ChildNodes, nil)
	copy(n.ChildNodes[i+1:], n.ChildNodes[i:])
	n.ChildNodes[i] = on
	n.relink()
	on.ParentNode = n
	return on
}

// RemoveChild detaches child from n. It returns nil if child is not a
// child of n.
func (n *Node) RemoveChild(child *Node) *Node {
	node := n.ChildNodes.Remove(n.ChildNodes.Contains(child))
	if node == nil {
		return nil
	}
	n.relink()
	node.ParentNode = nil
	node.PreviousSibling = nil
	node.NextSibling = nil
	return node
}

func (n *Node) relink() {
	n.FirstChild, n.LastChild = nil, nil
	for i, c := range n.ChildNodes {
		c.PreviousSibling, c.NextSibling = nil, nil
		if i > 0 {
			c.PreviousSibling = n.ChildNodes[i-1]
		}
		if i < len(n.ChildNodes)-1 {
			c.NextSibling = n.ChildNodes[i+1]
		}
	}
	if len(n.ChildNodes) > 0 {
		n.FirstChild = n.ChildNodes[0]
		n.LastChild = n.ChildNodes[len(n.ChildNodes)-1]
	}
}

// CloneNode copies n. The copy is detached from any parent. Attributes are
// copied by value so the clone can be mutated independently.
func (n *Node) CloneNode(deep bool) *Node {
	var c *Node
	switch n.NodeType {
	case ElementNode:
		c = NewDOMElement(n.OwnerDocument, n.NodeName, n.Element.NamespaceURI, n.Element.Prefix)
		for _, a := range n.Attributes.Attrs {
			cp := *a
			c.Attributes.SetNamedItem(&cp)
		}
	case DocumentNode:
		c = NewHTMLDocumentNode()
		*c.Document = *n.Document
	case DocumentFragmentNode:
		c = NewDocumentFragmentNode(n.OwnerDocument)
	case DocumentTypeNode:
		c = NewDocTypeNode(n.DocumentType.Name, n.PublicID, n.SystemID)
	case TextNode:
		c = NewTextNode(n.OwnerDocument, n.Text.Data)
	case CommentNode:
		c = NewCommentNode(n.OwnerDocument, n.Comment.Data)
	default:
		c = &Node{NodeType: n.NodeType, NodeName: n.NodeName, OwnerDocument: n.OwnerDocument}
	}

	if deep {
		for _, child := range n.ChildNodes {
			c.AppendChild(child.CloneNode(true))
		}
	}
	return c
}

// Walk visits n and its descendants in tree order. Returning false from
// fn skips the visited node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.ChildNodes {
		c.Walk(fn)
	}
}

// GetElementsByTagName returns the descendant elements of n whose local
// name matches qualifiedName, in tree order. "*" matches every element.
// https://dom.spec.whatwg.org/#concept-getelementsbytagname
func (n *Node) GetElementsByTagName(qualifiedName string) HTMLCollection {
	var out HTMLCollection
	lower := strings.ToLower(qualifiedName)
	for _, c := range n.ChildNodes {
		c.Walk(func(d *Node) bool {
			if d.NodeType != ElementNode {
				return true
			}
			name := d.Element.qualifiedName()
			if qualifiedName == "*" ||
				(d.Element.NamespaceURI == Htmlns && name == lower) ||
				(d.Element.NamespaceURI != Htmlns && name == qualifiedName) {
				out = append(out, d.Element)
			}
			return true
		})
	}
	return out
}

func serializeNodeType(node *Node, ident int) string {
	switch node.NodeType {
	case ElementNode:
		e := "<"
		switch node.Element.NamespaceURI {
		case Svgns:
			e += "svg "
		case Mathmlns:
			e += "math "
		}
		e += node.NodeName + ">"
		if node.Attributes.Length() == 0 {
			return e
		}

		attrs := make([]*Attr, len(node.Attributes.Attrs))
		copy(attrs, node.Attributes.Attrs)
		sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name() < attrs[j].Name() })
		spaces := "| " + strings.Repeat("  ", ident)
		for _, attr := range attrs {
			var ns string
			switch attr.Namespace {
			case Xmlnsns:
				ns = "xmlns "
			case Xmlns:
				ns = "xml "
			case Xlinkns:
				ns = "xlink "
			}
			e += "\n" + spaces + ns + attr.LocalName + "=\"" + attr.Value + "\""
		}
		return e
	case TextNode:
		return "\"" + node.Text.Data + "\""
	case CommentNode:
		return "<!-- " + node.Comment.Data + " -->"
	case DocumentTypeNode:
		d := "<!DOCTYPE " + node.DocumentType.Name
		if node.PublicID != "" || node.SystemID != "" {
			d += " \"" + node.PublicID + "\" \"" + node.SystemID + "\""
		}
		return d + ">"
	case DocumentNode:
		return "#document"
	case DocumentFragmentNode:
		return "#document-fragment"
	default:
		return ""
	}
}

func (node *Node) serialize(ident int) string {
	ser := serializeNodeType(node, ident) + "\n"
	if node.NodeType != DocumentNode && node.NodeType != DocumentFragmentNode {
		ser = "| " + strings.Repeat("  ", ident-1) + ser
	}
	for _, child := range node.ChildNodes {
		ser += child.serialize(ident + 1)
	}

	return ser
}

// String dumps the tree rooted at node in the html5lib test format.
func (node *Node) String() string {
	start := 0
	if node.NodeType != DocumentNode && node.NodeType != DocumentFragmentNode {
		start = 1
	}
	return strings.TrimRight(node.serialize(start), "\n")
}
