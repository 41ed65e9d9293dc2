package spec

import "strings"

type Namespace uint

const (
	Htmlns Namespace = iota
	Mathmlns
	Svgns
	Xlinkns
	Xmlns
	Xmlnsns
)

// https://dom.spec.whatwg.org/#htmlcollection
type HTMLCollection []*Element

// Element is an individual HTML element that gets added to the DOM.
// https://dom.spec.whatwg.org/#interface-element
type Element struct {
	NamespaceURI      Namespace
	Prefix, LocalName string
	Attributes        *NamedNodeMap

	node *Node
}

// Node returns the tree node that owns e.
func (e *Element) Node() *Node { return e.node }

func (e *Element) qualifiedName() string {
	if e.Prefix == "" {
		return e.LocalName
	}
	return e.Prefix + ":" + e.LocalName
}

// TagName is the qualified name, upper-cased for elements in the HTML
// namespace.
// https://dom.spec.whatwg.org/#dom-element-tagname
func (e *Element) TagName() string {
	qn := e.qualifiedName()
	if e.NamespaceURI == Htmlns {
		return strings.ToUpper(qn)
	}
	return qn
}

func (e *Element) normalizeName(qualifiedName string) string {
	if e.NamespaceURI == Htmlns {
		return strings.ToLower(qualifiedName)
	}
	return qualifiedName
}

func (e *Element) HasAttributes() bool { return e.Attributes.Length() > 0 }

func (e *Element) GetAttributeNames() []string {
	names := make([]string, 0, e.Attributes.Length())
	for _, a := range e.Attributes.Attrs {
		names = append(names, a.Name())
	}
	return names
}

// GetAttribute returns the value of the named attribute, or "" when the
// element has no such attribute.
func (e *Element) GetAttribute(qualifiedName string) string {
	if a := e.Attributes.GetNamedItem(qualifiedName); a != nil {
		return a.Value
	}
	return ""
}

func (e *Element) GetAttributeNode(qualifiedName string) *Attr {
	return e.Attributes.GetNamedItem(qualifiedName)
}

func (e *Element) HasAttribute(qualifiedName string) bool {
	return e.Attributes.GetNamedItem(qualifiedName) != nil
}

// SetAttribute replaces the value of an existing attribute in place or
// appends a new one.
// https://dom.spec.whatwg.org/#dom-element-setattribute
func (e *Element) SetAttribute(qualifiedName, value string) {
	qualifiedName = e.normalizeName(qualifiedName)
	if a := e.Attributes.GetNamedItem(qualifiedName); a != nil {
		a.Value = value
		return
	}
	e.Attributes.SetNamedItem(NewAttr(qualifiedName, value))
}

func (e *Element) RemoveAttribute(qualifiedName string) {
	e.Attributes.RemoveNamedItem(qualifiedName)
}

// https://dom.spec.whatwg.org/#dom-element-toggleattribute
func (e *Element) ToggleAttribute(qualifiedName string, force ...bool) bool {
	has := e.HasAttribute(qualifiedName)
	if !has {
		if len(force) == 0 || force[0] {
			e.SetAttribute(qualifiedName, "")
			return true
		}
		return false
	}
	if len(force) == 0 || !force[0] {
		e.RemoveAttribute(qualifiedName)
		return false
	}
	return true
}

func (e *Element) GetElementsByTagName(qualifiedName string) HTMLCollection {
	return e.node.GetElementsByTagName(qualifiedName)
}
