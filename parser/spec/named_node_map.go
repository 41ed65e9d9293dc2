package spec

// NamedNodeMap keeps an element's attributes in the order they were added.
// https://dom.spec.whatwg.org/#interface-namednodemap
type NamedNodeMap struct {
	Attrs             []*Attr
	AssociatedElement *Element
}

func NewNamedNodeMap(oe *Element) *NamedNodeMap {
	return &NamedNodeMap{AssociatedElement: oe}
}

func (n *NamedNodeMap) Length() int {
	if n == nil {
		return 0
	}
	return len(n.Attrs)
}

func (n *NamedNodeMap) Item(i int) *Attr {
	if i < 0 || i >= n.Length() {
		return nil
	}
	return n.Attrs[i]
}

func (n *NamedNodeMap) GetNamedItem(qn string) *Attr {
	_, a := n.getAttributeByName(qn)
	return a
}

// https://dom.spec.whatwg.org/#concept-element-attributes-get-by-name
func (n *NamedNodeMap) getAttributeByName(qn string) (int, *Attr) {
	if n == nil {
		return -1, nil
	}
	if n.AssociatedElement != nil {
		qn = n.AssociatedElement.normalizeName(qn)
	}
	for i, a := range n.Attrs {
		if a.Name() == qn {
			return i, a
		}
	}
	return -1, nil
}

func (n *NamedNodeMap) getAttributeByNSLocalName(ns Namespace, ln string) (int, *Attr) {
	for i, a := range n.Attrs {
		if a.Namespace == ns && a.LocalName == ln {
			return i, a
		}
	}
	return -1, nil
}

func (n *NamedNodeMap) GetNamedItemNS(ns Namespace, ln string) *Attr {
	_, a := n.getAttributeByNSLocalName(ns, ln)
	return a
}

// SetNamedItem adds s, replacing an attribute with the same namespace and
// local name at its current position. The replaced attribute is returned.
// https://dom.spec.whatwg.org/#concept-element-attributes-set
func (n *NamedNodeMap) SetNamedItem(s *Attr) *Attr {
	if s == nil {
		return nil
	}
	s.OwnerElement = n.AssociatedElement

	i, oldAttr := n.getAttributeByNSLocalName(s.Namespace, s.LocalName)
	if oldAttr == nil {
		n.Attrs = append(n.Attrs, s)
		return nil
	}
	if oldAttr == s {
		return s
	}
	n.Attrs[i] = s
	oldAttr.OwnerElement = nil
	return oldAttr
}

// RemoveNamedItem removes the attribute named qn and returns it, or nil if
// there was none.
func (n *NamedNodeMap) RemoveNamedItem(qn string) *Attr {
	i, a := n.getAttributeByName(qn)
	if a == nil {
		return nil
	}
	n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
	a.OwnerElement = nil
	return a
}
