package spec

// Document is https://dom.spec.whatwg.org/#interface-document
type Document struct {
	URL        string
	CompatMode string
	Type       string
}

// DocumentElement returns the root element of the document node d, or nil.
func DocumentElement(d *Node) *Element {
	for _, c := range d.ChildNodes {
		if c.NodeType == ElementNode {
			return c.Element
		}
	}
	return nil
}

// DocumentType is https://dom.spec.whatwg.org/#documenttype
type DocumentType struct {
	Name     string
	PublicID string
	SystemID string
}
