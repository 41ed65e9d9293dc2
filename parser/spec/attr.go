package spec

// Attr is https://dom.spec.whatwg.org/#attr
type Attr struct {
	Namespace         Namespace
	Prefix, LocalName string
	Value             string
	OwnerElement      *Element
}

// NewAttr builds an attribute without a namespace. Attributes use the zero
// Namespace for "no namespace".
func NewAttr(qualifiedName, value string) *Attr {
	return &Attr{LocalName: qualifiedName, Value: value}
}

// Name is the qualified name of the attribute.
func (a *Attr) Name() string {
	if a.Prefix == "" {
		return a.LocalName
	}
	return a.Prefix + ":" + a.LocalName
}
