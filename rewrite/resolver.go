package rewrite

import (
	"strconv"
	"strings"

	"github.com/heathj/imgset/parser/spec"
	"github.com/heathj/imgset/srcset"
)

// Resolver finds the intrinsic size of the image an element points at.
type Resolver interface {
	Resolve(elem *spec.Element) (srcset.Image, bool)
}

type ResolverFunc func(elem *spec.Element) (srcset.Image, bool)

func (f ResolverFunc) Resolve(elem *spec.Element) (srcset.Image, bool) { return f(elem) }

// Manifest looks images up by their exact src.
type Manifest map[string]srcset.Image

func (m Manifest) Resolve(elem *spec.Element) (srcset.Image, bool) {
	img, ok := m[elem.GetAttribute("src")]
	return img, ok && img.Width > 0
}

// Attributes reads the element's own width and height attributes. A width
// that is not a positive integer resolves nothing.
type Attributes struct{}

func (Attributes) Resolve(elem *spec.Element) (srcset.Image, bool) {
	width, ok := dimension(elem.GetAttribute("width"))
	if !ok || width <= 0 {
		return srcset.Image{}, false
	}
	height, _ := dimension(elem.GetAttribute("height"))
	return srcset.Image{Width: width, Height: height}, true
}

func dimension(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Chain returns the first successful resolution.
type Chain []Resolver

func (c Chain) Resolve(elem *spec.Element) (srcset.Image, bool) {
	for _, r := range c {
		if img, ok := r.Resolve(elem); ok {
			return img, true
		}
	}
	return srcset.Image{}, false
}
