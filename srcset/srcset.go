// Package srcset fills in the srcset attribute of image elements from a
// configured list of responsive image widths.
package srcset

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Element is what Apply needs from a DOM element.
type Element interface {
	TagName() string
	GetAttribute(name string) string
	SetAttribute(name, value string)
}

// Image describes the intrinsic size of the image an element points at.
type Image struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height,omitempty"`
}

// Size is one of the widths the image server can resize to.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height,omitempty"`
}

// Options configures Apply.
type Options struct {
	// ContentImageSizes maps a size name ("s", "m", ...) to its dimensions.
	ContentImageSizes map[string]Size

	// OmitEmpty leaves srcset unset on Unsplash images when no width is
	// usable. Without it an empty srcset is written for them, whereas local
	// content images only ever get a non-empty one.
	OmitEmpty bool
}

// ErrInvalidURL is returned for an Unsplash src that is not an absolute URL.
var ErrInvalidURL = errors.New("invalid image url")

var (
	relativeImagePattern = regexp.MustCompile(`^/.*/?content/images/`)
	unsplashPattern      = regexp.MustCompile(`images\.unsplash\.com`)
)

var imageTags = []string{"IMG", "SOURCE"}

// Apply sets the srcset attribute of elem when its src is a local content
// image or an Unsplash image. Elements that cannot take a srcset are left
// untouched and nil is returned. The only error is an Unsplash src that is
// not an absolute URL; a src that is also a local content path has already
// had its srcset written by then.
func Apply(elem Element, image Image, opts Options) error {
	if elem == nil || !isImageTag(elem.TagName()) || elem.GetAttribute("src") == "" {
		return nil
	}
	if image.Width <= 0 || len(opts.ContentImageSizes) == 0 {
		return nil
	}

	widths := Widths(image.Width, opts.ContentImageSizes)
	src := elem.GetAttribute("src")

	if relativeImagePattern.MatchString(src) {
		if srcs := relativeSources(src, widths); len(srcs) > 0 {
			elem.SetAttribute("srcset", strings.Join(srcs, ", "))
		}
	}

	if unsplashPattern.MatchString(src) {
		srcs, err := unsplashSources(src, widths)
		if err != nil {
			return err
		}
		if len(srcs) > 0 || !opts.OmitEmpty {
			elem.SetAttribute("srcset", strings.Join(srcs, ", "))
		}
	}

	return nil
}

func isImageTag(tag string) bool {
	for _, t := range imageTags {
		if strings.EqualFold(tag, t) {
			return true
		}
	}
	return false
}

// Widths returns the configured widths usable for an image of the given
// intrinsic width, ascending. The intrinsic width itself is added when it
// falls between two configured widths.
func Widths(imageWidth int, sizes map[string]Size) []int {
	seen := make(map[int]bool, len(sizes))
	responsive := make([]int, 0, len(sizes))
	for _, s := range sizes {
		if s.Width <= 0 || seen[s.Width] {
			continue
		}
		seen[s.Width] = true
		responsive = append(responsive, s.Width)
	}
	sort.Ints(responsive)

	var usable []int
	for _, w := range responsive {
		if w <= imageWidth {
			usable = append(usable, w)
		}
	}

	// offer the full-size image when it sits between breakpoints
	if n := len(usable); n > 0 && imageWidth > usable[n-1] && imageWidth < responsive[len(responsive)-1] {
		usable = append(usable, imageWidth)
	}
	return usable
}

func relativeSources(src string, widths []int) []string {
	if !strings.Contains(src, "/content/images/") {
		return nil
	}
	// sized copies live next to the original: <dir>/size/w<N>/<file>
	i := strings.LastIndex(src, "/")
	imagesPath, filename := src[:i], src[i+1:]
	if filename == "" {
		return nil
	}

	srcs := make([]string, 0, len(widths))
	for _, w := range widths {
		srcs = append(srcs, fmt.Sprintf("%s/size/w%d/%s %dw", imagesPath, w, filename, w))
	}
	return srcs
}

func unsplashSources(src string, widths []int) ([]string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidURL, "%q: %v", src, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(ErrInvalidURL, "%q is not absolute", src)
	}

	srcs := make([]string, 0, len(widths))
	for _, w := range widths {
		sized := *u
		sized.RawQuery = setQueryParam(u.RawQuery, "w", strconv.Itoa(w))
		srcs = append(srcs, fmt.Sprintf("%s %dw", sized.String(), w))
	}
	return srcs, nil
}
