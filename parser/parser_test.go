package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/heathj/imgset/parser/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type treeTest struct {
	in       string
	context  string // fragment context element, empty for a full document
	expected string
}

var treeTests = []treeTest{
	{
		in: "<p>One<p>Two",
		expected: `#document
| <html>
|   <head>
|   <body>
|     <p>
|       "One"
|     <p>
|       "Two"`,
	},
	{
		in: `<!DOCTYPE html><IMG SRC=a alt="b">`,
		expected: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <img>
|       alt="b"
|       src="a"`,
	},
	{
		in: "<!-- hi --><p>x",
		expected: `#document
| <!--  hi  -->
| <html>
|   <head>
|   <body>
|     <p>
|       "x"`,
	},
	{
		in: `<svg viewBox="0 0 1 1"><image xlink:href="a.png"/></svg>`,
		expected: `#document
| <html>
|   <head>
|   <body>
|     <svg svg>
|       viewBox="0 0 1 1"
|       <svg image>
|         xlink href="a.png"`,
	},
	{
		in: `<picture><source src="a.jpg"><img src="b.jpg"></picture>`,
		expected: `#document
| <html>
|   <head>
|   <body>
|     <picture>
|       <source>
|         src="a.jpg"
|       <img>
|         src="b.jpg"`,
	},
	{
		in:      "<td>cell</td>",
		context: "body",
		expected: `#document-fragment
| "cell"`,
	},
	{
		in:      "<td>cell",
		context: "tr",
		expected: `#document-fragment
| <td>
|   "cell"`,
	},
	{
		in:      `<figure><img src="/content/images/a.jpg"><figcaption>A</figcaption></figure>`,
		context: "body",
		expected: `#document-fragment
| <figure>
|   <img>
|     src="/content/images/a.jpg"
|   <figcaption>
|     "A"`,
	},
}

func TestTreeConstruction(t *testing.T) {
	for _, tt := range treeTests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			var p *Parser
			if tt.context == "" {
				p = NewParser(strings.NewReader(tt.in))
			} else {
				p = NewFragmentParser(strings.NewReader(tt.in), spec.NewDOMElement(nil, tt.context, spec.Htmlns))
			}
			root, err := p.Start()
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, root.String()); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type attributeAccuracyTestcase struct {
	inHTML string            // snippet of HTML to parse (should only be one element)
	attrs  map[string]string // expected attributes on the first element
}

var attributeAccuracyTests = []attributeAccuracyTestcase{
	{"<img>", map[string]string{}},
	{"<img src='123' alt='test'>", map[string]string{
		"src": "123",
		"alt": "test",
	}},
	{`<img src="/content/images/a.jpg" srcset="a.jpg 1x, b.jpg 2x">`, map[string]string{
		"src":    "/content/images/a.jpg",
		"srcset": "a.jpg 1x, b.jpg 2x",
	}},
	{"<img src='123' src='456'>", map[string]string{
		"src": "123",
	}},
	{"<img src=123 width=450>", map[string]string{
		"src":   "123",
		"width": "450",
	}},
	{"<img src>", map[string]string{
		"src": "",
	}},
	{"<img src test>", map[string]string{
		"src":  "",
		"test": "",
	}},
	{"<img ABC=123>", map[string]string{
		"abc": "123",
	}},
	{"<img abc=>", map[string]string{
		"abc": "",
	}},
	{"<img\tabc=123>", map[string]string{
		"abc": "123",
	}},
	{"<img title='a &amp; b'>", map[string]string{
		"title": "a & b",
	}},
}

// TestAttributeAccuracy makes sure the DOM ends up with the attribute
// names and values of the source markup.
func TestAttributeAccuracy(t *testing.T) {
	for _, tt := range attributeAccuracyTests {
		t.Run(tt.inHTML, func(t *testing.T) {
			t.Parallel()
			root, err := NewFragmentParser(strings.NewReader(tt.inHTML), nil).Start()
			require.NoError(t, err)
			require.NotEmpty(t, root.ChildNodes)

			elem := root.FirstChild.Element
			require.NotNil(t, elem)
			assert.Equal(t, len(tt.attrs), elem.Attributes.Length())
			for k, v := range tt.attrs {
				if assert.True(t, elem.HasAttribute(k), "missing %s", k) {
					assert.Equal(t, v, elem.GetAttribute(k))
				}
			}
		})
	}
}

func TestScripting(t *testing.T) {
	in := `<body><noscript><img src="a.jpg"></noscript></body>`

	root, err := NewParser(strings.NewReader(in)).Start()
	require.NoError(t, err)
	assert.Empty(t, root.GetElementsByTagName("img"))

	root, err = NewParser(strings.NewReader(in), WithScripting(false)).Start()
	require.NoError(t, err)
	assert.Len(t, root.GetElementsByTagName("img"), 1)
}

func TestFragmentContextMustBeElement(t *testing.T) {
	_, err := NewFragmentParser(strings.NewReader("<p>"), spec.NewTextNode(nil, "x")).Start()
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	tests := []struct {
		in, context, want string
	}{
		{`<img src="a" alt="b">`, "body", `<img src="a" alt="b"/>`},
		{`<p title="a&amp;b">x &lt; y</p>`, "body", `<p title="a&amp;b">x &lt; y</p>`},
		{`<svg viewBox="0 0 1 1"><use xlink:href="#a"></use></svg>`, "body", `<svg viewBox="0 0 1 1"><use xlink:href="#a"></use></svg>`},
		{`<!DOCTYPE html><p>x`, "", `<!DOCTYPE html><html><head></head><body><p>x</p></body></html>`},
		{`<!-- c --><p>x`, "", `<!-- c --><html><head></head><body><p>x</p></body></html>`},
	}
	for _, tt := range tests {
		var p *Parser
		if tt.context == "" {
			p = NewParser(strings.NewReader(tt.in))
		} else {
			p = NewFragmentParser(strings.NewReader(tt.in), nil)
		}
		root, err := p.Start()
		require.NoError(t, err, tt.in)

		var buf bytes.Buffer
		require.NoError(t, Render(&buf, root), tt.in)
		assert.Equal(t, tt.want, buf.String(), tt.in)
	}
}

func TestRenderAfterMutation(t *testing.T) {
	root, err := NewFragmentParser(strings.NewReader(`<img src="a.jpg" alt="x">`), nil).Start()
	require.NoError(t, err)

	img := root.GetElementsByTagName("img")[0]
	img.SetAttribute("SRCSET", "a-300.jpg 300w")
	img.SetAttribute("alt", "y")
	img.RemoveAttribute("src")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, img.Node()))
	assert.Equal(t, `<img alt="y" srcset="a-300.jpg 300w"/>`, buf.String())
}
