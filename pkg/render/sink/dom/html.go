package dom

import (
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/schemeview/pkg/render/sink"
)

// KeyAttr is the attribute carrying a node's journal key in HTML output.
const KeyAttr = "data-key"

// WriteHTML serializes the body subtree.
func (s *Surface) WriteHTML(w io.Writer) error {
	return html.Render(w, s.body.HTMLNode())
}

// HTML returns the body subtree as a string.
func (s *Surface) HTML() string {
	var b strings.Builder
	_ = s.WriteHTML(&b)
	return b.String()
}

// HTMLNode converts the node and its children into an html.Node tree.
func (n *Node) HTMLNode() *html.Node {
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.tag,
		DataAtom: atom.Lookup([]byte(n.tag)),
	}
	if n.id != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "id", Val: n.id})
	}
	el.Attr = append(el.Attr, html.Attribute{Key: KeyAttr, Val: n.key})
	if style := n.styleAttr(); style != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "style", Val: style})
	}
	if n.title != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "title", Val: n.title})
	}
	if n.text != "" {
		el.AppendChild(&html.Node{Type: html.TextNode, Data: n.text})
	}
	for _, c := range n.children {
		el.AppendChild(c.HTMLNode())
	}
	return el
}

// styleAttr renders the properties in name order so output is stable.
func (n *Node) styleAttr() string {
	props := make([]sink.Prop, 0, len(n.styles))
	for p := range n.styles {
		props = append(props, p)
	}
	slices.Sort(props)

	var b strings.Builder
	for i, p := range props {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(p))
		b.WriteString(": ")
		b.WriteString(n.styles[p])
		b.WriteByte(';')
	}
	return b.String()
}
