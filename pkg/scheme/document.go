package scheme

import (
	"slices"

	"github.com/matzehuels/schemeview/pkg/render/sink"
)

// DocumentProps is the document-level appearance.
type DocumentProps struct {
	Size          Size
	BackColor     Color
	ForeColor     Color
	Font          *Font
	Title         string
	BackImageName string
}

// Document is a loaded scheme.
type Document struct {
	Props      DocumentProps
	Components []*Component
	Images     Images

	// Node is the root node created for the document by the scheme renderer.
	Node sink.Node
}

// Component is one positioned, typed element of a scheme.
type Component struct {
	ID       int
	TypeName string
	// Props is nil when the type tag is unknown or the properties are
	// malformed.
	Props Props

	// Node is created once by the renderer and mutated in place afterwards.
	Node sink.Node
}

// InputChannel returns the bound input channel, 0 when the component has none.
func (c *Component) InputChannel() int {
	if b, ok := c.Props.(ChannelBound); ok {
		return b.InputChannel()
	}
	return 0
}

// Component returns the component with the given id.
func (d *Document) Component(id int) (*Component, bool) {
	for _, c := range d.Components {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// InputChannels returns the sorted, distinct positive input channel numbers
// referenced by the document.
func (d *Document) InputChannels() []int {
	seen := make(map[int]struct{})
	var out []int
	for _, c := range d.Components {
		n := c.InputChannel()
		if n <= 0 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Image is a named binary image.
type Image struct {
	Name      string
	MediaType string
	Data      []byte
}

// Images maps image names to images.
type Images map[string]*Image

// Get returns the named image, or nil when it is absent.
func (m Images) Get(name string) *Image {
	if name == "" || m == nil {
		return nil
	}
	return m[name]
}
