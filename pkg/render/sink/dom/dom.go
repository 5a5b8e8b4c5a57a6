// Package dom is a headless implementation of the render sink.
//
// The node tree lives in memory. It can be serialized to HTML with
// golang.org/x/net/html, queried for tests and inspection, and it keeps a
// journal of changed nodes so that a live client can be sent patches instead
// of whole pages.
//
// A Surface is not safe for concurrent use. The view session owns it and
// touches it only from its event loop.
package dom

import (
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/schemeview/pkg/render/sink"
)

// Surface is an in-memory sink.Surface.
type Surface struct {
	body     *Node
	title    string
	width    float64
	height   float64
	seq      int
	changes  int
	dirty    map[string]struct{}
	byKey    map[string]*Node
	titleSet bool
}

// NewSurface creates a surface with the given viewport size.
func NewSurface(width, height float64) *Surface {
	s := &Surface{width: width, height: height}
	s.Reset()
	return s
}

// NewNode creates a detached node.
func (s *Surface) NewNode(tag, id string) sink.Node {
	return s.newNode(tag, id)
}

func (s *Surface) newNode(tag, id string) *Node {
	s.seq++
	n := &Node{
		surface: s,
		key:     "n" + strconv.Itoa(s.seq),
		tag:     tag,
		id:      id,
		styles:  make(map[sink.Prop]string),
	}
	s.byKey[n.key] = n
	return n
}

// Body returns the root node.
func (s *Surface) Body() sink.Node { return s.body }

// Attach appends n to the body.
func (s *Surface) Attach(n sink.Node) { s.body.Append(n) }

// SetTitle sets the display title.
func (s *Surface) SetTitle(title string) {
	if s.title == title {
		return
	}
	s.title = title
	s.titleSet = true
	s.changes++
}

// Title returns the display title.
func (s *Surface) Title() string { return s.title }

// Viewport returns the available display area.
func (s *Surface) Viewport() (float64, float64) { return s.width, s.height }

// SetViewport changes the available display area, e.g. after a client resize.
func (s *Surface) SetViewport(width, height float64) {
	s.width, s.height = width, height
}

// Reset drops every node and starts over with an empty body.
func (s *Surface) Reset() {
	s.byKey = make(map[string]*Node)
	s.dirty = make(map[string]struct{})
	s.title = ""
	s.titleSet = false
	s.body = s.newNode("body", "")
}

// Changes returns the number of effective mutations since the surface was
// created. Writes that leave a value unchanged are not counted.
func (s *Surface) Changes() int { return s.changes }

// FindByID returns the first node in the tree with the given element id.
func (s *Surface) FindByID(id string) (*Node, bool) {
	var found *Node
	s.body.walk(func(n *Node) bool {
		if n.id == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Node returns the node with the given journal key.
func (s *Surface) Node(key string) (*Node, bool) {
	n, ok := s.byKey[key]
	return n, ok
}

// Patch is the full state of one changed node.
type Patch struct {
	Key    string            `json:"key"`
	ID     string            `json:"id,omitempty"`
	Styles map[string]string `json:"styles"`
	Text   string            `json:"text"`
	Title  string            `json:"title,omitempty"`
}

// Flush returns patches for every node changed since the previous flush,
// ordered by key, plus the title if it changed.
func (s *Surface) Flush() (patches []Patch, title string, titleChanged bool) {
	keys := slices.Sorted(maps.Keys(s.dirty))
	for _, k := range keys {
		if n, ok := s.byKey[k]; ok {
			patches = append(patches, n.patch())
		}
	}
	clear(s.dirty)
	title, titleChanged = s.title, s.titleSet
	s.titleSet = false
	return patches, title, titleChanged
}

// State returns the current state of every node in tree order.
func (s *Surface) State() []Patch {
	var out []Patch
	s.body.walk(func(n *Node) bool {
		out = append(out, n.patch())
		return true
	})
	return out
}

func (s *Surface) touch(n *Node) {
	s.changes++
	s.dirty[n.key] = struct{}{}
}

// Node is an in-memory sink.Node.
type Node struct {
	surface  *Surface
	key      string
	tag      string
	id       string
	styles   map[sink.Prop]string
	text     string
	title    string
	children []*Node
	handlers map[sink.EventKind][]sink.Handler
	hovered  bool
}

// Key returns the journal key of the node, unique within its surface.
func (n *Node) Key() string { return n.key }

// Tag returns the element tag.
func (n *Node) Tag() string { return n.tag }

func (n *Node) ID() string { return n.id }

func (n *Node) Set(p sink.Prop, value string) {
	old, ok := n.styles[p]
	if value == "" {
		if !ok {
			return
		}
		delete(n.styles, p)
	} else {
		if ok && old == value {
			return
		}
		n.styles[p] = value
	}
	n.surface.touch(n)
}

func (n *Node) Get(p sink.Prop) string { return n.styles[p] }

// Styles returns a copy of all set properties.
func (n *Node) Styles() map[sink.Prop]string { return maps.Clone(n.styles) }

func (n *Node) SetText(text string) {
	if n.text == text {
		return
	}
	n.text = text
	n.surface.touch(n)
}

func (n *Node) Text() string { return n.text }

func (n *Node) SetTitle(title string) {
	if n.title == title {
		return
	}
	n.title = title
	n.surface.touch(n)
}

func (n *Node) Title() string { return n.title }

func (n *Node) Append(child sink.Node) {
	c, ok := child.(*Node)
	if !ok || c == nil {
		return
	}
	n.children = append(n.children, c)
	n.surface.touch(n)
}

func (n *Node) Children() []sink.Node {
	out := make([]sink.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) On(kind sink.EventKind, h sink.Handler) {
	if h == nil {
		return
	}
	if n.handlers == nil {
		n.handlers = make(map[sink.EventKind][]sink.Handler)
	}
	n.handlers[kind] = append(n.handlers[kind], h)
}

func (n *Node) Bound(kind sink.EventKind) bool { return len(n.handlers[kind]) > 0 }

// Dispatch updates the hover state and runs the handlers bound for kind.
// Repeated enter or leave events without a state change are ignored.
func (n *Node) Dispatch(kind sink.EventKind) {
	switch kind {
	case sink.PointerEnter:
		if n.hovered {
			return
		}
		n.hovered = true
	case sink.PointerLeave:
		if !n.hovered {
			return
		}
		n.hovered = false
	}
	for _, h := range n.handlers[kind] {
		h()
	}
}

func (n *Node) Hovered() bool { return n.hovered }

func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

func (n *Node) patch() Patch {
	p := Patch{
		Key:    n.key,
		ID:     n.id,
		Styles: make(map[string]string, len(n.styles)),
		Text:   n.text,
		Title:  n.title,
	}
	for k, v := range n.styles {
		p.Styles[string(k)] = v
	}
	return p
}

var (
	_ sink.Surface = (*Surface)(nil)
	_ sink.Node    = (*Node)(nil)
)
