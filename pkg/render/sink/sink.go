// Package sink defines the styling surface the render engine draws on.
//
// Renderers never talk to a concrete GUI toolkit. They create nodes on a
// [Surface] and mutate them through [Node], whose properties use CSS names so
// that an HTML backend can apply them verbatim while a terminal or test
// backend can interpret only the ones it cares about.
//
// Hover state is owned by the node: a backend marks a node hovered before it
// runs the enter handlers and clears the mark before the leave handlers, so
// any code that asks [Node.Hovered] sees the live pointer state.
package sink

// Prop is a style property of a node.
type Prop string

// Style properties used by the renderers.
const (
	Color              Prop = "color"
	BackgroundColor    Prop = "background-color"
	BorderColor        Prop = "border-color"
	BorderWidth        Prop = "border-width"
	BorderStyle        Prop = "border-style"
	FontFamily         Prop = "font-family"
	FontSize           Prop = "font-size"
	FontWeight         Prop = "font-weight"
	FontStyle          Prop = "font-style"
	TextDecoration     Prop = "text-decoration"
	WhiteSpace         Prop = "white-space"
	TextAlign          Prop = "text-align"
	VerticalAlign      Prop = "vertical-align"
	BackgroundImage    Prop = "background-image"
	BackgroundSize     Prop = "background-size"
	BackgroundRepeat   Prop = "background-repeat"
	BackgroundPosition Prop = "background-position"
	Position           Prop = "position"
	Left               Prop = "left"
	Top                Prop = "top"
	Width              Prop = "width"
	Height             Prop = "height"
	MaxWidth           Prop = "max-width"
	ZIndex             Prop = "z-index"
	Display            Prop = "display"
	Overflow           Prop = "overflow"
	Cursor             Prop = "cursor"
	Transform          Prop = "transform"
	TransformOrigin    Prop = "transform-origin"
)

// EventKind identifies a pointer event.
type EventKind string

// Pointer events a node can receive.
const (
	PointerEnter EventKind = "enter"
	PointerLeave EventKind = "leave"
	Click        EventKind = "click"
)

// ParseEventKind converts a wire name into an EventKind.
func ParseEventKind(s string) (EventKind, bool) {
	switch k := EventKind(s); k {
	case PointerEnter, PointerLeave, Click:
		return k, true
	}
	return "", false
}

// Handler reacts to a pointer event.
type Handler func()

// Node is a renderable element owned by exactly one scheme component (or by
// the document itself).
type Node interface {
	// ID returns the element id, empty for anonymous inner nodes.
	ID() string

	// Set assigns a style property. An empty value removes it.
	Set(p Prop, value string)
	// Get returns the current value of a style property, empty if unset.
	Get(p Prop) string

	SetText(text string)
	Text() string

	// SetTitle sets the hover text (tooltip).
	SetTitle(title string)
	Title() string

	Append(child Node)
	Children() []Node

	// On binds a handler for an event kind. A second call for the same kind
	// adds another handler.
	On(kind EventKind, h Handler)
	// Bound reports whether at least one handler is bound for kind.
	Bound(kind EventKind) bool

	// Dispatch delivers a pointer event to the node.
	Dispatch(kind EventKind)
	// Hovered reports whether the pointer is currently over the node.
	Hovered() bool
}

// Surface creates nodes and owns document-wide state.
type Surface interface {
	// NewNode creates a detached node.
	NewNode(tag, id string) Node
	// Body returns the root node of the surface.
	Body() Node
	// Attach makes n a top-level child of the body.
	Attach(n Node)

	SetTitle(title string)
	Title() string

	// Viewport returns the available display area in pixels.
	Viewport() (width, height float64)

	// Reset detaches every node and clears the title.
	Reset()
}
