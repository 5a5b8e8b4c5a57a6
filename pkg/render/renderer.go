package render

import (
	"encoding/base64"
	"strconv"

	"github.com/matzehuels/schemeview/pkg/render/sink"
	"github.com/matzehuels/schemeview/pkg/scheme"
	"github.com/matzehuels/schemeview/pkg/telemetry"
)

// Defaults substituted for the status color when no channel data applies.
const (
	DefForeColor   = "black"
	DefBackColor   = "transparent"
	DefBorderColor = "transparent"
)

// BorderWidth is the border width of every component, in pixels.
const BorderWidth = 1

// DefaultMediaType is assumed for images without a media type.
const DefaultMediaType = "image/png"

// Renderer creates and updates the node of one component kind.
type Renderer interface {
	// CreateDom builds c.Node. It leaves c.Node nil when the component
	// cannot be rendered.
	CreateDom(c *scheme.Component, ctx *Context)
	// Update applies the data of ctx to a node built by CreateDom.
	Update(c *scheme.Component, ctx *Context)
}

// Base provides no-op implementations of both Renderer methods. Variants
// embed it and override what they need.
type Base struct{}

func (Base) CreateDom(*scheme.Component, *Context) {}
func (Base) Update(*scheme.Component, *Context)    {}

// colorProp describes how one color property is styled.
type colorProp struct {
	prop  sink.Prop
	def   string // substituted for the status color
	unset string // value used when clearing
}

var (
	foreColor   = colorProp{prop: sink.Color, def: DefForeColor}
	backColor   = colorProp{prop: sink.BackgroundColor, def: DefBackColor}
	borderColor = colorProp{prop: sink.BorderColor, def: DefBorderColor, unset: DefBorderColor}
)

// set applies c. The status color becomes the default of the property. An
// unset color clears the property when removeIfEmpty is true and is ignored
// otherwise.
func (cp colorProp) set(n sink.Node, c scheme.Color, removeIfEmpty bool) {
	switch {
	case c.IsStatus():
		n.Set(cp.prop, cp.def)
	case c.IsSet():
		n.Set(cp.prop, c.Value())
	case removeIfEmpty:
		n.Set(cp.prop, cp.unset)
	}
}

// setEffective applies a hover-resolved color. The status color is replaced
// by the color of the datum, and left alone when there is no datum.
func (cp colorProp) setEffective(n sink.Node, c scheme.Color, d telemetry.CnlDataExt, hasDatum bool) {
	if c.IsStatus() {
		if hasDatum {
			n.Set(cp.prop, d.Color)
		}
		return
	}
	cp.set(n, c, true)
}

// setDynamic applies c as the hover handlers do: the status color is
// resolved through [DynamicColor] and an empty result clears the property.
func (cp colorProp) setDynamic(n sink.Node, c scheme.Color, cnlNum int, ctx *Context) {
	cp.set(n, DynamicColor(c, cnlNum, ctx), true)
}

// SetForeColor sets the text color of n.
func SetForeColor(n sink.Node, c scheme.Color, removeIfEmpty bool) {
	foreColor.set(n, c, removeIfEmpty)
}

// SetBackColor sets the background color of n.
func SetBackColor(n sink.Node, c scheme.Color, removeIfEmpty bool) {
	backColor.set(n, c, removeIfEmpty)
}

// SetBorderColor sets the border color of n. Clearing makes the border
// transparent.
func SetBorderColor(n sink.Node, c scheme.Color, removeIfEmpty bool) {
	borderColor.set(n, c, removeIfEmpty)
}

// DynamicColor resolves the status color against the datum of cnlNum in
// ctx. It returns the unset color when the datum is missing; any other color
// passes through.
func DynamicColor(c scheme.Color, cnlNum int, ctx *Context) scheme.Color {
	if !c.IsStatus() {
		return c
	}
	d, ok := ctx.Datum(cnlNum)
	if !ok {
		return scheme.Color{}
	}
	return scheme.ColorOf(d.Color)
}

// SetFont applies the font of f to n. A nil font leaves n untouched.
func SetFont(n sink.Node, f *scheme.Font) {
	if f == nil {
		return
	}
	n.Set(sink.FontFamily, f.Name)
	n.Set(sink.FontSize, px(f.Size))
	n.Set(sink.FontWeight, choose(f.Bold, "bold", "normal"))
	n.Set(sink.FontStyle, choose(f.Italic, "italic", "normal"))
	n.Set(sink.TextDecoration, underline(f))
}

func underline(f *scheme.Font) string {
	return choose(f != nil && f.Underline, "underline", "none")
}

// ImageToDataURI returns the image as a data URI.
func ImageToDataURI(img *scheme.Image) string {
	mt := img.MediaType
	if mt == "" {
		mt = DefaultMediaType
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// ImageToCSS returns the image as a CSS url() value.
func ImageToCSS(img *scheme.Image) string {
	return "url('" + ImageToDataURI(img) + "')"
}

// SetBackgroundImage sets img as the background of n. A nil image clears
// the background when removeIfEmpty is true.
func SetBackgroundImage(n sink.Node, img *scheme.Image, removeIfEmpty bool) {
	switch {
	case img != nil:
		n.Set(sink.BackgroundImage, ImageToCSS(img))
	case removeIfEmpty:
		n.Set(sink.BackgroundImage, "")
	}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func choose(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
