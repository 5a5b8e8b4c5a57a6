package render

import (
	"math"
	"strconv"

	"github.com/matzehuels/schemeview/pkg/render/sink"
	"github.com/matzehuels/schemeview/pkg/scheme"
)

// Element ids of the document nodes.
const (
	SchemeElementID     = "scheme"
	SchemeBackElementID = "schemeBack"
)

// ScaleMode selects how the scheme fits the viewport.
type ScaleMode string

const (
	ScaleFitScreen  ScaleMode = "fit-screen"
	ScaleFitWidth   ScaleMode = "fit-width"
	ScaleActualSize ScaleMode = "actual-size"
)

// ParseScaleMode returns the scale mode named s. The empty string is
// actual size.
func ParseScaleMode(s string) (ScaleMode, bool) {
	switch m := ScaleMode(s); m {
	case ScaleFitScreen, ScaleFitWidth, ScaleActualSize:
		return m, true
	case "":
		return ScaleActualSize, true
	}
	return "", false
}

// SchemeRenderer renders the document shell that components are placed in.
type SchemeRenderer struct {
	// TitleSuffix is appended to the document title, separated by " - ".
	TitleSuffix string
}

// CreateDom builds doc.Node and attaches it to the surface of ctx.
func (r SchemeRenderer) CreateDom(doc *scheme.Document, ctx *Context) {
	if ctx.Surface == nil {
		return
	}
	p := &doc.Props
	w, h := p.Size.Width, p.Size.Height

	node := ctx.Surface.NewNode("div", SchemeElementID)
	node.Set(sink.Position, "relative")
	node.Set(sink.Width, px(w))
	node.Set(sink.Height, px(h))
	node.Set(sink.TransformOrigin, "left top")

	SetBackColor(ctx.Surface.Body(), p.BackColor, false)
	SetBackColor(node, p.BackColor, false)
	SetFont(node, p.Font)
	SetForeColor(node, p.ForeColor, false)

	// A separate node keeps the background image scaling with the scheme.
	if img := ctx.GetImage(p.BackImageName); img != nil {
		back := ctx.Surface.NewNode("div", SchemeBackElementID)
		back.Set(sink.Width, px(w))
		back.Set(sink.Height, px(h))
		back.Set(sink.BackgroundImage, ImageToCSS(img))
		back.Set(sink.BackgroundSize, px(w)+" "+px(h))
		back.Set(sink.BackgroundRepeat, "no-repeat")
		node.Append(back)
	}

	if p.Title != "" {
		title := r.Title(doc)
		ctx.Surface.SetTitle(title)
		if ctx.Hub != nil {
			ctx.Hub.Notify(EventViewTitleChanged, title)
		} else {
			ctx.log().Warn("view hub is unavailable, title change not announced", "title", title)
		}
	}

	ctx.Surface.Attach(node)
	doc.Node = node
}

// Title returns the display title of doc.
func (r SchemeRenderer) Title(doc *scheme.Document) string {
	if r.TitleSuffix == "" {
		return doc.Props.Title
	}
	return doc.Props.Title + " - " + r.TitleSuffix
}

// CalcScale returns the scale factor that fits doc into an area of the
// given size.
func (r SchemeRenderer) CalcScale(doc *scheme.Document, mode ScaleMode, areaWidth, areaHeight float64) float64 {
	w, h := doc.Props.Size.Width, doc.Props.Size.Height
	if w <= 0 || h <= 0 {
		return 1
	}
	hor := areaWidth / w

	switch mode {
	case ScaleFitScreen:
		return math.Min(hor, areaHeight/h)
	case ScaleFitWidth:
		return hor
	}
	return 1
}

// SetScale scales doc.Node uniformly. The layout size shrinks with the
// scale but never grows beyond the document size.
func (r SchemeRenderer) SetScale(doc *scheme.Document, scale float64) {
	if doc.Node == nil {
		return
	}
	s := strconv.FormatFloat(scale, 'f', -1, 64)
	coef := math.Min(scale, 1)
	doc.Node.Set(sink.Transform, "scale("+s+", "+s+")")
	doc.Node.Set(sink.Width, px(doc.Props.Size.Width*coef))
	doc.Node.Set(sink.Height, px(doc.Props.Size.Height*coef))
}
