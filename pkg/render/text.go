package render

import (
	"github.com/matzehuels/schemeview/pkg/render/sink"
	"github.com/matzehuels/schemeview/pkg/scheme"
)

// StaticTextRenderer renders a text label: a container node holding one
// text node.
type StaticTextRenderer struct {
	Base
}

func (StaticTextRenderer) CreateDom(c *scheme.Component, ctx *Context) {
	p := staticTextProps(c.Props)
	if p == nil || ctx.Surface == nil {
		return
	}

	comp := ctx.Surface.NewNode("span", ElementID(c.ID))
	text := ctx.Surface.NewNode("span", "")

	prepareComponent(comp, &p.BaseProps, false)
	SetBackColor(comp, p.BackColor, false)
	SetBorderColor(comp, p.BorderColor, true)
	SetFont(comp, p.Font)
	SetForeColor(comp, p.ForeColor, false)

	if p.AutoSize {
		setWordWrap(text, false)
	} else {
		comp.Set(sink.Display, "table")
		text.Set(sink.Display, "table-cell")
		text.Set(sink.Overflow, "hidden")
		text.Set(sink.MaxWidth, px(p.Size.Width))
		text.Set(sink.Width, px(p.Size.Width))
		text.Set(sink.Height, px(p.Size.Height))
		setHAlign(comp, p.HAlign)
		setVAlign(text, p.VAlign)
		setWordWrap(text, p.WordWrap)
	}

	text.SetText(p.Text)
	comp.Append(text)
	c.Node = comp
}

func staticTextProps(p scheme.Props) *scheme.StaticTextProps {
	switch p := p.(type) {
	case *scheme.StaticTextProps:
		return p
	case *scheme.DynamicTextProps:
		return &p.StaticTextProps
	}
	return nil
}

// textNode returns the inner text node of a text component.
func textNode(comp sink.Node) sink.Node {
	if children := comp.Children(); len(children) > 0 {
		return children[0]
	}
	return comp
}

// DynamicTextRenderer renders a text label bound to an input channel. It can
// show the channel value, take status colors, react to hover and open a
// dialog on click.
type DynamicTextRenderer struct {
	static StaticTextRenderer
}

func (r DynamicTextRenderer) CreateDom(c *scheme.Component, ctx *Context) {
	p, ok := c.Props.(*scheme.DynamicTextProps)
	if !ok {
		return
	}
	r.static.CreateDom(c, ctx)
	comp := c.Node
	if comp == nil {
		return
	}

	setToolTip(comp, p.ToolTip)
	bindAction(comp, actionBinding{action: p.Action, inCnl: p.InCnlNum, ctrlCnl: p.CtrlCnlNum}, ctx)

	comp.On(sink.PointerEnter, func() {
		hoverTextColors(comp, p, ctx.Current())
		if p.UnderlineOnHover {
			comp.Set(sink.TextDecoration, "underline")
		}
	})
	comp.On(sink.PointerLeave, func() {
		hoverTextColors(comp, p, ctx.Current())
		restoreUnderline(comp, p.Font)
	})
}

func (DynamicTextRenderer) Update(c *scheme.Component, ctx *Context) {
	p, ok := c.Props.(*scheme.DynamicTextProps)
	if !ok || c.Node == nil {
		return
	}
	text := textNode(c.Node)

	d, ok := ctx.Datum(p.InCnlNum)
	if !ok {
		if p.InCnlNum > 0 {
			text.SetText("")
		}
		return
	}

	switch p.ShowValue {
	case scheme.ShowWithUnit:
		text.SetText(d.TextWithUnit)
	case scheme.ShowWithoutUnit:
		text.SetText(d.Text)
	}
	applyTextColors(c.Node, p, ctx)
}

// applyTextColors applies the back, border and fore colors for the current
// hover state of n and the current data in ctx.
func applyTextColors(n sink.Node, p *scheme.DynamicTextProps, ctx *Context) {
	hovered := n.Hovered()
	d, ok := ctx.Datum(p.InCnlNum)
	backColor.setEffective(n, scheme.Choose(hovered, p.BackColor, p.BackColorOnHover), d, ok)
	borderColor.setEffective(n, scheme.Choose(hovered, p.BorderColor, p.BorderColorOnHover), d, ok)
	foreColor.setEffective(n, scheme.Choose(hovered, p.ForeColor, p.ForeColorOnHover), d, ok)
}

// hoverTextColors applies the colors for a pointer transition. Unlike
// applyTextColors, a status color without a datum clears the property so
// no hover color is left behind.
func hoverTextColors(n sink.Node, p *scheme.DynamicTextProps, ctx *Context) {
	hovered := n.Hovered()
	backColor.setDynamic(n, scheme.Choose(hovered, p.BackColor, p.BackColorOnHover), p.InCnlNum, ctx)
	borderColor.setDynamic(n, scheme.Choose(hovered, p.BorderColor, p.BorderColorOnHover), p.InCnlNum, ctx)
	foreColor.setDynamic(n, scheme.Choose(hovered, p.ForeColor, p.ForeColorOnHover), p.InCnlNum, ctx)
}

// restoreUnderline sets the decoration the font asks for. Without a font the
// property is cleared, as CreateDom never set it.
func restoreUnderline(n sink.Node, f *scheme.Font) {
	if f == nil {
		n.Set(sink.TextDecoration, "")
		return
	}
	n.Set(sink.TextDecoration, underline(f))
}
