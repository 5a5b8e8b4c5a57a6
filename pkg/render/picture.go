package render

import (
	"github.com/matzehuels/schemeview/pkg/render/sink"
	"github.com/matzehuels/schemeview/pkg/scheme"
)

// StaticPictureRenderer renders a fixed image as the background of a sized
// container.
type StaticPictureRenderer struct {
	Base
}

func (StaticPictureRenderer) CreateDom(c *scheme.Component, ctx *Context) {
	p := staticPictureProps(c.Props)
	if p == nil || ctx.Surface == nil {
		return
	}

	comp := ctx.Surface.NewNode("div", ElementID(c.ID))
	prepareComponent(comp, &p.BaseProps, true)
	SetBorderColor(comp, p.BorderColor, true)

	switch p.ImageStretch {
	case scheme.StretchFill:
		comp.Set(sink.BackgroundSize, px(p.Size.Width)+" "+px(p.Size.Height))
	case scheme.StretchZoom:
		comp.Set(sink.BackgroundSize, "contain")
	}
	comp.Set(sink.BackgroundRepeat, "no-repeat")
	comp.Set(sink.BackgroundPosition, "center")
	SetBackgroundImage(comp, ctx.GetImage(p.ImageName), false)

	c.Node = comp
}

func staticPictureProps(p scheme.Props) *scheme.StaticPictureProps {
	switch p := p.(type) {
	case *scheme.StaticPictureProps:
		return p
	case *scheme.DynamicPictureProps:
		return &p.StaticPictureProps
	}
	return nil
}

// DynamicPictureRenderer renders an image chosen by the value of an input
// channel.
//
// When the picture is bound to a channel, only Update changes the image.
// Unbound pictures swap to the hover image while hovered.
type DynamicPictureRenderer struct {
	static StaticPictureRenderer
}

func (r DynamicPictureRenderer) CreateDom(c *scheme.Component, ctx *Context) {
	p, ok := c.Props.(*scheme.DynamicPictureProps)
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
		cur := ctx.Current()
		borderColor.setDynamic(comp, scheme.Choose(comp.Hovered(), p.BorderColor, p.BorderColorOnHover), p.InCnlNum, cur)
		if p.InCnlNum <= 0 {
			SetBackgroundImage(comp, cur.GetImage(p.ImageOnHoverName), false)
		}
	})
	comp.On(sink.PointerLeave, func() {
		cur := ctx.Current()
		borderColor.setDynamic(comp, scheme.Choose(comp.Hovered(), p.BorderColor, p.BorderColorOnHover), p.InCnlNum, cur)
		if p.InCnlNum <= 0 {
			SetBackgroundImage(comp, cur.GetImage(p.ImageName), true)
		}
	})
}

func (DynamicPictureRenderer) Update(c *scheme.Component, ctx *Context) {
	p, ok := c.Props.(*scheme.DynamicPictureProps)
	if !ok || c.Node == nil {
		return
	}
	d, ok := ctx.Datum(p.InCnlNum)
	if !ok {
		return
	}

	name := p.ImageName
	if d.Valid() {
		name = scheme.SelectImage(p.Conditions, d.Val, name)
	}
	SetBackgroundImage(c.Node, ctx.GetImage(name), true)
	applyPictureBorder(c.Node, p, ctx)
}

func applyPictureBorder(n sink.Node, p *scheme.DynamicPictureProps, ctx *Context) {
	d, ok := ctx.Datum(p.InCnlNum)
	borderColor.setEffective(n, scheme.Choose(n.Hovered(), p.BorderColor, p.BorderColorOnHover), d, ok)
}
