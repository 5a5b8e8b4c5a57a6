package render

import (
	"strconv"

	"github.com/matzehuels/schemeview/pkg/render/sink"
	"github.com/matzehuels/schemeview/pkg/scheme"
)

// ElementID returns the element id of a component node.
func ElementID(componentID int) string {
	return "comp" + strconv.Itoa(componentID)
}

// prepareComponent positions n absolutely so that the 1px border sits
// outside the component location.
func prepareComponent(n sink.Node, p *scheme.BaseProps, setSize bool) {
	n.Set(sink.Position, "absolute")
	n.Set(sink.ZIndex, strconv.Itoa(p.ZIndex))
	n.Set(sink.Left, px(p.Location.X-BorderWidth))
	n.Set(sink.Top, px(p.Location.Y-BorderWidth))
	n.Set(sink.BorderWidth, px(BorderWidth))
	n.Set(sink.BorderStyle, "solid")

	if setSize {
		n.Set(sink.Width, px(p.Size.Width))
		n.Set(sink.Height, px(p.Size.Height))
	}
}

func setHAlign(n sink.Node, a scheme.HorizontalAlignment) {
	switch a {
	case scheme.AlignCenter:
		n.Set(sink.TextAlign, "center")
	case scheme.AlignRight:
		n.Set(sink.TextAlign, "right")
	default:
		n.Set(sink.TextAlign, "left")
	}
}

func setVAlign(n sink.Node, a scheme.VerticalAlignment) {
	switch a {
	case scheme.AlignMiddle:
		n.Set(sink.VerticalAlign, "middle")
	case scheme.AlignBottom:
		n.Set(sink.VerticalAlign, "bottom")
	default:
		n.Set(sink.VerticalAlign, "top")
	}
}

func setWordWrap(n sink.Node, wrap bool) {
	n.Set(sink.WhiteSpace, choose(wrap, "normal", "nowrap"))
}

func setToolTip(n sink.Node, tip string) {
	if tip != "" {
		n.SetTitle(tip)
	}
}

// actionBinding is the click configuration of a dynamic component.
type actionBinding struct {
	action  scheme.Action
	inCnl   int
	ctrlCnl int
}

// bound reports whether a click does anything. Sending commands requires
// the control right.
func (a actionBinding) bound(controlRight bool) bool {
	switch a.action {
	case scheme.ActionDrawDiagram:
		return a.inCnl > 0
	case scheme.ActionSendCommand:
		return a.ctrlCnl > 0 && controlRight
	}
	return false
}

// bindAction makes n clickable when the action is bound and reports
// whether it did.
func bindAction(n sink.Node, a actionBinding, ctx *Context) bool {
	if !a.bound(ctx.ControlRight) {
		return false
	}

	n.Set(sink.Cursor, "pointer")
	n.On(sink.Click, func() {
		cur := ctx.Current()
		dialogs := cur.dialogs()
		if dialogs == nil {
			cur.log().Warn("dialogs are unavailable", "action", a.action, "in", a.inCnl, "ctrl", a.ctrlCnl)
			return
		}

		switch a.action {
		case scheme.ActionDrawDiagram:
			dialogs.ShowChart(a.inCnl, cur.viewID(), cur.viewDate())
		case scheme.ActionSendCommand:
			dialogs.ShowCommand(a.ctrlCnl, cur.viewID())
		}
	})
	return true
}
