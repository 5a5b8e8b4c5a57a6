package scheme

import (
	"github.com/matzehuels/schemeview/pkg/errors"
)

// Type tags of the built-in component kinds.
const (
	TypeStaticText     = "Scada.Scheme.Model.StaticText"
	TypeDynamicText    = "Scada.Scheme.Model.DynamicText"
	TypeStaticPicture  = "Scada.Scheme.Model.StaticPicture"
	TypeDynamicPicture = "Scada.Scheme.Model.DynamicPicture"
)

// Point is a location in scheme pixels.
type Point struct {
	X, Y float64
}

// Size is a width and height in scheme pixels.
type Size struct {
	Width, Height float64
}

// HorizontalAlignment of text within a component.
type HorizontalAlignment string

const (
	AlignLeft   HorizontalAlignment = "Left"
	AlignCenter HorizontalAlignment = "Center"
	AlignRight  HorizontalAlignment = "Right"
)

// VerticalAlignment of text within a component.
type VerticalAlignment string

const (
	AlignTop    VerticalAlignment = "Top"
	AlignMiddle VerticalAlignment = "Center"
	AlignBottom VerticalAlignment = "Bottom"
)

// Action is what a click on a component does.
type Action string

const (
	ActionNone        Action = "None"
	ActionDrawDiagram Action = "DrawDiagram"
	ActionSendCommand Action = "SendCommand"
)

// ShowValueKind controls how a dynamic text shows its channel value.
type ShowValueKind string

const (
	NotShow         ShowValueKind = "NotShow"
	ShowWithUnit    ShowValueKind = "ShowWithUnit"
	ShowWithoutUnit ShowValueKind = "ShowWithoutUnit"
)

// ImageStretch controls how a picture fits its box.
type ImageStretch string

const (
	StretchNone ImageStretch = "None"
	StretchFill ImageStretch = "Fill"
	StretchZoom ImageStretch = "Zoom"
)

// Props is implemented by every typed component property structure.
type Props interface {
	// Common returns the geometry shared by all kinds.
	Common() *BaseProps
	// Validate reports properties that make the component unrenderable.
	Validate() error
}

// ChannelBound is implemented by props that reference telemetry channels.
type ChannelBound interface {
	InputChannel() int
	ControlChannel() int
}

// BaseProps holds geometry common to all components.
type BaseProps struct {
	Location Point
	Size     Size
	ZIndex   int
}

func (p *BaseProps) Common() *BaseProps { return p }

func (p *BaseProps) Validate() error {
	if p.Size.Width < 0 || p.Size.Height < 0 {
		return errors.New(errors.ErrCodeInvalidProps, "negative size %vx%v", p.Size.Width, p.Size.Height)
	}
	return nil
}

// StaticTextProps configures a static text label.
type StaticTextProps struct {
	BaseProps   `mapstructure:",squash"`
	BackColor   Color
	BorderColor Color
	ForeColor   Color
	Font        *Font
	AutoSize    bool
	WordWrap    bool
	HAlign      HorizontalAlignment
	VAlign      VerticalAlignment
	Text        string
}

// DynamicTextProps configures a text bound to an input channel.
type DynamicTextProps struct {
	StaticTextProps    `mapstructure:",squash"`
	ToolTip            string
	BackColorOnHover   Color
	BorderColorOnHover Color
	ForeColorOnHover   Color
	UnderlineOnHover   bool
	Action             Action
	InCnlNum           int
	CtrlCnlNum         int
	ShowValue          ShowValueKind
}

func (p *DynamicTextProps) InputChannel() int   { return p.InCnlNum }
func (p *DynamicTextProps) ControlChannel() int { return p.CtrlCnlNum }

// StaticPictureProps configures a fixed image.
type StaticPictureProps struct {
	BaseProps    `mapstructure:",squash"`
	BorderColor  Color
	ImageName    string
	ImageStretch ImageStretch
}

// DynamicPictureProps configures an image chosen by channel value.
type DynamicPictureProps struct {
	StaticPictureProps `mapstructure:",squash"`
	ToolTip            string
	ImageOnHoverName   string
	BorderColorOnHover Color
	Action             Action
	InCnlNum           int
	CtrlCnlNum         int
	Conditions         []ImageCondition
}

func (p *DynamicPictureProps) InputChannel() int   { return p.InCnlNum }
func (p *DynamicPictureProps) ControlChannel() int { return p.CtrlCnlNum }

func (p *DynamicPictureProps) Validate() error {
	if err := p.BaseProps.Validate(); err != nil {
		return err
	}
	for i, c := range p.Conditions {
		if !c.CompareOperator1.Valid() {
			return errors.New(errors.ErrCodeInvalidProps, "condition %d: unknown operator %q", i, c.CompareOperator1)
		}
	}
	return nil
}

var (
	_ Props        = (*StaticTextProps)(nil)
	_ Props        = (*DynamicTextProps)(nil)
	_ Props        = (*StaticPictureProps)(nil)
	_ Props        = (*DynamicPictureProps)(nil)
	_ ChannelBound = (*DynamicTextProps)(nil)
	_ ChannelBound = (*DynamicPictureProps)(nil)
)
