package scheme

// StatusColor is the reserved color value meaning "use the status color of
// the bound input channel".
const StatusColor = "Status"

// Color is an optional color value. The zero Color is unset, which is
// distinct from any configured value including [StatusColor].
type Color struct {
	value string
	set   bool
}

// ColorOf returns a set Color, or the unset Color for an empty string.
func ColorOf(v string) Color {
	if v == "" {
		return Color{}
	}
	return Color{value: v, set: true}
}

// Value returns the configured value, empty when unset.
func (c Color) Value() string { return c.value }

// IsSet reports whether a value is configured.
func (c Color) IsSet() bool { return c.set }

// IsStatus reports whether the color is the status sentinel.
func (c Color) IsStatus() bool { return c.set && c.value == StatusColor }

func (c Color) String() string {
	if !c.set {
		return "<unset>"
	}
	return c.value
}

// Choose returns hover when hovered and hover is set, otherwise base.
func Choose(hovered bool, base, hover Color) Color {
	if hovered && hover.IsSet() {
		return hover
	}
	return base
}

// Font describes a text font.
type Font struct {
	Name      string
	Size      float64
	Bold      bool
	Italic    bool
	Underline bool
}
