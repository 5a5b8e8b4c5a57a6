package render

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schemeview/pkg/render/sink"
	"github.com/matzehuels/schemeview/pkg/scheme"
	"github.com/matzehuels/schemeview/pkg/telemetry"
)

// EventType names a view hub notification.
type EventType string

// EventViewTitleChanged carries the new display title.
const EventViewTitleChanged EventType = "viewTitleChanged"

// Dialogs opens the chart and command views for a channel.
type Dialogs interface {
	ShowChart(cnlNum, viewID int, date time.Time)
	ShowCommand(ctrlCnlNum, viewID int)
}

// ViewHub connects a rendered view to its host.
type ViewHub interface {
	// Dialogs returns nil when the host cannot open dialogs.
	Dialogs() Dialogs
	CurrentViewID() int
	// CurrentViewDate returns the zero time when the view shows live data.
	CurrentViewDate() time.Time
	Notify(event EventType, payload string)
}

// Context is the state a render pass works against: the channel data of one
// refresh tick, the document images and the permissions of the viewer.
type Context struct {
	Snapshot     *telemetry.Snapshot
	Images       scheme.Images
	ControlRight bool

	// Surface creates nodes. Required by CreateDom.
	Surface sink.Surface
	// Hub may be nil.
	Hub    ViewHub
	Logger *log.Logger

	current func() *Context
}

// GetImage returns the named image, or nil when it is absent.
func (c *Context) GetImage(name string) *scheme.Image {
	return c.Images.Get(name)
}

// Datum returns the current data of a channel. Channels numbered 0 or less
// have no data.
func (c *Context) Datum(cnlNum int) (telemetry.CnlDataExt, bool) {
	if cnlNum <= 0 {
		return telemetry.CnlDataExt{}, false
	}
	return c.Snapshot.Get(cnlNum)
}

// Track makes Current return the result of fn. Pointer handlers bound during
// CreateDom use it to see the data of the latest tick instead of the data
// present at creation.
func (c *Context) Track(fn func() *Context) {
	c.current = fn
}

// Current returns the latest context of the view, or c itself.
func (c *Context) Current() *Context {
	if c.current != nil {
		if cur := c.current(); cur != nil {
			return cur
		}
	}
	return c
}

func (c *Context) log() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

func (c *Context) dialogs() Dialogs {
	if c.Hub == nil {
		return nil
	}
	return c.Hub.Dialogs()
}

// viewDate returns the reference time for charts.
func (c *Context) viewDate() time.Time {
	if c.Hub != nil {
		if d := c.Hub.CurrentViewDate(); !d.IsZero() {
			return d
		}
	}
	return time.Now()
}

func (c *Context) viewID() int {
	if c.Hub == nil {
		return 0
	}
	return c.Hub.CurrentViewID()
}
