package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemeview/pkg/render"
	"github.com/matzehuels/schemeview/pkg/scheme"
	"github.com/matzehuels/schemeview/pkg/telemetry"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "inspect [scheme]",
		Short: "List the components of a scheme",
		Long: `List the components of a scheme with their type, renderer, geometry,
bound channels and click action. With --data, the current value of each
bound input channel is shown as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), os.Stdout, args[0], data)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "channel data file")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, w io.Writer, path, data string) error {
	doc, err := c.loadScheme(path)
	if err != nil {
		return err
	}

	var snap *telemetry.Snapshot
	if data != "" {
		if snap, err = telemetry.NewFileSource(data).Fetch(ctx, doc.InputChannels()); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, StyleTitle.Render(doc.Props.Title))
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%gx%g · %d components · %d images · channels %s",
		doc.Props.Size.Width, doc.Props.Size.Height, len(doc.Components), len(doc.Images),
		orNone(joinInts(doc.InputChannels())))))

	reg := render.DefaultRegistry()
	fmt.Fprintln(w, StyleDim.Render("renderers: "+registeredKinds(reg)))

	rows := componentRows(doc, reg, snap)
	writeTable(w, componentHeaders(snap != nil), rows, func(row, col int) lipgloss.Style {
		if row < len(rows) && rows[row][2] == iconNone {
			return styleSkipped
		}
		return lipgloss.NewStyle()
	})
	return nil
}

func componentHeaders(withData bool) []string {
	h := []string{"ID", "Type", "Renderer", "Position", "Size", "In", "Ctrl", "Action"}
	if withData {
		h = append(h, "Value")
	}
	return h
}

// componentRows builds one table row per component. The renderer column is
// a dash for components the registry cannot render.
func componentRows(doc *scheme.Document, reg *render.Registry, snap *telemetry.Snapshot) [][]string {
	rows := make([][]string, 0, len(doc.Components))
	for _, comp := range doc.Components {
		row := []string{strconv.Itoa(comp.ID), shortType(comp.TypeName), iconNone, iconNone, iconNone, iconNone, iconNone, iconNone}
		if r, ok := reg.Get(comp.TypeName); ok && comp.Props != nil {
			row[2] = shortType(strings.TrimPrefix(fmt.Sprintf("%T", r), "*"))
		}
		if comp.Props != nil {
			b := comp.Props.Common()
			row[3] = fmt.Sprintf("%g,%g", b.Location.X, b.Location.Y)
			row[4] = fmt.Sprintf("%gx%g", b.Size.Width, b.Size.Height)
		}
		if n := comp.InputChannel(); n > 0 {
			row[5] = strconv.Itoa(n)
		}
		if cb, ok := comp.Props.(scheme.ChannelBound); ok && cb.ControlChannel() > 0 {
			row[6] = strconv.Itoa(cb.ControlChannel())
		}
		if a := actionOf(comp.Props); a != "" && a != scheme.ActionNone {
			row[7] = string(a)
		}
		if snap != nil {
			value := iconNone
			if d, ok := snap.Get(comp.InputChannel()); ok {
				value = d.TextWithUnit
			}
			row = append(row, value)
		}
		rows = append(rows, row)
	}
	return rows
}

// registeredKinds lists the short type names the registry can render.
func registeredKinds(reg *render.Registry) string {
	types := reg.Types()
	for i, t := range types {
		types[i] = shortType(t)
	}
	return strings.Join(types, ", ")
}

func actionOf(p scheme.Props) scheme.Action {
	switch p := p.(type) {
	case *scheme.DynamicTextProps:
		return p.Action
	case *scheme.DynamicPictureProps:
		return p.Action
	}
	return ""
}

// shortType drops the namespace of a type tag.
func shortType(typeName string) string {
	if i := strings.LastIndex(typeName, "."); i >= 0 {
		return typeName[i+1:]
	}
	return typeName
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
