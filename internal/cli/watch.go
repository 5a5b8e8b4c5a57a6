package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schemeview/pkg/config"
	"github.com/matzehuels/schemeview/pkg/render"
	"github.com/matzehuels/schemeview/pkg/render/sink"
	"github.com/matzehuels/schemeview/pkg/render/sink/dom"
	"github.com/matzehuels/schemeview/pkg/scheme"
	"github.com/matzehuels/schemeview/pkg/telemetry"
	"github.com/matzehuels/schemeview/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		data     string
		control  bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [scheme]",
		Short: "Follow the resolved state of a scheme in the terminal",
		Long: `Follow the resolved state of every dynamic component of a scheme in the
terminal. The channel data file is read again on every tick, so editing it
shows how the scheme reacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadScheme(args[0])
			if err != nil {
				return err
			}
			src, err := c.openSource(cmd.Context(), config.Source{Kind: config.SourceFile, Path: data})
			if err != nil {
				return err
			}
			defer src.Close()

			// Log lines would tear the full-screen view.
			c.SetLogLevel(log.ErrorLevel)
			m := newWatchModel(cmd.Context(), doc, src, watchOptions{
				ControlRight: control,
				Interval:     interval,
				Logger:       c.Logger,
			})
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "channel data file")
	cmd.Flags().BoolVar(&control, "control", false, "allow command actions")
	cmd.Flags().DurationVar(&interval, "interval", config.DefaultInterval, "refresh interval")
	return cmd
}

// =============================================================================
// watchModel - live table of component states
// =============================================================================

type watchOptions struct {
	ControlRight bool
	Interval     time.Duration
	Logger       *log.Logger
}

// tickMsg triggers a fetch.
type tickMsg struct{}

// fetchMsg carries the result of a fetch.
type fetchMsg struct {
	snap *telemetry.Snapshot
	err  error
}

// watchModel drives a view session from the bubbletea loop. Update is the
// only place the session is touched, so it needs no event loop of its own.
type watchModel struct {
	ctx      context.Context
	doc      *scheme.Document
	src      telemetry.Source
	session  *view.Session
	hub      *watchHub
	interval time.Duration

	// rows are the components with a node, in document order.
	rows   []*scheme.Component
	cursor int

	ticks   int
	changes int
	lastErr error
	updated time.Time
}

func newWatchModel(ctx context.Context, doc *scheme.Document, src telemetry.Source, opts watchOptions) *watchModel {
	if opts.Interval <= 0 {
		opts.Interval = config.DefaultInterval
	}
	hub := &watchHub{}
	session := view.NewSession(doc, view.Options{
		Hub:          hub,
		Logger:       opts.Logger,
		ControlRight: opts.ControlRight,
	})
	session.Load()

	m := &watchModel{
		ctx:      ctx,
		doc:      doc,
		src:      src,
		session:  session,
		hub:      hub,
		interval: opts.Interval,
	}
	for _, comp := range doc.Components {
		if comp.Node != nil {
			m.rows = append(m.rows, comp)
		}
	}
	return m
}

func (m *watchModel) Init() tea.Cmd {
	return m.fetch()
}

func (m *watchModel) fetch() tea.Cmd {
	chans := m.doc.InputChannels()
	return func() tea.Msg {
		snap, err := m.src.Fetch(m.ctx, chans)
		return fetchMsg{snap: snap, err: err}
	}
}

func (m *watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "h", " ":
			m.toggleHover()
		case "enter":
			m.click()
		case "r":
			return m, m.fetch()
		}
	case tickMsg:
		return m, m.fetch()
	case fetchMsg:
		m.ticks++
		m.lastErr = msg.err
		if msg.err == nil {
			m.changes = m.session.Refresh(msg.snap)
			m.updated = time.Now()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *watchModel) selected() (*scheme.Component, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil, false
	}
	return m.rows[m.cursor], true
}

func (m *watchModel) toggleHover() {
	comp, ok := m.selected()
	if !ok {
		return
	}
	kind := sink.PointerEnter
	if comp.Node.Hovered() {
		kind = sink.PointerLeave
	}
	m.session.Pointer(comp.ID, kind)
}

func (m *watchModel) click() {
	if comp, ok := m.selected(); ok {
		m.hub.last = ""
		m.session.Pointer(comp.ID, sink.Click)
		if m.hub.last == "" {
			m.hub.last = fmt.Sprintf("component %d has no action", comp.ID)
		}
	}
}

func (m *watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.session.Title()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  h hover  ⏎ click  r refresh  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.rows))
	for i, comp := range m.rows {
		rows[i] = m.stateRow(i, comp)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Type", "In", "Text", "Color", "Back", "Border", "Image").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row == m.cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m *watchModel) statusLine() string {
	parts := []string{fmt.Sprintf("tick %d", m.ticks), fmt.Sprintf("%d changes", m.changes)}
	if !m.updated.IsZero() {
		parts = append(parts, "updated "+m.updated.Format("15:04:05"))
	}
	line := listDimStyle.Render("  " + strings.Join(parts, " · "))
	if m.lastErr != nil {
		line += "\n" + StyleWarning.Render("  fetch failed: "+m.lastErr.Error())
	}
	if m.hub.last != "" {
		line += "\n" + StyleSuccess.Render("  "+m.hub.last)
	}
	return line
}

// stateRow reads the resolved state of a component back from its node.
func (m *watchModel) stateRow(i int, comp *scheme.Component) []string {
	cursor := "  "
	if i == m.cursor {
		cursor = "▸ "
	}
	if comp.Node.Hovered() {
		cursor = strings.TrimRight(cursor, " ") + "*"
	}

	n, _ := comp.Node.(*dom.Node)
	var text, color, back, border, image string
	if n != nil {
		text = nodeText(n)
		color = n.Get(sink.Color)
		back = n.Get(sink.BackgroundColor)
		border = n.Get(sink.BorderColor)
		image = imageName(m.doc.Images, n.Get(sink.BackgroundImage))
	}

	in := ""
	if ch := comp.InputChannel(); ch > 0 {
		in = strconv.Itoa(ch)
	}
	return []string{cursor, strconv.Itoa(comp.ID), shortType(comp.TypeName), orNone(in),
		orNone(text), orNone(color), orNone(back), orNone(border), orNone(image)}
}

// nodeText returns the text of a node or of its first child.
func nodeText(n *dom.Node) string {
	if t := n.Text(); t != "" {
		return t
	}
	if kids := n.Children(); len(kids) > 0 {
		return kids[0].Text()
	}
	return ""
}

// imageName maps a background-image value back to the document image.
func imageName(images scheme.Images, css string) string {
	if css == "" {
		return ""
	}
	for name, img := range images {
		if render.ImageToCSS(img) == css {
			return name
		}
	}
	return "?"
}

// watchHub records dialog requests so the view can show them.
type watchHub struct {
	last string
}

func (h *watchHub) Dialogs() render.Dialogs    { return h }
func (h *watchHub) CurrentViewID() int         { return 0 }
func (h *watchHub) CurrentViewDate() time.Time { return time.Time{} }
func (h *watchHub) Notify(render.EventType, string) {}

func (h *watchHub) ShowChart(cnlNum, viewID int, date time.Time) {
	h.last = fmt.Sprintf("chart of channel %d at %s", cnlNum, date.Format("2006-01-02 15:04:05"))
}

func (h *watchHub) ShowCommand(ctrlCnlNum, viewID int) {
	h.last = fmt.Sprintf("command to channel %d", ctrlCnlNum)
}
