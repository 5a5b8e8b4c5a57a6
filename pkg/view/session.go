// Package view runs a rendered scheme as a live display.
//
// A [Session] owns a document and the surface its nodes live on. Three kinds
// of events change the surface:
//
//   - the createDom pass when the document is loaded or reloaded,
//   - refresh ticks delivering a new telemetry snapshot,
//   - pointer events from a viewer.
//
// [Session.Run] handles them one at a time on a single goroutine, so
// renderers never race with each other. Other goroutines hand work to the
// loop with [Session.Post] or [Session.Do]. After every event the surface's
// change journal is flushed to subscribers as an [Update].
package view

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/schemeview/pkg/errors"
	"github.com/matzehuels/schemeview/pkg/observability"
	"github.com/matzehuels/schemeview/pkg/render"
	"github.com/matzehuels/schemeview/pkg/render/sink"
	"github.com/matzehuels/schemeview/pkg/render/sink/dom"
	"github.com/matzehuels/schemeview/pkg/scheme"
	"github.com/matzehuels/schemeview/pkg/telemetry"
)

// Default viewport used when none is configured.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
)

// Options configures a Session.
type Options struct {
	// Registry resolves component renderers. Defaults to
	// render.DefaultRegistry().
	Registry *render.Registry
	// Hub receives title changes and opens dialogs. May be nil.
	Hub render.ViewHub
	// Logger defaults to log.Default().
	Logger *log.Logger

	ControlRight bool
	TitleSuffix  string
	ScaleMode    render.ScaleMode

	ViewportWidth, ViewportHeight float64
}

// Update is the set of node changes produced by one event.
type Update struct {
	// Reset is set when the surface was rebuilt. Patches then describe a
	// new tree and clients must fetch the page again.
	Reset        bool
	Patches      []dom.Patch
	Title        string
	TitleChanged bool
}

// Empty reports whether the update carries nothing.
func (u Update) Empty() bool {
	return !u.Reset && len(u.Patches) == 0 && !u.TitleChanged
}

// Stats summarizes the last createDom pass.
type Stats struct {
	Components int
	Rendered   int
	Skipped    int
}

// Session is a live display of one scheme document.
//
// Methods that touch the surface (Load, Refresh, Pointer, Reload, SetScale,
// Surface) must run on the loop goroutine, i.e. from a function passed to
// Post or Do once Run is active, or directly before Run starts.
type Session struct {
	id       string
	doc      *scheme.Document
	registry *render.Registry
	shell    render.SchemeRenderer
	surface  *dom.Surface
	hub      render.ViewHub
	logger   *log.Logger

	controlRight bool
	scaleMode    render.ScaleMode
	scale        float64

	snapshot *telemetry.Snapshot
	ctx      *render.Context
	stats    Stats
	rebuilt  bool
	channels atomic.Pointer[[]int]

	events chan func()
	done   chan struct{}
	once   sync.Once

	subMu   sync.Mutex
	subs    map[int]chan Update
	nextSub int
}

// NewSession creates a session for doc. Nothing is rendered until Load or
// Run is called.
func NewSession(doc *scheme.Document, opts Options) *Session {
	if opts.Registry == nil {
		opts.Registry = render.DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}
	if opts.ScaleMode == "" {
		opts.ScaleMode = render.ScaleActualSize
	}

	id := uuid.NewString()
	return &Session{
		id:           id,
		doc:          doc,
		registry:     opts.Registry,
		shell:        render.SchemeRenderer{TitleSuffix: opts.TitleSuffix},
		surface:      dom.NewSurface(opts.ViewportWidth, opts.ViewportHeight),
		hub:          opts.Hub,
		logger:       opts.Logger.With("view", id[:8]),
		controlRight: opts.ControlRight,
		scaleMode:    opts.ScaleMode,
		scale:        1,
		events:       make(chan func(), 64),
		done:         make(chan struct{}),
		subs:         make(map[int]chan Update),
	}
}

// ID returns the unique id of the session.
func (s *Session) ID() string { return s.id }

// Document returns the displayed document.
func (s *Session) Document() *scheme.Document { return s.doc }

// Surface returns the surface the document is rendered on.
func (s *Session) Surface() *dom.Surface { return s.surface }

// Stats returns the result of the last createDom pass.
func (s *Session) Stats() Stats { return s.stats }

// Scale returns the applied scale factor.
func (s *Session) Scale() float64 { return s.scale }

// Snapshot returns the channel data of the last successful refresh.
func (s *Session) Snapshot() *telemetry.Snapshot { return s.snapshot }

// Title returns the display title.
func (s *Session) Title() string { return s.shell.Title(s.doc) }

func (s *Session) newContext(snap *telemetry.Snapshot) *render.Context {
	ctx := &render.Context{
		Snapshot:     snap,
		Images:       s.doc.Images,
		ControlRight: s.controlRight,
		Surface:      s.surface,
		Hub:          s.hub,
		Logger:       s.logger,
	}
	ctx.Track(s.current)
	return ctx
}

// current is the context of the latest event. Pointer handlers bound during
// Load read channel data through it.
func (s *Session) current() *render.Context { return s.ctx }

// Load discards the surface and renders the document from scratch.
func (s *Session) Load() Stats {
	start := time.Now()
	s.surface.Reset()
	s.rebuilt = true

	ctx := s.newContext(s.snapshot)
	s.ctx = ctx
	s.shell.CreateDom(s.doc, ctx)

	stats := Stats{Components: len(s.doc.Components)}
	for _, c := range s.doc.Components {
		c.Node = nil
		r, ok := s.registry.Get(c.TypeName)
		if !ok {
			s.logger.Debug("no renderer for component", "id", c.ID, "type", c.TypeName)
			stats.Skipped++
			continue
		}
		r.CreateDom(c, ctx)
		if c.Node == nil {
			s.logger.Debug("component not rendered", "id", c.ID, "type", c.TypeName)
			stats.Skipped++
			continue
		}
		if s.doc.Node != nil {
			s.doc.Node.Append(c.Node)
		}
		stats.Rendered++
	}
	s.applyScale()
	s.stats = stats
	channels := s.doc.InputChannels()
	s.channels.Store(&channels)

	observability.Render().OnLoad(context.Background(), s.id, stats.Components, stats.Skipped, time.Since(start))
	s.logger.Debug("scheme loaded", "components", stats.Components, "skipped", stats.Skipped)
	return stats
}

// Refresh applies snap to every rendered component and returns the number
// of effective style and text changes.
func (s *Session) Refresh(snap *telemetry.Snapshot) int {
	start := time.Now()
	before := s.surface.Changes()

	s.snapshot = snap
	ctx := s.newContext(snap)
	s.ctx = ctx
	for _, c := range s.doc.Components {
		if c.Node == nil {
			continue
		}
		if r, ok := s.registry.Get(c.TypeName); ok {
			r.Update(c, ctx)
		}
	}

	changes := s.surface.Changes() - before
	observability.Render().OnRefresh(context.Background(), s.id, len(s.doc.Components), changes, time.Since(start), nil)
	return changes
}

// Pointer delivers a pointer event to a component. It reports false when
// the component has no node.
func (s *Session) Pointer(componentID int, kind sink.EventKind) bool {
	c, ok := s.doc.Component(componentID)
	if !ok || c.Node == nil {
		return false
	}
	c.Node.Dispatch(kind)
	observability.Render().OnPointer(context.Background(), s.id, componentID, string(kind))
	return true
}

// Reload replaces the document and renders it, applying the last snapshot
// right away.
func (s *Session) Reload(doc *scheme.Document) Stats {
	s.doc = doc
	stats := s.Load()
	if s.snapshot != nil {
		s.Refresh(s.snapshot)
	}
	return stats
}

// SetScale records the fit mode and viewport and rescales the document.
// It returns the applied scale factor.
func (s *Session) SetScale(mode render.ScaleMode, viewportWidth, viewportHeight float64) float64 {
	s.scaleMode = mode
	if viewportWidth > 0 && viewportHeight > 0 {
		s.surface.SetViewport(viewportWidth, viewportHeight)
	}
	s.applyScale()
	return s.scale
}

func (s *Session) applyScale() {
	w, h := s.surface.Viewport()
	s.scale = s.shell.CalcScale(s.doc, s.scaleMode, w, h)
	s.shell.SetScale(s.doc, s.scale)
}

// Subscribe returns a channel receiving the updates of every handled event
// and a function that cancels the subscription.
func (s *Session) Subscribe() (<-chan Update, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Update, 32)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

// Flush sends the changes made since the previous flush to subscribers.
func (s *Session) Flush() Update {
	patches, title, changed := s.surface.Flush()
	u := Update{Reset: s.rebuilt, Patches: patches, Title: title, TitleChanged: changed}
	s.rebuilt = false
	if u.Empty() {
		return u
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- u:
		default:
			s.logger.Warn("subscriber is not keeping up, update dropped", "subscriber", id)
		}
	}
	return u
}

// ErrStopped is returned by Post and Do after Run has returned.
var ErrStopped = errors.New(errors.ErrCodeInternal, "view session stopped")

// Post queues fn to run on the loop goroutine.
func (s *Session) Post(ctx context.Context, fn func(*Session)) error {
	select {
	case s.events <- func() { fn(s) }:
		return nil
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (s *Session) Do(ctx context.Context, fn func(*Session)) error {
	finished := make(chan struct{})
	if err := s.Post(ctx, func(s *Session) {
		defer close(finished)
		fn(s)
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run loads the document and serves events until ctx is canceled. Snapshots
// are fetched from src every interval on a separate goroutine; a failed
// fetch is logged and the previous data stays on display.
func (s *Session) Run(ctx context.Context, src telemetry.Source, interval time.Duration) error {
	defer s.once.Do(func() { close(s.done) })

	s.Load()
	s.Flush()

	snaps := make(chan *telemetry.Snapshot, 1)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.poll(ctx, src, interval, snaps)
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case snap := <-snaps:
				s.Refresh(snap)
			case fn := <-s.events:
				fn()
			}
			s.Flush()
		}
	})
	return g.Wait()
}

// poll fetches snapshots for the channels of the loaded document until ctx
// is done.
// Only the latest snapshot is kept when the loop falls behind.
func (s *Session) poll(ctx context.Context, src telemetry.Source, interval time.Duration, out chan *telemetry.Snapshot) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var cnlNums []int
		if p := s.channels.Load(); p != nil {
			cnlNums = *p
		}

		fetchCtx, cancel := context.WithTimeout(ctx, interval)
		start := time.Now()
		snap, err := src.Fetch(fetchCtx, cnlNums)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("telemetry fetch failed", "err", err)
			observability.Render().OnRefresh(ctx, s.id, 0, 0, time.Since(start), err)
		} else {
			select {
			case <-out:
			default:
			}
			out <- snap
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
