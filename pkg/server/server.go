// Package server serves a live view session over HTTP.
//
// Routes:
//
//	GET /           the rendered page with the client script
//	GET /client.js  the client script
//	GET /state      JSON state of every node
//	GET /ws         websocket for patches, titles and dialog requests
//
// The page is the serialized surface. Once connected, the client receives
// patches for changed nodes and sends pointer events and its viewport size
// back. Every client sees the same session.
package server

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"html/template"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/schemeview/pkg/buildinfo"
	"github.com/matzehuels/schemeview/pkg/errors"
	"github.com/matzehuels/schemeview/pkg/observability"
	"github.com/matzehuels/schemeview/pkg/render"
	"github.com/matzehuels/schemeview/pkg/render/sink/dom"
	"github.com/matzehuels/schemeview/pkg/view"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

//go:embed client.js
var clientScript []byte

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="generator" content="{{.Generator}}">
<title>{{.Title}}</title>
{{- if .Live}}
<script src="/client.js" data-scale="{{.Scale}}" defer></script>
{{- end}}
</head>
{{.Body}}
</html>
`))

// Options configures a Server.
type Options struct {
	Addr string
	// ScaleMode is the fit mode requested by clients on connect.
	ScaleMode render.ScaleMode
	Logger    *log.Logger
}

// Server is the HTTP front end of a session.
type Server struct {
	session *view.Session
	hub     *Hub
	addr    string
	scale   render.ScaleMode
	logger  *log.Logger
	router  chi.Router
}

// New creates a server for a session. hub must be the view hub the session
// was created with.
func New(session *view.Session, hub *Hub, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ScaleMode == "" {
		opts.ScaleMode = render.ScaleActualSize
	}
	s := &Server{
		session: session,
		hub:     hub,
		addr:    opts.Addr,
		scale:   opts.ScaleMode,
		logger:  opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(serverHeader)
	r.Use(requestHooks)

	r.Get("/", s.handlePage)
	r.Get("/client.js", s.handleScript)
	r.Get("/state", s.handleState)
	r.Get("/ws", s.handleWS)
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the hub clients are attached to.
func (s *Server) Hub() *Hub { return s.hub }

// Run listens on the configured address and forwards session updates to
// clients until ctx is canceled. The session loop is run by the caller.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", s.addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	updates, unsubscribe := s.session.Subscribe()
	defer unsubscribe()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.hub.Forward(ctx, updates)
		return nil
	})
	g.Go(func() error {
		s.logger.Info("serving live view", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeNetwork, err, "serve")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type page struct {
	Generator string
	Title     string
	Live      bool
	Scale     render.ScaleMode
	Body      template.HTML
}

// WritePage writes the rendered surface of v as a standalone HTML page.
// The page of a live view loads the client script, which connects back to
// the server for updates.
//
// WritePage reads the surface, so it must run on the session loop once the
// session is running.
func WritePage(w io.Writer, v *view.Session, live bool, scale render.ScaleMode) error {
	return pageTemplate.Execute(w, page{
		Generator: buildinfo.ServerHeader(),
		Title:     v.Surface().Title(),
		Live:      live,
		Scale:     scale,
		Body:      template.HTML(v.Surface().HTML()),
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	var werr error
	err := s.session.Do(r.Context(), func(v *view.Session) {
		werr = WritePage(&buf, v, true, s.scale)
	})
	if err != nil {
		s.unavailable(w, err)
		return
	}
	if werr != nil {
		s.logger.Error("render page", "err", werr)
		http.Error(w, "cannot render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = w.Write(clientScript)
}

// State is the response of GET /state.
type State struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Scale   float64     `json:"scale"`
	Stats   view.Stats  `json:"stats"`
	Clients int         `json:"clients"`
	Nodes   []dom.Patch `json:"nodes"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var st State
	err := s.session.Do(r.Context(), func(v *view.Session) {
		st = State{
			ID:    v.ID(),
			Title: v.Surface().Title(),
			Scale: v.Scale(),
			Stats: v.Stats(),
			Nodes: v.Surface().State(),
		}
	})
	if err != nil {
		s.unavailable(w, err)
		return
	}
	st.Clients = s.hub.Clients()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		s.logger.Warn("write state", "err", err)
	}
}

func (s *Server) unavailable(w http.ResponseWriter, err error) {
	s.logger.Warn("session unavailable", "err", err)
	http.Error(w, "view session unavailable", http.StatusServiceUnavailable)
}

func serverHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", buildinfo.ServerHeader())
		next.ServeHTTP(w, r)
	})
}

func requestHooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}
