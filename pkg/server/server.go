// Package server exposes an editor over HTTP.
//
// Routes (chi):
//
//	GET    /graph                current scene as JSON
//	PUT    /graph                replace the graph with a scene
//	DELETE /graph                clear
//	GET    /graph.svg            rendered scene
//	POST   /nodes                add a node, body: optional node record
//	GET    /nodes/{index}        node record
//	PATCH  /nodes/{index}        partial update
//	DELETE /nodes/{index}        remove a node and its edges
//	POST   /edges                add an edge, body: {"source":..,"target":..}
//	GET    /edges/{index}        edge with endpoints and bends
//	DELETE /edges/{index}        remove an edge
//	POST   /layout               force a layout run
//	PUT    /layout/auto          {"enabled":bool}
//	PUT    /layout/algorithm     {"name":..}
//	POST   /generate             replace the graph with a random one
//	GET    /scenes               stored scenes (with a store)
//	POST   /scenes               save the current graph
//	POST   /scenes/{id}/load     load a stored scene
//	DELETE /scenes/{id}          delete a stored scene
//	GET    /events               websocket stream of view change signals
//	GET    /metrics              Prometheus metrics (with a registry)
//	GET    /version              build information
//
// The editor is not safe for concurrent use, so every handler holds the
// server mutex for the duration of its editor calls. View listeners run
// under that mutex and hand events to the websocket hub without blocking.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphlive/pkg/editor"
	"github.com/matzehuels/graphlive/pkg/layout"
	"github.com/matzehuels/graphlive/pkg/metrics"
	"github.com/matzehuels/graphlive/pkg/storage"
)

// AlgorithmResolver maps an algorithm name to an Algorithm.
type AlgorithmResolver func(name string) (layout.Algorithm, error)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and event logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records request metrics and serves /metrics.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Server) { s.metrics = r }
}

// WithStore enables the /scenes routes.
func WithStore(st storage.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithResolver replaces the algorithm lookup used by PUT /layout/algorithm.
// The default is layout.New with layout.DefaultConfig.
func WithResolver(fn AlgorithmResolver) Option {
	return func(s *Server) {
		if fn != nil {
			s.resolve = fn
		}
	}
}

// Server serves one editor.
type Server struct {
	mu      sync.Mutex
	ed      *editor.Editor
	logger  *log.Logger
	metrics *metrics.Registry
	store   storage.Store
	resolve AlgorithmResolver
	hub     *hub
	router  chi.Router
}

// New creates a server for ed and subscribes to its views.
func New(ed *editor.Editor, opts ...Option) *Server {
	s := &Server{
		ed:     ed,
		logger: log.Default(),
		resolve: func(name string) (layout.Algorithm, error) {
			return layout.New(name, layout.DefaultConfig)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = newHub(s.logger)

	s.mu.Lock()
	ed.Nodes().OnChanged(func() { s.hub.broadcast(s.event("nodes")) })
	ed.Edges().OnChanged(func() { s.hub.broadcast(s.event("edges")) })
	s.mu.Unlock()

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Route("/graph", func(r chi.Router) {
		r.Get("/", s.getGraph)
		r.Put("/", s.putGraph)
		r.Delete("/", s.clearGraph)
	})
	r.Get("/graph.svg", s.getSVG)

	r.Route("/nodes", func(r chi.Router) {
		r.Post("/", s.addNode)
		r.Get("/{index}", s.getNode)
		r.Patch("/{index}", s.patchNode)
		r.Delete("/{index}", s.removeNode)
	})
	r.Route("/edges", func(r chi.Router) {
		r.Post("/", s.addEdge)
		r.Get("/{index}", s.getEdge)
		r.Delete("/{index}", s.removeEdge)
	})
	r.Route("/layout", func(r chi.Router) {
		r.Post("/", s.relayout)
		r.Put("/auto", s.setAuto)
		r.Put("/algorithm", s.setAlgorithm)
	})
	r.Post("/generate", s.generate)

	if s.store != nil {
		r.Route("/scenes", func(r chi.Router) {
			r.Get("/", s.listScenes)
			r.Post("/", s.saveScene)
			r.Post("/{id}/load", s.loadScene)
			r.Delete("/{id}", s.deleteScene)
		})
	}

	r.Get("/events", s.events)
	r.Get("/version", s.version)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// instrument logs each request and records it in the metrics registry
// under its route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", elapsed)
		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(status), elapsed)
		}
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
