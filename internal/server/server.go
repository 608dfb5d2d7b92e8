// Package server exposes the layout engine, layout repository and panel
// state over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vantagedata/dashlayout/pkg/events"
	"github.com/vantagedata/dashlayout/pkg/grid"
	"github.com/vantagedata/dashlayout/pkg/layout"
	"github.com/vantagedata/dashlayout/pkg/panels"
	"github.com/vantagedata/dashlayout/pkg/store"
)

// Options configures a Server. Zero values get usable defaults except
// Repository, which is required.
type Options struct {
	Grid        grid.Config
	Constraints panels.Constraints
	Repository  layout.Repository
	Store       store.Store
	Keyer       store.Keyer
	Bus         *events.Bus
	Logger      *log.Logger

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func (o *Options) setDefaults() {
	if o.Grid.Columns == 0 {
		o.Grid = grid.DefaultConfig()
	}
	if o.Constraints == (panels.Constraints{}) {
		o.Constraints = panels.DefaultConstraints()
	}
	if o.Store == nil {
		o.Store = store.NewNullStore()
	}
	if o.Keyer == nil {
		o.Keyer = store.NewDefaultKeyer()
	}
	if o.Bus == nil {
		o.Bus = events.NewBus()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.ShutdownTimeout == 0 {
		o.ShutdownTimeout = 5 * time.Second
	}
}

// Server is the dashlayout HTTP API.
type Server struct {
	opts   Options
	router chi.Router
}

// New builds the router.
func New(opts Options) (*Server, error) {
	if opts.Repository == nil {
		return nil, errors.New("server: repository is required")
	}
	opts.setDefaults()

	s := &Server{opts: opts}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(requestLogFormatter{logger: s.opts.Logger}))
	r.Use(recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/layouts", func(r chi.Router) {
			r.Post("/compact", s.handleCompact)
			r.Post("/collisions", s.handleCollisions)
			r.Post("/position", s.handlePosition)
			r.Post("/validate", s.handleValidateLayout)
			r.Post("/components", s.handleComponents)

			r.Get("/{userID}", s.handleGetLayout)
			r.Put("/{userID}", s.handlePutLayout)
			r.Delete("/{userID}", s.handleDeleteLayout)
		})

		r.Route("/panels", func(r chi.Router) {
			r.Get("/defaults", s.handlePanelDefaults)
			r.Post("/calculate", s.handleCalculate)
			r.Post("/drag", s.handleDrag)

			r.Get("/{scope}", s.handleLoadPanels)
			r.Put("/{scope}", s.handleSavePanels)
		})

		r.Post("/validate/email", s.handleValidateEmail)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is [Server.ListenAndServe] on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.opts.Logger.Info("server stopped")
	return nil
}
