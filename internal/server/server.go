// Package server serves the stock dashboard, its chart images and a small
// JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/logger"
	"StockAnalyzer/internal/model"
)

var log = logger.With("server")

// Headliner supplies news for a ticker.
type Headliner interface {
	Headlines(ctx context.Context, ticker string, limit int) ([]model.NewsArticle, error)
}

// Options tunes the dashboard defaults.
type Options struct {
	CORSOrigins    []string
	DefaultTicker  string
	LookbackDays   int
	CompareTickers []string
	NewsLimit      int
	TipsCount      int
}

// Server is the dashboard HTTP server.
type Server struct {
	router     chi.Router
	collector  *collector.Collector
	statements collector.StatementFetcher
	news       Headliner
	opts       Options
	tipsSeed   uint64

	now func() time.Time
}

// New builds a server. statements and news may be nil, which hides the
// Fundamentals and News tabs.
func New(col *collector.Collector, statements collector.StatementFetcher, news Headliner, opts Options) *Server {
	if opts.DefaultTicker == "" {
		opts.DefaultTicker = "AAPL"
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 365
	}
	s := &Server{
		collector:  col,
		statements: statements,
		news:       news,
		opts:       opts,
		tipsSeed:   uint64(time.Now().UnixNano()),
		now:        time.Now,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("dashboard listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger.Log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.opts.CORSOrigins) > 0 {
		origins = s.opts.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleDashboard)

	r.Route("/chart", func(r chi.Router) {
		r.Get("/price.png", s.handlePriceChart)
		r.Get("/volume.png", s.handleVolumeChart)
		r.Get("/compare.png", s.handleCompareChart)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/compare", s.handleCompare)
	})

	return r
}
