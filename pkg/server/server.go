// Package server exposes the solver over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness and build information
//	POST /v1/solve                route a net, respond with segments and stats
//	POST /v1/plot?format=svg      route a net and respond with a plot
//
// Request bodies are the JSON form of a net, optionally with solver
// settings:
//
//	{"boundary": {"xl": 0, "yl": 0, "xh": 10, "yh": 10},
//	 "pins": [[1, 1], [9, 1], [5, 8]],
//	 "max_passes": 0}
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// with a machine-readable code:
//
//	{"code": "INVALID_INPUT", "message": "pin 2 at (5,18) outside boundary (0,0)-(10,10)"}
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chiehanchen/steiner/pkg/buildinfo"
	"github.com/chiehanchen/steiner/pkg/errors"
	netio "github.com/chiehanchen/steiner/pkg/io"
	"github.com/chiehanchen/steiner/pkg/pipeline"
	"github.com/chiehanchen/steiner/pkg/render"
	"github.com/chiehanchen/steiner/pkg/steiner"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 16 << 20

// Config holds server settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	SolveTimeout time.Duration // zero disables the per-request deadline
	MaxPins      int           // zero means netio.MaxPins
}

// ConfigFrom extracts the server settings of a pipeline configuration.
func ConfigFrom(c pipeline.Config) Config {
	return Config{
		Addr:         c.Server.Addr,
		ReadTimeout:  c.Server.ReadTimeout.Duration,
		SolveTimeout: c.Server.SolveTimeout.Duration,
		MaxPins:      c.Server.MaxPins,
	}
}

// Server routes nets over HTTP using a shared [pipeline.Runner].
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
	router chi.Router
}

// New creates a server. opts supplies the defaults for every request;
// requests may override the solver settings.
func New(cfg Config, runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	if cfg.MaxPins <= 0 {
		cfg.MaxPins = netio.MaxPins
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		opts:   opts,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed, forcing close", "error", err)
		_ = srv.Close()
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Post("/plot", s.handlePlot)
	})
	return r
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// solveRequest is a net plus optional solver settings.
type solveRequest struct {
	netio.NetJSON
	MaxPasses int  `json:"max_passes,omitempty"`
	Trace     bool `json:"trace,omitempty"`
	Refresh   bool `json:"refresh,omitempty"`
}

type solveResponse struct {
	netio.SolutionJSON
	CacheHit bool           `json:"cache_hit"`
	Trace    []steiner.Move `json:"trace,omitempty"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	res, err := s.solve(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := solveResponse{
		SolutionJSON: netio.NewSolutionJSON(res.Net, res.Segments, res.Stats),
		CacheHit:     res.CacheHit,
	}
	out.RequestID = RequestID(r.Context())
	if res.Solution != nil {
		out.Trace = res.Solution.Trace
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	opts := s.opts
	if f := r.URL.Query().Get("format"); f != "" {
		opts.Format = f
	}
	if err := opts.ValidateForPlot(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.solve(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, _, err := s.runner.Plot(r.Context(), res, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(opts.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// solve decodes the request body and runs it through the pipeline.
func (s *Server) solve(r *http.Request) (*pipeline.Result, error) {
	var req solveRequest
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	if len(req.Pins) > s.cfg.MaxPins {
		return nil, errors.New(errors.ErrCodeInvalidInput, "too many pins: %d (max %d)", len(req.Pins), s.cfg.MaxPins)
	}
	n, err := req.Net()
	if err != nil {
		return nil, err
	}

	opts := s.opts
	opts.Logger = s.logger
	opts.Trace = req.Trace
	opts.Refresh = req.Refresh
	if req.MaxPasses != 0 {
		opts.MaxPasses = req.MaxPasses
	}

	ctx := r.Context()
	if s.cfg.SolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SolveTimeout)
		defer cancel()
	}
	res, err := s.runner.Solve(ctx, n, opts)
	if stderrors.Is(err, context.DeadlineExceeded) {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "solve %d pins", len(n.Pins))
	}
	return res, err
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
	}
	if code == errors.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = netio.WriteJSON(w, v)
}

func contentType(format string) string {
	switch format {
	case render.FormatPNG:
		return "image/png"
	case render.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "image/svg+xml"
	}
}
