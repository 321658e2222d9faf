// Package chi exposes the translation and sync services over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/commentdex/commentdex/internal/bulk"
	"github.com/commentdex/commentdex/internal/metrics"
	"github.com/commentdex/commentdex/internal/queue"
	"github.com/commentdex/commentdex/internal/schema"
	healthuc "github.com/commentdex/commentdex/internal/usecase/health"
	syncuc "github.com/commentdex/commentdex/internal/usecase/sync"
	translateuc "github.com/commentdex/commentdex/internal/usecase/translate"
	"github.com/commentdex/commentdex/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server hosts the HTTP API surface.
type Server struct {
	translate     *translateuc.Service
	sync          *syncuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	translate *translateuc.Service,
	sync *syncuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		translate: translate,
		sync:      sync,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(schema.ErrUnknownVersion, http.StatusNotFound),
		queueUnavailableHandler,
	}
	return s
}

// Router assembles the routing table with the standard middleware stack.
// An empty authToken disables bearer authentication.
func (s *Server) Router(authToken string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(authToken))
	r.Use(metrics.Middleware())

	r.Post("/v1/translate", s.Translate)
	r.Get("/v1/mapping", s.GetMapping)
	r.Get("/v1/mapping/{version}", s.GetMapping)
	r.Post("/v1/queue", s.EnqueueComments)
	r.Get("/v1/queue", s.QueueDepth)
	r.Post("/v1/sync", s.RunSync)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}

// Translate handles POST /v1/translate. The body is the flat query
// argument map; an empty body compiles to a match-all request.
func (s *Server) Translate(w http.ResponseWriter, r *http.Request) {
	params := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.translate.Translate(r.Context(), params))
}

// GetMapping handles GET /v1/mapping and GET /v1/mapping/{version}.
func (s *Server) GetMapping(w http.ResponseWriter, r *http.Request) {
	raw, err := schema.Mapping(chi.URLParam(r, "version"))
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, raw)
}

// EnqueueComments handles POST /v1/queue.
func (s *Server) EnqueueComments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids is required")
		return
	}

	queued, err := s.sync.Enqueue(r.Context(), req.IDs)
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]int{"queued": queued})
}

// QueueDepth handles GET /v1/queue.
func (s *Server) QueueDepth(w http.ResponseWriter, r *http.Request) {
	depth, err := s.sync.Depth(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"depth": depth})
}

// RunSync handles POST /v1/sync. The response body is the bulk NDJSON
// stream itself; run totals land in the log, not the response.
func (s *Server) RunSync(w http.ResponseWriter, r *http.Request) {
	var req struct {
		All       bool `json:"all"`
		BatchSize int  `json:"batch_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	flusher, _ := w.(http.Flusher)
	sink := &streamSink{w: w, flusher: flusher}
	w.Header().Set("Content-Type", "application/x-ndjson")

	report, err := s.sync.Run(r.Context(), sink, syncuc.Options{All: req.All, BatchSize: req.BatchSize})
	if err != nil {
		// The status line is already on the wire once the first batch
		// streams, so late failures only reach the log.
		if !sink.wrote {
			s.handleError(w, err)
			return
		}
		s.logger.Error("sync stream aborted",
			zap.String("run_id", report.RunID),
			zap.Error(err),
		)
	}
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  report.Status,
		Version: version.Version,
		Checks:  report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type healthResponse struct {
	Status  healthuc.Status                 `json:"status"`
	Version string                          `json:"version"`
	Checks  map[string]healthuc.CheckResult `json:"checks"`
}

// streamSink writes bulk payloads straight to the HTTP response,
// flushing after every batch so consumers see progress immediately.
type streamSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	wrote   bool
}

var _ syncuc.Sink = (*streamSink)(nil)

func (s *streamSink) Write(_ context.Context, p bulk.Payload) error {
	if _, err := s.w.Write(p.Body); err != nil {
		return fmt.Errorf("stream payload: %w", err)
	}
	s.wrote = true
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// safeMessage returns a sentinel error message for the client without exposing internals.
func safeMessage(err error) string {
	if errors.Is(err, schema.ErrUnknownVersion) {
		return schema.ErrUnknownVersion.Error()
	}
	var qerr *queue.Error
	if errors.As(err, &qerr) {
		return "queue unavailable"
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

// queueUnavailableHandler maps queue backend failures to 502.
func queueUnavailableHandler(w http.ResponseWriter, err error, msg string) bool {
	var qerr *queue.Error
	if !errors.As(err, &qerr) {
		return false
	}
	writeError(w, http.StatusBadGateway, msg)
	return true
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	s.logger.Warn("request error", zap.Error(err))
	msg := safeMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
