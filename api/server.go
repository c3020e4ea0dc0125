// Package api exposes the scrape/parse pipeline over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/pagesift/core"
	"github.com/gaurav-prasanna/pagesift/core/pipeline"
)

// Server routes HTTP requests to the pipeline.
type Server struct {
	router   *chi.Mux
	pipeline *pipeline.Pipeline
	history  core.HistoryStore
	metrics  *metrics
	log      zerolog.Logger
}

// NewServer creates a Server. history may be nil, in which case the
// history endpoint reports 404. Metrics are registered on reg.
func NewServer(p *pipeline.Pipeline, history core.HistoryStore, reg *prometheus.Registry, log zerolog.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		pipeline: p,
		history:  history,
		metrics:  newMetrics(reg),
		log:      log.With().Str("component", "api").Logger(),
	}

	s.setupRoutes(reg)
	return s
}

func (s *Server) setupRoutes(reg *prometheus.Registry) {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/scrape", s.handleScrape)
	s.router.Post("/parse", s.handleParse)
	s.router.Get("/history/{user}", s.handleHistory)
	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// requestLogger logs one line per request with zerolog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

type errorResponse struct {
	Error string    `json:"error"`
	Kind  core.Kind `json:"kind"`
}

// respondError maps a pipeline error to its HTTP status. Only the message
// and category are exposed.
func respondError(w http.ResponseWriter, err error) {
	kind := core.KindOf(err)
	respondJSON(w, statusFor(kind), errorResponse{Error: err.Error(), Kind: kind})
}

func statusFor(kind core.Kind) int {
	switch kind {
	case core.KindInvalidArgument:
		return http.StatusBadRequest
	case core.KindParse:
		return http.StatusUnprocessableEntity
	case core.KindFetch, core.KindBackend:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
