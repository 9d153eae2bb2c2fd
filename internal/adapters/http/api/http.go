// Package api is a stub of the prediction backend: it serves the dashboard
// pages and answers the fact, prediction, advice and statistics endpoints
// from canned fixtures.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/okian/riskboard/internal/adapters/http/site"
	"github.com/okian/riskboard/internal/adapters/http/swagger"
	"github.com/okian/riskboard/pkg/logger"
)

// Server wires HTTP routes for the stub backend.
type Server struct {
	healthHandler  *HealthHandler
	factHandler    *FactHandler
	predictHandler *PredictHandler
	adviceHandler  *AdviceHandler
	statsHandler   *StatsHandler

	log logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// NewServer creates a stub server answering from fx.
func NewServer(fx *Fixtures, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		factHandler:    NewFactHandler(fx.Facts),
		predictHandler: NewPredictHandler(fx.Predict),
		adviceHandler:  NewAdviceHandler(fx.Advice),
		statsHandler:   NewStatsHandler(fx.Stats),
		log:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.predictHandler.log = s.log
	s.adviceHandler.log = s.log
	return s
}

// Routes builds the router: pages, backend endpoints, the OpenAPI document,
// health and metrics.
func (s *Server) Routes(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	site.Register(ctx, r)
	swagger.Register(ctx, r)

	r.Get("/get_fact", MetricsMiddleware(s.factHandler.HandleGetFact, "get_fact"))
	r.Post("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	r.Post("/ask_ai", MetricsMiddleware(s.adviceHandler.HandleAskAI, "ask_ai"))
	r.Get("/stats_data/{attribute}", MetricsMiddleware(s.statsHandler.HandleStatsData, "stats_data"))
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Handle("/metrics", s.healthHandler.MetricsHandler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
	return r
}

// requestLogger echoes the request id and logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimiddleware.GetReqID(r.Context())
		w.Header().Set(chimiddleware.RequestIDHeader, requestID)
		s.log.Debug(r.Context(), "request",
			logger.String("request_id", requestID),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// failureResponse is the backend's application error body.
type failureResponse struct {
	Error string `json:"error"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
