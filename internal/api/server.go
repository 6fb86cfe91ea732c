// Package api exposes the read-mostly HTTP interface over the catalog.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/brewkit/brewcat/internal/config"
	"github.com/brewkit/brewcat/internal/ingest"
	"github.com/brewkit/brewcat/internal/metrics"
	"github.com/brewkit/brewcat/internal/model"
	"github.com/brewkit/brewcat/internal/store"
)

// Server wires HTTP handlers to the catalog store.
type Server struct {
	router chi.Router
	store  store.Store
	runner *ingest.Runner
	log    *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(st store.Store, runner *ingest.Runner, cfg config.ServerConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{store: st, runner: runner, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if cfg.RateLimit > 0 {
		r.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	}
	r.Use(s.observe)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/hops", s.searchHops)
		r.Get("/hops/{name}", s.getHop)
		r.Get("/malts", s.searchMalts)
		r.Get("/malts/{name}", s.getMalt)
		r.Get("/yeasts", s.searchYeasts)
		r.Get("/yeasts/{name}", s.getYeast)
		r.Get("/export", s.export)
		r.Get("/stats", s.stats)
		r.Post("/ingest", s.ingest)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func rateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// observe records request latency per route pattern and logs slow paths
// at debug level.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
		s.log.Debug("request served",
			zap.String("route", route),
			zap.String("method", r.Method),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getHop(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.GetHop(r.Context(), chi.URLParam(r, "name"), r.URL.Query().Get("producer"))
	s.writeRecord(w, h, err)
}

func (s *Server) getMalt(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMalt(r.Context(), chi.URLParam(r, "name"), r.URL.Query().Get("producer"))
	s.writeRecord(w, m, err)
}

func (s *Server) getYeast(w http.ResponseWriter, r *http.Request) {
	y, err := s.store.GetYeast(r.Context(), chi.URLParam(r, "name"), r.URL.Query().Get("producer"))
	s.writeRecord(w, y, err)
}

func (s *Server) writeRecord(w http.ResponseWriter, rec any, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "ingredient not found")
	case err != nil:
		s.fail(w, err)
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) searchHops(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.HopFilter{
		Query:    q.Get("q"),
		Origin:   q.Get("origin"),
		Purpose:  model.HopPurpose(q.Get("purpose")),
		AlphaMin: floatParam(q.Get("alpha_min")),
		AlphaMax: floatParam(q.Get("alpha_max")),
		Limit:    intParam(q.Get("limit")),
	}
	hops, err := s.store.SearchHops(r.Context(), f)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hops": hops, "count": len(hops)})
}

func (s *Server) searchMalts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.MaltFilter{
		Query:    q.Get("q"),
		Producer: q.Get("producer"),
		Category: model.MaltCategory(q.Get("category")),
		ColorMin: floatParam(q.Get("color_min")),
		ColorMax: floatParam(q.Get("color_max")),
		Limit:    intParam(q.Get("limit")),
	}
	malts, err := s.store.SearchMalts(r.Context(), f)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"malts": malts, "count": len(malts)})
}

func (s *Server) searchYeasts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.YeastFilter{
		Query:          q.Get("q"),
		Producer:       q.Get("producer"),
		Type:           model.YeastType(q.Get("type")),
		Form:           model.YeastForm(q.Get("form")),
		Flocculation:   model.Flocculation(q.Get("flocculation")),
		AttenuationMin: floatParam(q.Get("attenuation_min")),
		AttenuationMax: floatParam(q.Get("attenuation_max")),
		Limit:          intParam(q.Get("limit")),
	}
	yeasts, err := s.store.SearchYeasts(r.Context(), f)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"yeasts": yeasts, "count": len(yeasts)})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Export(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Stats(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) ingest(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		writeError(w, http.StatusServiceUnavailable, "ingestion not configured")
		return
	}
	var req struct {
		Facts []model.Fact `json:"facts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Facts) == 0 {
		writeError(w, http.StatusBadRequest, "no facts supplied")
		return
	}
	report, err := s.runner.Run(r.Context(), req.Facts)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.log.Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func floatParam(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func intParam(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
