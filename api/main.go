package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DeafMist/quiet-radar/internal/cache"
	"github.com/DeafMist/quiet-radar/internal/config"
	"github.com/DeafMist/quiet-radar/internal/logger"
	"github.com/DeafMist/quiet-radar/internal/metrics"
	"github.com/DeafMist/quiet-radar/internal/models"
	"github.com/DeafMist/quiet-radar/internal/report"
	"github.com/DeafMist/quiet-radar/internal/store"
)

const latestKey = "latest"

type reportReader interface {
	LatestReport(ctx context.Context) (*models.Report, error)
	Ping(ctx context.Context) error
}

func main() {
	log := logger.New("api")
	if err := config.LoadDotEnv(); err != nil {
		log.Error("load .env", slog.Any("err", err))
		os.Exit(1)
	}
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	st, err := store.Open(ctx, cfg.Common, log)
	if err != nil {
		log.Error("open store", slog.Any("err", err))
		os.Exit(1)
	}
	defer st.Close()

	srv := newServer(log, st, cfg.CacheTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewReportCollector(srv, log),
	)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           newRouter(srv, registry),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr), slog.String("store", cfg.StoreBackend))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type server struct {
	log   *slog.Logger
	store reportReader
	cache *cache.Cache[*models.Report]
}

// newServer wraps st with a latest-report cache; a zero ttl disables it.
func newServer(log *slog.Logger, st reportReader, ttl time.Duration) *server {
	s := &server{log: log, store: st}
	if ttl > 0 {
		s.cache = cache.New[*models.Report](1, ttl)
	}
	return s
}

func newRouter(s *server, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/report", func(r chi.Router) {
		r.Get("/", s.handleReport)
		r.Get("/summary", s.handleSummary)
		r.Get("/countries/{name}", s.handleCountry)
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

// LatestReport serves from the cache and falls back to the store.
func (s *server) LatestReport(ctx context.Context) (*models.Report, error) {
	if s.cache != nil {
		if r, ok := s.cache.Get(latestKey); ok {
			return r, nil
		}
	}
	r, err := s.store.LatestReport(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(latestKey, r)
	}
	return r, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

type summaryResponse struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Summary     models.Summary `json:"summary"`
	Stats       models.Stats   `json:"stats"`
}

type countryResponse struct {
	Name string `json:"name"`
	models.CountryReport
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.latest(w, r)
	if !ok {
		return
	}

	if region := strings.TrimSpace(r.URL.Query().Get("region")); region != "" {
		filtered := report.FilterRegion(*rep, region)
		rep = &filtered
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.latest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		RunID:       rep.RunID,
		GeneratedAt: rep.GeneratedAt,
		Summary:     rep.Summary,
		Stats:       rep.Stats,
	})
}

func (s *server) handleCountry(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.latest(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	if rep.Countries != nil {
		for pair := rep.Countries.Oldest(); pair != nil; pair = pair.Next() {
			if strings.EqualFold(pair.Key, name) {
				writeJSON(w, http.StatusOK, countryResponse{Name: pair.Key, CountryReport: pair.Value})
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown country " + name})
}

func (s *server) latest(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rep, err := s.LatestReport(ctx)
	switch {
	case errors.Is(err, models.ErrReportNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return nil, false
	case err != nil:
		s.log.Error("load latest report", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return nil, false
	}
	return rep, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
