package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/quiet-radar/internal/metrics"
	"github.com/DeafMist/quiet-radar/internal/models"
)

type stubStore struct {
	report  *models.Report
	err     error
	pingErr error
	loads   int
}

func (s *stubStore) LatestReport(context.Context) (*models.Report, error) {
	s.loads++
	return s.report, s.err
}

func (s *stubStore) Ping(context.Context) error {
	return s.pingErr
}

func sampleReport() *models.Report {
	countries := models.NewCountries()
	countries.Set("Sudan", models.CountryReport{Region: "North", ArticleCount: 9, Status: models.StatusElevated, Confidence: models.ConfidenceMedium})
	countries.Set("Mali", models.CountryReport{Region: "West", Status: models.StatusQuiet, Confidence: models.ConfidenceNone})
	countries.Set("Burkina Faso", models.CountryReport{Region: "West", Status: models.StatusNormal, Confidence: models.ConfidenceLow, ArticleCount: 1})
	return &models.Report{
		RunID:       "run-7",
		GeneratedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Summary:     models.Summary{Elevated: 1, Normal: 1, Quiet: 1},
		Stats:       models.Stats{Raw: 12, Unique: 10, Recent: 9, ActiveCountries: 2},
		Countries:   countries,
	}
}

func newTestRouter(st *stubStore, ttl time.Duration) (http.Handler, *server) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := newServer(log, st, ttl)
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewReportCollector(srv, log))
	return newRouter(srv, reg), srv
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	st := &stubStore{}
	h, _ := newTestRouter(st, 0)
	require.Equal(t, http.StatusOK, get(t, h, "/health").Code)

	st.pingErr = errors.New("disk gone")
	rec := get(t, h, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "disk gone")
}

func TestReportEndpoints(t *testing.T) {
	h, _ := newTestRouter(&stubStore{report: sampleReport()}, 0)

	rec := get(t, h, "/report")
	require.Equal(t, http.StatusOK, rec.Code)
	var full models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &full))
	require.Equal(t, 3, full.Countries.Len())
	require.Equal(t, "Sudan", full.Countries.Oldest().Key)

	rec = get(t, h, "/report?region=west")
	require.Equal(t, http.StatusOK, rec.Code)
	var west models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &west))
	require.Equal(t, 2, west.Countries.Len())
	require.Equal(t, models.Summary{Normal: 1, Quiet: 1}, west.Summary)

	rec = get(t, h, "/report/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, "run-7", summary.RunID)
	require.Equal(t, 12, summary.Stats.Raw)

	rec = get(t, h, "/report/countries/burkina%20faso")
	require.Equal(t, http.StatusOK, rec.Code)
	var country map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &country))
	require.Equal(t, "Burkina Faso", country["name"])
	require.Equal(t, "normal", country["status"])
	require.EqualValues(t, 1, country["article_count"])

	require.Equal(t, http.StatusNotFound, get(t, h, "/report/countries/Atlantis").Code)
}

func TestReportMissing(t *testing.T) {
	h, _ := newTestRouter(&stubStore{err: models.ErrReportNotFound}, 0)
	require.Equal(t, http.StatusNotFound, get(t, h, "/report").Code)
	require.Equal(t, http.StatusNotFound, get(t, h, "/report/summary").Code)

	h, _ = newTestRouter(&stubStore{err: errors.New("boom")}, 0)
	require.Equal(t, http.StatusInternalServerError, get(t, h, "/report").Code)
}

func TestLatestReportIsCached(t *testing.T) {
	st := &stubStore{report: sampleReport()}
	h, _ := newTestRouter(st, time.Minute)

	get(t, h, "/report")
	get(t, h, "/report/summary")
	require.Equal(t, 1, st.loads)

	st = &stubStore{report: sampleReport()}
	h, _ = newTestRouter(st, 0)
	get(t, h, "/report")
	get(t, h, "/report")
	require.Equal(t, 2, st.loads)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(&stubStore{report: sampleReport()}, 0)

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `quiet_radar_countries{status="elevated"} 1`)
	require.True(t, strings.Contains(body, `quiet_radar_country_articles{country="Sudan",region="North"} 9`))
}
