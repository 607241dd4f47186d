package metrics_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/quiet-radar/internal/metrics"
	"github.com/DeafMist/quiet-radar/internal/models"
)

type stubLoader struct {
	report *models.Report
	err    error
}

func (s stubLoader) LatestReport(context.Context) (*models.Report, error) {
	return s.report, s.err
}

func latest() *models.Report {
	countries := models.NewCountries()
	countries.Set("Mali", models.CountryReport{
		Region: "West", ArticleCount: 10, Ratio: 2.5,
		Status: models.StatusHigh, Confidence: models.ConfidenceHigh,
	})
	countries.Set("Chad", models.CountryReport{
		Region: "Central", Status: models.StatusQuiet, Confidence: models.ConfidenceNone,
	})
	return &models.Report{
		GeneratedAt: time.Unix(1773144000, 0).UTC(),
		Summary:     models.Summary{High: 1, Quiet: 1},
		Stats:       models.Stats{Raw: 40, Unique: 30, Recent: 20},
		Countries:   countries,
	}
}

func TestReportCollector(t *testing.T) {
	c := metrics.NewReportCollector(stubLoader{report: latest()}, nil)

	expected := `
# HELP quiet_radar_countries Countries per status in the latest report.
# TYPE quiet_radar_countries gauge
quiet_radar_countries{status="elevated"} 0
quiet_radar_countries{status="high"} 1
quiet_radar_countries{status="normal"} 0
quiet_radar_countries{status="quiet"} 1
# HELP quiet_radar_country_articles Articles matched to a country in the latest report.
# TYPE quiet_radar_country_articles gauge
quiet_radar_country_articles{country="Chad",region="Central"} 0
quiet_radar_country_articles{country="Mali",region="West"} 10
# HELP quiet_radar_report_generated_timestamp_seconds Unix time at which the latest report was generated.
# TYPE quiet_radar_report_generated_timestamp_seconds gauge
quiet_radar_report_generated_timestamp_seconds 1.773144e+09
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"quiet_radar_countries",
		"quiet_radar_country_articles",
		"quiet_radar_report_generated_timestamp_seconds",
	))

	require.Equal(t, 2, testutil.CollectAndCount(c, "quiet_radar_country_status"))
	require.Equal(t, 3, testutil.CollectAndCount(c, "quiet_radar_batch_items"))
}

func TestReportCollectorWithoutReport(t *testing.T) {
	c := metrics.NewReportCollector(stubLoader{err: models.ErrReportNotFound}, nil)
	require.Equal(t, 0, testutil.CollectAndCount(c))

	c = metrics.NewReportCollector(stubLoader{err: errors.New("store down")}, nil)
	require.Equal(t, 0, testutil.CollectAndCount(c))
}
