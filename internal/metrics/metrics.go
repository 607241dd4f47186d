// Package metrics exposes the latest report as Prometheus gauges.
package metrics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DeafMist/quiet-radar/internal/models"
)

var (
	countriesDesc = prometheus.NewDesc(
		"quiet_radar_countries",
		"Countries per status in the latest report.",
		[]string{"status"},
		nil,
	)
	articlesDesc = prometheus.NewDesc(
		"quiet_radar_country_articles",
		"Articles matched to a country in the latest report.",
		[]string{"country", "region"},
		nil,
	)
	ratioDesc = prometheus.NewDesc(
		"quiet_radar_country_ratio",
		"Coverage ratio over baseline of a country in the latest report.",
		[]string{"country", "region"},
		nil,
	)
	statusDesc = prometheus.NewDesc(
		"quiet_radar_country_status",
		"Set to 1 for the status a country has in the latest report.",
		[]string{"country", "region", "status", "confidence"},
		nil,
	)
	batchDesc = prometheus.NewDesc(
		"quiet_radar_batch_items",
		"Items left after each stage of the latest run.",
		[]string{"stage"},
		nil,
	)
	generatedDesc = prometheus.NewDesc(
		"quiet_radar_report_generated_timestamp_seconds",
		"Unix time at which the latest report was generated.",
		nil,
		nil,
	)
)

// ReportLoader yields the report to export.
type ReportLoader interface {
	LatestReport(ctx context.Context) (*models.Report, error)
}

// ReportCollector reads the latest report on each scrape.
type ReportCollector struct {
	loader  ReportLoader
	timeout time.Duration
	log     *slog.Logger
}

// NewReportCollector returns a collector over loader.
func NewReportCollector(loader ReportLoader, log *slog.Logger) *ReportCollector {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ReportCollector{loader: loader, timeout: 5 * time.Second, log: log}
}

// Describe sends the metric descriptors to the channel.
func (c *ReportCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- countriesDesc
	ch <- articlesDesc
	ch <- ratioDesc
	ch <- statusDesc
	ch <- batchDesc
	ch <- generatedDesc
}

// Collect emits gauges for the latest report. Nothing is emitted before the
// first report exists.
func (c *ReportCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	r, err := c.loader.LatestReport(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrReportNotFound) {
			c.log.Error("failed to collect report metrics", slog.Any("err", err))
		}
		return
	}

	for status, n := range map[models.Status]int{
		models.StatusHigh:     r.Summary.High,
		models.StatusElevated: r.Summary.Elevated,
		models.StatusNormal:   r.Summary.Normal,
		models.StatusQuiet:    r.Summary.Quiet,
	} {
		ch <- prometheus.MustNewConstMetric(countriesDesc, prometheus.GaugeValue, float64(n), string(status))
	}

	for stage, n := range map[string]int{
		"raw":    r.Stats.Raw,
		"unique": r.Stats.Unique,
		"recent": r.Stats.Recent,
	} {
		ch <- prometheus.MustNewConstMetric(batchDesc, prometheus.GaugeValue, float64(n), stage)
	}

	ch <- prometheus.MustNewConstMetric(generatedDesc, prometheus.GaugeValue, float64(r.GeneratedAt.Unix()))

	if r.Countries == nil {
		return
	}
	for pair := r.Countries.Oldest(); pair != nil; pair = pair.Next() {
		name, cr := pair.Key, pair.Value
		ch <- prometheus.MustNewConstMetric(articlesDesc, prometheus.GaugeValue, float64(cr.ArticleCount), name, cr.Region)
		ch <- prometheus.MustNewConstMetric(ratioDesc, prometheus.GaugeValue, cr.Ratio, name, cr.Region)
		ch <- prometheus.MustNewConstMetric(statusDesc, prometheus.GaugeValue, 1,
			name, cr.Region, string(cr.Status), string(cr.Confidence))
	}
}
