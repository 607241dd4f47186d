// Package pipeline runs the analysis stages over one batch of news items.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DeafMist/quiet-radar/internal/catalog"
	"github.com/DeafMist/quiet-radar/internal/dedupe"
	"github.com/DeafMist/quiet-radar/internal/history"
	"github.com/DeafMist/quiet-radar/internal/matching"
	"github.com/DeafMist/quiet-radar/internal/models"
	"github.com/DeafMist/quiet-radar/internal/recency"
	"github.com/DeafMist/quiet-radar/internal/report"
	"github.com/DeafMist/quiet-radar/internal/scoring"
)

// Options tune a Pipeline.
type Options struct {
	// Window is the recency window; zero means recency.DefaultWindow.
	Window time.Duration
	// NewID generates report run identifiers; nil means random UUIDs.
	NewID func() string
}

// Pipeline is safe to reuse across runs; it keeps no per-run state.
type Pipeline struct {
	catalog *catalog.Compiled
	matcher *matching.Matcher
	window  time.Duration
	newID   func() string
	log     *slog.Logger
}

// Result is what a run hands to the persistence layer.
type Result struct {
	Report  models.Report
	History models.History
}

// New builds a pipeline over a compiled catalog.
func New(c *catalog.Compiled, opts Options, log *slog.Logger) *Pipeline {
	if opts.Window <= 0 {
		opts.Window = recency.DefaultWindow
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		catalog: c,
		matcher: matching.New(c),
		window:  opts.Window,
		newID:   opts.NewID,
		log:     log,
	}
}

// Run scores items against the baselines in hist and returns the report
// together with the ledger that now includes today's counts. A malformed
// ledger aborts the run before anything is produced.
func (p *Pipeline) Run(items []models.NewsItem, hist models.History, now time.Time) (*Result, error) {
	if err := history.Validate(hist); err != nil {
		return nil, fmt.Errorf("history ledger: %w", err)
	}

	unique := dedupe.Items(items)
	p.log.Info("deduplicated", slog.Int("raw", len(items)), slog.Int("unique", len(unique)))

	recent := recency.Filter(unique, p.window, now)
	p.log.Info("filtered to window", slog.Duration("window", p.window), slog.Int("recent", len(recent)))

	matches := p.matcher.Match(recent)
	active := matches.Active()
	p.log.Info("matched countries", slog.Int("active", active), slog.Int("total", p.catalog.Len()))

	pairs := matches.Pairs(p.catalog.Keywords())
	withPairs := 0
	for _, ps := range pairs {
		if len(ps) > 0 {
			withPairs++
		}
	}
	p.log.Info("keyword pairs", slog.Int("countries", withPairs))

	baselines := history.Baselines(hist, p.catalog.Entities())

	scores := make(map[string]models.Score, p.catalog.Len())
	var high, elevated int
	for _, name := range matches.Names() {
		rec := matches.Get(name)
		score := scoring.Score(scoring.Input{
			Articles: len(rec.Articles),
			Sources:  len(rec.Sources),
			Keywords: len(rec.Keywords),
			HasPairs: len(pairs[name]) > 0,
			Baseline: baselines[name],
		})
		switch score.Status {
		case models.StatusHigh:
			high++
		case models.StatusElevated:
			elevated++
		}
		scores[name] = score
	}
	p.log.Info("scored", slog.Int("high", high), slog.Int("elevated", elevated))

	updated := history.Update(hist, now.Format(models.DateLayout), matches.Counts())

	rep := report.Assemble(p.catalog, report.Input{
		RunID:       p.newID(),
		GeneratedAt: now,
		Stats: models.Stats{
			Raw:                len(items),
			Unique:             len(unique),
			Recent:             len(recent),
			ActiveCountries:    active,
			CountriesWithPairs: withPairs,
		},
		Matches: matches,
		Pairs:   pairs,
		Scores:  scores,
	})

	return &Result{Report: rep, History: updated}, nil
}
