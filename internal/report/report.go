// Package report merges match, pair and score output into the published report.
package report

import (
	"strings"
	"time"

	"github.com/DeafMist/quiet-radar/internal/catalog"
	"github.com/DeafMist/quiet-radar/internal/matching"
	"github.com/DeafMist/quiet-radar/internal/models"
)

// ArticleLimit caps the articles listed per country.
const ArticleLimit = 12

// Input carries the per-country outputs of one run.
type Input struct {
	RunID       string
	GeneratedAt time.Time
	Stats       models.Stats
	Matches     *matching.Results
	Pairs       map[string][]models.KeywordPair
	Scores      map[string]models.Score
}

// Assemble builds a report with exactly one record per catalog entity, in
// catalog order, and a summary over all of them.
func Assemble(c *catalog.Compiled, in Input) models.Report {
	r := models.Report{
		RunID:       in.RunID,
		GeneratedAt: in.GeneratedAt,
		Stats:       in.Stats,
		Countries:   models.NewCountries(),
	}

	for _, e := range c.Entities() {
		score, ok := in.Scores[e.Name]
		if !ok {
			score = models.Score{Status: models.StatusQuiet, Confidence: models.ConfidenceNone}
		}

		cr := models.CountryReport{
			Region:       e.Region,
			ArticleCount: score.Articles,
			SourceCount:  score.Sources,
			Baseline:     score.Baseline,
			Ratio:        score.Ratio,
			Status:       score.Status,
			Confidence:   score.Confidence,
			Keywords:     []models.KeywordCount{},
			KeywordPairs: []models.KeywordPair{},
			Articles:     []models.Article{},
			Sources:      []string{},
		}

		if rec := in.Matches.Get(e.Name); rec != nil {
			cr.Keywords = append(cr.Keywords, rec.Keywords...)
			articles := rec.Articles
			if len(articles) > ArticleLimit {
				articles = articles[:ArticleLimit]
			}
			cr.Articles = append(cr.Articles, articles...)
			cr.Sources = append(cr.Sources, rec.Sources...)
		}
		cr.KeywordPairs = append(cr.KeywordPairs, in.Pairs[e.Name]...)

		r.Summary.Add(cr.Status)
		r.Countries.Set(e.Name, cr)
	}

	return r
}

// FilterRegion returns a copy of r holding only the countries of region.
// The summary is recomputed over the kept countries. An empty region
// returns r unchanged.
func FilterRegion(r models.Report, region string) models.Report {
	region = strings.TrimSpace(region)
	if region == "" || r.Countries == nil {
		return r
	}

	out := r
	out.Summary = models.Summary{}
	out.Countries = models.NewCountries()
	for pair := r.Countries.Oldest(); pair != nil; pair = pair.Next() {
		if strings.EqualFold(pair.Value.Region, region) {
			out.Countries.Set(pair.Key, pair.Value)
			out.Summary.Add(pair.Value.Status)
		}
	}
	return out
}
