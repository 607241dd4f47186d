package models

import (
	"errors"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrReportNotFound is returned by stores that have not persisted a report yet.
var ErrReportNotFound = errors.New("report not found")

// Status is the coarse anomaly level of a country.
type Status string

const (
	StatusQuiet    Status = "quiet"
	StatusNormal   Status = "normal"
	StatusElevated Status = "elevated"
	StatusHigh     Status = "high"
)

// Confidence grades how much corroborating evidence backs a status.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceNormal Confidence = "normal"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// KeywordCount is a signal keyword surfaced for a country.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// KeywordPair is two signal keywords that repeatedly appear in the same article.
type KeywordPair [2]string

// Score is the output of the anomaly scorer for one country.
type Score struct {
	Articles   int        `json:"articles"`
	Sources    int        `json:"sources"`
	Baseline   float64    `json:"baseline"`
	Ratio      float64    `json:"ratio"`
	Status     Status     `json:"status"`
	Confidence Confidence `json:"confidence"`
}

// CountryReport is the per-country record of a report.
type CountryReport struct {
	Region       string         `json:"region,omitempty"`
	ArticleCount int            `json:"article_count"`
	SourceCount  int            `json:"source_count"`
	Baseline     float64        `json:"baseline"`
	Ratio        float64        `json:"ratio"`
	Status       Status         `json:"status"`
	Confidence   Confidence     `json:"confidence"`
	Keywords     []KeywordCount `json:"keywords"`
	KeywordPairs []KeywordPair  `json:"keyword_pairs"`
	Articles     []Article      `json:"articles"`
	Sources      []string       `json:"sources"`
}

// Summary counts countries per status across the whole catalog.
type Summary struct {
	High     int `json:"high"`
	Elevated int `json:"elevated"`
	Normal   int `json:"normal"`
	Quiet    int `json:"quiet"`
}

// Add increments the counter for status.
func (s *Summary) Add(status Status) {
	switch status {
	case StatusHigh:
		s.High++
	case StatusElevated:
		s.Elevated++
	case StatusNormal:
		s.Normal++
	default:
		s.Quiet++
	}
}

// Stats describes how the batch shrank through the pipeline.
type Stats struct {
	Raw                int `json:"raw"`
	Unique             int `json:"unique"`
	Recent             int `json:"recent"`
	ActiveCountries    int `json:"active_countries"`
	CountriesWithPairs int `json:"countries_with_pairs"`
}

// Countries keeps country reports in catalog order, including when encoded as JSON.
type Countries = orderedmap.OrderedMap[string, CountryReport]

// NewCountries allocates an empty ordered country map.
func NewCountries() *Countries {
	return orderedmap.New[string, CountryReport]()
}

// Report is the document produced by one pipeline run.
type Report struct {
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Summary     Summary    `json:"summary"`
	Stats       Stats      `json:"stats"`
	Countries   *Countries `json:"countries"`
}
