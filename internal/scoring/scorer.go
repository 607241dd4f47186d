// Package scoring turns coverage counts into an anomaly status and confidence.
package scoring

import (
	"math"
	"strconv"

	"github.com/DeafMist/quiet-radar/internal/models"
)

const (
	minBaseline = 0.5

	// HighRatio and ElevatedRatio are the coverage multiples over baseline
	// at which a country escalates.
	HighRatio     = 2.5
	ElevatedRatio = 1.5
	// MinArticles is the least coverage that may escalate at all.
	MinArticles = 2
)

// Input is the evidence gathered for one country.
type Input struct {
	Articles int
	Sources  int
	Keywords int
	HasPairs bool
	Baseline float64
}

// Score applies the decision table, first matching row wins. Volume needs
// source diversity to escalate status; keyword and pair evidence only raise
// confidence.
func Score(in Input) models.Score {
	ratio := float64(in.Articles) / math.Max(in.Baseline, minBaseline)
	status, confidence := classify(in, ratio)

	return models.Score{
		Articles:   in.Articles,
		Sources:    in.Sources,
		Baseline:   round(in.Baseline, 1),
		Ratio:      round(ratio, 2),
		Status:     status,
		Confidence: confidence,
	}
}

func classify(in Input, ratio float64) (models.Status, models.Confidence) {
	switch {
	case in.Articles == 0:
		return models.StatusQuiet, models.ConfidenceNone
	case in.Articles < MinArticles:
		return models.StatusNormal, models.ConfidenceLow
	case ratio >= HighRatio && in.Sources >= 3 && (in.Keywords >= 2 || in.HasPairs):
		return models.StatusHigh, models.ConfidenceHigh
	case ratio >= HighRatio && in.Sources >= 2:
		return models.StatusHigh, models.ConfidenceMedium
	case ratio >= HighRatio:
		return models.StatusElevated, models.ConfidenceLow
	case ratio >= ElevatedRatio && in.Sources >= 2:
		return models.StatusElevated, models.ConfidenceMedium
	case ratio >= ElevatedRatio:
		return models.StatusElevated, models.ConfidenceLow
	}

	if in.Articles > 0 {
		return models.StatusNormal, models.ConfidenceNormal
	}
	return models.StatusNormal, models.ConfidenceNone
}

// round rounds the exact binary value, half to even. Scaling by a power of
// ten first would move midpoints such as 1.05, which is stored just above 1.05.
func round(v float64, places int) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return f
}
