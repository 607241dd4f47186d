package history

import (
	"math"

	"github.com/DeafMist/quiet-radar/internal/catalog"
	"github.com/DeafMist/quiet-radar/internal/models"
)

const (
	// MinBaseline is the floor of every baseline; ratios never divide by less.
	MinBaseline = 0.5
	// MinDays is how many days mentioning a country are needed before the
	// ledger replaces the static default.
	MinDays = 3
)

// Baselines computes the expected daily article count of every entity.
// Days whose counts do not mention an entity are skipped rather than read
// as zero. With fewer than MinDays qualifying days the entity's default is
// used instead of the ledger mean.
func Baselines(h models.History, entities []catalog.CompiledEntity) map[string]float64 {
	out := make(map[string]float64, len(entities))

	for _, e := range entities {
		var (
			sum  int
			days int
		)
		for _, day := range h.Days {
			if n, ok := day.Counts[e.Name]; ok {
				sum += n
				days++
			}
		}

		baseline := e.Baseline
		if days >= MinDays {
			baseline = float64(sum) / float64(days)
		}
		out[e.Name] = math.Max(baseline, MinBaseline)
	}

	return out
}
