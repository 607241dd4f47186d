// Package history maintains the rolling ledger of daily article counts and
// derives per-country baselines from it.
package history

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/DeafMist/quiet-radar/internal/models"
)

// MaxDays is how many distinct dates the ledger retains.
const MaxDays = 30

// Validate rejects ledgers that do not have the expected shape. A broken
// ledger would silently skew every baseline, so callers abort on error.
func Validate(h models.History) error {
	var errs []error
	seen := make(map[string]struct{}, len(h.Days))

	for i, day := range h.Days {
		if _, err := time.Parse(models.DateLayout, day.Date); err != nil {
			errs = append(errs, fmt.Errorf("day %d: invalid date %q", i, day.Date))
		}
		if _, dup := seen[day.Date]; dup {
			errs = append(errs, fmt.Errorf("day %d: duplicate date %q", i, day.Date))
		}
		seen[day.Date] = struct{}{}

		if day.Counts == nil {
			errs = append(errs, fmt.Errorf("day %d (%s): missing counts", i, day.Date))
			continue
		}
		for name, n := range day.Counts {
			if n < 0 {
				errs = append(errs, fmt.Errorf("day %d (%s): negative count %d for %q", i, day.Date, n, name))
			}
		}
	}

	return errors.Join(errs...)
}

// Update returns a new ledger with today's counts recorded. Any existing
// snapshot for the same date is replaced, snapshots are sorted by date and
// only the most recent MaxDays are kept. h is not modified.
func Update(h models.History, date string, counts map[string]int) models.History {
	days := make([]models.DaySnapshot, 0, len(h.Days)+1)
	for _, day := range h.Days {
		if day.Date != date {
			days = append(days, day)
		}
	}

	snapshot := make(map[string]int, len(counts))
	for name, n := range counts {
		snapshot[name] = n
	}
	days = append(days, models.DaySnapshot{Date: date, Counts: snapshot})

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	if len(days) > MaxDays {
		days = days[len(days)-MaxDays:]
	}

	return models.History{Days: days}
}
