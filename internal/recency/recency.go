// Package recency keeps news items published inside a trailing window.
package recency

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/DeafMist/quiet-radar/internal/models"
)

// DefaultWindow is the trailing window used when none is configured.
const DefaultWindow = 24 * time.Hour

// Numeric offsets after the clock part, e.g. "-05:00" or "-0500".
var trailingOffset = regexp.MustCompile(`[+-]\d{2}:?\d{2}$`)

// Date, then an optional clock with optional fraction. Anything else, such as
// RFC1123 or slash dates, counts as unparsable.
var isoLike = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d{1,9})?)?)?$`)

// Filter keeps items published at or after now-window. Items whose date is
// missing or unparsable are kept: the filter is best effort. Items with a
// valid date older than the cutoff are always dropped.
func Filter(items []models.NewsItem, window time.Duration, now time.Time) []models.NewsItem {
	if window <= 0 {
		window = DefaultWindow
	}
	cutoff := now.Add(-window)

	recent := make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		published, ok := ParsePublished(item.Published, now.Location())
		if ok && published.Before(cutoff) {
			continue
		}
		recent = append(recent, item)
	}
	return recent
}

// ParsePublished parses an ISO-like timestamp as wall-clock time in loc.
// Any zone suffix is stripped first, so the zone is ignored, not converted.
func ParsePublished(raw string, loc *time.Location) (time.Time, bool) {
	raw = stripZone(strings.TrimSpace(raw))
	if !isoLike.MatchString(raw) {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	ts, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func stripZone(raw string) string {
	if i := strings.IndexByte(raw, '+'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, 'Z'); i >= 0 {
		raw = raw[:i]
	}
	// Only look for a negative offset after the date part, so 2024-01-02 stays intact.
	if len(raw) > len(models.DateLayout) {
		head, tail := raw[:len(models.DateLayout)], raw[len(models.DateLayout):]
		raw = head + trailingOffset.ReplaceAllString(tail, "")
	}
	return strings.TrimSpace(raw)
}
