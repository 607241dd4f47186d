// Package ingest collects raw news items for one analysis run.
package ingest

import (
	"context"

	"github.com/DeafMist/quiet-radar/internal/models"
)

// PublishedLayout is the zone-less form in which collected timestamps are
// handed to the pipeline. Values are UTC wall-clock time.
const PublishedLayout = "2006-01-02T15:04:05"

// Source yields the raw batch for a run.
type Source interface {
	Collect(ctx context.Context) ([]models.NewsItem, error)
}

// Acker is implemented by sources that must confirm consumption once the run
// results are persisted.
type Acker interface {
	Ack(ctx context.Context) error
}
