// Package store persists the history ledger and run reports.
package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/DeafMist/quiet-radar/internal/config"
	"github.com/DeafMist/quiet-radar/internal/elasticsearch"
	"github.com/DeafMist/quiet-radar/internal/models"
)

// Store is implemented by every persistence backend.
type Store interface {
	// LoadHistory returns an empty ledger when none was saved yet.
	LoadHistory(ctx context.Context) (models.History, error)
	SaveHistory(ctx context.Context, h models.History) error
	SaveReport(ctx context.Context, r models.Report) error
	// LatestReport returns models.ErrReportNotFound when no report exists.
	LatestReport(ctx context.Context) (*models.Report, error)
	Ping(ctx context.Context) error
	Close() error
}

// Pruner is implemented by backends that keep every report, not just the latest.
type Pruner interface {
	DeleteOlderThan(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error)
}

// Open returns the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg config.Common, log *slog.Logger) (Store, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	switch cfg.StoreBackend {
	case config.BackendFile, "":
		f, err := NewFile(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return f, nil
	case config.BackendSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.BackendElasticsearch:
		client, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureIndices(ctx); err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
