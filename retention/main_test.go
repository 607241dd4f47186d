package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/quiet-radar/internal/config"
)

type stubPruner struct {
	maxAge time.Duration
	batch  int
	err    error
}

func (s *stubPruner) DeleteOlderThan(_ context.Context, maxAge time.Duration, batch int) (int64, error) {
	s.maxAge, s.batch = maxAge, batch
	return 3, s.err
}

func TestRunOncePassesRetentionWindow(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := &stubPruner{}
	cfg := &config.Retention{MaxAge: 720 * time.Hour, BatchSize: 50}

	runOnce(context.Background(), log, p, cfg)
	require.Equal(t, 720*time.Hour, p.maxAge)
	require.Equal(t, 50, p.batch)

	p.err = errors.New("cluster red")
	require.NotPanics(t, func() { runOnce(context.Background(), log, p, cfg) })
}
