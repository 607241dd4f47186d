package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeafMist/quiet-radar/internal/catalog"
	"github.com/DeafMist/quiet-radar/internal/config"
	"github.com/DeafMist/quiet-radar/internal/ingest"
	"github.com/DeafMist/quiet-radar/internal/logger"
	"github.com/DeafMist/quiet-radar/internal/models"
	"github.com/DeafMist/quiet-radar/internal/pipeline"
	"github.com/DeafMist/quiet-radar/internal/store"
)

type runStore interface {
	LoadHistory(ctx context.Context) (models.History, error)
	SaveHistory(ctx context.Context, h models.History) error
	SaveReport(ctx context.Context, r models.Report) error
}

func main() {
	dryRun := flag.Bool("dry-run", false, "list the configured feeds and exit")
	flag.Parse()

	log := logger.New("worker")
	if err := config.LoadDotEnv(); err != nil {
		log.Error("load .env", slog.Any("err", err))
		os.Exit(1)
	}
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	if *dryRun {
		feeds, err := ingest.LoadFeeds(cfg.FeedsPath)
		if err != nil {
			log.Error("load feeds", slog.Any("err", err))
			os.Exit(1)
		}
		printFeeds(os.Stdout, feeds)
		return
	}

	table, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Error("load catalog", slog.Any("err", err))
		os.Exit(1)
	}
	compiled, err := catalog.Compile(table)
	if err != nil {
		log.Error("compile catalog", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	src, closeSource, err := buildSource(cfg, log)
	if err != nil {
		log.Error("init source", slog.Any("err", err))
		os.Exit(1)
	}
	defer closeSource()

	st, err := store.Open(ctx, cfg.Common, log)
	if err != nil {
		log.Error("open store", slog.Any("err", err))
		os.Exit(1)
	}
	defer st.Close()

	p := pipeline.New(compiled, pipeline.Options{Window: cfg.RecencyWindow}, log)

	log.Info("worker started",
		slog.String("source", cfg.Source),
		slog.String("store", cfg.StoreBackend),
		slog.Int("countries", compiled.Len()),
	)

	if err := run(ctx, log, src, st, p, time.Now().UTC()); err != nil {
		log.Error("run failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func buildSource(cfg *config.Worker, log *slog.Logger) (ingest.Source, func(), error) {
	switch cfg.Source {
	case config.SourceKafka:
		src := ingest.NewKafkaSource(ingest.KafkaOptions{
			Brokers:     cfg.KafkaBrokers,
			Topic:       cfg.KafkaTopic,
			GroupID:     cfg.KafkaConsumer,
			IdleTimeout: cfg.KafkaIdleTimeout,
			MaxBatch:    cfg.KafkaMaxBatch,
		}, log)
		return src, func() {
			if err := src.Close(); err != nil {
				log.Warn("close kafka source", slog.Any("err", err))
			}
		}, nil
	default:
		feeds, err := ingest.LoadFeeds(cfg.FeedsPath)
		if err != nil {
			return nil, nil, err
		}
		src := ingest.NewFeedSource(feeds, ingest.FeedOptions{
			Timeout:     cfg.FetchTimeout,
			Concurrency: cfg.FetchConcurrency,
			Interval:    cfg.FetchInterval,
			UserAgent:   cfg.UserAgent,
		}, log)
		return src, func() {}, nil
	}
}

// run performs one analysis: collect, score against the stored ledger,
// persist the report and the updated ledger, then acknowledge the input.
func run(ctx context.Context, log *slog.Logger, src ingest.Source, st runStore, p *pipeline.Pipeline, now time.Time) error {
	items, err := src.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	log.Info("collected", slog.Int("items", len(items)))

	hist, err := st.LoadHistory(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	res, err := p.Run(items, hist, now)
	if err != nil {
		return err
	}

	if err := st.SaveReport(ctx, res.Report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	if err := st.SaveHistory(ctx, res.History); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	if acker, ok := src.(ingest.Acker); ok {
		if err := acker.Ack(ctx); err != nil {
			return fmt.Errorf("ack input: %w", err)
		}
	}

	log.Info("run complete",
		slog.String("run_id", res.Report.RunID),
		slog.Int("high", res.Report.Summary.High),
		slog.Int("elevated", res.Report.Summary.Elevated),
		slog.Int("normal", res.Report.Summary.Normal),
		slog.Int("quiet", res.Report.Summary.Quiet),
		slog.Int("history_days", len(res.History.Days)),
	)
	return nil
}

func printFeeds(w io.Writer, feeds []ingest.Feed) {
	fmt.Fprintln(w, "[DRY RUN] Would fetch:")
	for _, f := range feeds {
		fmt.Fprintf(w, "  - %s\n", f.Name)
	}
}
