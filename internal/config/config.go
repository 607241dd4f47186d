package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable through STORE_BACKEND.
const (
	BackendFile          = "file"
	BackendSQLite        = "sqlite"
	BackendElasticsearch = "elasticsearch"
)

// Worker input sources selectable through WORKER_SOURCE.
const (
	SourceFeeds = "feeds"
	SourceKafka = "kafka"
)

// Common contains storage and catalog parameters shared by every service.
type Common struct {
	StoreBackend       string
	DataDir            string
	SQLitePath         string
	ElasticsearchAddr  string
	ElasticsearchIndex string
	CatalogPath        string
}

// Worker holds configuration for a single analysis run.
type Worker struct {
	Common
	Source           string
	FeedsPath        string
	FetchTimeout     time.Duration
	FetchConcurrency int
	FetchInterval    time.Duration
	UserAgent        string
	RecencyWindow    time.Duration
	KafkaBrokers     []string
	KafkaTopic       string
	KafkaConsumer    string
	KafkaIdleTimeout time.Duration
	KafkaMaxBatch    int
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr string
	CacheTTL time.Duration
}

// Retention configures the cleanup loop.
type Retention struct {
	Common
	Interval  time.Duration
	MaxAge    time.Duration
	BatchSize int
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) without overriding the ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func loadCommon() (Common, error) {
	c := Common{
		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DataDir:            getEnv("DATA_DIR", "data"),
		SQLitePath:         getEnv("SQLITE_PATH", "data/quiet-radar.db"),
		ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
		ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "quiet-radar"),
		CatalogPath:        strings.TrimSpace(os.Getenv("CATALOG_PATH")),
	}

	switch c.StoreBackend {
	case BackendFile, BackendSQLite, BackendElasticsearch:
	default:
		return Common{}, fmt.Errorf("STORE_BACKEND must be one of file, sqlite, elasticsearch; got %q", c.StoreBackend)
	}

	return c, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	common, err := loadCommon()
	if err != nil {
		return nil, err
	}

	c := &Worker{
		Common:           common,
		Source:           strings.ToLower(getEnv("WORKER_SOURCE", SourceFeeds)),
		FeedsPath:        getEnv("FEEDS_PATH", "configs/feeds.yaml"),
		FetchTimeout:     getDuration("FETCH_TIMEOUT", "30s"),
		FetchConcurrency: getInt("FETCH_CONCURRENCY", 8),
		FetchInterval:    getDuration("FETCH_INTERVAL", "100ms"),
		UserAgent:        getEnv("FETCH_USER_AGENT", "MyMonitoringBuddy/1.0"),
		RecencyWindow:    getDuration("RECENCY_WINDOW", "24h"),
		KafkaBrokers:     splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "news_raw"),
		KafkaConsumer:    getEnv("KAFKA_CONSUMER_GROUP", "quiet-radar-worker"),
		KafkaIdleTimeout: getDuration("KAFKA_IDLE_TIMEOUT", "5s"),
		KafkaMaxBatch:    getInt("KAFKA_MAX_BATCH", 5000),
	}

	switch c.Source {
	case SourceFeeds:
		if c.FetchConcurrency <= 0 {
			return nil, fmt.Errorf("FETCH_CONCURRENCY must be positive")
		}
		if c.FetchTimeout <= 0 {
			return nil, fmt.Errorf("FETCH_TIMEOUT must be positive")
		}
		if c.FetchInterval < 0 {
			return nil, fmt.Errorf("FETCH_INTERVAL cannot be negative")
		}
	case SourceKafka:
		if len(c.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
		}
		if c.KafkaMaxBatch <= 0 {
			return nil, fmt.Errorf("KAFKA_MAX_BATCH must be positive")
		}
		if c.KafkaIdleTimeout <= 0 {
			return nil, fmt.Errorf("KAFKA_IDLE_TIMEOUT must be positive")
		}
	default:
		return nil, fmt.Errorf("WORKER_SOURCE must be feeds or kafka, got %q", c.Source)
	}

	if c.RecencyWindow <= 0 {
		return nil, fmt.Errorf("RECENCY_WINDOW must be positive")
	}

	return c, nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	common, err := loadCommon()
	if err != nil {
		return nil, err
	}

	c := &API{
		Common:   common,
		BindAddr: getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		CacheTTL: getDuration("API_CACHE_TTL", "30s"),
	}

	if c.CacheTTL < 0 {
		return nil, fmt.Errorf("API_CACHE_TTL cannot be negative")
	}

	return c, nil
}

// LoadRetention builds a Retention config from environment variables.
func LoadRetention() (*Retention, error) {
	common, err := loadCommon()
	if err != nil {
		return nil, err
	}

	c := &Retention{
		Common:    common,
		Interval:  getDuration("RETENTION_CRON", "24h"),
		MaxAge:    getDuration("RETENTION_MAX_AGE", "720h"),
		BatchSize: getInt("RETENTION_BATCH_SIZE", 500),
	}

	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}

	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_CRON must be positive")
	}

	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("RETENTION_BATCH_SIZE must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
