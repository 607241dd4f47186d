package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/DeafMist/quiet-radar/internal/models"
)

// ledgerID is the single document holding the history ledger.
const ledgerID = "ledger"

// Client stores reports in one index and the history ledger in a sibling
// "<index>-history" index.
type Client struct {
	es    *elasticsearch.Client
	index string
	log   *slog.Logger
	now   func() time.Time
}

// New instantiates the Elasticsearch client.
func New(addr, index string, logger *slog.Logger) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{addr},
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{es: es, index: index, log: logger, now: time.Now}, nil
}

// HistoryIndex is the index holding the ledger document.
func (c *Client) HistoryIndex() string {
	return c.index + "-history"
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", res.Status())
	}

	return nil
}

// EnsureIndices creates the report and history indices when missing. The
// per-country payload is stored but not indexed.
func (c *Client) EnsureIndices(ctx context.Context) error {
	reportMapping := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"run_id":       map[string]any{"type": "keyword"},
				"generated_at": map[string]any{"type": "date"},
				"summary":      map[string]any{"type": "object"},
				"stats":        map[string]any{"type": "object"},
				"countries":    map[string]any{"type": "object", "enabled": false},
			},
		},
	}
	historyMapping := map[string]any{
		"mappings": map[string]any{"enabled": false},
	}

	if err := c.ensureIndex(ctx, c.index, reportMapping); err != nil {
		return err
	}
	return c.ensureIndex(ctx, c.HistoryIndex(), historyMapping)
}

func (c *Client) ensureIndex(ctx context.Context, name string, mapping map[string]any) error {
	res, err := c.es.Indices.Exists([]string{name}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index %s: %s", name, res.Status())
	}

	payload, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	res, err = c.es.Indices.Create(name,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		// another service may have created it meanwhile
		if strings.Contains(string(data), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("create index %s failed: %s", name, strings.TrimSpace(string(data)))
	}

	c.log.Info("index created", slog.String("index", name))
	return nil
}

// SaveReport indexes r under its run id and refreshes so LatestReport sees it.
func (c *Client) SaveReport(ctx context.Context, r models.Report) error {
	return c.put(ctx, c.index, r.RunID, r)
}

// LatestReport returns the report with the newest generated_at.
func (c *Client) LatestReport(ctx context.Context) (*models.Report, error) {
	body := map[string]any{
		"size":  1,
		"query": map[string]any{"match_all": map[string]any{}},
		"sort": []map[string]any{
			{"generated_at": map[string]any{"order": "desc"}},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, models.ErrReportNotFound
	}
	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search failed: %s", strings.TrimSpace(string(data)))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.Report `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if len(parsed.Hits.Hits) == 0 {
		return nil, models.ErrReportNotFound
	}

	r := parsed.Hits.Hits[0].Source
	return &r, nil
}

// LoadHistory fetches the ledger document. A missing document or index is an
// empty ledger.
func (c *Client) LoadHistory(ctx context.Context) (models.History, error) {
	req := esapi.GetRequest{Index: c.HistoryIndex(), DocumentID: ledgerID}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return models.History{}, fmt.Errorf("get ledger: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return models.History{Days: []models.DaySnapshot{}}, nil
	}
	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		return models.History{}, fmt.Errorf("get ledger failed: %s", strings.TrimSpace(string(data)))
	}

	var parsed struct {
		Source models.History `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return models.History{}, fmt.Errorf("decode ledger: %w", err)
	}
	if parsed.Source.Days == nil {
		parsed.Source.Days = []models.DaySnapshot{}
	}
	return parsed.Source, nil
}

// SaveHistory overwrites the ledger document.
func (c *Client) SaveHistory(ctx context.Context, h models.History) error {
	return c.put(ctx, c.HistoryIndex(), ledgerID, h)
}

func (c *Client) put(ctx context.Context, index, id string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal doc: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(payload),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("index doc: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index doc failed: %s", strings.TrimSpace(string(body)))
	}

	return nil
}

// DeleteOlderThan removes reports generated before now-maxAge using batched
// delete-by-query. It loops until a batch deletes fewer than batchSize reports.
func (c *Client) DeleteOlderThan(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	cutoff := c.now().Add(-maxAge).UTC().Format(time.RFC3339)
	totalDeleted := int64(0)

	for {
		body := map[string]any{
			"max_docs": batchSize,
			"query": map[string]any{
				"range": map[string]any{
					"generated_at": map[string]any{
						"lt": cutoff,
					},
				},
			},
		}

		payload, err := json.Marshal(body)
		if err != nil {
			return totalDeleted, fmt.Errorf("marshal delete body: %w", err)
		}

		res, err := c.es.DeleteByQuery(
			[]string{c.index},
			bytes.NewReader(payload),
			c.es.DeleteByQuery.WithContext(ctx),
			c.es.DeleteByQuery.WithWaitForCompletion(true),
			c.es.DeleteByQuery.WithConflicts("proceed"),
			c.es.DeleteByQuery.WithScrollSize(batchSize),
			c.es.DeleteByQuery.WithRefresh(true),
		)
		if err != nil {
			return totalDeleted, fmt.Errorf("delete by query: %w", err)
		}

		if res.IsError() {
			data, _ := io.ReadAll(res.Body)
			res.Body.Close()
			return totalDeleted, fmt.Errorf("delete by query failed: %s", strings.TrimSpace(string(data)))
		}

		var parsed struct {
			Deleted int64 `json:"deleted"`
		}
		if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
			res.Body.Close()
			return totalDeleted, fmt.Errorf("decode delete response: %w", err)
		}
		res.Body.Close()

		totalDeleted += parsed.Deleted

		if parsed.Deleted < int64(batchSize) {
			break
		}
	}

	return totalDeleted, nil
}

// Health checks cluster health.
func (c *Client) Health(ctx context.Context) error {
	res, err := c.es.Cluster.Health(c.es.Cluster.Health.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(res.Body)
		return fmt.Errorf("cluster health bad: %s", strings.TrimSpace(string(data)))
	}
	return nil
}

// Close is a no-op.
func (c *Client) Close() error { return nil }
