package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/DeafMist/quiet-radar/internal/models"
)

// Feed is one RSS or Atom endpoint. Name becomes the source of its items.
type Feed struct {
	Section string `yaml:"-"`
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
}

// LoadFeeds reads the feed list from a YAML file shaped as
//
//	feeds:
//	  section:
//	    - name: ...
//	      url: ...
//
// Sections and feeds keep their file order.
func LoadFeeds(path string) ([]Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feeds: %w", err)
	}
	defer f.Close()

	var doc struct {
		Feeds yaml.Node `yaml:"feeds"`
	}
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode feeds %s: %w", path, err)
	}
	if doc.Feeds.Kind == 0 {
		return nil, nil
	}
	if doc.Feeds.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("feeds %s: expected a mapping of sections", path)
	}

	var feeds []Feed
	for i := 0; i+1 < len(doc.Feeds.Content); i += 2 {
		section := doc.Feeds.Content[i].Value

		var list []Feed
		if err := doc.Feeds.Content[i+1].Decode(&list); err != nil {
			return nil, fmt.Errorf("feeds section %q: %w", section, err)
		}
		for j, feed := range list {
			feed.Name = strings.TrimSpace(feed.Name)
			feed.URL = strings.TrimSpace(feed.URL)
			if feed.Name == "" || feed.URL == "" {
				return nil, fmt.Errorf("feeds section %q entry %d: name and url are required", section, j)
			}
			feed.Section = section
			feeds = append(feeds, feed)
		}
	}
	return feeds, nil
}

// FeedOptions tune a FeedSource.
type FeedOptions struct {
	Timeout     time.Duration
	Concurrency int
	// Interval is the minimum spacing between feed requests; zero disables pacing.
	Interval  time.Duration
	UserAgent string
	Client    *http.Client
}

// FeedSource fetches every configured feed in parallel.
type FeedSource struct {
	feeds       []Feed
	client      *http.Client
	limiter     *rate.Limiter
	concurrency int
	userAgent   string
	log         *slog.Logger
}

// NewFeedSource builds a FeedSource over feeds.
func NewFeedSource(feeds []Feed, opts FeedOptions, log *slog.Logger) *FeedSource {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &FeedSource{
		feeds:       feeds,
		client:      opts.Client,
		limiter:     rate.NewLimiter(limit, 1),
		concurrency: opts.Concurrency,
		userAgent:   opts.UserAgent,
		log:         log,
	}
}

// Collect fetches all feeds and concatenates their items in feed order. A
// failing feed is logged and skipped; only when every feed fails is an error
// returned.
func (s *FeedSource) Collect(ctx context.Context) ([]models.NewsItem, error) {
	if len(s.feeds) == 0 {
		return []models.NewsItem{}, nil
	}

	perFeed := make([][]models.NewsItem, len(s.feeds))
	var failed atomic.Int32

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, feed := range s.feeds {
		i, feed := i, feed
		g.Go(func() error {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
			items, err := s.fetch(ctx, feed)
			if err != nil {
				failed.Add(1)
				s.log.Warn("feed failed", slog.String("feed", feed.Name), slog.Any("err", err))
				return nil
			}
			s.log.Info("feed fetched", slog.String("feed", feed.Name), slog.Int("items", len(items)))
			perFeed[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect feeds: %w", err)
	}

	if int(failed.Load()) == len(s.feeds) {
		return nil, errors.New("collect feeds: every feed failed")
	}

	var all []models.NewsItem
	for _, items := range perFeed {
		all = append(all, items...)
	}
	if all == nil {
		all = []models.NewsItem{}
	}
	return all, nil
}

func (s *FeedSource) fetch(ctx context.Context, feed Feed) ([]models.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: unexpected status %s", resp.Status)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	items := make([]models.NewsItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		items = append(items, toNewsItem(entry, feed.Name))
	}
	return items, nil
}

func toNewsItem(entry *gofeed.Item, source string) models.NewsItem {
	item := models.NewsItem{
		Title:   entry.Title,
		Link:    entry.Link,
		Summary: entry.Description,
		Source:  source,
	}
	if entry.PublishedParsed != nil {
		item.Published = entry.PublishedParsed.UTC().Format(PublishedLayout)
	}
	return item
}
