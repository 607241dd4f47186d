// Package matching assigns news items to countries and gathers the signal
// keywords found in the matched text.
package matching

import (
	"sort"
	"strings"

	"github.com/DeafMist/quiet-radar/internal/catalog"
	"github.com/DeafMist/quiet-radar/internal/models"
	"github.com/DeafMist/quiet-radar/internal/processing"
)

const (
	// LeadLength caps the markup-free summary kept per article.
	LeadLength = 120
	// KeywordLimit caps the keywords surfaced per country.
	KeywordLimit = 8
	// UnknownSource labels items whose feed did not say where they came from.
	UnknownSource = "Unknown"
)

// Record accumulates everything matched to one country during a run.
type Record struct {
	Articles []models.Article
	Sources  []string
	Keywords []models.KeywordCount

	sourceSet     map[string]struct{}
	keywordCounts map[string]int
	keywordOrder  []string
}

func newRecord() *Record {
	return &Record{
		Articles:      []models.Article{},
		Sources:       []string{},
		Keywords:      []models.KeywordCount{},
		sourceSet:     make(map[string]struct{}),
		keywordCounts: make(map[string]int),
	}
}

func (r *Record) add(article models.Article, keywords []string) {
	r.Articles = append(r.Articles, article)
	if _, ok := r.sourceSet[article.Source]; !ok {
		r.sourceSet[article.Source] = struct{}{}
		r.Sources = append(r.Sources, article.Source)
	}
	for _, kw := range keywords {
		if _, ok := r.keywordCounts[kw]; !ok {
			r.keywordOrder = append(r.keywordOrder, kw)
		}
		r.keywordCounts[kw]++
	}
}

// finalize ranks keywords by count, keeping first-seen order on ties.
func (r *Record) finalize() {
	ranked := make([]string, len(r.keywordOrder))
	copy(ranked, r.keywordOrder)
	sort.SliceStable(ranked, func(i, j int) bool {
		return r.keywordCounts[ranked[i]] > r.keywordCounts[ranked[j]]
	})
	if len(ranked) > KeywordLimit {
		ranked = ranked[:KeywordLimit]
	}

	r.Keywords = make([]models.KeywordCount, 0, len(ranked))
	for _, kw := range ranked {
		r.Keywords = append(r.Keywords, models.KeywordCount{
			Word:  processing.Capitalize(kw),
			Count: r.keywordCounts[kw],
		})
	}
}

// Results holds one Record per catalog entity, in catalog order.
type Results struct {
	names   []string
	records map[string]*Record
}

// Names returns the entity names in catalog order.
func (r *Results) Names() []string {
	return r.names
}

// Get returns the record of name, or nil for names outside the catalog.
func (r *Results) Get(name string) *Record {
	return r.records[name]
}

// Active counts the countries with at least one matched article.
func (r *Results) Active() int {
	n := 0
	for _, rec := range r.records {
		if len(rec.Articles) > 0 {
			n++
		}
	}
	return n
}

// Counts returns today's article count per country, zeros included.
func (r *Results) Counts() map[string]int {
	counts := make(map[string]int, len(r.records))
	for name, rec := range r.records {
		counts[name] = len(rec.Articles)
	}
	return counts
}

// Matcher tests items against every entity of a compiled catalog.
type Matcher struct {
	catalog *catalog.Compiled
}

// New returns a Matcher bound to c.
func New(c *catalog.Compiled) *Matcher {
	return &Matcher{catalog: c}
}

// Match assigns every item to each entity it mentions. An item may match any
// number of entities. Items with neither title nor summary are skipped.
func (m *Matcher) Match(items []models.NewsItem) *Results {
	entities := m.catalog.Entities()
	res := &Results{
		names:   make([]string, 0, len(entities)),
		records: make(map[string]*Record, len(entities)),
	}
	for _, e := range entities {
		res.names = append(res.names, e.Name)
		res.records[e.Name] = newRecord()
	}

	for _, item := range items {
		haystack := processing.Haystack(item.Title, item.Summary)
		if strings.TrimSpace(haystack) == "" {
			continue
		}

		var (
			article  models.Article
			keywords []string
			scanned  bool
		)
		for _, e := range entities {
			if !e.Match(haystack) {
				continue
			}
			if !scanned {
				article = toArticle(item)
				keywords = m.keywordsIn(haystack)
				scanned = true
			}
			res.records[e.Name].add(article, keywords)
		}
	}

	for _, rec := range res.records {
		rec.finalize()
	}
	return res
}

// keywordsIn lists the vocabulary words present in haystack, each once,
// in vocabulary order.
func (m *Matcher) keywordsIn(haystack string) []string {
	var found []string
	for _, kw := range m.catalog.Keywords() {
		if kw.In(haystack) {
			found = append(found, kw.Word)
		}
	}
	return found
}

func toArticle(item models.NewsItem) models.Article {
	source := item.Source
	if source == "" {
		source = UnknownSource
	}
	return models.Article{
		Title:     item.Title,
		URL:       item.Link,
		Source:    source,
		Published: item.Published,
		Lead:      processing.Truncate(processing.StripMarkup(item.Summary), LeadLength),
	}
}
