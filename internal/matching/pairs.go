package matching

import (
	"sort"

	"github.com/DeafMist/quiet-radar/internal/catalog"
	"github.com/DeafMist/quiet-radar/internal/models"
	"github.com/DeafMist/quiet-radar/internal/processing"
)

const (
	// PairLimit caps the keyword pairs kept per country.
	PairLimit = 6
	// MinPairArticles is how many articles must share a pair for it to count.
	MinPairArticles = 2
)

// Pairs finds keyword pairs that co-occur in the title and lead of at least
// two of the given articles, ranked by how many articles share them.
func Pairs(articles []models.Article, vocabulary []catalog.Keyword) []models.KeywordPair {
	type pair struct{ a, b string }

	counts := make(map[pair]int)
	var order []pair

	for _, article := range articles {
		haystack := processing.Haystack(article.Title, article.Lead)

		var found []string
		for _, kw := range vocabulary {
			if kw.In(haystack) {
				found = append(found, kw.Word)
			}
		}
		sort.Strings(found)

		for i := 0; i < len(found); i++ {
			for j := i + 1; j < len(found); j++ {
				p := pair{a: found[i], b: found[j]}
				if _, ok := counts[p]; !ok {
					order = append(order, p)
				}
				counts[p]++
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	out := []models.KeywordPair{}
	for _, p := range order {
		if len(out) == PairLimit || counts[p] < MinPairArticles {
			break
		}
		out = append(out, models.KeywordPair{processing.Capitalize(p.a), processing.Capitalize(p.b)})
	}
	return out
}

// Pairs runs the co-occurrence extraction for every country.
func (r *Results) Pairs(vocabulary []catalog.Keyword) map[string][]models.KeywordPair {
	out := make(map[string][]models.KeywordPair, len(r.names))
	for _, name := range r.names {
		out[name] = Pairs(r.records[name].Articles, vocabulary)
	}
	return out
}
