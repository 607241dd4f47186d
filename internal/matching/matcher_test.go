package matching_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/quiet-radar/internal/catalog"
	"github.com/DeafMist/quiet-radar/internal/matching"
	"github.com/DeafMist/quiet-radar/internal/models"
)

var defaultCatalog = catalog.MustCompile(catalog.Default())

func matched(t *testing.T, res *matching.Results) []string {
	t.Helper()
	var names []string
	for _, name := range res.Names() {
		if len(res.Get(name).Articles) > 0 {
			names = append(names, name)
		}
	}
	return names
}

func matchText(t *testing.T, title string) []string {
	t.Helper()
	res := matching.New(defaultCatalog).Match([]models.NewsItem{{Title: title, Source: "test"}})
	return matched(t, res)
}

func TestMatchPrecision(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{text: "South Sudan floods", want: []string{"South Sudan"}},
		{text: "Sudan army retakes Khartoum", want: []string{"Sudan"}},
		{text: "Equatorial Guinea election", want: []string{"Eq. Guinea"}},
		{text: "Guinea junta sets vote date", want: []string{"Guinea"}},
		{text: "Guinea-Bissau president sworn in", want: []string{"Guinea-Bissau"}},
		{text: "Nigeria and Niger sign pact", want: []string{"Niger", "Nigeria"}},
		{text: "Nigerian markets rally", want: []string{"Nigeria"}},
		{text: "Élections au Togo: Lomé sous tension", want: []string{"Togo"}},
		{text: "Guinée équatoriale: nouveau gouvernement", want: []string{"Eq. Guinea"}},
		{text: "Le Soudan du Sud en crise", want: []string{"South Sudan"}},
		{text: "South Sudanese refugees cross border", want: []string{"South Sudan"}},
		{text: "Sudanese army and RSF clash", want: []string{"Sudan"}},
		{text: "Accord au Sud-Soudan", want: []string{"South Sudan"}},
		{text: "South-Sudan floods", want: []string{"South Sudan"}},
		{text: "South-Sudanese troops redeploy", want: []string{"South Sudan"}},
		{text: "Transudanese trade route", want: nil},
		{text: "Malignant growth in markets", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			require.Equal(t, tt.want, matchText(t, tt.text))
		})
	}
}

func TestMatchCoversEveryEntity(t *testing.T) {
	res := matching.New(defaultCatalog).Match(nil)
	require.Len(t, res.Names(), 54)
	for _, name := range res.Names() {
		rec := res.Get(name)
		require.NotNil(t, rec, name)
		require.Empty(t, rec.Articles)
		require.Empty(t, rec.Keywords)
	}
	require.Equal(t, 0, res.Active())
	require.Len(t, res.Counts(), 54)
}

func TestMatchRecordsArticle(t *testing.T) {
	items := []models.NewsItem{{
		Title:     "Kenya protest turns violent",
		Link:      "https://example.com/kenya",
		Summary:   "<p>Police in <b>Nairobi</b> fired tear gas at protesters. " + strings.Repeat("x", 200) + "</p>",
		Published: "2026-03-10T08:00:00",
		Source:    "BBC Africa",
	}}

	rec := matching.New(defaultCatalog).Match(items).Get("Kenya")
	require.Len(t, rec.Articles, 1)

	a := rec.Articles[0]
	require.Equal(t, "Kenya protest turns violent", a.Title)
	require.Equal(t, "https://example.com/kenya", a.URL)
	require.Equal(t, "BBC Africa", a.Source)
	require.Equal(t, "2026-03-10T08:00:00", a.Published)
	require.Len(t, []rune(a.Lead), matching.LeadLength)
	require.True(t, strings.HasPrefix(a.Lead, "Police in Nairobi fired"))
	require.Equal(t, []string{"BBC Africa"}, rec.Sources)
}

func TestMatchDefaultsSource(t *testing.T) {
	rec := matching.New(defaultCatalog).Match([]models.NewsItem{{Title: "Ghana vote"}}).Get("Ghana")
	require.Equal(t, []string{matching.UnknownSource}, rec.Sources)
}

func TestMatchSkipsEmptyItems(t *testing.T) {
	res := matching.New(defaultCatalog).Match([]models.NewsItem{{Title: "", Summary: "  "}})
	require.Equal(t, 0, res.Active())
}

func TestMatchKeywordPresenceOncePerItem(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Mali coup coup coup", Summary: "another coup", Source: "A"},
		{Title: "Mali coup and protest", Source: "B"},
		{Title: "Bamako protest", Source: "A"},
	}

	rec := matching.New(defaultCatalog).Match(items).Get("Mali")
	require.Len(t, rec.Articles, 3)
	require.Equal(t, []string{"A", "B"}, rec.Sources)
	require.Equal(t, []models.KeywordCount{
		{Word: "Coup", Count: 2},
		{Word: "Protest", Count: 2},
	}, rec.Keywords)
}

func TestMatchKeywordRankingAndLimit(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Somalia: war attack killed dead fighting explosion bombing airstrike casualties wounded"},
		{Title: "Somalia wounded again"},
	}

	rec := matching.New(defaultCatalog).Match(items).Get("Somalia")
	require.Len(t, rec.Keywords, matching.KeywordLimit)
	require.Equal(t, models.KeywordCount{Word: "Wounded", Count: 2}, rec.Keywords[0])
	// ties keep vocabulary order
	require.Equal(t, "War", rec.Keywords[1].Word)
	require.Equal(t, "Attack", rec.Keywords[2].Word)
}

func TestMatchMultiWordKeyword(t *testing.T) {
	items := []models.NewsItem{{Title: "Armed group attacks village in Nigeria", Summary: "Boko Haram blamed"}}

	rec := matching.New(defaultCatalog).Match(items).Get("Nigeria")
	words := make([]string, 0, len(rec.Keywords))
	for _, kw := range rec.Keywords {
		words = append(words, kw.Word)
	}
	require.Equal(t, []string{"Armed group", "Boko haram"}, words)
}
