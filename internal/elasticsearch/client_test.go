package elasticsearch_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/quiet-radar/internal/elasticsearch"
	"github.com/DeafMist/quiet-radar/internal/models"
)

type fakeCluster struct {
	mu       sync.Mutex
	docs     map[string][]byte
	indices  map[string]bool
	deletes  []int64
	requests []string
}

// testContext stands in for testing.T.Context (Go 1.24+): it is cancelled
// when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func newFakeCluster(t *testing.T) (*fakeCluster, *elasticsearch.Client) {
	t.Helper()
	fc := &fakeCluster{docs: map[string][]byte{}, indices: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(fc.serve))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.New(srv.URL, "quiet-radar", nil)
	require.NoError(t, err)
	return fc, client
}

func (fc *fakeCluster) serve(w http.ResponseWriter, r *http.Request) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	fc.requests = append(fc.requests, r.Method+" "+r.URL.Path)
	body, _ := io.ReadAll(r.Body)
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case r.Method == http.MethodHead && len(parts) == 1:
		if !fc.indices[parts[0]] {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && len(parts) == 1:
		fc.indices[parts[0]] = true
		io.WriteString(w, `{"acknowledged":true}`)
	case r.Method == http.MethodPut && len(parts) == 3 && parts[1] == "_doc":
		fc.docs[parts[0]+"/"+parts[2]] = body
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"result":"created"}`)
	case r.Method == http.MethodGet && len(parts) == 3 && parts[1] == "_doc":
		doc, ok := fc.docs[parts[0]+"/"+parts[2]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"found":false}`)
			return
		}
		io.WriteString(w, `{"found":true,"_source":`+string(doc)+`}`)
	case len(parts) == 2 && parts[1] == "_search":
		fc.search(w, parts[0])
	case len(parts) == 2 && parts[1] == "_delete_by_query":
		deleted := int64(0)
		if len(fc.deletes) > 0 {
			deleted, fc.deletes = fc.deletes[0], fc.deletes[1:]
		}
		json.NewEncoder(w).Encode(map[string]int64{"deleted": deleted})
	default:
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{}`)
	}
}

func (fc *fakeCluster) search(w http.ResponseWriter, index string) {
	var (
		latest []byte
		at     time.Time
	)
	for key, doc := range fc.docs {
		if !strings.HasPrefix(key, index+"/") {
			continue
		}
		var r struct {
			GeneratedAt time.Time `json:"generated_at"`
		}
		_ = json.Unmarshal(doc, &r)
		if latest == nil || r.GeneratedAt.After(at) {
			latest, at = doc, r.GeneratedAt
		}
	}
	if latest == nil {
		io.WriteString(w, `{"hits":{"hits":[]}}`)
		return
	}
	io.WriteString(w, `{"hits":{"hits":[{"_source":`+string(latest)+`}]}}`)
}

func report(id string, at time.Time) models.Report {
	countries := models.NewCountries()
	countries.Set("Mali", models.CountryReport{Status: models.StatusHigh})
	return models.Report{RunID: id, GeneratedAt: at, Countries: countries}
}

func TestEnsureIndices(t *testing.T) {
	fc, client := newFakeCluster(t)
	require.NoError(t, client.EnsureIndices(testContext(t)))
	require.True(t, fc.indices["quiet-radar"])
	require.True(t, fc.indices["quiet-radar-history"])

	fc.requests = nil
	require.NoError(t, client.EnsureIndices(testContext(t)))
	for _, req := range fc.requests {
		require.True(t, strings.HasPrefix(req, http.MethodHead), req)
	}
}

func TestReportRoundTrip(t *testing.T) {
	_, client := newFakeCluster(t)

	_, err := client.LatestReport(testContext(t))
	require.True(t, errors.Is(err, models.ErrReportNotFound))

	base := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	require.NoError(t, client.SaveReport(testContext(t), report("a", base)))
	require.NoError(t, client.SaveReport(testContext(t), report("b", base.Add(time.Hour))))

	latest, err := client.LatestReport(testContext(t))
	require.NoError(t, err)
	require.Equal(t, "b", latest.RunID)
	mali, ok := latest.Countries.Get("Mali")
	require.True(t, ok)
	require.Equal(t, models.StatusHigh, mali.Status)
}

func TestHistoryRoundTrip(t *testing.T) {
	_, client := newFakeCluster(t)

	h, err := client.LoadHistory(testContext(t))
	require.NoError(t, err)
	require.Empty(t, h.Days)
	require.NotNil(t, h.Days)

	saved := models.History{Days: []models.DaySnapshot{{Date: "2026-03-10", Counts: map[string]int{"Mali": 3}}}}
	require.NoError(t, client.SaveHistory(testContext(t), saved))

	h, err = client.LoadHistory(testContext(t))
	require.NoError(t, err)
	require.Equal(t, saved, h)
}

func TestDeleteOlderThanLoopsOverBatches(t *testing.T) {
	fc, client := newFakeCluster(t)
	fc.deletes = []int64{10, 10, 4}

	deleted, err := client.DeleteOlderThan(testContext(t), 30*24*time.Hour, 10)
	require.NoError(t, err)
	require.Equal(t, int64(24), deleted)
}
