package es

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexassist/types"
)

// fakeTransport 按 method + path 返回预置响应并记录请求
type fakeTransport struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
	exists   bool
	search   string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := req.Method + " " + req.URL.Path
	f.requests = append(f.requests, key)
	if f.bodies == nil {
		f.bodies = map[string]string{}
	}
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		f.bodies[key] = string(data)
	}

	status, body := http.StatusOK, `{}`
	switch {
	case req.Method == http.MethodHead:
		if !f.exists {
			status = http.StatusNotFound
		}
		body = ``
	case strings.HasSuffix(req.URL.Path, "/_search"):
		body = f.search
	case strings.HasSuffix(req.URL.Path, "/_bulk"):
		body = `{"took":1,"errors":false,"items":[{"index":{"_id":"a","status":201}},{"index":{"_id":"b","status":201}}]}`
	case req.Method == http.MethodPut:
		body = `{"acknowledged":true}`
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func newIndex(t *testing.T, ft *fakeTransport) *AuthorityIndex {
	t.Helper()
	idx, err := NewAuthorityIndex(context.Background(), elasticsearch.Config{
		Addresses: []string{"http://es.local:9200"},
		Transport: ft,
	}, "authorities_test")
	require.NoError(t, err)
	return idx
}

func TestNewAuthorityIndexCreatesMissingIndex(t *testing.T) {
	ft := &fakeTransport{}
	newIndex(t, ft)

	assert.Contains(t, ft.requests, "HEAD /authorities_test")
	assert.Contains(t, ft.requests, "PUT /authorities_test")
	assert.Contains(t, ft.bodies["PUT /authorities_test"], `"category":     { "type": "keyword" }`)
}

func TestNewAuthorityIndexSkipsExistingIndex(t *testing.T) {
	ft := &fakeTransport{exists: true}
	newIndex(t, ft)

	assert.Equal(t, []string{"HEAD /authorities_test"}, ft.requests)
}

func TestLookup(t *testing.T) {
	ft := &fakeTransport{exists: true, search: `{
	  "hits": {"hits": [
	    {"_id": "ucc-2-719", "_source": {"category": "liability_cap", "citation": "U.C.C. § 2-719"}},
	    {"_id": "empty", "_source": {"authority_id": "empty", "category": "liability_cap"}}
	  ]}
	}`}
	idx := newIndex(t, ft)

	got, err := idx.Lookup(context.Background(), []string{"liability_cap", "termination"}, " UK ", 2)
	require.NoError(t, err)

	// 两个类别各检索一次，空引用被丢弃
	require.Len(t, got, 2)
	assert.Equal(t, "ucc-2-719", got[0].ID)
	assert.Equal(t, "U.C.C. § 2-719", got[0].Citation)

	searches := 0
	for _, r := range ft.requests {
		if strings.HasSuffix(r, "/_search") {
			searches++
		}
	}
	assert.Equal(t, 2, searches)

	var searchBody string
	for k, v := range ft.bodies {
		if strings.HasSuffix(k, "/authorities_test/_search") {
			searchBody = v
		}
	}
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(searchBody), &body))
	assert.Equal(t, buildQueryJSON(t, "termination", "UK", 2), body)
}

func buildQueryJSON(t *testing.T, category, jurisdiction string, topK int) map[string]any {
	t.Helper()
	data, err := json.Marshal(buildQuery(category, jurisdiction, topK))
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestBuildQuery(t *testing.T) {
	q := buildQuery("termination", "US", 3)
	data, err := json.Marshal(q)
	require.NoError(t, err)

	assert.JSONEq(t, `{
	  "query": {"bool": {
	    "filter": [{"term": {"category": "termination"}}],
	    "should": [{"term": {"jurisdiction": {"value": "US", "boost": 2}}}]
	  }},
	  "size": 3,
	  "sort": ["_score", {"authority_id": "asc"}]
	}`, string(data))

	_, hasShould := buildQuery("termination", "", 3)["query"].(map[string]any)["bool"].(map[string]any)["should"]
	assert.False(t, hasShould)
}

func TestParseHitsInvalidBody(t *testing.T) {
	_, err := parseHits(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	ft := &fakeTransport{exists: true}
	idx := newIndex(t, ft)

	n, err := idx.Store(context.Background(), []types.Authority{
		{ID: "a", Category: "termination", Reference: types.Reference{Citation: "A"}},
		{ID: "b", Category: "termination", Reference: types.Reference{Citation: "B"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	var bulk string
	for key, body := range ft.bodies {
		if strings.HasSuffix(key, "/_bulk") {
			bulk = body
		}
	}
	assert.Contains(t, bulk, `"authority_id":"a"`)
	assert.Contains(t, bulk, `"_id":"b"`)
}
