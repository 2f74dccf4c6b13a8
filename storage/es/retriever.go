package es

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"lexassist/types"
)

// buildQuery 按类别精确过滤，jurisdiction 只参与打分
func buildQuery(category, jurisdiction string, topK int) map[string]any {
	boolQuery := map[string]any{
		"filter": []map[string]any{
			{"term": map[string]any{"category": category}},
		},
	}
	if jurisdiction != "" {
		boolQuery["should"] = []map[string]any{
			{"term": map[string]any{"jurisdiction": map[string]any{"value": jurisdiction, "boost": 2.0}}},
		}
	}
	return map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"size":  topK,
		"sort": []any{
			"_score",
			map[string]any{"authority_id": "asc"},
		},
	}
}

// Search 检索单个类别下的引用依据
func (a *AuthorityIndex) Search(ctx context.Context, category, jurisdiction string, topK int) ([]types.Authority, error) {
	if topK <= 0 {
		topK = 3
	}

	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(buildQuery(category, jurisdiction, topK)); err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}
	log.Printf(">>> [ES] Query: %s", strings.TrimSpace(buf.String()))

	req := esapi.SearchRequest{
		Index: []string{a.index},
		Body:  strings.NewReader(buf.String()),
	}
	res, err := req.Do(ctx, a.client)
	if err != nil {
		return nil, fmt.Errorf("error getting response: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error response: %s", res.String())
	}
	return parseHits(res.Body)
}

// Lookup 依次检索每个类别，结果按 categories 顺序拼接
func (a *AuthorityIndex) Lookup(ctx context.Context, categories []string, jurisdiction string, topK int) ([]types.Authority, error) {
	jurisdiction = strings.TrimSpace(jurisdiction)
	out := []types.Authority{}
	for _, category := range categories {
		list, err := a.Search(ctx, category, jurisdiction, topK)
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
	}
	log.Printf(">>> [ES] Retrieved %d authorities for %v", len(out), categories)
	return out, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string       `json:"_id"`
			Source authorityDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func parseHits(body io.Reader) ([]types.Authority, error) {
	var resp searchResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("error parsing response body: %w", err)
	}

	out := make([]types.Authority, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		doc := hit.Source
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		auth := doc.authority()
		if auth.Reference.IsZero() {
			continue
		}
		out = append(out, auth)
	}
	return out, nil
}
