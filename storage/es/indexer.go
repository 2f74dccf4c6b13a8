package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"

	"lexassist/types"
)

// AuthorityIndex 引用依据的 ES 索引
type AuthorityIndex struct {
	client *elasticsearch.Client
	index  string
}

// authorityDoc ES 里的文档结构
type authorityDoc struct {
	ID           string `json:"authority_id"`
	Category     string `json:"category"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Citation     string `json:"citation,omitempty"`
	CaseName     string `json:"case_name,omitempty"`
	Court        string `json:"court,omitempty"`
	Date         string `json:"date,omitempty"`
	URL          string `json:"url,omitempty"`
	Summary      string `json:"summary,omitempty"`
}

// NewAuthorityIndex 初始化 ES 客户端并确保索引存在
func NewAuthorityIndex(ctx context.Context, cfg elasticsearch.Config, indexName string) (*AuthorityIndex, error) {
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating the client: %w", err)
	}

	idx := &AuthorityIndex{client: client, index: indexName}
	if err := idx.initMapping(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}


func (a *AuthorityIndex) initMapping(ctx context.Context) error {
	res, err := a.client.Indices.Exists([]string{a.index}, a.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index error: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	mapping := `
	{
	  "settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	  },
	  "mappings": {
		"properties": {
		  "authority_id": { "type": "keyword" },
		  "category":     { "type": "keyword" },
		  "jurisdiction": { "type": "keyword" },
		  "citation": {
			"type": "text",
			"fields": { "keyword": { "type": "keyword" } }
		  },
		  "case_name": {
			"type": "text",
			"fields": { "keyword": { "type": "keyword" } }
		  },
		  "court":   { "type": "keyword" },
		  "date":    { "type": "keyword" },
		  "url":     { "type": "keyword", "index": false },
		  "summary": { "type": "text", "analyzer": "english" }
		}
	  }
	}`

	log.Printf(">>> [ES] Creating index %s ...", a.index)
	res, err = a.client.Indices.Create(
		a.index,
		a.client.Indices.Create.WithBody(strings.NewReader(mapping)),
		a.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index error: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index response error: %s", res.String())
	}
	return nil
}

// Store 批量写入，authority id 作为 _id，重复导入覆盖
func (a *AuthorityIndex) Store(ctx context.Context, list []types.Authority) (int, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:   a.index,
		Client:  a.client,
		Refresh: "true",
		OnError: func(ctx context.Context, err error) {
			log.Printf(">>> [ES] bulk error: %v", err)
		},
	})
	if err != nil {
		return 0, err
	}

	for _, auth := range list {
		data, err := json.Marshal(toDoc(auth))
		if err != nil {
			return 0, err
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: auth.ID,
			Body:       bytes.NewReader(data),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					log.Printf(">>> [ES] index %s failed: %v", item.DocumentID, err)
				} else {
					log.Printf(">>> [ES] index %s failed: %s", item.DocumentID, res.Error.Reason)
				}
			},
		})
		if err != nil {
			return 0, err
		}
	}

	if err := bi.Close(ctx); err != nil {
		return 0, err
	}

	stats := bi.Stats()
	if stats.NumFailed > 0 {
		return int(stats.NumIndexed), fmt.Errorf("%d authorities failed to index", stats.NumFailed)
	}
	log.Printf(">>> [ES] 已写入 %d 条引用依据", stats.NumIndexed)
	return int(stats.NumIndexed), nil
}

func toDoc(a types.Authority) authorityDoc {
	return authorityDoc{
		ID:           a.ID,
		Category:     a.Category,
		Jurisdiction: a.Jurisdiction,
		Citation:     a.Citation,
		CaseName:     a.CaseName,
		Court:        a.Court,
		Date:         a.Date,
		URL:          a.URL,
		Summary:      a.Summary,
	}
}

func (d authorityDoc) authority() types.Authority {
	return types.Authority{
		ID:           d.ID,
		Category:     d.Category,
		Jurisdiction: d.Jurisdiction,
		Summary:      d.Summary,
		Reference: types.Reference{
			Citation: d.Citation,
			CaseName: d.CaseName,
			Court:    d.Court,
			Date:     d.Date,
			URL:      d.URL,
		},
	}
}
