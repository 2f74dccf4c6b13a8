package reference

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"lexassist/types"
)

//go:embed authorities.yaml
var defaultAuthorities []byte

// Catalog 内存中的引用依据，按类别保持录入顺序
type Catalog struct {
	byCategory map[string][]types.Authority
}

// ParseAuthorities 解析 YAML 列表，id 与 category 必填且 id 不可重复
func ParseAuthorities(data []byte) ([]types.Authority, error) {
	var list []types.Authority
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse authorities failed: %w", err)
	}

	seen := make(map[string]bool, len(list))
	for i := range list {
		a := &list[i]
		a.ID = strings.TrimSpace(a.ID)
		a.Category = strings.ToLower(strings.TrimSpace(a.Category))
		if a.ID == "" {
			return nil, fmt.Errorf("authority #%d: id is required", i+1)
		}
		if a.Category == "" {
			return nil, fmt.Errorf("authority %s: category is required", a.ID)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("authority %s: duplicate id", a.ID)
		}
		if a.Reference.IsZero() {
			return nil, fmt.Errorf("authority %s: no citation fields", a.ID)
		}
		seen[a.ID] = true
	}
	return list, nil
}

func NewCatalog(list []types.Authority) *Catalog {
	c := &Catalog{byCategory: make(map[string][]types.Authority)}
	for _, a := range list {
		c.byCategory[a.Category] = append(c.byCategory[a.Category], a)
	}
	return c
}

// DefaultCatalog 内置引用依据
func DefaultCatalog() (*Catalog, error) {
	list, err := ParseAuthorities(defaultAuthorities)
	if err != nil {
		return nil, err
	}
	return NewCatalog(list), nil
}

// Lookup 每个类别最多取 topK 条，按 categories 顺序返回；同一类别内 jurisdiction 匹配的排在前面
func (c *Catalog) Lookup(ctx context.Context, categories []string, jurisdiction string, topK int) ([]types.Authority, error) {
	if c == nil {
		return nil, errors.New("nil catalog")
	}
	jurisdiction = strings.TrimSpace(jurisdiction)
	out := []types.Authority{}
	for _, cat := range categories {
		list := c.byCategory[cat]
		if jurisdiction != "" {
			list = slices.Clone(list)
			slices.SortStableFunc(list, func(a, b types.Authority) int {
				return matchRank(b, jurisdiction) - matchRank(a, jurisdiction)
			})
		}
		if topK > 0 && len(list) > topK {
			list = list[:topK]
		}
		out = append(out, list...)
	}
	return out, nil
}

func matchRank(a types.Authority, jurisdiction string) int {
	if strings.EqualFold(a.Jurisdiction, jurisdiction) {
		return 1
	}
	return 0
}
