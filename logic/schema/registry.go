// Package schema 合同类型字段注册表。字段定义是 schemas.yaml 中的静态数据，
// 共享逻辑只读取 FieldSpec，不按合同类型分支。
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"lexassist/types"
)

//go:embed schemas.yaml
var embedded []byte

var ErrSchemaNotFound = errors.New("contract type schema not found")

// Registry 只读注册表
type Registry struct {
	order   []string
	schemas map[string]types.ContractTypeSchema
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default 返回内置注册表，内置数据非法时 panic
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := NewRegistry(embedded)
		if err != nil {
			panic(fmt.Sprintf("embedded schemas invalid: %v", err))
		}
		defaultReg = reg
	})
	return defaultReg
}

// NewRegistry 解析 YAML 并校验每个 schema
func NewRegistry(data []byte) (*Registry, error) {
	var list []types.ContractTypeSchema
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse schemas: %w", err)
	}
	reg := &Registry{schemas: make(map[string]types.ContractTypeSchema, len(list))}
	for _, s := range list {
		s.Type = normalizeKey(s.Type)
		if s.Type == "" {
			return nil, errors.New("schema with empty type")
		}
		if _, dup := reg.schemas[s.Type]; dup {
			return nil, fmt.Errorf("duplicate schema type %s", s.Type)
		}
		for i := range s.Fields {
			if s.Fields[i].Kind == "" {
				s.Fields[i].Kind = inferKind(s.Fields[i].Label)
			}
		}
		if err := check(s); err != nil {
			return nil, fmt.Errorf("schema %s: %w", s.Type, err)
		}
		reg.schemas[s.Type] = s
		reg.order = append(reg.order, s.Type)
	}
	return reg, nil
}

// Get 按类型 key 查找，大小写不敏感
func (r *Registry) Get(typeKey string) (types.ContractTypeSchema, error) {
	s, ok := r.schemas[normalizeKey(typeKey)]
	if !ok {
		return types.ContractTypeSchema{}, fmt.Errorf("%w: %q", ErrSchemaNotFound, typeKey)
	}
	return s, nil
}

// List 按定义顺序返回全部 schema
func (r *Registry) List() []types.ContractTypeSchema {
	out := make([]types.ContractTypeSchema, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.schemas[k])
	}
	return out
}

func check(s types.ContractTypeSchema) error {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Key == "" {
			return fmt.Errorf("field %q has empty key", f.Label)
		}
		if seen[f.Key] {
			return fmt.Errorf("duplicate field key %s", f.Key)
		}
		seen[f.Key] = true
		if !f.Kind.Valid() {
			return fmt.Errorf("field %s: unknown kind %q", f.Key, f.Kind)
		}
		if f.Kind == types.KindSelect && len(f.Options) == 0 {
			return fmt.Errorf("field %s: select without options", f.Key)
		}
		if f.Kind != types.KindSelect && len(f.Options) > 0 {
			return fmt.Errorf("field %s: options only allowed on select", f.Key)
		}
		if f.Min < 0 {
			return fmt.Errorf("field %s: negative min", f.Key)
		}
		if f.Min > 0 && !f.Kind.IsList() {
			return fmt.Errorf("field %s: min only allowed on list kinds", f.Key)
		}
	}
	return nil
}

// inferKind 旧数据没有 kind 时按标签推断，仅在加载时使用
func inferKind(label string) types.FieldKind {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "date"):
		return types.KindDate
	case strings.Contains(l, "price"), strings.Contains(l, "fee"),
		strings.Contains(l, "rent"), strings.Contains(l, "amount"):
		return types.KindCurrency
	case strings.Contains(l, "address"):
		return types.KindAddress
	case strings.Contains(l, "scope"), strings.Contains(l, "description"):
		return types.KindTextarea
	}
	return types.KindText
}

func normalizeKey(k string) string {
	return strings.ToUpper(strings.TrimSpace(k))
}
