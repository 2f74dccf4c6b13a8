// Package form 根据 schema 生成、更新并校验表单值
package form

import (
	"fmt"
	"strconv"
	"strings"

	"lexassist/types"
)

// ValidationErrorKind 校验失败类别
type ValidationErrorKind string

const (
	MissingParties ValidationErrorKind = "missingParties"
	EmptyClauses   ValidationErrorKind = "emptyClauses"
	FieldBelowMin  ValidationErrorKind = "fieldBelowMin"
)

// MinParties 合同至少需要的参与方数量
const MinParties = 2

// ValidationError 提交前的校验错误，Key 仅在 FieldBelowMin 时有值
type ValidationError struct {
	Kind  ValidationErrorKind
	Key   string
	Label string
	Min   int
	Got   int
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingParties:
		return fmt.Sprintf("at least %d parties are required, got %d", e.Min, e.Got)
	case EmptyClauses:
		return "at least one non-empty clause is required"
	case FieldBelowMin:
		return fmt.Sprintf("field %s requires at least %d entries, got %d", e.Key, e.Min, e.Got)
	}
	return string(e.Kind)
}

// Seed 为 schema 中每个字段生成对应类型的空值
func Seed(schema types.ContractTypeSchema) types.FormValueMap {
	m := make(types.FormValueMap, len(schema.Fields))
	for _, f := range schema.Fields {
		m[f.Key] = emptyValue(f.Kind)
	}
	return m
}

// Update 返回替换了单个 key 的新 map，原 map 不变
func Update(m types.FormValueMap, key string, value any) types.FormValueMap {
	out := make(types.FormValueMap, len(m)+1)
	for k, v := range m {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		out[k] = v
	}
	out[key] = value
	return out
}

// Coerce 把 JSON 解码得到的原始值转换成字段类型对应的形状，未知 key 丢弃
func Coerce(schema types.ContractTypeSchema, raw map[string]any) types.FormValueMap {
	m := Seed(schema)
	for _, f := range schema.Fields {
		v, ok := raw[f.Key]
		if !ok || v == nil {
			continue
		}
		switch {
		case f.Kind == types.KindCheckbox:
			m[f.Key] = toBool(v)
		case f.Kind.IsList():
			m[f.Key] = toList(v)
		default:
			m[f.Key] = toScalar(v)
		}
	}
	return m
}

// Validate 校验参与方、条款以及声明了 min 的列表字段
func Validate(m types.FormValueMap, schema types.ContractTypeSchema, parties []string, clauses []types.Clause) error {
	if n := len(NonEmpty(parties)); n < MinParties {
		return &ValidationError{Kind: MissingParties, Min: MinParties, Got: n}
	}
	if len(NonEmptyClauses(clauses)) == 0 {
		return &ValidationError{Kind: EmptyClauses, Min: 1}
	}
	for _, f := range schema.Fields {
		if !f.Kind.IsList() || f.Min == 0 {
			continue
		}
		list, _ := m[f.Key].([]string)
		if n := len(NonEmpty(list)); n < f.Min {
			return &ValidationError{Kind: FieldBelowMin, Key: f.Key, Label: f.Label, Min: f.Min, Got: n}
		}
	}
	return nil
}

// NonEmpty 去除首尾空白并过滤空串
func NonEmpty(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NonEmptyClauses 去除空白条款
func NonEmptyClauses(clauses []types.Clause) []types.Clause {
	out := make([]types.Clause, 0, len(clauses))
	for _, c := range clauses {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		out = append(out, types.Clause{ID: c.ID, Text: text})
	}
	return out
}

func emptyValue(kind types.FieldKind) any {
	switch {
	case kind == types.KindCheckbox:
		return false
	case kind.IsList():
		return []string{""}
	}
	return ""
}

func toScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		if len(x) > 0 {
			return toScalar(x[0])
		}
	case []string:
		if len(x) > 0 {
			return x[0]
		}
	}
	return ""
}

func toBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(x))
		return b || strings.EqualFold(strings.TrimSpace(x), "on") || strings.EqualFold(strings.TrimSpace(x), "yes")
	case float64:
		return x != 0
	}
	return false
}

func toList(v any) []string {
	switch x := v.(type) {
	case []string:
		if len(x) == 0 {
			return []string{""}
		}
		return append([]string(nil), x...)
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if item == nil {
				continue
			}
			out = append(out, toScalar(item))
		}
		if len(out) == 0 {
			return []string{""}
		}
		return out
	case string:
		return []string{x}
	}
	return []string{""}
}
