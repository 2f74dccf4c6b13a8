// Package generation 组装合同生成请求，并把生成服务返回的各种结构归一化
package generation

import (
	"strings"

	"lexassist/logic/form"
	"lexassist/types"
)

// 生成请求中的规范字段以及约定的表单字段 key
const (
	KeyType          = "type"
	KeyParties       = "parties"
	KeyClauses       = "clauses"
	KeyJurisdiction  = "jurisdiction"
	KeyGoverningLaw  = "governingLaw"
	KeyEffectiveDate = "effectiveDate"
)

var reserved = map[string]bool{
	KeyType:         true,
	KeyParties:      true,
	KeyClauses:      true,
	KeyJurisdiction: true,
}

// Build 由校验通过的表单值构造请求，纯函数
func Build(schema types.ContractTypeSchema, m types.FormValueMap, parties []string, clauses []types.Clause, jurisdictionOverride string) types.GenerationRequest {
	req := types.GenerationRequest{
		Type:    schema.Type,
		Parties: form.NonEmpty(parties),
		Clauses: form.NonEmptyClauses(clauses),
		Extra:   make(map[string]any),
	}

	req.Jurisdiction = strings.TrimSpace(jurisdictionOverride)
	if req.Jurisdiction == "" {
		req.Jurisdiction = scalar(m, KeyJurisdiction)
	}
	if req.Jurisdiction == "" {
		req.Jurisdiction = scalar(m, KeyGoverningLaw)
	}

	for _, f := range schema.Fields {
		if reserved[f.Key] {
			continue
		}
		v, ok := m[f.Key]
		if !ok || v == nil {
			continue
		}
		if f.Key == KeyEffectiveDate {
			req.EffectiveDate = scalar(m, KeyEffectiveDate)
			continue
		}
		if list, isList := v.([]string); isList {
			v = form.NonEmpty(list)
		}
		req.Extra[f.Key] = v
	}
	return req
}

func scalar(m types.FormValueMap, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
