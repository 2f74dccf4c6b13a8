package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"lexassist/types"
)

// maxWrapDepth 旧版 {data: {...}} 包装最多展开的层数
const maxWrapDepth = 8

// Normalize 把生成服务的原始 JSON 归一化，任何输入都不会返回错误
func Normalize(raw []byte) types.GenerationResult {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return empty()
	}
	return NormalizeValue(v)
}

// NormalizeValue 同 Normalize，输入为已解码的值
func NormalizeValue(v any) types.GenerationResult {
	layers := unwrap(v)
	if len(layers) == 0 {
		return empty()
	}

	res := empty()
	for _, layer := range layers {
		if html, text, ok := body(layer); ok {
			res.HTML, res.Text = html, text
			break
		}
	}
	for _, layer := range layers {
		if w, ok := layer["warnings"].([]any); ok {
			res.Warnings = warnings(w)
			break
		}
	}
	for _, layer := range layers {
		if truthy(layer["hallucinationWarning"]) || truthy(layer["hallucination_warning"]) {
			res.HallucinationWarning = true
			break
		}
	}
	for _, layer := range layers {
		if refs, ok := referenceList(layer); ok {
			res.References = refs
			break
		}
	}
	return res
}

func empty() types.GenerationResult {
	return types.GenerationResult{
		Warnings:   []string{},
		References: []types.Reference{},
	}
}

// unwrap 返回由外到内的对象层：obj, obj.data, obj.data.data ...
func unwrap(v any) []map[string]any {
	var layers []map[string]any
	cur, ok := v.(map[string]any)
	for ok && len(layers) < maxWrapDepth {
		layers = append(layers, cur)
		cur, ok = cur["data"].(map[string]any)
	}
	return layers
}

// body 正文优先级：html > text > 按 isHtml 分流的 contractText / contract
func body(layer map[string]any) (html, text *string, ok bool) {
	if s := nonEmptyString(layer["html"]); s != nil {
		return s, nil, true
	}
	if s := nonEmptyString(layer["text"]); s != nil {
		return nil, s, true
	}
	s := nonEmptyString(layer["contractText"])
	if s == nil {
		s = nonEmptyString(layer["contract"])
	}
	if s == nil {
		return nil, nil, false
	}
	if truthy(layer["isHtml"]) {
		return s, nil, true
	}
	return nil, s, true
}

func nonEmptyString(v any) *string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func warnings(list []any) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch x := item.(type) {
		case string:
			if strings.TrimSpace(x) != "" {
				out = append(out, x)
			}
		case float64, bool:
			out = append(out, fmt.Sprint(x))
		case map[string]any:
			if msg, ok := x["message"].(string); ok && msg != "" {
				out = append(out, msg)
			}
		}
	}
	return out
}

func referenceList(layer map[string]any) ([]types.Reference, bool) {
	list, ok := layer["references"].([]any)
	if !ok {
		list, ok = layer["authority_and_references"].([]any)
	}
	if !ok {
		return nil, false
	}
	out := make([]types.Reference, 0, len(list))
	for _, item := range list {
		switch x := item.(type) {
		case string:
			if strings.TrimSpace(x) != "" {
				out = append(out, types.Reference{Citation: x})
			}
		case map[string]any:
			ref := types.Reference{
				Citation: firstString(x, "citation", "cite"),
				CaseName: firstString(x, "caseName", "case_name", "title"),
				Court:    firstString(x, "court"),
				Date:     firstString(x, "date", "decided"),
				URL:      firstString(x, "url", "link"),
			}
			if !ref.IsZero() {
				out = append(out, ref)
			}
		}
	}
	return out, true
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch x := m[k].(type) {
		case string:
			if x != "" {
				return x
			}
		case float64:
			return fmt.Sprint(x)
		}
	}
	return ""
}

// truthy 按 JS 语义判断真值
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	}
	return true
}
