package types

import (
	"encoding/json"
	"time"
)

// Clause 合同条款
type Clause struct {
	ID   *string `json:"id"`
	Text string  `json:"text"`
}

// GenerationRequest 发送给合同生成服务的规范请求
// Extra 中的字段在序列化时平铺到顶层
type GenerationRequest struct {
	Type          string
	Parties       []string
	Clauses       []Clause
	Jurisdiction  string
	EffectiveDate string
	Extra         map[string]any
}

func (r GenerationRequest) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+5)
	for k, v := range r.Extra {
		out[k] = v
	}
	parties := r.Parties
	if parties == nil {
		parties = []string{}
	}
	clauses := r.Clauses
	if clauses == nil {
		clauses = []Clause{}
	}
	out["type"] = r.Type
	out["parties"] = parties
	out["clauses"] = clauses
	out["jurisdiction"] = r.Jurisdiction
	if r.EffectiveDate != "" {
		out["effectiveDate"] = r.EffectiveDate
	}
	return json.Marshal(out)
}

// Reference 判例/法规引用，字段均可缺省
type Reference struct {
	Citation string `json:"citation,omitempty" yaml:"citation,omitempty"`
	CaseName string `json:"caseName,omitempty" yaml:"case_name,omitempty"`
	Court    string `json:"court,omitempty" yaml:"court,omitempty"`
	Date     string `json:"date,omitempty" yaml:"date,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
}

// IsZero 所有字段都为空
func (r Reference) IsZero() bool {
	return r == Reference{}
}

// GenerationResult 归一化后的生成结果，HTML 与 Text 至多一个非 nil
type GenerationResult struct {
	HTML                 *string     `json:"html"`
	Text                 *string     `json:"text"`
	Warnings             []string    `json:"warnings"`
	HallucinationWarning bool        `json:"hallucinationWarning"`
	References           []Reference `json:"references"`
}

// HasBody 是否返回了正文
func (r GenerationResult) HasBody() bool {
	return r.HTML != nil || r.Text != nil
}

// ReviewResult 规则审查结果
type ReviewResult struct {
	ComplianceScore int             `json:"complianceScore"`
	Issues          []string        `json:"issues"`
	Suggestions     []string        `json:"suggestions"`
	Summary         string          `json:"summary"`
	Clauses         map[string]bool `json:"clauses"`
}

// ReviewReport 对外返回的一次审查
type ReviewReport struct {
	ReviewID     string       `json:"reviewId"`
	FileName     string       `json:"fileName,omitempty"`
	Jurisdiction string       `json:"jurisdiction,omitempty"`
	Result       ReviewResult `json:"result"`
	Authorities  []Authority  `json:"authorities"`
	Citations    []string     `json:"citations"`
	ReviewedAt   time.Time    `json:"reviewedAt"`
}

// CallRecord 一次外部服务调用，供开发者排查
type CallRecord struct {
	ID         string        `json:"id"`
	Service    string        `json:"service"`
	Endpoint   string        `json:"endpoint"`
	Request    string        `json:"request"`
	Response   string        `json:"response"`
	StatusCode int           `json:"statusCode"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	StartedAt  time.Time     `json:"startedAt"`
}
