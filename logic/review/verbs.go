package review

import (
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?`)

// verbForms 法律动作动词及其屈折形式
var verbForms = func() map[string]string {
	forms := map[string][]string{
		"indemnify":  {"indemnify", "indemnifies", "indemnified", "indemnifying"},
		"terminate":  {"terminate", "terminates", "terminated", "terminating"},
		"govern":     {"govern", "governs", "governed", "governing"},
		"renew":      {"renew", "renews", "renewed", "renewing"},
		"compensate": {"compensate", "compensates", "compensated", "compensating"},
	}
	out := make(map[string]string)
	for lemma, list := range forms {
		for _, f := range list {
			out[f] = lemma
		}
	}
	return out
}()

// nounHeads 分词形式后接这些名词时是修饰语 (governing law, terminating party)，不计为动词
var nounHeads = map[string]bool{
	"law": true, "laws": true, "party": true, "parties": true,
	"body": true, "bodies": true, "document": true, "documents": true,
	"provision": true, "provisions": true, "clause": true, "clauses": true,
	"term": true, "terms": true, "agreement": true, "agreements": true,
	"authority": true, "authorities": true,
}

// CountVerbs 按词边界统计法律动作动词出现次数
func CountVerbs(text string) int {
	tokens := wordRe.FindAllString(strings.ToLower(text), -1)
	n := 0
	for i, tok := range tokens {
		if _, ok := verbForms[tok]; !ok {
			continue
		}
		participle := strings.HasSuffix(tok, "ing") || strings.HasSuffix(tok, "ed")
		if participle && i+1 < len(tokens) && nounHeads[tokens[i+1]] {
			continue
		}
		n++
	}
	return n
}
