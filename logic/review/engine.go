// Package review 基于规则的合同合规审查：检测标准条款，给出问题、建议和合规分
package review

import (
	"errors"
	"fmt"
	"strings"

	"lexassist/types"
)

var ErrEmptyDocument = errors.New("document text is empty")

// Detect 返回各条款类别是否出现
func Detect(text string) map[Category]bool {
	found := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		found[c] = detectors[c].MatchString(text)
	}
	return found
}

// Review 审查文本，空文本返回 ErrEmptyDocument
func Review(text string) (types.ReviewResult, error) {
	if strings.TrimSpace(text) == "" {
		return types.ReviewResult{}, ErrEmptyDocument
	}

	found := Detect(text)
	issues := []string{}
	suggestions := []string{}

	if !found[GoverningLaw] {
		issues = append(issues, IssueMissingGoverningLaw)
		suggestions = append(suggestions, SuggestGoverningLaw)
	}
	if found[Indemnification] && !found[LiabilityCap] {
		issues = append(issues, IssueIndemnityWithoutCap)
		suggestions = append(suggestions, SuggestLiabilityCap)
	}
	if found[AutoRenewal] {
		suggestions = append(suggestions, SuggestRenewalTerms)
	}
	if !found[Termination] {
		issues = append(issues, IssueNoTermination)
		suggestions = append(suggestions, SuggestTermination)
	}
	if !found[ForceMajeure] {
		suggestions = append(suggestions, SuggestForceMajeure)
	}

	clauses := make(map[string]bool, len(found))
	for c, ok := range found {
		clauses[string(c)] = ok
	}

	return types.ReviewResult{
		ComplianceScore: Score(CountVerbs(text), len(issues)),
		Issues:          issues,
		Suggestions:     suggestions,
		Summary:         fmt.Sprintf(summaryTemplate, len(issues)),
		Clauses:         clauses,
	}, nil
}

// Score clamp(60 + 5*verbs - 10*issues, 0, 100)
func Score(verbCount, issueCount int) int {
	// 先截断动词数，避免超长文本溢出
	if verbCount > 100 {
		verbCount = 100
	}
	s := baseScore + verbPoints*verbCount - issuePenalty*issueCount
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return s
}
