package review

import "regexp"

// Category 条款类别
type Category string

const (
	GoverningLaw    Category = "governing_law"
	Indemnification Category = "indemnification"
	LiabilityCap    Category = "liability_cap"
	AutoRenewal     Category = "auto_renewal"
	Termination     Category = "termination"
	ForceMajeure    Category = "force_majeure"
)

// Categories 检测顺序
var Categories = []Category{GoverningLaw, Indemnification, LiabilityCap, AutoRenewal, Termination, ForceMajeure}

var detectors = map[Category]*regexp.Regexp{
	GoverningLaw:    regexp.MustCompile(`(?i)governing law|jurisdiction`),
	Indemnification: regexp.MustCompile(`(?i)indemnify|indemnification`),
	LiabilityCap:    regexp.MustCompile(`(?i)limitation of liability|liability cap`),
	AutoRenewal:     regexp.MustCompile(`(?i)automatic renewal|renewal term`),
	Termination:     regexp.MustCompile(`(?i)termination|cancel|exit clause`),
	ForceMajeure:    regexp.MustCompile(`(?i)force majeure`),
}

const (
	IssueMissingGoverningLaw = "Missing governing law clause"
	IssueIndemnityWithoutCap = "Indemnification clause without liability cap"
	IssueNoTermination       = "No termination clause found"
	SuggestGoverningLaw      = "Add a governing law clause that names the jurisdiction and applicable law."
	SuggestLiabilityCap      = "Add a limitation of liability clause to cap indemnification exposure."
	SuggestRenewalTerms      = "Clarify the renewal terms and the procedure for opting out of automatic renewal."
	SuggestTermination       = "Add a termination clause covering early termination and termination for breach."
	SuggestForceMajeure      = "Consider adding a force majeure clause."
	summaryTemplate          = "Review completed: %d potential issue(s) found."
)

// IssueCategory 问题对应的条款类别，用于检索引用依据
var IssueCategory = map[string]Category{
	IssueMissingGoverningLaw: GoverningLaw,
	IssueIndemnityWithoutCap: LiabilityCap,
	IssueNoTermination:       Termination,
}

const (
	baseScore    = 60
	verbPoints   = 5
	issuePenalty = 10
)
