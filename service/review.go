package service

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"lexassist/logic/reference"
	"lexassist/logic/review"
	"lexassist/types"
)

// AuthorityLookup 按条款类别查找引用依据，jurisdiction 非空时同法域的优先
type AuthorityLookup interface {
	Lookup(ctx context.Context, categories []string, jurisdiction string, topK int) ([]types.Authority, error)
}

// TextExtractor 上传文件转纯文本
type TextExtractor interface {
	Extract(ctx context.Context, fileName, mimeType string, r io.Reader) (string, error)
	ExtractFile(ctx context.Context, path string) (string, error)
}

type ReviewService struct {
	extractor   TextExtractor
	authorities AuthorityLookup
	topK        int
	now         func() time.Time
}

func NewReviewService(extractor TextExtractor, authorities AuthorityLookup, topK int) *ReviewService {
	return &ReviewService{
		extractor:   extractor,
		authorities: authorities,
		topK:        topK,
		now:         time.Now,
	}
}

// ReviewUpload 提取上传文档的文本后审查
func (s *ReviewService) ReviewUpload(ctx context.Context, fileName, mimeType, jurisdiction string, r io.Reader) (*types.ReviewReport, error) {
	startTime := time.Now()
	text, err := s.extractor.Extract(ctx, fileName, mimeType, r)
	if err != nil {
		return nil, err
	}
	log.Printf(">>> [REVIEW] %s 提取 %d 字符, 耗时: %v", fileName, len([]rune(text)), time.Since(startTime))
	return s.ReviewText(ctx, fileName, jurisdiction, text)
}

// ReviewFile 审查本地文件
func (s *ReviewService) ReviewFile(ctx context.Context, path, jurisdiction string) (*types.ReviewReport, error) {
	text, err := s.extractor.ExtractFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.ReviewText(ctx, filepath.Base(path), jurisdiction, text)
}

// ReviewText 审查纯文本，并为每个问题附上引用依据
func (s *ReviewService) ReviewText(ctx context.Context, fileName, jurisdiction, text string) (*types.ReviewReport, error) {
	result, err := review.Review(text)
	if err != nil {
		return nil, err
	}

	jurisdiction = strings.TrimSpace(jurisdiction)
	report := &types.ReviewReport{
		ReviewID:     uuid.NewString(),
		FileName:     fileName,
		Jurisdiction: jurisdiction,
		Result:       result,
		Authorities:  []types.Authority{},
		Citations:    []string{},
		ReviewedAt:   s.now(),
	}

	categories := issueCategories(result.Issues)
	if s.authorities != nil && len(categories) > 0 {
		list, err := s.authorities.Lookup(ctx, categories, jurisdiction, s.topK)
		if err != nil {
			// 查询失败只记日志
			log.Printf(">>> [REVIEW] 引用依据查询失败: %v", err)
		} else {
			report.Authorities = list
			refs := make([]types.Reference, 0, len(list))
			for _, a := range list {
				refs = append(refs, a.Reference)
			}
			report.Citations = reference.FormatAll(refs)
		}
	}

	log.Printf(">>> [REVIEW] %s 合规分 %d, 问题 %d 条, 引用 %d 条",
		report.ReviewID, result.ComplianceScore, len(result.Issues), len(report.Authorities))
	return report, nil
}

func issueCategories(issues []string) []string {
	out := make([]string, 0, len(issues))
	seen := make(map[review.Category]bool, len(issues))
	for _, issue := range issues {
		c, ok := review.IssueCategory[issue]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, string(c))
	}
	return out
}
