package processors

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"
)

var (
	// 控制字符（保留换行与制表符）
	controlRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	// 行内连续空白
	spaceRe = regexp.MustCompile(`[ \t\x{00A0}]+`)
	// 三个以上连续空行
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// Clean 清洗解析结果：去掉 Null 字节、无效 UTF-8、控制字符，压缩空白，丢弃空文档
func Clean(ctx context.Context, src []*schema.Document) []*schema.Document {
	clean := make([]*schema.Document, 0, len(src))
	for _, doc := range src {
		if doc == nil {
			continue
		}
		content := CleanText(doc.Content)
		if content == "" {
			continue
		}
		doc.Content = content
		clean = append(clean, doc)
	}
	return clean
}

// CleanText 单段文本的清洗规则
func CleanText(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = controlRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
