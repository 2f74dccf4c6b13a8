package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	"github.com/gabriel-vasile/mimetype"

	"lexassist/logic/ingestion/loaders"
	docxparser "lexassist/logic/ingestion/parser"
	"lexassist/logic/ingestion/processors"
)

// 单个上传文档的大小上限
const MaxDocumentSize = 20 << 20

type ErrorKind string

const (
	UnsupportedType ErrorKind = "unsupportedType"
	EmptyExtraction ErrorKind = "emptyExtraction"
)

var ErrDocumentTooLarge = fmt.Errorf("document exceeds %d bytes", MaxDocumentSize)

// ExtractionError 文本提取失败
type ExtractionError struct {
	Kind     ErrorKind
	FileName string
	Type     string
	Err      error
}

func (e *ExtractionError) Error() string {
	switch e.Kind {
	case UnsupportedType:
		return fmt.Sprintf("unsupported document type %q for %s", e.Type, e.FileName)
	default:
		if e.Err != nil {
			return fmt.Sprintf("no text could be extracted from %s: %v", e.FileName, e.Err)
		}
		return fmt.Sprintf("no text could be extracted from %s", e.FileName)
	}
}

func (e *ExtractionError) Unwrap() error { return e.Err }

var mimeToExt = map[string]string{
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// Extractor 按扩展名分发到 pdf / txt / docx 解析器
type Extractor struct {
	parser parser.Parser
}

func NewExtractor(ctx context.Context) (*Extractor, error) {
	pdfParser, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("create pdf parser failed: %w", err)
	}
	ext, err := parser.NewExtParser(ctx, &parser.ExtParserConfig{
		Parsers: map[string]parser.Parser{
			".pdf":  pdfParser,
			".txt":  parser.TextParser{},
			".docx": &docxparser.DocxParser{},
		},
		FallbackParser: parser.TextParser{},
	})
	if err != nil {
		return nil, fmt.Errorf("create ext parser failed: %w", err)
	}
	return &Extractor{parser: ext}, nil
}

// Extract 读取上传内容并返回清洗后的纯文本
func (e *Extractor) Extract(ctx context.Context, fileName, mimeType string, r io.Reader) (string, error) {
	startTime := time.Now()
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("read document failed: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return "", ErrDocumentTooLarge
	}

	ext, err := ResolveType(fileName, mimeType, data)
	if err != nil {
		return "", err
	}

	docs, err := e.parser.Parse(ctx, bytes.NewReader(data), parser.WithURI("upload"+ext))
	if err != nil {
		log.Printf(">>> [EXTRACT] %s 解析失败: %v", fileName, err)
		return "", &ExtractionError{Kind: EmptyExtraction, FileName: fileName, Type: ext, Err: err}
	}
	log.Printf(">>> [EXTRACT] %s (%s) 解析耗时: %v", fileName, ext, time.Since(startTime))

	return Text(fileName, docs)
}

// ExtractFile 通过文件加载器读取本地文件
func (e *Extractor) ExtractFile(ctx context.Context, path string) (string, error) {
	fileName := filepath.Base(path)
	if _, err := ResolveType(fileName, "", nil); err != nil {
		return "", err
	}
	docs, err := loaders.LoadFile(ctx, path, e.parser)
	if err != nil {
		return "", err
	}
	return Text(fileName, docs)
}

// Text 合并清洗后的文档内容，全部为空时返回 EmptyExtraction
func Text(fileName string, docs []*schema.Document) (string, error) {
	docs = processors.Clean(context.Background(), docs)
	if len(docs) == 0 {
		return "", &ExtractionError{Kind: EmptyExtraction, FileName: fileName}
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

// ResolveType 先看扩展名，没有扩展名时依次用 MIME 类型和内容嗅探
func ResolveType(fileName, mimeType string, data []byte) (string, error) {
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != "" {
		if supported(ext) {
			return ext, nil
		}
		return "", &ExtractionError{Kind: UnsupportedType, FileName: fileName, Type: ext}
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if ext, ok := mimeToExt[mediaType]; ok {
		return ext, nil
	}

	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if ext, ok := mimeToExt[strings.Split(m.String(), ";")[0]]; ok {
			return ext, nil
		}
	}
	return "", &ExtractionError{Kind: UnsupportedType, FileName: fileName, Type: detected.String()}
}

func supported(ext string) bool {
	for _, v := range mimeToExt {
		if v == ext {
			return true
		}
	}
	return false
}

// IsExtractionError 判断是否为 ExtractionError 并返回
func IsExtractionError(err error) (*ExtractionError, bool) {
	var target *ExtractionError
	ok := errors.As(err, &target)
	return target, ok
}
