package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
)

const documentPart = "word/document.xml"

var ErrNotDocx = errors.New("not a docx package")

// DocxParser 解析 Office Open XML 文档 (.docx) 的正文段落
type DocxParser struct{}

var _ einoparser.Parser = (*DocxParser)(nil)

func (p *DocxParser) Parse(ctx context.Context, reader io.Reader, opts ...einoparser.Option) ([]*schema.Document, error) {
	options := einoparser.GetCommonOptions(&einoparser.Options{}, opts...)

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read docx failed: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, documentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s failed: %w", documentPart, err)
	}
	defer rc.Close()

	text, err := paragraphs(rc)
	if err != nil {
		return nil, err
	}

	meta := make(map[string]any, len(options.ExtraMeta)+1)
	for k, v := range options.ExtraMeta {
		meta[k] = v
	}
	if options.URI != "" {
		meta["_source"] = options.URI
	}

	return []*schema.Document{{Content: text, MetaData: meta}}, nil
}

// paragraphs 顺序读取 w:t 文本，w:p 结束换行，w:tab / w:br 转成制表与换行
func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		sb     strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode %s failed: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
