package loaders

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
)

// LoadFile 用 eino 文件加载器读取本地文件，解析器按扩展名分发
func LoadFile(ctx context.Context, path string, p parser.Parser) ([]*schema.Document, error) {
	loader, err := file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: true,
		Parser:      p,
	})
	if err != nil {
		return nil, fmt.Errorf("create file loader failed: %w", err)
	}

	docs, err := loader.Load(ctx, document.Source{URI: path})
	if err != nil {
		return nil, fmt.Errorf("load %s failed: %w", path, err)
	}
	return docs, nil
}

// FileName 取加载器写入的文件名元数据
func FileName(doc *schema.Document) string {
	if doc == nil || doc.MetaData == nil {
		return ""
	}
	name, _ := doc.MetaData[file.MetaKeyFileName].(string)
	return name
}
