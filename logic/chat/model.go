package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"lexassist/vars"
)

// NewChatModel 按配置创建 ollama 或 openai 兼容的对话模型
func NewChatModel(ctx context.Context, cfg vars.LLMConfig) (model.ToolCallingChatModel, error) {
	switch cfg.Provider {
	case vars.PROVIDER_OLLAMA:
		m, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create ollama chat model failed: %w", err)
		}
		return m, nil
	case vars.PROVIDER_OPENAI:
		m, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai chat model failed: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// Complete 单轮对话，返回去掉 markdown 代码块包裹的内容
func Complete(ctx context.Context, m model.BaseChatModel, prompt string) (string, error) {
	resp, err := m.Generate(ctx, []*schema.Message{
		schema.UserMessage(prompt),
	})
	if err != nil {
		return "", err
	}
	return StripFence(resp.Content), nil
}

// StripFence 去掉 ```json ... ``` 包裹
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[<") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Render 替换提示词模板中的 {{.Key}} 占位符
func Render(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{{."+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
