package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"

	"lexassist/logic/chat"
	"lexassist/types"
	"lexassist/vars"
)

// 外部服务响应体读取上限
const maxResponseBody = 10 << 20

// Generator 合同生成服务：规范请求进，任意 JSON 出
type Generator interface {
	Generate(ctx context.Context, req types.GenerationRequest) ([]byte, error)
}

// HTTPGenerator 调用 HTTP 生成接口
type HTTPGenerator struct {
	endpoint string
	client   *http.Client
	observer CallObserver
}

func NewHTTPGenerator(endpoint string, timeout time.Duration, observer CallObserver) *HTTPGenerator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &HTTPGenerator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		observer: observer,
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, req types.GenerationRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal generation request failed: %w", err)
	}
	return postJSON(ctx, g.client, g.observer, vars.SERVICE_GENERATOR, g.endpoint, payload, nil)
}

// LLMGenerator 直接让对话模型起草合同
type LLMGenerator struct {
	model    model.BaseChatModel
	observer CallObserver
}

func NewLLMGenerator(m model.BaseChatModel, observer CallObserver) *LLMGenerator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &LLMGenerator{model: m, observer: observer}
}

func (g *LLMGenerator) Generate(ctx context.Context, req types.GenerationRequest) ([]byte, error) {
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal generation request failed: %w", err)
	}
	prompt := chat.Render(vars.GENERATE, map[string]string{
		"Type":    req.Type,
		"Request": string(payload),
	})

	rec := newRecord(vars.SERVICE_GENERATOR, "llm", string(payload))
	out, err := chat.Complete(ctx, g.model, prompt)
	finish(ctx, g.observer, &rec, out, 0, err)
	if err != nil {
		return nil, NewExternalServiceError(vars.SERVICE_GENERATOR, 0, err.Error())
	}
	return wrapModelOutput(out), nil
}

// wrapModelOutput 模型没有按要求返回 JSON 时，把原文包成 contractText
func wrapModelOutput(out string) []byte {
	if json.Valid([]byte(out)) && strings.HasPrefix(out, "{") {
		return []byte(out)
	}
	wrapped, _ := json.Marshal(map[string]any{
		"contractText": out,
		"isHtml":       strings.HasPrefix(out, "<"),
	})
	return wrapped
}

// postJSON 发送 JSON 请求，非 2xx 转成 ExternalServiceError，不重试
func postJSON(ctx context.Context, client *http.Client, observer CallObserver, service, endpoint string, payload []byte, header http.Header) ([]byte, error) {
	rec := newRecord(service, endpoint, string(payload))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		finish(ctx, observer, &rec, "", 0, err)
		return nil, fmt.Errorf("build %s request failed: %w", service, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		finish(ctx, observer, &rec, "", 0, err)
		return nil, NewExternalServiceError(service, 0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		finish(ctx, observer, &rec, "", resp.StatusCode, err)
		return nil, NewExternalServiceError(service, resp.StatusCode, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorMessage(body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		svcErr := NewExternalServiceError(service, resp.StatusCode, msg)
		finish(ctx, observer, &rec, string(body), resp.StatusCode, svcErr)
		return nil, svcErr
	}

	finish(ctx, observer, &rec, string(body), resp.StatusCode, nil)
	return body, nil
}

// errorMessage 从错误响应中取 error / message / detail 字段，取不到时用原文
func errorMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			switch v := payload[key].(type) {
			case string:
				if v != "" {
					return v
				}
			case map[string]any:
				if m, ok := v["message"].(string); ok && m != "" {
					return m
				}
			}
		}
	}
	return strings.TrimSpace(string(body))
}

func newRecord(service, endpoint, request string) types.CallRecord {
	return types.CallRecord{
		ID:        uuid.NewString(),
		Service:   service,
		Endpoint:  endpoint,
		Request:   request,
		StartedAt: time.Now(),
	}
}

func finish(ctx context.Context, observer CallObserver, rec *types.CallRecord, response string, status int, err error) {
	rec.Response = response
	rec.StatusCode = status
	rec.Duration = time.Since(rec.StartedAt)
	if err != nil {
		rec.Error = err.Error()
	}
	log.Printf(">>> [CALL] %s %s status=%d 耗时: %v", rec.Service, rec.Endpoint, status, rec.Duration)
	observer.Observe(ctx, *rec)
}
